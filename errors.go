package hd44780

import "errors"

var (
	// ErrConfigure is returned when a pin could not be configured or driven.
	ErrConfigure = errors.New("pin configuration failed")
	// ErrUnsupportedMode is returned by New for any mode but Mode4Bit.
	ErrUnsupportedMode = errors.New("unsupported communication mode")
	// ErrGeometry is returned for a Geometry with no known layout.
	ErrGeometry = errors.New("unknown geometry")
	// ErrInit is returned by New when the controller init sequence fails.
	ErrInit = errors.New("init failed")
	// ErrOutOfRange is returned by GotoXY for a cell outside the display.
	ErrOutOfRange = errors.New("position out of range")
	// ErrClosed is returned by every operation on a closed Dev.
	ErrClosed = errors.New("device closed")
)
