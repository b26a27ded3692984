// Package hd44780 drives HD44780 character LCDs in 4-bit mode by toggling GPIO
// pins directly (using periph.io).
//
// Every operation on a Dev holds the Dev's lock for its whole duration, so a
// Dev may be shared between goroutines. Distinct Devs share nothing.
package hd44780 // import "github.com/DrJosh9000/hd44780"

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
)

// Mode selects how the controller is wired.
type Mode int

// Communication modes. Only Mode4Bit is implemented.
const (
	Mode4Bit Mode = iota
	Mode8Bit
	ModeSerial
)

func (m Mode) String() string {
	switch m {
	case Mode4Bit:
		return "4-bit"
	case Mode8Bit:
		return "8-bit"
	case ModeSerial:
		return "serial"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

const (
	initDelay    = 50 * time.Millisecond // after each init command
	commandDelay = 2 * time.Millisecond  // clear and return home execution time
)

// Config describes a display. Logger and Sleep are optional.
type Config struct {
	Geometry Geometry
	Mode     Mode
	Pins     PinMap

	// Logger receives diagnostics. Defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger
	// Sleep is used for every protocol delay. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// DefaultConfig returns a 16x2 display in 4-bit mode on the given pins.
func DefaultConfig(pins PinMap) *Config {
	return &Config{Geometry: Size16x2, Mode: Mode4Bit, Pins: pins}
}

// Dev is an initialized display.
type Dev struct {
	geometry Geometry
	mode     Mode
	pins     PinMap
	sleep    func(time.Duration)
	log      logrus.FieldLogger

	mu     sync.Mutex
	bus    bus // nil once closed
	closed bool
}

// New configures the pins, runs the controller init sequence and returns a
// ready Dev. On failure no Dev is returned.
func New(cfg *Config) (*Dev, error) {
	if cfg == nil {
		return nil, fmt.Errorf("hd44780: %w: nil config", ErrInit)
	}
	var l logrus.FieldLogger = logrus.StandardLogger()
	if cfg.Logger != nil {
		l = cfg.Logger
	}
	d := &Dev{
		geometry: cfg.Geometry,
		mode:     cfg.Mode,
		pins:     cfg.Pins,
		sleep:    cfg.Sleep,
		log:      l.WithField("component", "hd44780"),
	}
	if d.sleep == nil {
		d.sleep = time.Sleep
	}

	b, err := d.newBus()
	if err != nil {
		d.log.WithError(err).Error("new")
		return nil, err
	}
	d.bus = b

	if err := d.init(); err != nil {
		d.log.WithError(err).Error("init")
		_ = d.Close()
		return nil, fmt.Errorf("hd44780: %w: %w", ErrInit, err)
	}
	d.log.WithFields(logrus.Fields{
		"geometry": d.geometry,
		"mode":     d.mode,
	}).Debug("initialized")
	return d, nil
}

// newBus picks the bus for the configured mode.
func (d *Dev) newBus() (bus, error) {
	if !d.geometry.valid() {
		return nil, fmt.Errorf("hd44780: %w: %v", ErrGeometry, d.geometry)
	}
	switch d.mode {
	case Mode4Bit:
		if err := d.pins.validate(); err != nil {
			return nil, fmt.Errorf("hd44780: %w", err)
		}
		return &fourBitBus{pins: d.pins, sleep: d.sleep}, nil
	default:
		return nil, fmt.Errorf("hd44780: %w: %v", ErrUnsupportedMode, d.mode)
	}
}

func (d *Dev) init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.pins.configure(); err != nil {
		return err
	}
	for i, c := range initSequence {
		if err := d.bus.writeCommand(c); err != nil {
			return fmt.Errorf("step %d (0x%02x): %w", i+1, c, err)
		}
		d.sleep(initDelay)
	}
	return nil
}

// Clear clears the display and returns the cursor to the home position.
func (d *Dev) Clear() error {
	return d.command("clear", cmdClear, commandDelay)
}

// Home returns the cursor to the home position and resets the display shift.
func (d *Dev) Home() error {
	return d.command("home", cmdReturnHome, commandDelay)
}

// GotoXY moves the cursor to column col of row row, both counted from 0.
func (d *Dev) GotoXY(col, row int) error {
	a, err := d.geometry.address(col, row)
	if err != nil {
		d.log.WithError(err).Error("gotoxy")
		return fmt.Errorf("hd44780: gotoxy: %w", err)
	}
	return d.command("gotoxy", setDDAddress(a), 0)
}

// SetDisplayMode turns on/off the whole display, cursor, or cursor-blinking.
func (d *Dev) SetDisplayMode(display, cursor, blink bool) error {
	return d.command("display mode", displayControl(display, cursor, blink), 0)
}

// SetEntryMode sets the data entry direction and whether to also shift.
func (d *Dev) SetEntryMode(increment, shift bool) error {
	return d.command("entry mode", entryMode(increment, shift), 0)
}

// WriteString writes s to the display at the cursor, stopping at the first
// NUL byte. Nothing wraps at the end of a row.
func (d *Dev) WriteString(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			s = s[:i]
			break
		}
	}
	_, err := d.write("write string", []byte(s))
	return err
}

// Write writes every byte of p to the display at the cursor.
func (d *Dev) Write(p []byte) (int, error) {
	return d.write("write", p)
}

func (d *Dev) write(op string, p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}
	for n, c := range p {
		if err := d.bus.writeData(c); err != nil {
			d.log.WithError(err).WithField("written", n).Error(op)
			return n, fmt.Errorf("hd44780: %s: %w", op, err)
		}
	}
	return len(p), nil
}

// command sends one instruction and waits wait before releasing the lock.
func (d *Dev) command(op string, c byte, wait time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if err := d.bus.writeCommand(c); err != nil {
		d.log.WithError(err).Error(op)
		return fmt.Errorf("hd44780: %s: %w", op, err)
	}
	if wait > 0 {
		d.sleep(wait)
	}
	return nil
}

// Rows returns the number of character rows.
func (d *Dev) Rows() int {
	return d.geometry.Rows()
}

// Cols returns the number of character columns.
func (d *Dev) Cols() int {
	return d.geometry.Cols()
}

// Geometry returns the configured geometry.
func (d *Dev) Geometry() Geometry {
	return d.geometry
}

func (d *Dev) String() string {
	return fmt.Sprintf("HD44780{%s, %s, %s}", d.geometry, d.mode, &d.pins)
}

// Halt turns the display off. The Dev stays usable.
func (d *Dev) Halt() error {
	return d.command("halt", displayControl(false, false, false), 0)
}

// Close releases the Dev. The pins are left as they are. Every later call
// returns ErrClosed. New uses it to discard a Dev that failed to initialize.
func (d *Dev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	d.bus = nil
	d.log.Debug("closed")
	return nil
}

var _ conn.Resource = &Dev{}
