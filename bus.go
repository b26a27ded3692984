package hd44780

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

const (
	registerCommand = gpio.Low
	registerData    = gpio.High

	pulseDelay = time.Millisecond // E high and E low hold time
)

// bus is how a Dev reaches the controller. It is chosen once by New.
type bus interface {
	writeCommand(b byte) error
	writeData(b byte) error
}

// fourBitBus sends each byte as two nibbles over D4-D7.
type fourBitBus struct {
	pins  PinMap
	sleep func(time.Duration)
}

func (f *fourBitBus) writeCommand(b byte) error {
	return f.writeByte(b, registerCommand)
}

func (f *fourBitBus) writeData(b byte) error {
	return f.writeByte(b, registerData)
}

// writeByte sends the high nibble, then the low nibble.
func (f *fourBitBus) writeByte(b byte, rs gpio.Level) error {
	if err := f.transfer(b>>4, rs); err != nil {
		return err
	}
	return f.transfer(b&0x0f, rs)
}

// transfer latches one nibble into the controller. The controller reads the
// data lines on the falling edge of E.
func (f *fourBitBus) transfer(nibble byte, rs gpio.Level) error {
	if err := out("RS", f.pins.RS, rs); err != nil {
		return err
	}
	if err := out("RW", f.pins.RW, gpio.Low); err != nil {
		return err
	}
	for i, r := range f.pins.data() {
		if err := out(r.name, r.pin, nibble&(1<<i) != 0); err != nil {
			return err
		}
	}
	if err := out("E", f.pins.E, gpio.High); err != nil {
		return err
	}
	f.sleep(pulseDelay) // PWEH
	if err := out("E", f.pins.E, gpio.Low); err != nil {
		return err
	}
	f.sleep(pulseDelay) // setup time for the next nibble
	return nil
}

func out(role string, p gpio.PinOut, l gpio.Level) error {
	if err := p.Out(l); err != nil {
		return fmt.Errorf("%w: %s=%s: %w", ErrConfigure, role, l, err)
	}
	return nil
}
