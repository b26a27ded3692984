package hd44780

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// PinMap binds the seven signals used in 4-bit mode to GPIO pins. D4 carries
// bit 0 of each nibble and D7 bit 3.
type PinMap struct {
	RS, RW, E      gpio.PinOut // register select, read/write, enable signal
	D4, D5, D6, D7 gpio.PinOut // data bits 4 - 7
}

type role struct {
	name string
	pin  gpio.PinOut
}

// roles lists the pins in configuration order.
func (m *PinMap) roles() []role {
	return []role{
		{"RS", m.RS}, {"RW", m.RW}, {"E", m.E},
		{"D4", m.D4}, {"D5", m.D5}, {"D6", m.D6}, {"D7", m.D7},
	}
}

// data returns D4-D7, D4 first.
func (m *PinMap) data() []role {
	return m.roles()[3:]
}

func (m *PinMap) validate() error {
	for _, r := range m.roles() {
		if r.pin == nil {
			return fmt.Errorf("%w: %s is not set", ErrConfigure, r.name)
		}
	}
	return nil
}

// configure makes every pin an output and drives it low. It stops at the
// first failure; pins already driven stay as they are.
func (m *PinMap) configure() error {
	if err := m.validate(); err != nil {
		return err
	}
	for _, r := range m.roles() {
		if err := r.pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("%w: %s (%s): %w", ErrConfigure, r.name, r.pin, err)
		}
	}
	return nil
}

func (m *PinMap) String() string {
	return fmt.Sprintf("RS=%s RW=%s E=%s D4=%s D5=%s D6=%s D7=%s",
		name(m.RS), name(m.RW), name(m.E), name(m.D4), name(m.D5), name(m.D6), name(m.D7))
}

func name(p gpio.PinOut) string {
	if p == nil {
		return "<nil>"
	}
	return p.Name()
}
