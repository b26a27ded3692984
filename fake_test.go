package hd44780

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

var errPin = errors.New("pin write failed")

// event is either a pin write (Pin set) or a sleep.
type event struct {
	Pin   string
	Level gpio.Level
	Sleep time.Duration
}

// recorder logs every pin write and sleep of a set of fake pins, in order.
type recorder struct {
	mu     sync.Mutex
	events []event
	outs   int
	failAt int // 1-based Out call that fails, 0 for never
}

type recPin struct {
	*gpiotest.Pin
	r *recorder
}

func (p *recPin) Out(l gpio.Level) error {
	p.r.mu.Lock()
	p.r.outs++
	if p.r.outs == p.r.failAt {
		p.r.mu.Unlock()
		return errPin
	}
	p.r.events = append(p.r.events, event{Pin: p.N, Level: l})
	p.r.mu.Unlock()
	return p.Pin.Out(l)
}

func (r *recorder) sleep(d time.Duration) {
	r.mu.Lock()
	r.events = append(r.events, event{Sleep: d})
	r.mu.Unlock()
	runtime.Gosched()
}

// pins returns a PinMap of fake pins that log into r.
func (r *recorder) pins() PinMap {
	mk := func(n string, num int) gpio.PinOut {
		return &recPin{Pin: &gpiotest.Pin{N: n, Num: num}, r: r}
	}
	return PinMap{
		RS: mk("RS", 0), RW: mk("RW", 2), E: mk("E", 4),
		D4: mk("D4", 1), D5: mk("D5", 3), D6: mk("D6", 5), D7: mk("D7", 7),
	}
}

// reset forgets everything recorded so far and disarms failures.
func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.outs = 0
	r.failAt = 0
}

func (r *recorder) failOn(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failAt = n
}

func (r *recorder) snapshot() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event(nil), r.events...)
}

type nibble struct {
	RS    gpio.Level
	Value byte
}

// latch returns what the controller reads on a falling edge of E.
func latch(levels map[string]gpio.Level) nibble {
	var v byte
	for i, d := range []string{"D4", "D5", "D6", "D7"} {
		if levels[d] {
			v |= 1 << i
		}
	}
	return nibble{RS: levels["RS"], Value: v}
}

// nibbles replays the events and returns what the controller latched, one
// entry per falling edge of E.
func nibbles(events []event) []nibble {
	levels := map[string]gpio.Level{}
	var out []nibble
	for _, e := range events {
		if e.Pin == "" {
			continue
		}
		falling := e.Pin == "E" && e.Level == gpio.Low && levels["E"] == gpio.High
		levels[e.Pin] = e.Level
		if falling {
			out = append(out, latch(levels))
		}
	}
	return out
}

// trace renders the events as "cmd 0x..", "data 0x.." and the sleeps that
// are not part of an E pulse.
func trace(events []event) []string {
	var out []string
	var high *nibble
	levels := map[string]gpio.Level{}
	for _, e := range events {
		if e.Pin == "" {
			if e.Sleep != pulseDelay {
				out = append(out, fmt.Sprintf("sleep %s", e.Sleep))
			}
			continue
		}
		falling := e.Pin == "E" && e.Level == gpio.Low && levels["E"] == gpio.High
		levels[e.Pin] = e.Level
		if !falling {
			continue
		}
		n := latch(levels)
		if high == nil {
			high = &n
			continue
		}
		kind := "cmd"
		if high.RS == registerData {
			kind = "data"
		}
		out = append(out, fmt.Sprintf("%s 0x%02x", kind, high.Value<<4|n.Value))
		high = nil
	}
	return out
}

// newTestDev returns an initialized 16x2 Dev on fake pins, with the init
// traffic already forgotten.
func newTestDev(t *testing.T, g Geometry) (*Dev, *recorder, *logtest.Hook) {
	t.Helper()
	r := &recorder{}
	logger, hook := logtest.NewNullLogger()
	d, err := New(&Config{
		Geometry: g,
		Mode:     Mode4Bit,
		Pins:     r.pins(),
		Logger:   logger,
		Sleep:    r.sleep,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	r.reset()
	hook.Reset()
	return d, r, hook
}
