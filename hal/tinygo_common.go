//go:build tinygo && baremetal

package hal

import (
	"context"
	"machine"
)

type serialLogger struct {
	out machine.Serialer
}

func (l *serialLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.out.WriteByte(s[i])
	}
	l.out.WriteByte('\r')
	l.out.WriteByte('\n')
}

func (l *serialLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.out.WriteByte(b[i])
	}
	l.out.WriteByte('\r')
	l.out.WriteByte('\n')
}

// pinLine is an active-low button on a pulled-up pin.
//
// The GPIOTE interrupt only signals that an edge happened; the level is
// always re-read from the pin, so a lost notification cannot wedge a waiter.
type pinLine struct {
	name  string
	pin   machine.Pin
	edges chan struct{}
}

func newPinLine(name string, pin machine.Pin) (*pinLine, error) {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	l := &pinLine{name: name, pin: pin, edges: make(chan struct{}, 1)}
	err := pin.SetInterrupt(machine.PinToggle, func(machine.Pin) {
		select {
		case l.edges <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (l *pinLine) Name() string   { return l.name }
func (l *pinLine) IsActive() bool { return !l.pin.Get() }

func (l *pinLine) WaitForActive(ctx context.Context) error {
	return l.waitFor(ctx, true)
}

func (l *pinLine) WaitForInactive(ctx context.Context) error {
	return l.waitFor(ctx, false)
}

func (l *pinLine) waitFor(ctx context.Context, want bool) error {
	for {
		if l.IsActive() == want {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.edges:
		}
	}
}

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

type pwmBacklight struct {
	pwm pwmDevice
	ch  uint8
	top uint32
}

func newPWMBacklight(pwm pwmDevice, pin machine.Pin) (*pwmBacklight, error) {
	if err := pwm.Configure(machine.PWMConfig{Period: 1e9 / 1000}); err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}
	b := &pwmBacklight{pwm: pwm, ch: ch, top: pwm.Top()}
	b.pwm.Set(b.ch, b.top)
	return b, nil
}

func (b *pwmBacklight) MaxDuty() uint32 { return b.top }

func (b *pwmBacklight) SetDuty(duty uint32) error {
	if duty > b.top {
		duty = b.top
	}
	b.pwm.Set(b.ch, duty)
	return nil
}
