// Package backlight maps rotary encoder steps to display brightness.
package backlight

import (
	"context"
	"fmt"
	"math"

	"crabpad/hal"
)

// Start is the encoder position at boot.
const Start = 1

// Level maps an encoder position to a PWM duty on a logistic curve.
//
// The curve is centred at x=126 and spans roughly x=0 (dark) to x=252
// (full); it is flat near both ends so the first and last turns change
// little. The result is clamped to [0, maxDuty].
func Level(x int, maxDuty uint32) uint32 {
	v := float64(maxDuty) / (1 + math.Exp(-(float64(x)/21 - 6)))
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= float64(maxDuty):
		return maxDuty
	}
	return uint32(v)
}

// Task applies encoder movement to the backlight.
type Task struct {
	enc hal.Encoder
	bl  hal.Backlight
	log hal.Logger
	pos int
}

type Option func(*Task)

// WithPosition overrides the boot encoder position.
func WithPosition(x int) Option {
	return func(t *Task) { t.pos = x }
}

func WithLogger(log hal.Logger) Option {
	return func(t *Task) { t.log = log }
}

func NewTask(enc hal.Encoder, bl hal.Backlight, opts ...Option) *Task {
	t := &Task{enc: enc, bl: bl, pos: Start}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Position returns the accumulated encoder position.
func (t *Task) Position() int { return t.pos }

// Run sets the initial level and then follows the encoder until ctx is
// done. Encoder and PWM failures end the loop with the wrapped error.
func (t *Task) Run(ctx context.Context) error {
	if t.enc == nil || t.bl == nil {
		return fmt.Errorf("backlight: %w", hal.ErrNotImplemented)
	}
	if err := t.apply(); err != nil {
		return err
	}
	for {
		d, err := t.enc.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("backlight: encoder: %w", err)
		}
		t.pos += d
		if err := t.apply(); err != nil {
			return err
		}
	}
}

func (t *Task) apply() error {
	level := Level(t.pos, t.bl.MaxDuty())
	if t.log != nil {
		t.log.WriteLineString(fmt.Sprintf("brightness level: %d", level))
	}
	if err := t.bl.SetDuty(level); err != nil {
		return fmt.Errorf("backlight: set duty %d: %w", level, err)
	}
	return nil
}
