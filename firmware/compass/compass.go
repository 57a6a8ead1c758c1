// Package compass logs the magnetometer reading at a fixed interval.
package compass

import (
	"context"
	"fmt"
	"math"
	"time"

	"crabpad/hal"
)

// Period is the time between readings.
const Period = 3 * time.Second

// Heading returns the compass heading in degrees [0, 360) of a level
// sensor, measured from +x towards +y.
func Heading(x, y int32) float64 {
	h := math.Atan2(float64(y), float64(x)) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return h
}

// Task polls a magnetometer and logs what it reads. Read errors are logged
// and the loop carries on.
type Task struct {
	mag    hal.Magnetometer
	t      hal.Time
	log    hal.Logger
	period time.Duration
}

type Option func(*Task)

func WithPeriod(d time.Duration) Option {
	return func(t *Task) { t.period = d }
}

func NewTask(mag hal.Magnetometer, t hal.Time, log hal.Logger, opts ...Option) *Task {
	task := &Task{mag: mag, t: t, log: log, period: Period}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// Run loops until ctx is done.
func (t *Task) Run(ctx context.Context) error {
	if t.mag == nil {
		return fmt.Errorf("compass: %w", hal.ErrNotImplemented)
	}
	for {
		t.sample()
		if err := t.t.Sleep(ctx, t.period); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("compass: sleep: %w", err)
		}
	}
}

func (t *Task) sample() {
	if th, ok := t.mag.(hal.Thermometer); ok {
		if mc, err := th.Temperature(); err == nil {
			sign := ""
			if mc < 0 {
				sign, mc = "-", -mc
			}
			t.logf("temperature: %s%d.%03d C", sign, mc/1000, mc%1000)
		}
	}
	x, y, z, err := t.mag.MagneticField()
	if err != nil {
		t.logf("compass: read error: %v", err)
		return
	}
	t.logf("magnetic field: [%d, %d, %d] heading %.0f", x, y, z, Heading(x, y))
}

func (t *Task) logf(format string, args ...any) {
	if t.log == nil {
		return
	}
	t.log.WriteLineString(fmt.Sprintf(format, args...))
}
