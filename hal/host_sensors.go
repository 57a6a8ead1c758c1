//go:build !tinygo

package hal

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
)

// hostTilt is an accelerometer whose angles are set by the active backend.
type hostTilt struct {
	mu    sync.Mutex
	roll  float32
	pitch float32
}

func (t *hostTilt) Angles() (roll, pitch float32, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roll, t.pitch, nil
}

func (t *hostTilt) set(roll, pitch float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.roll = roll
	t.pitch = pitch
}

// hostEncoder accumulates steps pushed by the backend until a reader drains them.
type hostEncoder struct {
	mu      sync.Mutex
	pending int
	wake    chan struct{}
}

func newHostEncoder() *hostEncoder {
	return &hostEncoder{wake: make(chan struct{}, 1)}
}

func (e *hostEncoder) add(steps int) {
	if steps == 0 {
		return
	}
	e.mu.Lock()
	e.pending += steps
	e.mu.Unlock()
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *hostEncoder) Read(ctx context.Context) (int, error) {
	for {
		e.mu.Lock()
		n := e.pending
		e.pending = 0
		e.mu.Unlock()
		if n != 0 {
			return n, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-e.wake:
		}
	}
}

const hostBacklightMax = 1000

type hostBacklight struct {
	duty atomic.Uint32
}

func newHostBacklight() *hostBacklight {
	b := &hostBacklight{}
	b.duty.Store(hostBacklightMax)
	return b
}

func (b *hostBacklight) MaxDuty() uint32 { return hostBacklightMax }

func (b *hostBacklight) SetDuty(duty uint32) error {
	if duty > hostBacklightMax {
		duty = hostBacklightMax
	}
	b.duty.Store(duty)
	return nil
}

// level returns the brightness in [0, 1] used to dim presented frames.
func (b *hostBacklight) level() float32 {
	return float32(b.duty.Load()) / hostBacklightMax
}

// hostCompassField is the horizontal field strength reported by the fake
// compass, in the same counts an HMC5983 reports at its default gain.
const hostCompassField = 300

// hostCompass fakes a level-mounted magnetometer: rolling the board turns
// the heading, pitch tips the field into z.
type hostCompass struct {
	tilt *hostTilt
}

func (c *hostCompass) MagneticField() (x, y, z int32, err error) {
	roll, pitch, _ := c.tilt.Angles()
	heading := float64(roll) * 3 * math.Pi / 180
	dip := float64(pitch) * math.Pi / 180
	x = int32(hostCompassField * math.Cos(heading))
	y = int32(hostCompassField * math.Sin(heading))
	z = int32(-hostCompassField * math.Sin(dip))
	return x, y, z, nil
}

// Temperature reports a room-temperature die.
func (c *hostCompass) Temperature() (int32, error) { return 23_500, nil }
