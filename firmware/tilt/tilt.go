// Package tilt moves the crab with the accelerometer instead of the pad.
package tilt

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"crabpad/firmware/render"
	"crabpad/firmware/sprite"
	"crabpad/hal"
)

const (
	// Gain converts tilt in radians to pixels per frame.
	Gain = 2
	// BlinkEvery is how many frames pass between blinks.
	BlinkEvery = 50
	// Period paces sensor reads.
	Period = 20 * time.Millisecond
)

// State is the render state plus the blink countdown.
type State struct {
	render.State
	// SinceBlink counts frames since the last blink frame.
	SinceBlink int
	Blinking   bool
}

func (s State) Pose() sprite.Pose {
	if s.Blinking {
		return sprite.Blink
	}
	return s.State.Pose()
}

// Step advances s by one sensor sample. roll and pitch are in degrees.
//
// x is clamped so the sprite never leaves the viewport sideways; y wraps
// around the viewport height. A face-up board shows the front of the crab,
// which blinks every BlinkEvery frames.
func Step(g render.Geometry, s State, roll, pitch float32) State {
	dx := int(Gain * float64(roll) * math.Pi / 180)
	dy := int(Gain * float64(pitch) * math.Pi / 180)

	x := s.Pos.X - dx
	if x < 0 {
		x = 0
	}
	if hi := g.ViewW - g.SpriteW; x > hi {
		x = hi
	}
	y := (s.Pos.Y + dy) % g.ViewH
	if y < 0 {
		y += g.ViewH
	}
	s.Pos = image.Pt(x, y)

	s.Frame++
	s.SinceBlink++
	s.Blinking = false
	if pitch >= 0 {
		s.Facing = render.Front
		if s.SinceBlink >= BlinkEvery {
			s.Blinking = true
			s.SinceBlink = 0
		}
	} else {
		s.Facing = render.Back
	}
	return s
}

// Task polls the accelerometer and redraws every Period.
type Task struct {
	acc    hal.Accelerometer
	sink   render.Sink
	frames *sprite.Set
	t      hal.Time
	geom   render.Geometry
	state  State
	hud    *sprite.Label
	log    hal.Logger
	notify func(State)
}

type Option func(*Task)

// WithHUD draws the current roll and pitch in the top-left corner.
func WithHUD() Option {
	return func(t *Task) { t.hud = sprite.NewLabel(16, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}) }
}

func WithLogger(log hal.Logger) Option {
	return func(t *Task) { t.log = log }
}

// WithObserver is called with each new state after it has been drawn.
func WithObserver(fn func(State)) Option {
	return func(t *Task) { t.notify = fn }
}

func NewTask(acc hal.Accelerometer, sink render.Sink, frames *sprite.Set, t hal.Time, opts ...Option) *Task {
	task := &Task{
		acc:    acc,
		sink:   sink,
		frames: frames,
		t:      t,
		geom:   render.DefaultGeometry,
		state:  State{State: render.InitialState},
	}
	for _, opt := range opts {
		opt(task)
	}
	return task
}

// Run loops until ctx is done. Sensor and sink failures end the loop with
// the wrapped error.
func (t *Task) Run(ctx context.Context) error {
	if t.acc == nil {
		return fmt.Errorf("tilt: %w", hal.ErrNotImplemented)
	}
	for {
		roll, pitch, err := t.acc.Angles()
		if err != nil {
			return fmt.Errorf("tilt: read: %w", err)
		}
		t.state = Step(t.geom, t.state, roll, pitch)
		if err := t.draw(roll, pitch); err != nil {
			return err
		}
		if t.notify != nil {
			t.notify(t.state)
		}
		if err := t.t.Sleep(ctx, Period); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("tilt: sleep: %w", err)
		}
	}
}

func (t *Task) draw(roll, pitch float32) error {
	if err := t.sink.Clear(render.Background); err != nil {
		return fmt.Errorf("tilt: clear: %w", err)
	}
	if err := t.sink.Draw(t.frames.Frame(t.state.Pose()), t.state.Pos); err != nil {
		return fmt.Errorf("tilt: draw: %w", err)
	}
	if t.hud != nil {
		text := fmt.Sprintf("r%+04d p%+04d", int(roll), int(pitch))
		if err := t.sink.Draw(t.hud.Set(text), image.Pt(2, 2)); err != nil {
			return fmt.Errorf("tilt: hud: %w", err)
		}
	}
	if err := t.sink.Flush(); err != nil {
		return fmt.Errorf("tilt: flush: %w", err)
	}
	if t.log != nil && t.state.Blinking {
		t.log.WriteLineString(fmt.Sprintf("tilt: blink at frame %d", t.state.Frame))
	}
	return nil
}
