package render

import (
	"context"
	"fmt"
	"image/color"

	"crabpad/firmware/input"
	"crabpad/firmware/sprite"
	"crabpad/hal"
)

// Background is the color the viewport is cleared to before each draw.
var Background = color.RGBA{A: 0xFF}

// Machine is the single consumer of button events. It owns the sprite
// state and is the only writer of the display.
type Machine struct {
	ch     *input.Channel
	sink   Sink
	frames *sprite.Set
	geom   Geometry
	state  State
	log    hal.Logger
	notify func(State)
}

type MachineOption func(*Machine)

func WithGeometry(g Geometry) MachineOption {
	return func(m *Machine) { m.geom = g }
}

// WithStart overrides the boot position and facing.
func WithStart(s State) MachineOption {
	return func(m *Machine) { m.state = s }
}

func WithLogger(log hal.Logger) MachineOption {
	return func(m *Machine) { m.log = log }
}

// WithObserver is called with the new state after every consumed event.
func WithObserver(fn func(State)) MachineOption {
	return func(m *Machine) { m.notify = fn }
}

func NewMachine(ch *input.Channel, sink Sink, frames *sprite.Set, opts ...MachineOption) *Machine {
	m := &Machine{
		ch:     ch,
		sink:   sink,
		frames: frames,
		geom:   DefaultGeometry,
		state:  InitialState,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current sprite state. Only safe once Run has returned
// or from the observer.
func (m *Machine) State() State { return m.state }

// Redraw clears the viewport and draws the sprite at its current state.
func (m *Machine) Redraw() error {
	if err := m.sink.Clear(Background); err != nil {
		return fmt.Errorf("render: clear: %w", err)
	}
	if err := m.sink.Draw(m.frames.Frame(m.state.Pose()), m.state.Pos); err != nil {
		return fmt.Errorf("render: draw: %w", err)
	}
	if err := m.sink.Flush(); err != nil {
		return fmt.Errorf("render: flush: %w", err)
	}
	m.state.Frame++
	return nil
}

// Run consumes events until ctx is done (nil) or the sink fails (the
// wrapped error). After a sink failure nothing further is drawn.
func (m *Machine) Run(ctx context.Context) error {
	for {
		ev, err := m.ch.Recv(ctx)
		if err != nil {
			return nil
		}
		if err := m.Apply(ev); err != nil {
			return err
		}
	}
}

// Apply folds one event into the state and redraws on a press.
func (m *Machine) Apply(ev input.Event) error {
	m.logf("%s", ev)
	if ev.Kind == input.Pressed {
		m.state = Transition(m.geom, m.state, ev)
		if err := m.Redraw(); err != nil {
			return err
		}
	}
	if m.notify != nil {
		m.notify(m.state)
	}
	return nil
}

func (m *Machine) logf(format string, args ...any) {
	if m.log == nil {
		return
	}
	m.log.WriteLineString(fmt.Sprintf(format, args...))
}
