package render

import (
	"image"

	"crabpad/firmware/input"
	"crabpad/firmware/sprite"
)

// Geometry is the fixed layout of viewport, sprite and movement step.
type Geometry struct {
	ViewW, ViewH     int
	SpriteW, SpriteH int
	Step             int
}

// DefaultGeometry matches the 160x128 panel and the 86x64 crab.
var DefaultGeometry = Geometry{
	ViewW:   160,
	ViewH:   128,
	SpriteW: sprite.Width,
	SpriteH: sprite.Height,
	Step:    10,
}

// Orientation is which side of the sprite faces the viewer.
type Orientation uint8

const (
	Front Orientation = iota
	Back
)

func (o Orientation) String() string {
	if o == Back {
		return "back"
	}
	return "front"
}

// State is the sprite record owned by the render loop.
type State struct {
	Pos    image.Point
	Facing Orientation
	// Frame counts redraws; it never decreases.
	Frame uint32
}

// InitialState is where the sprite sits at boot.
var InitialState = State{Pos: image.Pt(32, 24), Facing: Front}

// Pose maps the state to the sprite frame to draw.
func (s State) Pose() sprite.Pose {
	if s.Facing == Back {
		return sprite.Back
	}
	return sprite.Front
}

// Transition folds one event into s.
//
// Moving past an edge puts the sprite just beyond the opposite edge, so it
// slides back in from that side on the next press. Released events leave
// the state untouched.
func Transition(g Geometry, s State, ev input.Event) State {
	if ev.Kind != input.Pressed {
		return s
	}

	switch ev.Button {
	case input.Right:
		if s.Pos.X+g.Step > g.ViewW {
			s.Pos.X = -g.SpriteW
		} else {
			s.Pos.X += g.Step
		}
	case input.Left:
		if s.Pos.X-g.Step < -g.SpriteW {
			s.Pos.X = g.ViewW
		} else {
			s.Pos.X -= g.Step
		}
	case input.Up:
		s.Facing = Back
		if s.Pos.Y-g.Step < -g.SpriteH {
			s.Pos.Y = g.ViewH
		} else {
			s.Pos.Y -= g.Step
		}
	case input.Down:
		s.Facing = Front
		if s.Pos.Y+g.Step > g.ViewH {
			s.Pos.Y = -g.SpriteH
		} else {
			s.Pos.Y += g.Step
		}
	}
	return s
}
