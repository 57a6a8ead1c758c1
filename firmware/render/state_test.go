package render

import (
	"image"
	"testing"

	"crabpad/firmware/input"
)

func press(g Geometry, s State, b input.Button, n int) State {
	for i := 0; i < n; i++ {
		s = Transition(g, s, input.Press(b))
	}
	return s
}

func TestTransitionRightWrapsOffLeftEdge(t *testing.T) {
	s := press(DefaultGeometry, InitialState, input.Right, 12)
	if s.Pos.X != 152 {
		t.Fatalf("x after 12 presses = %d, want 152", s.Pos.X)
	}
	s = press(DefaultGeometry, s, input.Right, 1)
	if s.Pos.X != -86 {
		t.Fatalf("x after 13 presses = %d, want -86", s.Pos.X)
	}
	if s.Pos.Y != InitialState.Pos.Y || s.Facing != Front {
		t.Fatalf("Right changed %+v beyond x", s)
	}
}

func TestTransitionWraps(t *testing.T) {
	g := DefaultGeometry
	tests := []struct {
		name   string
		from   image.Point
		button input.Button
		want   image.Point
		facing Orientation
	}{
		{"right in range", image.Pt(150, 0), input.Right, image.Pt(160, 0), Front},
		{"right past edge", image.Pt(151, 0), input.Right, image.Pt(-86, 0), Front},
		{"left in range", image.Pt(-76, 0), input.Left, image.Pt(-86, 0), Front},
		{"left past edge", image.Pt(-77, 0), input.Left, image.Pt(160, 0), Front},
		{"up in range", image.Pt(0, -54), input.Up, image.Pt(0, -64), Back},
		{"up past edge", image.Pt(0, -55), input.Up, image.Pt(0, 128), Back},
		{"down in range", image.Pt(0, 118), input.Down, image.Pt(0, 128), Front},
		{"down past edge", image.Pt(0, 119), input.Down, image.Pt(0, -64), Front},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transition(g, State{Pos: tt.from, Facing: Back}, input.Press(tt.button))
			if tt.button == input.Right || tt.button == input.Left {
				tt.facing = Back
			}
			if got.Pos != tt.want || got.Facing != tt.facing {
				t.Fatalf("Transition(%v, %s) = %v %s, want %v %s", tt.from, tt.button, got.Pos, got.Facing, tt.want, tt.facing)
			}
		})
	}
}

// Once on the wrapped orbit, a full lap of presses lands back on the start.
func TestTransitionOrbitReturnsToStart(t *testing.T) {
	g := DefaultGeometry
	tests := []struct {
		button input.Button
		start  image.Point
		lap    int
	}{
		{input.Right, image.Pt(-86, 24), 25},
		{input.Left, image.Pt(160, 24), 25},
		{input.Up, image.Pt(32, 128), 20},
		{input.Down, image.Pt(32, -64), 20},
	}
	for _, tt := range tests {
		s := State{Pos: tt.start}
		for i := 1; i <= tt.lap; i++ {
			s = Transition(g, s, input.Press(tt.button))
			if i < tt.lap && s.Pos == tt.start {
				t.Fatalf("%s: back at %v after %d presses, want %d", tt.button, tt.start, i, tt.lap)
			}
		}
		if s.Pos != tt.start {
			t.Fatalf("%s: after %d presses at %v, want %v", tt.button, tt.lap, s.Pos, tt.start)
		}
	}
}

func TestTransitionStaysInWrapBounds(t *testing.T) {
	g := DefaultGeometry
	s := InitialState
	seq := []input.Button{input.Right, input.Up, input.Up, input.Left, input.Down, input.Right}
	for i := 0; i < 500; i++ {
		s = Transition(g, s, input.Press(seq[i%len(seq)]))
		if s.Pos.X < -g.SpriteW || s.Pos.X > g.ViewW || s.Pos.Y < -g.SpriteH || s.Pos.Y > g.ViewH {
			t.Fatalf("step %d: %v out of bounds", i, s.Pos)
		}
	}
}

func TestTransitionReleaseIsNoop(t *testing.T) {
	s := State{Pos: image.Pt(7, 9), Facing: Back, Frame: 3}
	for _, b := range input.Buttons {
		if got := Transition(DefaultGeometry, s, input.Release(b)); got != s {
			t.Fatalf("Transition(release %s) = %+v, want %+v", b, got, s)
		}
	}
}

func TestTransitionOrientationSurvivesSideways(t *testing.T) {
	s := Transition(DefaultGeometry, InitialState, input.Press(input.Up))
	s = Transition(DefaultGeometry, s, input.Press(input.Right))
	if s.Facing != Back {
		t.Fatalf("facing = %s after Up then Right, want back", s.Facing)
	}
	if s.Pos != image.Pt(42, 14) {
		t.Fatalf("pos = %v, want (42,14)", s.Pos)
	}
}
