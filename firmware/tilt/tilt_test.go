package tilt

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"crabpad/firmware/render"
	"crabpad/firmware/sprite"
)

func TestStep(t *testing.T) {
	g := render.DefaultGeometry
	tests := []struct {
		name        string
		from        image.Point
		roll, pitch float32
		want        image.Point
		facing      render.Orientation
	}{
		{"level", image.Pt(32, 24), 0, 0, image.Pt(32, 24), render.Front},
		{"roll right", image.Pt(32, 24), 90, 0, image.Pt(29, 24), render.Front},
		{"roll left", image.Pt(32, 24), -90, 0, image.Pt(35, 24), render.Front},
		{"clamp left", image.Pt(2, 24), 90, 0, image.Pt(0, 24), render.Front},
		{"clamp right", image.Pt(72, 24), -90, 0, image.Pt(74, 24), render.Front},
		{"wrap down", image.Pt(10, 127), 0, 90, image.Pt(10, 2), render.Front},
		{"wrap up", image.Pt(10, 1), 0, -90, image.Pt(10, 126), render.Back},
		{"small pitch back", image.Pt(10, 50), 0, -1, image.Pt(10, 50), render.Back},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Step(g, State{State: render.State{Pos: tt.from}}, tt.roll, tt.pitch)
			if got.Pos != tt.want || got.Facing != tt.facing {
				t.Fatalf("Step(%v, %v, %v) = %v %s, want %v %s", tt.from, tt.roll, tt.pitch, got.Pos, got.Facing, tt.want, tt.facing)
			}
			if got.Frame != 1 {
				t.Fatalf("Frame = %d, want 1", got.Frame)
			}
		})
	}
}

func TestStepBlinks(t *testing.T) {
	g := render.DefaultGeometry
	s := State{State: render.InitialState}
	var blinks []uint32
	for i := 0; i < 2*BlinkEvery; i++ {
		s = Step(g, s, 0, 0)
		if s.Blinking {
			blinks = append(blinks, s.Frame)
			if s.Pose() != sprite.Blink {
				t.Fatalf("Pose() = %s while blinking", s.Pose())
			}
		}
	}
	if len(blinks) != 2 || blinks[0] != BlinkEvery || blinks[1] != 2*BlinkEvery {
		t.Fatalf("blinks at %v, want [50 100]", blinks)
	}
}

// Facing away postpones the blink to the next face-up frame.
func TestStepBlinkWaitsForFront(t *testing.T) {
	g := render.DefaultGeometry
	s := State{State: render.InitialState, SinceBlink: BlinkEvery - 1}
	s = Step(g, s, 0, -10)
	if s.Blinking || s.Pose() != sprite.Back {
		t.Fatalf("blinked while facing back")
	}
	s = Step(g, s, 0, 10)
	if !s.Blinking {
		t.Fatalf("no blink on the first face-up frame")
	}
}

type fixedAcc struct {
	mu          sync.Mutex
	roll, pitch float32
	err         error
}

func (a *fixedAcc) Angles() (float32, float32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.roll, a.pitch, a.err
}

type countSink struct {
	mu      sync.Mutex
	flushes int
	draws   int
	err     error
}

func (s *countSink) Clear(color.RGBA) error { return nil }
func (s *countSink) Draw(*sprite.Frame, image.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws++
	return nil
}
func (s *countSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.flushes++
	return nil
}

type noSleep struct{}

func (noSleep) Sleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func TestTaskDrawsEachSample(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := &countSink{}
	var frames int
	task := NewTask(&fixedAcc{roll: -90}, sink, sprite.Crab(), noSleep{}, WithHUD(), WithObserver(func(s State) {
		frames++
		if frames == 10 {
			cancel()
		}
	}))
	if err := task.Run(ctx); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if sink.flushes != 10 || sink.draws != 20 {
		t.Fatalf("flushes=%d draws=%d, want 10 and 20", sink.flushes, sink.draws)
	}
	if x := task.state.Pos.X; x != 62 {
		t.Fatalf("x = %d after 10 frames, want 62", x)
	}
}

func TestTaskFaults(t *testing.T) {
	bus := errors.New("i2c: nack")
	task := NewTask(&fixedAcc{err: bus}, &countSink{}, sprite.Crab(), noSleep{})
	if err := task.Run(context.Background()); !errors.Is(err, bus) {
		t.Fatalf("Run() = %v, want %v", err, bus)
	}

	spi := errors.New("spi: stalled")
	task = NewTask(&fixedAcc{}, &countSink{err: spi}, sprite.Crab(), noSleep{})
	if err := task.Run(context.Background()); !errors.Is(err, spi) {
		t.Fatalf("Run() = %v, want %v", err, spi)
	}

	task = NewTask(nil, &countSink{}, sprite.Crab(), noSleep{})
	if err := task.Run(context.Background()); err == nil {
		t.Fatalf("Run() with no sensor = nil, want error")
	}
}
