package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"testing"
	"time"

	"crabpad/firmware/input"
	"crabpad/firmware/sprite"
)

type op struct {
	name string
	at   image.Point
	f    *sprite.Frame
}

type recordSink struct {
	mu   sync.Mutex
	ops  []op
	fail string
}

func (s *recordSink) record(o op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.name == s.fail {
		return errors.New("spi: bus stalled")
	}
	s.ops = append(s.ops, o)
	return nil
}

func (s *recordSink) Clear(color.RGBA) error { return s.record(op{name: "clear"}) }
func (s *recordSink) Draw(f *sprite.Frame, at image.Point) error {
	return s.record(op{name: "draw", at: at, f: f})
}
func (s *recordSink) Flush() error { return s.record(op{name: "flush"}) }

func (s *recordSink) names() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for i, o := range s.ops {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(o.name)
	}
	return b.String()
}

type lineLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLog) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *lineLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func recvWithTimeout[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for value")
		var zero T
		return zero
	}
}

func TestMachineRedrawsOnPressOnly(t *testing.T) {
	sink := &recordSink{}
	log := &lineLog{}
	frames := sprite.Crab()
	m := NewMachine(input.NewChannel(), sink, frames, WithLogger(log))

	if err := m.Apply(input.Press(input.Up)); err != nil {
		t.Fatalf("Apply(press): %v", err)
	}
	if got := sink.names(); got != "clear draw flush" {
		t.Fatalf("sink ops = %q, want %q", got, "clear draw flush")
	}
	if d := sink.ops[1]; d.at != image.Pt(32, 14) || d.f != frames.Frame(sprite.Back) {
		t.Fatalf("draw at %v with %p, want (32,14) with the back frame", d.at, d.f)
	}

	if err := m.Apply(input.Release(input.Up)); err != nil {
		t.Fatalf("Apply(release): %v", err)
	}
	if got := sink.names(); got != "clear draw flush" {
		t.Fatalf("release drew: %q", got)
	}
	if m.State().Frame != 1 {
		t.Fatalf("Frame = %d, want 1", m.State().Frame)
	}
	if want := []string{"btn Up pressed", "btn Up released"}; strings.Join(log.lines, "|") != strings.Join(want, "|") {
		t.Fatalf("log = %q, want %q", log.lines, want)
	}
}

func TestMachineSinkFailureIsFatal(t *testing.T) {
	for _, stage := range []string{"clear", "draw", "flush"} {
		t.Run(stage, func(t *testing.T) {
			sink := &recordSink{fail: stage}
			ch := input.NewChannel()
			m := NewMachine(ch, sink, sprite.Crab())

			if err := ch.TrySend(input.Press(input.Right)); err != nil {
				t.Fatalf("TrySend: %v", err)
			}
			err := m.Run(context.Background())
			if err == nil || !strings.Contains(err.Error(), stage) {
				t.Fatalf("Run() = %v, want a %s failure", err, stage)
			}
			// The machine stopped consuming.
			if err := ch.TrySend(input.Press(input.Left)); err != nil {
				t.Fatalf("TrySend after fault: %v", err)
			}
			if n := ch.Pending(); n != 1 {
				t.Fatalf("Pending() = %d, want 1", n)
			}
		})
	}
}

func TestMachineRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	m := NewMachine(input.NewChannel(), &recordSink{}, sprite.Crab())
	go func() { done <- m.Run(ctx) }()
	cancel()
	if err := recvWithTimeout(t, done); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

// Up and Right arrive from separate producers; each producer keeps its own
// press before release. Both presses are applied and the back orientation
// survives the sideways move.
func TestMachineConcurrentUpAndRight(t *testing.T) {
	ch := input.NewChannel()
	states := make(chan State, 8)
	m := NewMachine(ch, &recordSink{}, sprite.Crab(), WithObserver(func(s State) { states <- s }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	producers := [][]input.Event{
		{input.Press(input.Up)},
		{input.Press(input.Right), input.Release(input.Right)},
	}
	var wg sync.WaitGroup
	for _, evs := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, ev := range evs {
				if err := ch.Send(ctx, ev); err != nil {
					t.Errorf("Send(%s): %v", ev, err)
				}
			}
		}()
	}
	wg.Wait()

	var last State
	for i := 0; i < 3; i++ {
		last = recvWithTimeout(t, states)
	}
	if last.Facing != Back {
		t.Fatalf("facing = %s, want back", last.Facing)
	}
	if last.Pos != image.Pt(42, 14) {
		t.Fatalf("pos = %v, want (42,14)", last.Pos)
	}
}

func TestMachineThirteenRightsWrap(t *testing.T) {
	sink := &recordSink{}
	m := NewMachine(input.NewChannel(), sink, sprite.Crab(), WithStart(State{Pos: image.Pt(32, 24)}))
	for i := 0; i < 13; i++ {
		if err := m.Apply(input.Press(input.Right)); err != nil {
			t.Fatalf("Apply #%d: %v", i, err)
		}
	}
	if x := m.State().Pos.X; x != -86 {
		t.Fatalf("x = %d after 13 presses, want -86", x)
	}
	if d := sink.ops[len(sink.ops)-2]; d.name != "draw" || d.at != image.Pt(-86, 24) {
		t.Fatalf("last draw = %+v, want at (-86,24)", d)
	}
}

func TestMachineCustomGeometry(t *testing.T) {
	g := Geometry{ViewW: 40, ViewH: 30, SpriteW: 8, SpriteH: 8, Step: 5}
	m := NewMachine(input.NewChannel(), &recordSink{}, sprite.Crab(),
		WithGeometry(g), WithStart(State{Pos: image.Pt(36, 0)}))
	if err := m.Apply(input.Press(input.Right)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if x := m.State().Pos.X; x != -8 {
		t.Fatalf("x = %d, want -8", x)
	}
}
