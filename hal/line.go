package hal

import (
	"context"
	"sync"
	"time"
)

// VirtualLine is a Line whose level is driven in software.
//
// Host backends set it from keyboard state; tests drive it directly.
type VirtualLine struct {
	mu      sync.Mutex
	name    string
	active  bool
	changed chan struct{}
}

// NewVirtualLine returns an inactive line.
func NewVirtualLine(name string) *VirtualLine {
	return &VirtualLine{name: name, changed: make(chan struct{})}
}

func (l *VirtualLine) Name() string { return l.name }

func (l *VirtualLine) IsActive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Set drives the line level and wakes every waiter on a transition.
func (l *VirtualLine) Set(active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == active {
		return
	}
	l.active = active
	close(l.changed)
	l.changed = make(chan struct{})
}

func (l *VirtualLine) WaitForActive(ctx context.Context) error {
	return l.waitFor(ctx, true)
}

func (l *VirtualLine) WaitForInactive(ctx context.Context) error {
	return l.waitFor(ctx, false)
}

func (l *VirtualLine) waitFor(ctx context.Context, want bool) error {
	for {
		l.mu.Lock()
		if l.active == want {
			l.mu.Unlock()
			return nil
		}
		ch := l.changed
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// VirtualPad returns a Pad of virtual lines plus direct handles to them.
func VirtualPad() (Pad, [4]*VirtualLine) {
	lines := [4]*VirtualLine{
		NewVirtualLine("UP"),
		NewVirtualLine("DOWN"),
		NewVirtualLine("LEFT"),
		NewVirtualLine("RIGHT"),
	}
	return Pad{Up: lines[0], Down: lines[1], Left: lines[2], Right: lines[3]}, lines
}

// Pad line indexes for VirtualPad.
const (
	PadUp = iota
	PadDown
	PadLeft
	PadRight
)

type sysTime struct{}

// SystemTime returns a Time backed by the runtime timer.
func SystemTime() Time { return sysTime{} }

func (sysTime) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
