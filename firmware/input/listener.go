package input

import (
	"context"
	"fmt"
	"time"

	"crabpad/hal"
)

// DebounceWindow is how long a line must stay active before a press counts.
const DebounceWindow = 25 * time.Millisecond

// Source is the raw line a Listener observes.
type Source interface {
	IsActive() bool
	WaitForActive(ctx context.Context) error
	WaitForInactive(ctx context.Context) error
}

// Listener debounces one Source into Pressed/Released events.
//
// It waits for the line to go active, sleeps for the debounce window and
// re-samples. A line that dropped back in the meantime was noise and yields
// nothing. A genuine press is sent, then the listener waits for the line to
// go inactive and sends the release. Each Listener owns its Source; there is
// no coordination between listeners.
type Listener struct {
	id       Button
	src      Source
	ch       *Channel
	debounce time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	log      hal.Logger
}

type ListenerOption func(*Listener)

func WithDebounce(d time.Duration) ListenerOption {
	return func(l *Listener) { l.debounce = d }
}

// WithSleep replaces the time source used for the debounce delay.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) ListenerOption {
	return func(l *Listener) { l.sleep = fn }
}

// WithLogger logs dropped sends.
func WithLogger(log hal.Logger) ListenerOption {
	return func(l *Listener) { l.log = log }
}

func NewListener(id Button, src Source, ch *Channel, opts ...ListenerOption) *Listener {
	l := &Listener{
		id:       id,
		src:      src,
		ch:       ch,
		debounce: DebounceWindow,
		sleep:    hal.SystemTime().Sleep,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run loops until ctx is done (returning nil) or the source fails (returning
// the wrapped error, which callers treat as a device fault).
func (l *Listener) Run(ctx context.Context) error {
	for {
		if err := l.src.WaitForActive(ctx); err != nil {
			return l.stop(ctx, "wait active", err)
		}
		if err := l.sleep(ctx, l.debounce); err != nil {
			return l.stop(ctx, "debounce", err)
		}
		if !l.src.IsActive() {
			continue
		}

		l.send(ctx, Press(l.id))

		if err := l.src.WaitForInactive(ctx); err != nil {
			return l.stop(ctx, "wait inactive", err)
		}
		l.send(ctx, Release(l.id))
	}
}

// send delivers ev. A failed send is dropped and the loop carries on.
func (l *Listener) send(ctx context.Context, ev Event) {
	if err := l.ch.Send(ctx, ev); err != nil && l.log != nil && ctx.Err() == nil {
		l.log.WriteLineString(fmt.Sprintf("listener %s: dropped %s: %v", l.id, ev, err))
	}
}

func (l *Listener) stop(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("listener %s: %s: %w", l.id, op, err)
}
