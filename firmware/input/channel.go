package input

import (
	"context"
	"errors"
)

// ErrChannelFull is returned by TrySend when the slot is occupied.
var ErrChannelFull = errors.New("input: channel full")

// Channel is the single-slot hand-off between button listeners and the
// render loop.
//
// At most one undelivered event exists at any time no matter how many
// producers are waiting; blocked senders hold their event themselves until
// the slot frees up. A Channel lives for the whole process and is shared by
// handing the same pointer to every producer and the consumer.
type Channel struct {
	slot chan Event
}

func NewChannel() *Channel {
	return &Channel{slot: make(chan Event, 1)}
}

// Send stores ev, suspending while the slot is occupied. It fails only when
// ctx is done; the channel itself never drops an event.
func (c *Channel) Send(ctx context.Context, ev Event) error {
	select {
	case c.slot <- ev:
		return nil
	default:
	}
	select {
	case c.slot <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend stores ev only if the slot is free.
func (c *Channel) TrySend(ev Event) error {
	select {
	case c.slot <- ev:
		return nil
	default:
		return ErrChannelFull
	}
}

// Recv suspends until an event is available and frees the slot.
func (c *Channel) Recv(ctx context.Context) (Event, error) {
	select {
	case ev := <-c.slot:
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Pending reports how many events are buffered (0 or 1).
func (c *Channel) Pending() int { return len(c.slot) }
