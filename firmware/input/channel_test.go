package input

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

const testTimeout = 1 * time.Second

func recvWithTimeout[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for value")
		var zero T
		return zero
	}
}

func TestChannelTrySendFull(t *testing.T) {
	c := NewChannel()
	if err := c.TrySend(Press(Up)); err != nil {
		t.Fatalf("TrySend() = %v, want nil", err)
	}
	if err := c.TrySend(Press(Down)); !errors.Is(err, ErrChannelFull) {
		t.Fatalf("TrySend() on full slot = %v, want ErrChannelFull", err)
	}
	if got := c.Pending(); got != 1 {
		t.Fatalf("Pending() = %d, want 1", got)
	}

	ev, err := c.Recv(context.Background())
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if ev != Press(Up) {
		t.Fatalf("Recv() = %s, want %s", ev, Press(Up))
	}
	if got := c.Pending(); got != 0 {
		t.Fatalf("Pending() = %d, want 0", got)
	}
}

func TestChannelSendSuspendsUntilRecv(t *testing.T) {
	c := NewChannel()
	if err := c.Send(context.Background(), Press(Left)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	sent := make(chan error, 1)
	go func() { sent <- c.Send(context.Background(), Release(Left)) }()

	select {
	case <-sent:
		t.Fatal("Send returned while the slot was occupied")
	case <-time.After(20 * time.Millisecond):
	}

	if ev, _ := c.Recv(context.Background()); ev != Press(Left) {
		t.Fatalf("Recv() = %s, want %s", ev, Press(Left))
	}
	if err := recvWithTimeout(t, sent); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ev, _ := c.Recv(context.Background()); ev != Release(Left) {
		t.Fatalf("Recv() = %s, want %s", ev, Release(Left))
	}
}

func TestChannelSendCancelled(t *testing.T) {
	c := NewChannel()
	_ = c.TrySend(Press(Up))

	ctx, cancel := context.WithCancel(context.Background())
	sent := make(chan error, 1)
	go func() { sent <- c.Send(ctx, Press(Down)) }()
	cancel()

	if err := recvWithTimeout(t, sent); !errors.Is(err, context.Canceled) {
		t.Fatalf("Send() = %v, want context.Canceled", err)
	}
	if ev, _ := c.Recv(context.Background()); ev != Press(Up) {
		t.Fatalf("slot lost its event: got %s", ev)
	}
}

func TestChannelRecvCancelled(t *testing.T) {
	c := NewChannel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if _, err := c.Recv(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Recv() = %v, want context.DeadlineExceeded", err)
	}
}

func TestChannelConcurrentProducers(t *testing.T) {
	const perProducer = 500

	c := NewChannel()
	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, b := range Buttons {
		wg.Add(1)
		go func(b Button) {
			defer wg.Done()
			<-start
			for i := 0; i < perProducer; i++ {
				_ = c.Send(context.Background(), Press(b))
				_ = c.Send(context.Background(), Release(b))
			}
		}(b)
	}
	close(start)

	last := map[Button]Kind{}
	total := len(Buttons) * perProducer * 2
	for i := 0; i < total; i++ {
		if n := c.Pending(); n > 1 {
			t.Fatalf("Pending() = %d, want <= 1", n)
		}
		ev, err := c.Recv(context.Background())
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		want := Pressed
		if last[ev.Button] == Pressed {
			want = Released
		}
		if ev.Kind != want {
			t.Fatalf("event %d: %s out of order for its producer", i, ev)
		}
		last[ev.Button] = ev.Kind
	}
	wg.Wait()

	if n := c.Pending(); n != 0 {
		t.Fatalf("Pending() = %d after drain, want 0", n)
	}
}
