// Package kernel runs the firmware tasks and turns the first failure into
// a device halt.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"crabpad/hal"

	"golang.org/x/sync/errgroup"
)

const maxTasks = 16

type TaskID uint8

var (
	ErrHalted       = errors.New("kernel: halted")
	ErrRunning      = errors.New("kernel: already running")
	ErrTooManyTasks = errors.New("kernel: too many tasks")
)

type task struct {
	id   TaskID
	name string
	fn   func(ctx context.Context) error
}

// Kernel owns a fixed set of tasks that live for the whole process.
//
// A task ends by returning. Returning nil after the kernel context is done
// is a normal stop; any error or panic is a device fault. The first fault
// cancels every other task and halts the kernel for good.
type Kernel struct {
	log hal.Logger

	mu      sync.Mutex
	tasks   []task
	running bool
	handler func(FaultInfo)
	fault   *FaultInfo

	halted chan struct{}
}

func New(log hal.Logger) *Kernel {
	return &Kernel{log: log, halted: make(chan struct{})}
}

// SetFaultHandler installs fn. It is invoked at most once, after every task
// has returned, and must not panic.
func (k *Kernel) SetFaultHandler(fn func(FaultInfo)) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.handler = fn
}

// Go registers a task. Tasks start together when Run is called.
func (k *Kernel) Go(name string, fn func(ctx context.Context) error) (TaskID, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	switch {
	case k.fault != nil:
		return 0, ErrHalted
	case k.running:
		return 0, ErrRunning
	case len(k.tasks) >= maxTasks:
		return 0, ErrTooManyTasks
	}
	id := TaskID(len(k.tasks) + 1)
	k.tasks = append(k.tasks, task{id: id, name: name, fn: fn})
	return id, nil
}

// Halted is closed when the first fault is recorded.
func (k *Kernel) Halted() <-chan struct{} { return k.halted }

// Fault returns the first recorded fault.
func (k *Kernel) Fault() (FaultInfo, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.fault == nil {
		return FaultInfo{}, false
	}
	return *k.fault, true
}

// Run starts every registered task and blocks until all of them have
// returned. It returns the first fault, or nil when ctx ended the run.
func (k *Kernel) Run(ctx context.Context) error {
	k.mu.Lock()
	if k.fault != nil {
		k.mu.Unlock()
		return ErrHalted
	}
	if k.running {
		k.mu.Unlock()
		return ErrRunning
	}
	k.running = true
	tasks := append([]task(nil), k.tasks...)
	k.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error { return k.runTask(gctx, t) })
	}
	_ = g.Wait()

	k.mu.Lock()
	k.running = false
	fault, handler := k.fault, k.handler
	k.mu.Unlock()

	if fault == nil {
		return nil
	}
	if handler != nil {
		handler(*fault)
	}
	return *fault
}

// runTask returns a non-nil error only for a fault; the group then
// cancels every other task.
func (k *Kernel) runTask(ctx context.Context, t task) (fault error) {
	defer func() {
		if v := recover(); v != nil {
			info := FaultInfo{TaskID: t.id, Task: t.name, Value: v, Stack: captureStack()}
			k.trigger(info)
			fault = info
		}
	}()

	err := t.fn(ctx)
	switch {
	case err != nil:
		info := FaultInfo{TaskID: t.id, Task: t.name, Err: err}
		k.trigger(info)
		return info
	case ctx.Err() == nil:
		k.logf("kernel: task %s exited", t.name)
	}
	return nil
}

func (k *Kernel) trigger(info FaultInfo) {
	k.mu.Lock()
	if k.fault != nil {
		k.mu.Unlock()
		k.logf("kernel: task %s failed after halt: %s", info.Task, info.cause())
		return
	}
	k.fault = &info
	k.mu.Unlock()

	k.logf("kernel: fault: %s", info)
	close(k.halted)
}

func (k *Kernel) logf(format string, args ...any) {
	if k.log == nil {
		return
	}
	k.log.WriteLineString(fmt.Sprintf(format, args...))
}
