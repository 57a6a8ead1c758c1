// Package app wires the firmware tasks onto a HAL.
package app

import (
	"context"
	"fmt"
	"strings"

	"crabpad/firmware/backlight"
	"crabpad/firmware/compass"
	"crabpad/firmware/input"
	"crabpad/firmware/kernel"
	"crabpad/firmware/render"
	"crabpad/firmware/sprite"
	"crabpad/firmware/tilt"
	"crabpad/hal"
	"crabpad/internal/buildinfo"
)

// Mode selects what moves the crab.
type Mode uint8

const (
	ModeButtons Mode = iota
	ModeTilt
)

func (m Mode) String() string {
	switch m {
	case ModeButtons:
		return "buttons"
	case ModeTilt:
		return "tilt"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode accepts "buttons" or "tilt".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "buttons":
		return ModeButtons, nil
	case "tilt":
		return ModeTilt, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want buttons or tilt)", s)
}

type Config struct {
	Mode Mode
	// Brightness is the boot encoder position; 0 keeps the device default.
	Brightness int
	// HUD draws the tilt angles in tilt mode.
	HUD bool
	// Compass logs the magnetometer every few seconds.
	Compass bool
}

// System is a started firmware instance.
type System struct {
	k    *kernel.Kernel
	ch   *input.Channel
	done chan struct{}
	err  error
}

// Start boots the firmware on h and runs its tasks in the background
// until ctx is done or a task faults. A failed boot draw is returned as an
// error and nothing is started.
func Start(ctx context.Context, h hal.HAL, cfg Config) (*System, error) {
	log := h.Logger()
	boot := bootLog{log: log}
	boot.step(fmt.Sprintf("crabpad %s mode=%s", buildinfo.String(), cfg.Mode))

	disp := h.Display()
	if disp == nil || disp.Framebuffer() == nil {
		return nil, fmt.Errorf("boot: display: %w", hal.ErrNotImplemented)
	}
	fb := disp.Framebuffer()
	sink := render.NewFramebufferSink(fb)
	frames := sprite.Crab()

	k := kernel.New(log)
	k.SetFaultHandler(func(info kernel.FaultInfo) { onFault(h, info) })
	s := &System{k: k, done: make(chan struct{})}

	switch cfg.Mode {
	case ModeButtons:
		s.ch = input.NewChannel()
		m := render.NewMachine(s.ch, sink, frames, render.WithLogger(log))
		boot.step("draw")
		if err := m.Redraw(); err != nil {
			return nil, fmt.Errorf("boot: %w", err)
		}
		pad := h.Pad()
		for _, b := range input.Buttons {
			line := padLine(pad, b)
			if line == nil {
				return nil, fmt.Errorf("boot: button %s: %w", b, hal.ErrNotImplemented)
			}
			l := input.NewListener(b, line, s.ch, input.WithLogger(log), input.WithSleep(h.Time().Sleep))
			if _, err := k.Go("listener-"+b.String(), l.Run); err != nil {
				return nil, err
			}
		}
		if _, err := k.Go("render", m.Run); err != nil {
			return nil, err
		}
	case ModeTilt:
		if h.Tilt() == nil {
			return nil, fmt.Errorf("boot: tilt sensor: %w", hal.ErrNotImplemented)
		}
		opts := []tilt.Option{tilt.WithLogger(log)}
		if cfg.HUD {
			opts = append(opts, tilt.WithHUD())
		}
		t := tilt.NewTask(h.Tilt(), sink, frames, h.Time(), opts...)
		if _, err := k.Go("tilt", t.Run); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("boot: %s", cfg.Mode)
	}

	if enc, bl := h.Encoder(), h.Backlight(); enc != nil && bl != nil {
		opts := []backlight.Option{backlight.WithLogger(log)}
		if cfg.Brightness != 0 {
			opts = append(opts, backlight.WithPosition(cfg.Brightness))
		}
		t := backlight.NewTask(enc, bl, opts...)
		if _, err := k.Go("backlight", t.Run); err != nil {
			return nil, err
		}
	} else {
		boot.step("no backlight control")
	}

	if cfg.Compass {
		if mag := h.Compass(); mag != nil {
			t := compass.NewTask(mag, h.Time(), log)
			if _, err := k.Go("compass", t.Run); err != nil {
				return nil, err
			}
		} else {
			boot.step("no compass")
		}
	}

	boot.step("running")
	go func() {
		s.err = k.Run(ctx)
		close(s.done)
	}()
	return s, nil
}

// Done is closed once every task has returned.
func (s *System) Done() <-chan struct{} { return s.done }

// Err returns the fault that stopped the system, if any. Only valid after Done.
func (s *System) Err() error { return s.err }

// Step reports a fault without blocking. Host runners poll it every frame.
func (s *System) Step() error {
	select {
	case <-s.k.Halted():
		f, _ := s.k.Fault()
		return f
	default:
		return nil
	}
}

// New starts the firmware for a host runner and returns its poll function.
func New(h hal.HAL, cfg Config) func() error {
	s, err := Start(context.Background(), h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return s.Step
}

// Run starts the firmware and never returns. A boot failure or a task
// fault leaves the device halted on its last frame or the fault screen.
func Run(h hal.HAL, cfg Config) {
	s, err := Start(context.Background(), h, cfg)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("boot failed: " + err.Error())
		}
		select {}
	}
	<-s.Done()
	select {}
}

func padLine(p hal.Pad, b input.Button) hal.Line {
	switch b {
	case input.Up:
		return p.Up
	case input.Down:
		return p.Down
	case input.Left:
		return p.Left
	case input.Right:
		return p.Right
	}
	return nil
}

type bootLog struct {
	log hal.Logger
}

func (b bootLog) step(msg string) {
	if b.log != nil {
		b.log.WriteLineString("boot: " + msg)
	}
}
