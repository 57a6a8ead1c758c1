//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	Script  []ScriptStep
	Log     io.Writer
}

// RunHeadless runs the firmware without opening a window.
//
// Script steps are played against the virtual pad in real time. The step
// function returned by newApp is polled at Hz and stops the run on error.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.Log == nil {
		cfg.Log = os.Stdout
	}

	h := newHostHAL(cfg.Log)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if len(cfg.Script) > 0 {
		go func() {
			if err := playScript(ctx, h, cfg.Script); err != nil && ctx.Err() == nil {
				h.logger.WriteLineString("script: " + err.Error())
			}
		}()
	}

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

// scriptGap separates consecutive presses so each one is seen as its own edge.
const scriptGap = 40 * time.Millisecond

func playScript(ctx context.Context, h *hostHAL, steps []ScriptStep) error {
	for _, s := range steps {
		switch s.Op {
		case ScriptPress:
			if s.Line < 0 || s.Line >= len(h.lines) {
				return fmt.Errorf("bad pad line %d", s.Line)
			}
			line := h.lines[s.Line]
			line.Set(true)
			err := h.t.Sleep(ctx, s.Hold)
			line.Set(false)
			if err != nil {
				return err
			}
			if err := h.t.Sleep(ctx, scriptGap); err != nil {
				return err
			}
		case ScriptWait:
			if err := h.t.Sleep(ctx, s.Hold); err != nil {
				return err
			}
		case ScriptTurn:
			h.enc.add(s.Steps)
		}
	}
	return nil
}
