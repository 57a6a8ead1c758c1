//go:build !tinygo

package hal

import (
	"io"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// TerminalConfig controls the tcell runner.
type TerminalConfig struct {
	Hz int
	// Downsample keeps every Nth framebuffer pixel on both axes.
	Downsample int
	// Hold is how long a key press keeps its pad line active. Terminals
	// report presses only, so the release is synthesized.
	Hold time.Duration
	Log  io.Writer
}

// RunTerminal renders the framebuffer into the terminal with half-block
// cells and maps arrow keys onto the pad. Esc, q or Ctrl-C quits.
func RunTerminal(newApp func(HAL) func() error, cfg TerminalConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}
	if cfg.Downsample <= 0 {
		cfg.Downsample = 2
	}
	if cfg.Hold <= 0 {
		cfg.Hold = 120 * time.Millisecond
	}
	if cfg.Log == nil {
		cfg.Log = io.Discard
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.Clear()

	h := newHostHAL(cfg.Log)
	step := newApp(h)

	keys := newTermKeys(h, cfg.Hold)
	quit := make(chan struct{})
	go func() {
		defer close(quit)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if !keys.handle(ev) {
					return
				}
			}
		}
	}()

	t := time.NewTicker(time.Second / time.Duration(cfg.Hz))
	defer t.Stop()

	scratch := make([]byte, len(h.fb.buf))
	var shown uint64
	for {
		select {
		case <-quit:
			return nil
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			if n := h.fb.Snapshot(scratch); n != shown {
				shown = n
				drawHalfBlocks(screen, scratch, h.fb.width, h.fb.height, cfg.Downsample, h.bl.level())
				screen.Show()
			}
		}
	}
}

func drawHalfBlocks(screen tcell.Screen, buf []byte, w, h, ds int, level float32) {
	pixel := func(x, y int) tcell.Color {
		off := (y*w + x) * 2
		if off+1 >= len(buf) {
			return tcell.ColorBlack
		}
		r, g, b := scale565(uint16(buf[off])|uint16(buf[off+1])<<8, level)
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}

	for row, y := 0, 0; y < h; row, y = row+1, y+2*ds {
		for col, x := 0, 0; x < w; col, x = col+1, x+ds {
			top := pixel(x, y)
			bottom := tcell.ColorBlack
			if y+ds < h {
				bottom = pixel(x, y+ds)
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			screen.SetContent(col, row, '▀', nil, style)
		}
	}
}

// termKeys turns terminal key presses into timed pad line pulses.
type termKeys struct {
	mu     sync.Mutex
	h      *hostHAL
	hold   time.Duration
	timers [4]*time.Timer
}

func newTermKeys(h *hostHAL, hold time.Duration) *termKeys {
	return &termKeys{h: h, hold: hold}
}

// handle applies one key event and reports whether the runner should keep going.
func (k *termKeys) handle(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		k.pulse(PadUp)
	case tcell.KeyDown:
		k.pulse(PadDown)
	case tcell.KeyLeft:
		k.pulse(PadLeft)
	case tcell.KeyRight:
		k.pulse(PadRight)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ']', '+':
			k.h.enc.add(1)
		case '[', '-':
			k.h.enc.add(-1)
		}
	}
	return true
}

// pulse activates a line and (re)arms its release; key repeat keeps it held.
func (k *termKeys) pulse(idx int) {
	k.mu.Lock()
	defer k.mu.Unlock()

	line := k.h.lines[idx]
	line.Set(true)
	if t := k.timers[idx]; t != nil {
		t.Reset(k.hold)
		return
	}
	k.timers[idx] = time.AfterFunc(k.hold, func() {
		line.Set(false)
	})
}
