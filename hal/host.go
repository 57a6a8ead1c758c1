//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Host framebuffer geometry matches the ST7735 panel on the device.
const (
	hostWidth  = 160
	hostHeight = 128
)

type hostHAL struct {
	logger *hostLogger
	pad    Pad
	lines  [4]*VirtualLine
	fb     *MemFramebuffer
	t      Time
	tilt   *hostTilt
	enc    *hostEncoder
	bl     *hostBacklight
	mag    *hostCompass
}

// New returns a host HAL implementation logging to stdout.
func New() HAL {
	return newHostHAL(os.Stdout)
}

func newHostHAL(w io.Writer) *hostHAL {
	pad, lines := VirtualPad()
	tilt := &hostTilt{}
	return &hostHAL{
		logger: &hostLogger{w: w},
		pad:    pad,
		lines:  lines,
		fb:     NewFramebuffer(hostWidth, hostHeight, nil),
		t:      SystemTime(),
		tilt:   tilt,
		enc:    newHostEncoder(),
		bl:     newHostBacklight(),
		mag:    &hostCompass{tilt: tilt},
	}
}

func (h *hostHAL) Logger() Logger        { return h.logger }
func (h *hostHAL) Display() Display      { return DisplayOf(h.fb) }
func (h *hostHAL) Pad() Pad              { return h.pad }
func (h *hostHAL) Time() Time            { return h.t }
func (h *hostHAL) Tilt() Accelerometer   { return h.tilt }
func (h *hostHAL) Encoder() Encoder      { return h.enc }
func (h *hostHAL) Backlight() Backlight  { return h.bl }
func (h *hostHAL) Compass() Magnetometer { return h.mag }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
