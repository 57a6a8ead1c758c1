//go:build !tinygo && cgo

package hal

import (
	"image"
	"io"
	"os"

	"crabpad/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Scale int
	Log   io.Writer
}

// maxTiltDegrees is the tilt reported when the cursor sits on a window edge.
const maxTiltDegrees = 30

// RunWindow starts a desktop window that displays the framebuffer and maps
// keyboard and mouse input onto the pad, encoder and tilt sensor.
// It blocks until the window closes or the step function fails.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}
	if cfg.Log == nil {
		cfg.Log = os.Stdout
	}

	h := newHostHAL(cfg.Log)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("crabpad (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, h.fb.height*cfg.Scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

var padKeys = [4]ebiten.Key{
	PadUp:    ebiten.KeyArrowUp,
	PadDown:  ebiten.KeyArrowDown,
	PadLeft:  ebiten.KeyArrowLeft,
	PadRight: ebiten.KeyArrowRight,
}

func (g *hostGame) Update() error {
	g.poll()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) poll() {
	for i, key := range padKeys {
		g.h.lines[i].Set(ebiten.IsKeyPressed(key))
	}

	_, wy := ebiten.Wheel()
	switch {
	case wy > 0:
		g.h.enc.add(1)
	case wy < 0:
		g.h.enc.add(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.h.enc.add(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.h.enc.add(-1)
	}

	// Holding the left button tilts the board towards the cursor.
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.h.tilt.set(0, 0)
		return
	}
	mx, my := ebiten.CursorPosition()
	w, hh := g.h.fb.width, g.h.fb.height
	roll := float32(w/2-mx) / float32(w/2) * maxTiltDegrees
	pitch := float32(my-hh/2) / float32(hh/2) * maxTiltDegrees
	g.h.tilt.set(clampf(roll, -maxTiltDegrees, maxTiltDegrees), clampf(pitch, -maxTiltDegrees, maxTiltDegrees))
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.Snapshot(g.scratch)
	level := g.h.bl.level()

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := scale565(uint16(src[i])|uint16(src[i+1])<<8, level)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
