// Package sprite holds the crab bitmaps the render loops draw.
//
// Frames are RGB565 little-endian, the same layout as hal.Framebuffer, and
// are drawn once at boot with tinydraw primitives.
package sprite

import (
	"image/color"

	"tinygo.org/x/tinydraw"
)

// Frame geometry.
const (
	Width  = 86
	Height = 64
)

// Pose selects which frame to draw.
type Pose uint8

const (
	Front Pose = iota
	Back
	Blink
)

func (p Pose) String() string {
	switch p {
	case Front:
		return "front"
	case Back:
		return "back"
	case Blink:
		return "blink"
	default:
		return "pose?"
	}
}

// Frame is an opaque RGB565 bitmap.
type Frame struct {
	W, H int
	Pix  []byte
}

func NewFrame(w, h int) *Frame {
	return &Frame{W: w, H: h, Pix: make([]byte, w*h*2)}
}

// At returns the pixel at (x, y), or 0 outside the frame.
func (f *Frame) At(x, y int) uint16 {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return 0
	}
	off := (y*f.W + x) * 2
	return uint16(f.Pix[off]) | uint16(f.Pix[off+1])<<8
}

// Set is the full pose set for one sprite.
type Set struct {
	frames [3]*Frame
}

// Crab draws the front, back and blink frames.
func Crab() *Set {
	s := &Set{}
	for _, p := range []Pose{Front, Back, Blink} {
		f := NewFrame(Width, Height)
		drawCrab(canvas{f}, p)
		s.frames[p] = f
	}
	return s
}

// Frame returns the bitmap for p, falling back to Front.
func (s *Set) Frame(p Pose) *Frame {
	if int(p) < len(s.frames) && s.frames[p] != nil {
		return s.frames[p]
	}
	return s.frames[Front]
}

var (
	shell     = color.RGBA{R: 0xF7, G: 0x4C, B: 0x00, A: 0xFF}
	shellDark = color.RGBA{R: 0xA5, G: 0x2B, B: 0x00, A: 0xFF}
	white     = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	black     = color.RGBA{A: 0xFF}
)

func drawCrab(d canvas, p Pose) {
	// Legs first so the shell covers their roots.
	for i := int16(0); i < 3; i++ {
		y := 40 + i*5
		tinydraw.Line(d, 20, y, 4, y+10, shellDark)
		tinydraw.Line(d, 66, y, 82, y+10, shellDark)
	}

	// Arms and claws.
	tinydraw.Line(d, 18, 32, 9, 20, shellDark)
	tinydraw.Line(d, 68, 32, 77, 20, shellDark)
	tinydraw.FilledCircle(d, 9, 14, 7, shell)
	tinydraw.FilledCircle(d, 77, 14, 7, shell)
	tinydraw.FilledTriangle(d, 9, 14, 4, 5, 14, 5, black)
	tinydraw.FilledTriangle(d, 77, 14, 72, 5, 82, 5, black)

	// Shell: a rounded slab.
	tinydraw.FilledRectangle(d, 20, 26, 46, 24, shell)
	tinydraw.FilledCircle(d, 20, 38, 12, shell)
	tinydraw.FilledCircle(d, 66, 38, 12, shell)

	switch p {
	case Back:
		tinydraw.FilledCircle(d, 32, 34, 3, shellDark)
		tinydraw.FilledCircle(d, 54, 34, 3, shellDark)
		tinydraw.FilledCircle(d, 43, 42, 4, shellDark)
		tinydraw.Line(d, 22, 48, 64, 48, shellDark)
	case Blink:
		drawStalks(d)
		tinydraw.Line(d, 28, 16, 38, 16, black)
		tinydraw.Line(d, 48, 16, 58, 16, black)
		drawMouth(d)
	default:
		drawStalks(d)
		tinydraw.FilledCircle(d, 33, 16, 5, white)
		tinydraw.FilledCircle(d, 53, 16, 5, white)
		tinydraw.FilledCircle(d, 34, 17, 2, black)
		tinydraw.FilledCircle(d, 54, 17, 2, black)
		drawMouth(d)
	}
}

func drawStalks(d canvas) {
	tinydraw.Line(d, 33, 26, 33, 20, shellDark)
	tinydraw.Line(d, 53, 26, 53, 20, shellDark)
}

func drawMouth(d canvas) {
	tinydraw.Line(d, 38, 40, 48, 40, black)
	tinydraw.Line(d, 38, 40, 36, 38, black)
	tinydraw.Line(d, 48, 40, 50, 38, black)
}
