package render

import (
	"errors"
	"image"
	"image/color"

	"crabpad/firmware/sprite"
	"crabpad/hal"
)

// Sink is the display the render loops draw into. Nothing is guaranteed
// visible until Flush returns.
type Sink interface {
	Clear(c color.RGBA) error
	Draw(f *sprite.Frame, at image.Point) error
	Flush() error
}

var errNoFramebuffer = errors.New("render: no framebuffer")

// FramebufferSink draws into a hal.Framebuffer and presents it on Flush.
type FramebufferSink struct {
	fb hal.Framebuffer
}

func NewFramebufferSink(fb hal.Framebuffer) *FramebufferSink {
	return &FramebufferSink{fb: fb}
}

func (s *FramebufferSink) Clear(c color.RGBA) error {
	if s.fb == nil {
		return errNoFramebuffer
	}
	s.fb.ClearRGB(c.R, c.G, c.B)
	return nil
}

// Draw copies f at the given top-left corner, clipping whatever falls
// outside the framebuffer.
func (s *FramebufferSink) Draw(f *sprite.Frame, at image.Point) error {
	if s.fb == nil {
		return errNoFramebuffer
	}
	if s.fb.Format() != hal.PixelFormatRGB565 {
		return hal.ErrNotImplemented
	}
	buf := s.fb.Buffer()
	if buf == nil {
		return errNoFramebuffer
	}

	dst := image.Rect(0, 0, s.fb.Width(), s.fb.Height())
	r := image.Rect(at.X, at.Y, at.X+f.W, at.Y+f.H).Intersect(dst)
	if r.Empty() {
		return nil
	}

	stride := s.fb.StrideBytes()
	n := r.Dx() * 2
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := ((y-at.Y)*f.W + (r.Min.X - at.X)) * 2
		off := y*stride + r.Min.X*2
		if off < 0 || off+n > len(buf) {
			continue
		}
		copy(buf[off:off+n], f.Pix[src:src+n])
	}
	return nil
}

func (s *FramebufferSink) Flush() error {
	if s.fb == nil {
		return errNoFramebuffer
	}
	return s.fb.Present()
}
