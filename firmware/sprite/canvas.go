package sprite

import (
	"image/color"

	"crabpad/hal"
)

// canvas adapts a Frame to drivers.Displayer so tinydraw can paint it.
type canvas struct {
	f *Frame
}

func (c canvas) Size() (x, y int16) { return int16(c.f.W), int16(c.f.H) }

func (c canvas) SetPixel(x, y int16, col color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= c.f.W || iy < 0 || iy >= c.f.H {
		return
	}
	p := hal.RGB565(col)
	off := (iy*c.f.W + ix) * 2
	c.f.Pix[off] = byte(p)
	c.f.Pix[off+1] = byte(p >> 8)
}

func (c canvas) Display() error { return nil }
