package sprite

import (
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Label is a one-line text frame redrawn only when its text changes.
type Label struct {
	f    *Frame
	text string
	fg   color.RGBA
}

// NewLabel sizes a label for cols characters of the built-in font.
func NewLabel(cols int, fg color.RGBA) *Label {
	font := &proggy.TinySZ8pt7b
	_, w := tinyfont.LineWidth(font, "0")
	if w == 0 {
		w = 6
	}
	return &Label{f: NewFrame(cols*int(w), 10), fg: fg}
}

// Set renders text if it differs from the last call and returns the frame.
func (l *Label) Set(text string) *Frame {
	if text == l.text {
		return l.f
	}
	l.text = text
	clear(l.f.Pix)
	tinyfont.WriteLine(canvas{l.f}, &proggy.TinySZ8pt7b, 0, 8, text, l.fg)
	return l.f
}
