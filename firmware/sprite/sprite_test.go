package sprite

import (
	"bytes"
	"image/color"
	"testing"

	"crabpad/hal"
)

func TestCrabFrames(t *testing.T) {
	s := Crab()
	for _, p := range []Pose{Front, Back, Blink} {
		f := s.Frame(p)
		if f == nil {
			t.Fatalf("%s: nil frame", p)
		}
		if f.W != Width || f.H != Height || len(f.Pix) != Width*Height*2 {
			t.Fatalf("%s: got %dx%d (%d bytes)", p, f.W, f.H, len(f.Pix))
		}
	}

	if bytes.Equal(s.Frame(Front).Pix, s.Frame(Back).Pix) {
		t.Fatal("front and back frames are identical")
	}
	if bytes.Equal(s.Frame(Front).Pix, s.Frame(Blink).Pix) {
		t.Fatal("front and blink frames are identical")
	}
}

func TestCanvasPacksLikeTheFramebuffer(t *testing.T) {
	f := NewFrame(4, 2)
	c := canvas{f}
	orange := color.RGBA{R: 0xF0, G: 0x60, B: 0x10, A: 0xFF}
	c.SetPixel(3, 1, orange)
	c.SetPixel(4, 1, orange)
	c.SetPixel(-1, 0, orange)
	if got, want := f.At(3, 1), hal.RGB565(orange); got != want {
		t.Fatalf("At(3, 1) = %#04x, want %#04x", got, want)
	}
	for i, b := range f.Pix[:len(f.Pix)-2] {
		if b != 0 {
			t.Fatalf("Pix[%d] = %#02x, out-of-range writes leaked", i, b)
		}
	}
}

func TestCrabFrontHasOpenEyes(t *testing.T) {
	s := Crab()
	// Left eye white, just off the pupil.
	if got := s.Frame(Front).At(30, 14); got != 0xFFFF {
		t.Fatalf("front eye pixel = %#04x, want white", got)
	}
	if got := s.Frame(Back).At(30, 14); got == 0xFFFF {
		t.Fatal("back frame shows an eye")
	}
}

func TestFrameFallback(t *testing.T) {
	s := Crab()
	if s.Frame(Pose(42)) != s.Frame(Front) {
		t.Fatal("unknown pose should fall back to front")
	}
	if got := s.Frame(Front).At(-1, 0); got != 0 {
		t.Fatalf("At outside frame = %#04x, want 0", got)
	}
}

func TestLabelRedrawsOnChange(t *testing.T) {
	l := NewLabel(8, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	if l.Set("") != l.Set("") {
		t.Fatalf("Set returned different frames")
	}
	f := l.Set("r+00 p+00")
	lit := 0
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			if f.At(x, y) != 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatalf("label drew nothing")
	}
	l.Set("")
	for i, b := range f.Pix {
		if b != 0 {
			t.Fatalf("byte %d = %#x after clearing the text", i, b)
		}
	}
}
