package hal

import "image/color"

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// RGB565 packs c into a 16bpp pixel.
func RGB565(c color.RGBA) uint16 { return rgb565(c.R, c.G, c.B) }

// RGBAFrom565 expands a 16bpp pixel to opaque RGBA.
func RGBAFrom565(p uint16) color.RGBA {
	r, g, b := rgb888From565(p)
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// scale565 dims a pixel by level in [0, 1].
func scale565(p uint16, level float32) (r, g, b uint8) {
	r, g, b = rgb888From565(p)
	if level >= 1 {
		return r, g, b
	}
	if level <= 0 {
		return 0, 0, 0
	}
	return uint8(float32(r) * level), uint8(float32(g) * level), uint8(float32(b) * level)
}
