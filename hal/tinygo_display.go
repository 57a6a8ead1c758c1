//go:build tinygo && baremetal

package hal

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/st7735"
)

// st7735Panel pushes the RAM framebuffer to an ST7735 over SPI.
type st7735Panel struct {
	dev   *st7735.Device
	txBuf []byte
}

func initST7735(bus drivers.SPI, rst, dc, cs machine.Pin, w, h int) *st7735Panel {
	dev := st7735.New(bus, rst, dc, cs, machine.NoPin)
	dev.Configure(st7735.Config{
		Width:    int16(h),
		Height:   int16(w),
		Rotation: drivers.Rotation90,
		Model:    st7735.GREENTAB,
	})
	return &st7735Panel{dev: &dev, txBuf: make([]byte, w*2)}
}

// blitRGB565LittleEndian sends the frame one row at a time.
func (p *st7735Panel) blitRGB565LittleEndian(buf []byte, w, h int) error {
	if w <= 0 || h <= 0 || len(buf) < w*h*2 {
		return errors.New("invalid framebuffer")
	}
	row := p.txBuf[:w*2]
	for y := 0; y < h; y++ {
		src := buf[y*w*2 : (y+1)*w*2]
		for i := 0; i < len(src); i += 2 {
			// The framebuffer stores RGB565 little-endian. The panel expects big-endian.
			row[i] = src[i+1]
			row[i+1] = src[i]
		}
		if err := p.dev.DrawRGBBitmap8(0, int16(y), row, int16(w), 1); err != nil {
			return err
		}
	}
	return nil
}
