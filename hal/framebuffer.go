package hal

import "sync"

// MemFramebuffer is an RGB565 little-endian framebuffer held in RAM.
//
// Drawing goes to the back buffer returned by Buffer and is owned by a
// single writer. Present hands it to an optional flush hook (a panel driver
// on device) and copies it to the front buffer that Snapshot and
// PixelRGB565 read, so readers only ever see whole presented frames.
type MemFramebuffer struct {
	mu       sync.Mutex
	width    int
	height   int
	stride   int
	buf      []byte
	front    []byte
	flush    func(buf []byte, w, h int) error
	presents uint64
}

// NewFramebuffer allocates a w x h RGB565 framebuffer.
func NewFramebuffer(width, height int, flush func(buf []byte, w, h int) error) *MemFramebuffer {
	stride := width * 2
	return &MemFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
		front:  make([]byte, stride*height),
		flush:  flush,
	}
}

func (f *MemFramebuffer) Width() int          { return f.width }
func (f *MemFramebuffer) Height() int         { return f.height }
func (f *MemFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *MemFramebuffer) StrideBytes() int    { return f.stride }
func (f *MemFramebuffer) Buffer() []byte      { return f.buf }

func (f *MemFramebuffer) ClearRGB(r, g, b uint8) {
	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *MemFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.flush != nil {
		if err := f.flush(f.buf, f.width, f.height); err != nil {
			return err
		}
	}
	copy(f.front, f.buf)
	f.presents++
	return nil
}

// Presents returns how many frames were presented successfully.
func (f *MemFramebuffer) Presents() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presents
}

// Snapshot copies the last presented frame into dst and returns the
// presents counter.
func (f *MemFramebuffer) Snapshot(dst []byte) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.front)
	return f.presents
}

// PixelRGB565 returns the presented pixel at (x, y), or 0 outside the buffer.
func (f *MemFramebuffer) PixelRGB565(x, y int) uint16 {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	off := y*f.stride + x*2
	return uint16(f.front[off]) | uint16(f.front[off+1])<<8
}

type fbDisplay struct {
	fb Framebuffer
}

func (d fbDisplay) Framebuffer() Framebuffer { return d.fb }

// DisplayOf wraps a framebuffer as a Display.
func DisplayOf(fb Framebuffer) Display { return fbDisplay{fb: fb} }
