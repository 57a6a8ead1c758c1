package hal

import (
	"context"
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// Present is the only point at which buffer contents are guaranteed visible.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Line is a digital input sampled as an active/inactive level.
//
// Polarity is resolved by the implementation: a pulled-up button wired to
// ground reports active while the pin reads low.
type Line interface {
	Name() string
	IsActive() bool
	// WaitForActive returns once the line is active. It returns immediately
	// if the line is already active.
	WaitForActive(ctx context.Context) error
	// WaitForInactive returns once the line is inactive.
	WaitForInactive(ctx context.Context) error
}

// Pad is the set of directional button lines.
type Pad struct {
	Up    Line
	Down  Line
	Left  Line
	Right Line
}

// Time provides the sleep primitive used for debounce and sensor pacing.
type Time interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Accelerometer reports tilt angles in degrees.
type Accelerometer interface {
	Angles() (roll, pitch float32, err error)
}

// Encoder is a relative rotary input.
type Encoder interface {
	// Read blocks until the encoder has moved and returns the signed step count
	// accumulated since the previous call.
	Read(ctx context.Context) (int, error)
}

// Magnetometer reports the magnetic field vector in raw sensor counts.
type Magnetometer interface {
	MagneticField() (x, y, z int32, err error)
}

// Thermometer is implemented by sensors with an on-die temperature sensor.
type Thermometer interface {
	// Temperature returns milli-degrees Celsius.
	Temperature() (int32, error)
}

// Backlight is a PWM-driven display backlight.
type Backlight interface {
	MaxDuty() uint32
	SetDuty(duty uint32) error
}

// HAL provides the only contact point between the firmware and the outside world.
//
// Tilt, Encoder, Backlight and Compass may return nil on boards without the
// part.
type HAL interface {
	Logger() Logger
	Display() Display
	Pad() Pad
	Time() Time
	Tilt() Accelerometer
	Encoder() Encoder
	Backlight() Backlight
	Compass() Magnetometer
}
