//go:build tinygo && baremetal

package hal

import (
	"machine"
)

const (
	panelWidth  = 160
	panelHeight = 128
)

type boardHAL struct {
	logger *serialLogger
	pad    Pad
	fb     *MemFramebuffer
	t      Time
	tilt   Accelerometer
	enc    Encoder
	bl     Backlight
	mag    Magnetometer
}

// New returns the nRF52840 board HAL.
//
// Buttons: P0.11 left, P0.12 right, P0.24 up, P0.25 down (active low).
// Panel:   ST7735 on SPI1, SCK P0.04, SDO P0.28, CS P0.31, RST P0.30, DC P0.29.
// Backlight: PWM0 on P0.03.
// P0.26/P0.27 carry either the quadrature encoder or, with the "tilt" or
// "compass" build tags, I2C0 with the MPU6050 and/or the HMC5983.
//
// Peripheral bring-up failures panic: they are initialization faults and
// the firmware cannot run without its buttons or panel.
func New() HAL {
	logger := &serialLogger{out: machine.Serial}

	pad := Pad{
		Left:  mustPinLine("LEFT", machine.P0_11),
		Right: mustPinLine("RIGHT", machine.P0_12),
		Up:    mustPinLine("UP", machine.P0_24),
		Down:  mustPinLine("DOWN", machine.P0_25),
	}

	if err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.P0_04,
		SDO:       machine.P0_28,
		Frequency: 8_000_000,
	}); err != nil {
		panic("spi1: " + err.Error())
	}
	panel := initST7735(machine.SPI1, machine.P0_30, machine.P0_29, machine.P0_31, panelWidth, panelHeight)
	fb := NewFramebuffer(panelWidth, panelHeight, panel.blitRGB565LittleEndian)

	var bl Backlight
	if b, err := newPWMBacklight(machine.PWM0, machine.P0_03); err == nil {
		bl = b
	} else {
		logger.WriteLineString("backlight: " + err.Error())
	}

	tilt, enc := boardSensors(logger)
	mag := boardCompass(logger)

	return &boardHAL{
		logger: logger,
		pad:    pad,
		fb:     fb,
		t:      SystemTime(),
		tilt:   tilt,
		enc:    enc,
		bl:     bl,
		mag:    mag,
	}
}

func mustPinLine(name string, pin machine.Pin) Line {
	l, err := newPinLine(name, pin)
	if err != nil {
		panic("gpio " + name + ": " + err.Error())
	}
	return l
}

func (h *boardHAL) Logger() Logger        { return h.logger }
func (h *boardHAL) Display() Display      { return DisplayOf(h.fb) }
func (h *boardHAL) Pad() Pad              { return h.pad }
func (h *boardHAL) Time() Time            { return h.t }
func (h *boardHAL) Tilt() Accelerometer   { return h.tilt }
func (h *boardHAL) Encoder() Encoder      { return h.enc }
func (h *boardHAL) Backlight() Backlight  { return h.bl }
func (h *boardHAL) Compass() Magnetometer { return h.mag }
