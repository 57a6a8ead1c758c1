package hal

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

// HMC5983 register map.
const (
	hmcAddress = 0x1E

	hmcConfigA = 0x00
	hmcConfigB = 0x01
	hmcMode    = 0x02
	hmcDataX   = 0x03
	hmcIdentA  = 0x0A
	hmcTempOut = 0x31

	// Temperature sensor on, 8-sample average, 15 Hz.
	hmcConfigAValue = 0xF0
	// Gain 1090 LSb/gauss.
	hmcConfigBValue = 0x20
	hmcContinuous   = 0x00
)

var errNotHMC = errors.New("hmc5983: identification mismatch")

// HMC5983 reads the Honeywell HMC5983 magnetometer over I2C. The bus must
// already be configured.
type HMC5983 struct {
	bus drivers.I2C
}

// NewHMC5983 checks the identification registers and starts continuous
// measurement.
func NewHMC5983(bus drivers.I2C) (*HMC5983, error) {
	id := make([]byte, 3)
	if err := bus.Tx(hmcAddress, []byte{hmcIdentA}, id); err != nil {
		return nil, fmt.Errorf("hmc5983: %w", err)
	}
	if string(id) != "H43" {
		return nil, errNotHMC
	}
	for _, w := range [][]byte{
		{hmcConfigA, hmcConfigAValue},
		{hmcConfigB, hmcConfigBValue},
		{hmcMode, hmcContinuous},
	} {
		if err := bus.Tx(hmcAddress, w, nil); err != nil {
			return nil, fmt.Errorf("hmc5983: configure: %w", err)
		}
	}
	return &HMC5983{bus: bus}, nil
}

// MagneticField returns the raw field counts. The chip orders its output
// registers X, Z, Y.
func (d *HMC5983) MagneticField() (x, y, z int32, err error) {
	data := make([]byte, 6)
	if err := d.bus.Tx(hmcAddress, []byte{hmcDataX}, data); err != nil {
		return 0, 0, 0, fmt.Errorf("hmc5983: %w", err)
	}
	x = int32(int16(uint16(data[0])<<8 | uint16(data[1])))
	z = int32(int16(uint16(data[2])<<8 | uint16(data[3])))
	y = int32(int16(uint16(data[4])<<8 | uint16(data[5])))
	return x, y, z, nil
}

// Temperature returns the die temperature in milli-degrees Celsius.
func (d *HMC5983) Temperature() (int32, error) {
	data := make([]byte, 2)
	if err := d.bus.Tx(hmcAddress, []byte{hmcTempOut}, data); err != nil {
		return 0, fmt.Errorf("hmc5983: %w", err)
	}
	raw := int32(int16(uint16(data[0])<<8 | uint16(data[1])))
	return raw*1000/128 + 25_000, nil
}
