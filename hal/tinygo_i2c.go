//go:build tinygo && baremetal && (tilt || compass)

package hal

import "machine"

var (
	i2c0Ready bool
	i2c0Err   error
)

// configureI2C0 brings up the sensor bus on P0.26 (SDA) and P0.27 (SCL).
// The MPU6050 and HMC5983 share it; the first caller configures it.
func configureI2C0() error {
	if i2c0Ready {
		return i2c0Err
	}
	i2c0Ready = true
	i2c0Err = machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.P0_26,
		SCL: machine.P0_27,
	})
	return i2c0Err
}
