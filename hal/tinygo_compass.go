//go:build tinygo && baremetal && compass

package hal

import "machine"

func boardCompass(log Logger) Magnetometer {
	if err := configureI2C0(); err != nil {
		log.WriteLineString("i2c0: " + err.Error())
		return nil
	}
	d, err := NewHMC5983(machine.I2C0)
	if err != nil {
		log.WriteLineString(err.Error())
		return nil
	}
	return d
}
