//go:build tinygo && baremetal && tilt

package hal

import (
	"machine"
	"math"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/mpu6050"
)

type mpuTilt struct {
	dev *mpu6050.Device
}

func boardSensors(log Logger) (Accelerometer, Encoder) {
	if err := configureI2C0(); err != nil {
		log.WriteLineString("i2c0: " + err.Error())
		return nil, nil
	}
	dev := mpu6050.New(machine.I2C0, mpu6050.Address)
	if err := dev.Configure(mpu6050.Config{}); err != nil {
		log.WriteLineString("mpu6050: " + err.Error())
		return nil, nil
	}
	return &mpuTilt{dev: dev}, nil
}

// Angles derives roll and pitch from the gravity vector.
func (t *mpuTilt) Angles() (roll, pitch float32, err error) {
	if err := t.dev.Update(drivers.Acceleration); err != nil {
		return 0, 0, err
	}
	ax, ay, az := t.dev.Acceleration()
	x, y, z := float64(ax), float64(ay), float64(az)
	r := math.Atan2(y, z) * 180 / math.Pi
	p := math.Atan2(-x, math.Sqrt(y*y+z*z)) * 180 / math.Pi
	return float32(r), float32(p), nil
}
