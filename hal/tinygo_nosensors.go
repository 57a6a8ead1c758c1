//go:build tinygo && baremetal && compass && !tilt

package hal

// With only the compass on I2C0 the encoder pins are taken by the bus.
func boardSensors(log Logger) (Accelerometer, Encoder) {
	return nil, nil
}
