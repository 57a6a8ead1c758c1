//go:build tinygo && baremetal && !compass

package hal

func boardCompass(Logger) Magnetometer { return nil }
