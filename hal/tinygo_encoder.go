//go:build tinygo && baremetal && !tilt && !compass

package hal

import (
	"context"
	"machine"
	"time"

	"tinygo.org/x/drivers/encoders"
)

// encoderPoll paces position sampling; the decoder itself counts in interrupts.
const encoderPoll = 10 * time.Millisecond

type quadEncoder struct {
	dev  *encoders.QuadratureDevice
	last int
}

func boardSensors(log Logger) (Accelerometer, Encoder) {
	dev := encoders.NewQuadratureViaInterrupt(machine.P0_26, machine.P0_27)
	dev.Configure(encoders.QuadratureConfig{Precision: 4})
	return nil, &quadEncoder{dev: dev}
}

func (e *quadEncoder) Read(ctx context.Context) (int, error) {
	for {
		pos := e.dev.Position()
		if d := pos - e.last; d != 0 {
			e.last = pos
			return d, nil
		}
		if err := SystemTime().Sleep(ctx, encoderPoll); err != nil {
			return 0, err
		}
	}
}
