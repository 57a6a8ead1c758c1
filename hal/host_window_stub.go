//go:build !tinygo && !cgo

package hal

import (
	"errors"
	"io"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Scale int
	Log   io.Writer
}

func RunWindow(_ func(h HAL) func() error, _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
