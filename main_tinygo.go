//go:build tinygo

package main

import (
	"crabpad/app"
	"crabpad/hal"
)

func main() {
	app.Run(hal.New(), app.Config{Mode: mode, Compass: withCompass})
}
