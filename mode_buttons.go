//go:build tinygo && !tilt

package main

import "crabpad/app"

const mode = app.ModeButtons
