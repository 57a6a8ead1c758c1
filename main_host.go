//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"crabpad/app"
	"crabpad/hal"
)

func main() {
	var (
		cfg        hal.HeadlessConfig
		tty        bool
		mode       string
		script     string
		logPath    string
		scale      int
		brightness int
		hud        bool
		withMag    bool
	)
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.BoolVar(&tty, "tty", false, "Render into the terminal instead of a window.")
	flag.StringVar(&mode, "mode", "buttons", "What moves the crab: buttons or tilt.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Poll rate in headless and terminal mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&script, "script", "", "Headless input script, e.g. R,R,U:200,W:100,E+20.")
	flag.StringVar(&logPath, "log", "", "Write firmware log lines to this file instead of stdout.")
	flag.IntVar(&scale, "scale", 4, "Window pixel scale.")
	flag.IntVar(&brightness, "brightness", 200, "Boot encoder position for the backlight curve.")
	flag.BoolVar(&hud, "hud", false, "Show tilt angles in tilt mode.")
	flag.BoolVar(&withMag, "compass", false, "Log the magnetometer every few seconds.")
	flag.Parse()

	m, err := app.ParseMode(mode)
	if err != nil {
		fatalf("%v", err)
	}
	appCfg := app.Config{Mode: m, Brightness: brightness, HUD: hud, Compass: withMag}
	newApp := func(h hal.HAL) func() error { return app.New(h, appCfg) }

	var logw io.Writer = os.Stdout
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			fatalf("log: %v", err)
		}
		defer f.Close()
		logw = f
	} else if tty {
		logw = io.Discard
	}

	switch {
	case cfg.Enabled:
		if cfg.Script, err = hal.ParseScript(script); err != nil {
			fatalf("script: %v", err)
		}
		cfg.Log = logw
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = hal.RunHeadless(ctx, newApp, cfg)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	case tty:
		err = hal.RunTerminal(newApp, hal.TerminalConfig{Hz: cfg.Hz, Log: logw})
	default:
		err = hal.RunWindow(newApp, hal.WindowConfig{Scale: scale, Log: logw})
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "crabpad: "+format+"\n", args...)
	os.Exit(1)
}
