package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"crabpad/firmware/sprite"
	"crabpad/hal"
)

func main() {
	var (
		outPath = flag.String("out", "", "Output file.")
		pose    = flag.String("pose", "front", "front|back|blink.")
		format  = flag.String("format", "png", "png|raw (raw is RGB565 little-endian).")
	)
	flag.Parse()

	if *outPath == "" {
		fatalf("usage: mksprite -out crab.png [-pose front|back|blink] [-format png|raw]")
	}

	p, err := parsePose(*pose)
	if err != nil {
		fatalf("%v", err)
	}
	f := sprite.Crab().Frame(p)

	out, err := os.Create(*outPath)
	if err != nil {
		fatalf("%v", err)
	}
	w := bufio.NewWriter(out)
	switch strings.ToLower(*format) {
	case "png":
		err = png.Encode(w, toImage(f))
	case "raw":
		err = writeRaw(w, f)
	default:
		err = fmt.Errorf("unknown format: %s", *format)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fatalf("write %s: %v", *outPath, err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func parsePose(s string) (sprite.Pose, error) {
	for _, p := range []sprite.Pose{sprite.Front, sprite.Back, sprite.Blink} {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown pose: %s", s)
}

func toImage(f *sprite.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			img.SetRGBA(x, y, hal.RGBAFrom565(f.At(x, y)))
		}
	}
	return img
}

func writeRaw(w io.Writer, f *sprite.Frame) error {
	_, err := w.Write(f.Pix)
	return err
}
