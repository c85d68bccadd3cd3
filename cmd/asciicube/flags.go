package main

import (
	"flag"
	"fmt"

	"asciicube/internal/ascii"
	"asciicube/internal/config"
	"asciicube/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// parseFlags binds the command line onto a default Settings.
func parseFlags(args []string) (*config.Settings, error) {
	s := config.Default()
	w, h := s.GetWindowSize()

	fs := flag.NewFlagSet("asciicube", flag.ContinueOnError)
	var (
		ramp    = fs.String("ramp", s.GetRamp(), "glyphs from sparse to dense")
		cell    = fs.Int("cell", s.GetCellSize(), "cell size in logical pixels (2..128)")
		text    = fs.String("text", config.FormatColor(s.GetTextColor()), "text color for solid mode")
		bg      = fs.String("bg", config.FormatColor(s.GetBackground()), "background color")
		object  = fs.String("object", config.FormatColor(s.GetObjectColor()), "object base color")
		mode    = fs.String("mode", s.GetMode().String(), "output mode: scene or solid")
		shape   = fs.String("shape", s.GetShape().String(), "object: dodecahedron or cube")
		backend = fs.String("backend", string(s.GetBackend()), "gl, ebiten, terminal or snapshot")
		size    = fs.String("size", fmt.Sprintf("%dx%d", w, h), "window or snapshot size")
		fps     = fs.Int("fps", s.GetFPSLimit(), "frame rate cap, 0 for uncapped")
		font    = fs.String("font", "", "TTF/OTF font file, empty for the built-in mono font")
		out     = fs.String("out", s.GetOutPath(), "snapshot output, .png or .txt")
		frames  = fs.Int("frames", s.GetFrames(), "frames rendered before a snapshot is taken")
		level   = fs.String("log", s.GetLogLevel(), "log level: debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	s.SetRamp(*ramp)
	s.SetCellSize(*cell)
	s.SetFPSLimit(*fps)
	s.SetFontPath(*font)
	s.SetOutPath(*out)
	s.SetFrames(*frames)
	s.SetLogLevel(*level)

	colors := []struct {
		value string
		set   func(c mgl32.Vec3)
	}{
		{*text, func(c mgl32.Vec3) { s.SetTextColor(c) }},
		{*bg, func(c mgl32.Vec3) { s.SetBackground(c) }},
		{*object, func(c mgl32.Vec3) { s.SetObjectColor(c) }},
	}
	for _, c := range colors {
		v, err := config.ParseColor(c.value)
		if err != nil {
			return nil, err
		}
		c.set(v)
	}

	m, err := ascii.ParseOutputMode(*mode)
	if err != nil {
		return nil, err
	}
	s.SetMode(m)

	sh, err := scene.ParseShape(*shape)
	if err != nil {
		return nil, err
	}
	s.SetShape(sh)

	b, err := config.ParseBackend(*backend)
	if err != nil {
		return nil, err
	}
	s.SetBackend(b)

	w, h, err = config.ParseSize(*size)
	if err != nil {
		return nil, err
	}
	s.SetWindowSize(w, h)

	return s, s.Validate()
}
