package main

import (
	"testing"

	"asciicube/internal/ascii"
	"asciicube/internal/config"
	"asciicube/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

func TestParseFlagsDefaults(t *testing.T) {
	s, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	d := config.Default()
	colors := []struct {
		name      string
		got, want mgl32.Vec3
	}{
		{"text", s.GetTextColor(), d.GetTextColor()},
		{"bg", s.GetBackground(), d.GetBackground()},
		{"object", s.GetObjectColor(), d.GetObjectColor()},
	}
	for _, c := range colors {
		if !c.got.ApproxEqualThreshold(c.want, 1.0/255) {
			t.Errorf("-%s default = %v, want %v", c.name, c.got, c.want)
		}
	}
	if s.GetRamp() != d.GetRamp() || s.GetCellSize() != d.GetCellSize() || s.GetBackend() != d.GetBackend() {
		t.Errorf("defaults drifted: ramp %q cell %d backend %q", s.GetRamp(), s.GetCellSize(), s.GetBackend())
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	s, err := parseFlags([]string{
		"-text", "#ff0000", "-mode", "solid", "-shape", "cube",
		"-backend", "snapshot", "-out", "f.txt", "-size", "320x200", "-cell", "500",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if c := s.GetTextColor(); !c.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
		t.Errorf("text = %v", c)
	}
	if s.GetMode() != ascii.ModeSolidTinted || s.GetShape() != scene.ShapeCube {
		t.Errorf("mode %v shape %v", s.GetMode(), s.GetShape())
	}
	if w, h := s.GetWindowSize(); w != 320 || h != 200 {
		t.Errorf("size = %dx%d", w, h)
	}
	if s.GetCellSize() != config.MaxCellSize {
		t.Errorf("cell = %d, want clamped to %d", s.GetCellSize(), config.MaxCellSize)
	}
}

func TestParseFlagsRejectsBadColor(t *testing.T) {
	if _, err := parseFlags([]string{"-bg", "blue"}); err == nil {
		t.Errorf("bad color accepted")
	}
}
