package config

import (
	"errors"
	"testing"

	"asciicube/internal/ascii"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSettingsClamp(t *testing.T) {
	s := Default()

	s.SetCellSize(0)
	if got := s.GetCellSize(); got != MinCellSize {
		t.Errorf("cell size = %d, want %d", got, MinCellSize)
	}
	s.SetCellSize(1000)
	if got := s.GetCellSize(); got != MaxCellSize {
		t.Errorf("cell size = %d, want %d", got, MaxCellSize)
	}

	s.SetFPSLimit(-3)
	if got := s.GetFPSLimit(); got != 0 {
		t.Errorf("fps limit = %d, want 0", got)
	}
	s.SetFPSLimit(5000)
	if got := s.GetFPSLimit(); got != MaxFPSLimit {
		t.Errorf("fps limit = %d, want %d", got, MaxFPSLimit)
	}

	s.SetWindowSize(-1, 0)
	if w, h := s.GetWindowSize(); w != 1 || h != 1 {
		t.Errorf("window = %dx%d, want 1x1", w, h)
	}

	s.SetTextColor(mgl32.Vec3{2, -1, 0.5})
	if got := s.GetTextColor(); got != (mgl32.Vec3{1, 0, 0.5}) {
		t.Errorf("text color = %v", got)
	}

	s.SetFrames(0)
	if got := s.GetFrames(); got != 1 {
		t.Errorf("frames = %d, want 1", got)
	}
}

func TestValidate(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	s.SetRamp("x")
	if err := s.Validate(); !errors.Is(err, ascii.ErrRamp) {
		t.Errorf("Validate() = %v, want ErrRamp", err)
	}

	s = Default()
	s.SetBackend(BackendSnapshot)
	s.SetOutPath("frame.jpg")
	if err := s.Validate(); err == nil {
		t.Errorf("jpg snapshot path accepted")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    mgl32.Vec3
		wantErr bool
	}{
		{"#ffffff", mgl32.Vec3{1, 1, 1}, false},
		{"#000", mgl32.Vec3{0, 0, 0}, false},
		{"#ff0000", mgl32.Vec3{1, 0, 0}, false},
		{"green", mgl32.Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) err = %v", tt.in, err)
			}
			if !tt.wantErr && !got.ApproxEqual(tt.want) {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	s := Default()
	for _, c := range []mgl32.Vec3{s.GetTextColor(), s.GetBackground(), s.GetObjectColor(), {1, 0.5, 0}} {
		hex := FormatColor(c)
		back, err := ParseColor(hex)
		if err != nil {
			t.Fatalf("ParseColor(FormatColor(%v)) err = %v", c, err)
		}
		if !back.ApproxEqualThreshold(c, 1.0/255) {
			t.Errorf("%v -> %q -> %v", c, hex, back)
		}
	}
	if got := FormatColor(s.GetTextColor()); got != "#4dff80" {
		t.Errorf("FormatColor(default text) = %q, want #4dff80", got)
	}
	if got := FormatColor(mgl32.Vec3{2, -1, 0}); got != "#ff0000" {
		t.Errorf("FormatColor clamps: got %q", got)
	}
}

func TestParseSize(t *testing.T) {
	w, h, err := ParseSize("900x600")
	if err != nil || w != 900 || h != 600 {
		t.Fatalf("ParseSize = %d, %d, %v", w, h, err)
	}
	for _, bad := range []string{"900", "ax600", "900xb"} {
		if _, _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q) accepted", bad)
		}
	}
}

func TestParseBackend(t *testing.T) {
	if b, err := ParseBackend("Terminal"); err != nil || b != BackendTerminal {
		t.Errorf("ParseBackend(Terminal) = %q, %v", b, err)
	}
	if _, err := ParseBackend("vulkan"); err == nil {
		t.Errorf("ParseBackend(vulkan) accepted")
	}
}
