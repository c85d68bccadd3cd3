package ascii

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// OutputMode selects how glyph ink is colored in the final pixel.
type OutputMode int

const (
	// ModeSceneTinted colors ink with the sampled scene color.
	ModeSceneTinted OutputMode = iota
	// ModeSolidTinted colors ink with Parameters.TextColor.
	ModeSolidTinted
)

func (m OutputMode) String() string {
	switch m {
	case ModeSceneTinted:
		return "scene"
	case ModeSolidTinted:
		return "solid"
	default:
		return fmt.Sprintf("OutputMode(%d)", int(m))
	}
}

// Toggle returns the other mode.
func (m OutputMode) Toggle() OutputMode {
	if m == ModeSolidTinted {
		return ModeSceneTinted
	}
	return ModeSolidTinted
}

// ParseOutputMode accepts "scene" or "solid".
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(s) {
	case "scene", "tinted":
		return ModeSceneTinted, nil
	case "solid", "text":
		return ModeSolidTinted, nil
	}
	return 0, fmt.Errorf("unknown output mode %q (use scene or solid)", s)
}

// Parameters feed the composite pass. They are copied per frame, so a
// frame never observes a half-applied update.
type Parameters struct {
	CharacterCount  float32
	CellSize        float32 // physical pixels
	Resolution      mgl32.Vec2
	TextColor       mgl32.Vec3
	BackgroundColor mgl32.Vec3
	Mode            OutputMode
}

// GridDims is the number of cells spanning the viewport on each axis. It
// is not rounded: a trailing partial cell is simply truncated on screen.
func (p Parameters) GridDims() mgl32.Vec2 {
	return mgl32.Vec2{p.Resolution[0] / p.CellSize, p.Resolution[1] / p.CellSize}
}

// ModeValue is the shader-side selector: 0 scene tinted, 1 solid.
func (p Parameters) ModeValue() float32 {
	if p.Mode == ModeSolidTinted {
		return 1
	}
	return 0
}
