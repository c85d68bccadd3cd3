package scene

import "github.com/go-gl/mathgl/mgl32"

// Light is a directional light fixed in world space.
type Light struct {
	Direction mgl32.Vec3 // toward the light, unit length
	Ambient   float32
}

// DefaultLight shines from the upper left front.
func DefaultLight() Light {
	return Light{Direction: mgl32.Vec3{-0.4, 0.7, 0.6}.Normalize(), Ambient: 0.25}
}

// Intensity is the Lambert term for a world-space normal, lifted by the
// ambient floor. The result is in [Ambient, 1].
func (l Light) Intensity(normal mgl32.Vec3) float32 {
	d := normal.Normalize().Dot(l.Direction)
	if d < 0 {
		d = 0
	}
	return l.Ambient + (1-l.Ambient)*d
}

// Shade lights base with the given world-space normal.
func (l Light) Shade(base, normal mgl32.Vec3) mgl32.Vec3 {
	return base.Mul(l.Intensity(normal))
}
