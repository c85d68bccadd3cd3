package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Rotation tuning, radians.
const (
	DefaultIdleSpeed = 0.45 // yaw per second while idle
	DefaultSmoothing = 8.0  // convergence rate toward target
	DragSensitivity  = 0.01 // per pointer pixel
	NudgeStep        = 0.15 // per arrow key press
	MaxPitch         = math.Pi / 2
)

// Rotation is the object orientation. Input moves the target; the current
// angles follow it with exponential smoothing.
type Rotation struct {
	TargetPitch, TargetYaw float32
	Pitch, Yaw             float32

	IdleSpeed float32
	Smoothing float32

	dragging bool
}

// NewRotation returns a rotation with default idle spin and smoothing.
func NewRotation() *Rotation {
	return &Rotation{
		TargetPitch: 0.35,
		Pitch:       0.35,
		IdleSpeed:   DefaultIdleSpeed,
		Smoothing:   DefaultSmoothing,
	}
}

// BeginDrag suspends idle spin until EndDrag.
func (r *Rotation) BeginDrag() { r.dragging = true }

// EndDrag resumes idle spin.
func (r *Rotation) EndDrag() { r.dragging = false }

// Dragging reports whether a pointer drag is in progress.
func (r *Rotation) Dragging() bool { return r.dragging }

// Drag applies a pointer delta in pixels.
func (r *Rotation) Drag(dx, dy float32) {
	r.Nudge(dy*DragSensitivity, dx*DragSensitivity)
}

// Nudge moves the target by the given angles.
func (r *Rotation) Nudge(dPitch, dYaw float32) {
	r.TargetYaw += dYaw
	r.TargetPitch = mgl32.Clamp(r.TargetPitch+dPitch, -MaxPitch, MaxPitch)
}

// Update advances idle spin and eases the current angles toward the target.
func (r *Rotation) Update(dt float64) {
	if dt <= 0 {
		return
	}
	if !r.dragging {
		r.TargetYaw += r.IdleSpeed * float32(dt)
	}
	factor := float32(1.0 - math.Exp(-float64(r.Smoothing)*dt))
	r.Pitch += (r.TargetPitch - r.Pitch) * factor
	r.Yaw += (r.TargetYaw - r.Yaw) * factor
}

// Model is the object-to-world transform.
func (r *Rotation) Model() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(r.Pitch).Mul4(mgl32.HomogRotate3DY(r.Yaw))
}
