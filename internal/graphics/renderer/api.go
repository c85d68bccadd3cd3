package renderer

import (
	"errors"

	"asciicube/internal/ascii"
	"asciicube/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrBackendUnavailable wraps any failure to bring a backend up: no
	// context, shader compile or link errors, incomplete framebuffers.
	ErrBackendUnavailable = errors.New("renderer backend unavailable")
	// ErrDeviceLost is returned by a backend whose device stopped working
	// mid-run. The coordinator stops on it.
	ErrDeviceLost = errors.New("render device lost")
	// ErrStopped is returned by Frame after the coordinator stopped.
	ErrStopped = errors.New("renderer stopped")
)

// Resources are built once before any backend initializes and never
// change afterwards. Backends upload their own copies.
type Resources struct {
	Atlas       *ascii.Atlas
	Mesh        *scene.Mesh
	Light       scene.Light
	ObjectColor mgl32.Vec3
}

// FrameContext provides per-frame data to the backend
type FrameContext struct {
	Params   ascii.Parameters // copied, never changes during the frame
	Model    mgl32.Mat4
	View     mgl32.Mat4
	Proj     mgl32.Mat4
	Width    int // physical pixels, equal to Params.Resolution
	Height   int
	DT       float64
	Profiler Tracker
}

// Tracker times a named pass. Call the returned func when the pass ends.
type Tracker func(name string) func()

// Track times name with the frame's profiler, if any.
func (ctx FrameContext) Track(name string) func() {
	if ctx.Profiler == nil {
		return func() {}
	}
	return ctx.Profiler(name)
}

// Backend is one way of running the scene and composite passes.
//
// Init acquires every resource for a width×height physical target.
// Resize releases the size-dependent buffers and reallocates them; it is
// only called with a size different from the current one. RenderFrame
// runs the scene pass, then the composite pass. Dispose releases
// everything in reverse acquisition order and may be called once.
type Backend interface {
	Name() string
	Init(res Resources, width, height int) error
	Resize(width, height int) error
	RenderFrame(ctx FrameContext) error
	Dispose()
}
