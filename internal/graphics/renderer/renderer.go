package renderer

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"asciicube/internal/ascii"
	"asciicube/internal/logging"
	"asciicube/internal/profiling"
	"asciicube/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Options tune a Coordinator.
type Options struct {
	// DevicePixelRatio converts logical to physical pixels. Zero means 1.
	DevicePixelRatio float32
	// PixelAspect is the displayed width/height of one physical pixel.
	// Terminal cells use 0.5. Zero means 1.
	PixelAspect float32
	// Profiler receives pass timings. Optional.
	Profiler *profiling.Recorder
	// FramebufferSized means sizes come from the framebuffer in physical
	// pixels: the width and height given to NewCoordinator, and every
	// RequestFramebufferResize. DevicePixelRatio then only scales cells.
	FramebufferSized bool
}

type size struct{ w, h int }

type resizeRequest struct {
	size
	physical bool
}

// Coordinator owns the parameters, the rotation and a backend, and
// sequences frames so that both passes of a frame see one resolution.
// RequestResize and the setters may be called from any goroutine; Frame
// and Dispose belong to the render goroutine.
type Coordinator struct {
	mu sync.Mutex

	backend  Backend
	params   ascii.Parameters
	logical  size
	physical size
	pending  *resizeRequest

	logicalCell float32
	dpr         float32
	pixelAspect float32

	camera   *scene.Camera
	rotation *scene.Rotation
	profiler *profiling.Recorder

	framebufferSized bool

	stopped  bool
	disposed bool
}

// NewCoordinator initializes b for a width×height logical viewport.
// params.CellSize is taken in logical pixels. A failing Init is reported
// as ErrBackendUnavailable.
func NewCoordinator(b Backend, res Resources, params ascii.Parameters, width, height int, opts Options) (*Coordinator, error) {
	if opts.DevicePixelRatio <= 0 {
		opts.DevicePixelRatio = 1
	}
	if opts.PixelAspect <= 0 {
		opts.PixelAspect = 1
	}

	c := &Coordinator{
		backend:     b,
		params:      params,
		logicalCell: params.CellSize,
		dpr:         opts.DevicePixelRatio,
		pixelAspect: opts.PixelAspect,
		rotation:    scene.NewRotation(),
		profiler:    opts.Profiler,

		framebufferSized: opts.FramebufferSized,
	}
	if c.framebufferSized {
		c.physical = clampSize(width, height)
		c.logical = c.toLogical(c.physical)
	} else {
		c.logical = clampSize(width, height)
		c.physical = c.toPhysical(c.logical)
	}
	c.params.CellSize = c.logicalCell * c.dpr
	c.params.Resolution = mgl32.Vec2{float32(c.physical.w), float32(c.physical.h)}
	c.camera = scene.NewCamera(c.physical.w, c.physical.h)
	c.camera.SetViewport(c.physical.w, c.physical.h, c.pixelAspect)

	if err := b.Init(res, c.physical.w, c.physical.h); err != nil {
		b.Dispose()
		if errors.Is(err, ErrBackendUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, b.Name(), err)
	}

	logging.Logger().Info("renderer initialized",
		"backend", b.Name(),
		"width", c.physical.w, "height", c.physical.h,
		"cell", c.params.CellSize, "dpr", c.dpr)
	return c, nil
}

// RequestResize records a new logical viewport size. Non-positive sizes
// are clamped to 1×1. The change is applied at the start of the next frame.
func (c *Coordinator) RequestResize(width, height int) {
	r := resizeRequest{size: clampSize(width, height)}
	c.mu.Lock()
	c.pending = &r
	c.mu.Unlock()
}

// RequestFramebufferResize records a new size in physical pixels, as
// reported by a framebuffer size callback. It is applied as given, without
// the device pixel ratio.
func (c *Coordinator) RequestFramebufferResize(width, height int) {
	r := resizeRequest{size: clampSize(width, height), physical: true}
	c.mu.Lock()
	c.pending = &r
	c.mu.Unlock()
}

// SetDevicePixelRatio changes the logical to physical scale, for example
// when the window moves to another monitor.
func (c *Coordinator) SetDevicePixelRatio(dpr float32) {
	if dpr <= 0 {
		dpr = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if dpr == c.dpr {
		return
	}
	c.dpr = dpr
	c.params.CellSize = c.logicalCell * dpr
	if c.framebufferSized {
		// the framebuffer callback reports any size change itself
		c.logical = c.toLogical(c.physical)
		return
	}
	if c.pending == nil {
		c.pending = &resizeRequest{size: c.logical}
	}
}

// SetMode selects the composite output mode.
func (c *Coordinator) SetMode(m ascii.OutputMode) {
	c.mu.Lock()
	c.params.Mode = m
	c.mu.Unlock()
}

// ToggleMode switches between the two output modes and returns the new one.
func (c *Coordinator) ToggleMode() ascii.OutputMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params.Mode = c.params.Mode.Toggle()
	return c.params.Mode
}

// SetTextColor sets the ink color of solid mode.
func (c *Coordinator) SetTextColor(col mgl32.Vec3) {
	c.mu.Lock()
	c.params.TextColor = col
	c.mu.Unlock()
}

// UpdateRotation runs fn with exclusive access to the rotation state.
func (c *Coordinator) UpdateRotation(fn func(r *scene.Rotation)) {
	c.mu.Lock()
	fn(c.rotation)
	c.mu.Unlock()
}

// Params returns a copy of the current parameters.
func (c *Coordinator) Params() ascii.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Size returns the current physical size.
func (c *Coordinator) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.physical.w, c.physical.h
}

// Stopped reports whether the coordinator refuses further frames.
func (c *Coordinator) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// Frame applies any pending resize, advances the rotation by dt seconds
// and renders one frame. Any backend failure stops the coordinator;
// afterwards Frame returns ErrStopped.
func (c *Coordinator) Frame(dt float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return ErrStopped
	}

	if err := c.applyResize(); err != nil {
		return c.fail(err)
	}

	c.rotation.Update(dt)

	ctx := FrameContext{
		Params: c.params,
		Model:  c.rotation.Model(),
		View:   c.camera.ViewMatrix(),
		Proj:   c.camera.ProjectionMatrix(),
		Width:  c.physical.w,
		Height: c.physical.h,
		DT:     dt,
	}
	if c.profiler != nil {
		ctx.Profiler = c.profiler.Track
	}

	if err := c.backend.RenderFrame(ctx); err != nil {
		return c.fail(err)
	}
	if c.profiler != nil {
		c.profiler.EndFrame()
	}
	return nil
}

// applyResize must be called with mu held.
func (c *Coordinator) applyResize() error {
	if c.pending == nil {
		return nil
	}
	req := *c.pending
	c.pending = nil

	var phys size
	if req.physical {
		phys = req.size
		c.logical = c.toLogical(phys)
	} else {
		c.logical = req.size
		phys = c.toPhysical(req.size)
	}
	if phys == c.physical {
		return nil
	}

	logging.Logger().Debug("resize", "from", fmt.Sprintf("%dx%d", c.physical.w, c.physical.h),
		"to", fmt.Sprintf("%dx%d", phys.w, phys.h))
	if err := c.backend.Resize(phys.w, phys.h); err != nil {
		return fmt.Errorf("resize to %dx%d: %w", phys.w, phys.h, err)
	}
	c.physical = phys
	c.params.Resolution = mgl32.Vec2{float32(phys.w), float32(phys.h)}
	c.camera.SetViewport(phys.w, phys.h, c.pixelAspect)
	return nil
}

func (c *Coordinator) fail(err error) error {
	c.stopped = true
	logging.Logger().Error("renderer stopped", "backend", c.backend.Name(), "err", err)
	return fmt.Errorf("%s: %w", c.backend.Name(), err)
}

// Dispose stops the coordinator and releases the backend. Safe to call
// more than once.
func (c *Coordinator) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.disposed {
		return
	}
	c.disposed = true
	c.backend.Dispose()
	logging.Logger().Info("renderer disposed", "backend", c.backend.Name())
}

func (c *Coordinator) toPhysical(s size) size {
	return clampSize(
		int(math.Round(float64(float32(s.w)*c.dpr))),
		int(math.Round(float64(float32(s.h)*c.dpr))),
	)
}

func (c *Coordinator) toLogical(s size) size {
	return clampSize(
		int(math.Round(float64(float32(s.w)/c.dpr))),
		int(math.Round(float64(float32(s.h)/c.dpr))),
	)
}

func clampSize(w, h int) size {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return size{w, h}
}
