// Package soft is the CPU backend: a software rasterizer for the scene
// pass and the reference composite for the composite pass.
package soft

import (
	"image"

	"asciicube/internal/ascii"
	"asciicube/internal/graphics/renderer"
	"asciicube/internal/logging"
	"asciicube/internal/scene"
)

// Options tune the CPU backend.
type Options struct {
	// SceneOnly skips the composite pass, for presenters that sample the
	// scene per cell and draw glyphs themselves.
	SceneOnly bool
}

// Backend renders into in-memory images.
type Backend struct {
	opts    Options
	res     renderer.Resources
	raster  *scene.Raster
	output  *image.NRGBA
	scratch []scene.ScreenTriangle

	// Allocations counts output buffer (re)allocations.
	Allocations int
}

// New returns an uninitialized CPU backend.
func New(opts Options) *Backend {
	return &Backend{opts: opts}
}

func (b *Backend) Name() string { return "soft" }

func (b *Backend) Init(res renderer.Resources, width, height int) error {
	b.res = res
	b.raster = scene.NewRaster(width, height)
	b.allocOutput(width, height)
	logging.Logger().Debug("soft backend initialized", "width", width, "height", height)
	return nil
}

func (b *Backend) Resize(width, height int) error {
	b.output = nil
	b.raster.Resize(width, height)
	b.allocOutput(width, height)
	return nil
}

func (b *Backend) allocOutput(width, height int) {
	if b.opts.SceneOnly {
		return
	}
	b.output = image.NewNRGBA(image.Rect(0, 0, width, height))
	b.Allocations++
}

func (b *Backend) RenderFrame(ctx renderer.FrameContext) error {
	stop := ctx.Track("scene")
	b.scratch = b.raster.Render(scene.Frame{
		Mesh:        b.res.Mesh,
		Model:       ctx.Model,
		ViewProj:    ctx.Proj.Mul4(ctx.View),
		Light:       b.res.Light,
		ObjectColor: b.res.ObjectColor,
	}, b.scratch)
	stop()

	if b.opts.SceneOnly {
		return nil
	}
	stop = ctx.Track("composite")
	ascii.CompositeImage(b.output, b.raster.Image(), b.res.Atlas, ctx.Params)
	stop()
	return nil
}

// Scene returns the scene target of the last frame. It is reused, so
// callers must finish reading before the next frame.
func (b *Backend) Scene() *image.NRGBA {
	if b.raster == nil {
		return nil
	}
	return b.raster.Image()
}

// Output returns the composite of the last frame, nil in SceneOnly mode.
func (b *Backend) Output() *image.NRGBA { return b.output }

func (b *Backend) Dispose() {
	b.output = nil
	b.raster = nil
	b.scratch = nil
	b.res = renderer.Resources{}
}
