// Package ebitenbackend runs the composite pass as a Kage shader on
// Ebitengine. The scene pass projects the mesh on the CPU and submits
// flat-colored triangles with DrawTriangles.
package ebitenbackend

import (
	"errors"
	"fmt"
	"image"

	"asciicube/internal/ascii"
	"asciicube/internal/graphics/renderer"
	"asciicube/internal/logging"
	"asciicube/internal/scene"

	"github.com/hajimehoshi/ebiten/v2"
)

var errNoSurface = errors.New("no destination image for the composite pass")

// Backend draws into the image given by SetSurface, normally the screen
// passed to Game.Draw.
type Backend struct {
	res renderer.Resources

	shader   *ebiten.Shader
	strip    *ebiten.Image
	white    *ebiten.Image
	whiteSub *ebiten.Image

	// size dependent
	sceneImg *ebiten.Image
	plane    *ebiten.Image // atlas stretched to the target size
	width    int
	height   int

	surface  *ebiten.Image
	tris     []scene.ScreenTriangle
	vertices []ebiten.Vertex
	indices  []uint16
	uniforms map[string]any
}

// New returns an uninitialized Ebitengine backend.
func New() *Backend {
	return &Backend{uniforms: make(map[string]any, 5)}
}

func (b *Backend) Name() string { return "ebiten" }

func (b *Backend) Init(res renderer.Resources, width, height int) error {
	b.res = res

	src, err := ascii.CompositeShader(ascii.Kage)
	if err != nil {
		return err
	}
	b.shader, err = ebiten.NewShader([]byte(src))
	if err != nil {
		return fmt.Errorf("compile kage shader: %w", err)
	}

	b.strip = ebiten.NewImageFromImage(res.Atlas.Image)

	b.white = ebiten.NewImage(3, 3)
	b.white.Fill(image.White.C)
	b.whiteSub = b.white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	b.allocate(width, height)
	logging.Logger().Debug("ebiten backend initialized", "width", width, "height", height)
	return nil
}

// allocate builds the size-dependent images.
func (b *Backend) allocate(width, height int) {
	b.sceneImg = ebiten.NewImage(width, height)
	b.plane = ebiten.NewImage(width, height)

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
	op.GeoM.Scale(float64(width)/float64(b.res.Atlas.Width()), float64(height)/float64(b.res.Atlas.Height()))
	b.plane.DrawImage(b.strip, op)

	b.width, b.height = width, height
}

func (b *Backend) release() {
	if b.plane != nil {
		b.plane.Deallocate()
		b.plane = nil
	}
	if b.sceneImg != nil {
		b.sceneImg.Deallocate()
		b.sceneImg = nil
	}
}

func (b *Backend) Resize(width, height int) error {
	b.release()
	b.allocate(width, height)
	return nil
}

// SetSurface selects the image the next frame is composited onto. Its
// size must match the coordinator's physical size.
func (b *Backend) SetSurface(dst *ebiten.Image) { b.surface = dst }

func (b *Backend) RenderFrame(ctx renderer.FrameContext) error {
	if b.surface == nil {
		return errNoSurface
	}

	stop := ctx.Track("scene")
	b.scenePass(ctx)
	stop()

	stop = ctx.Track("composite")
	b.compositePass(ctx)
	stop()
	return nil
}

func (b *Backend) scenePass(ctx renderer.FrameContext) {
	b.sceneImg.Clear()

	b.tris = scene.ProjectTriangles(b.tris[:0], scene.Frame{
		Mesh:        b.res.Mesh,
		Model:       ctx.Model,
		ViewProj:    ctx.Proj.Mul4(ctx.View),
		Light:       b.res.Light,
		ObjectColor: b.res.ObjectColor,
		Width:       b.width,
		Height:      b.height,
	})

	// the mesh is convex, so culled front faces never overlap
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	for _, t := range b.tris {
		base := uint16(len(b.vertices))
		for _, v := range t.V {
			b.vertices = append(b.vertices, ebiten.Vertex{
				DstX: v.X, DstY: v.Y,
				SrcX: 1, SrcY: 1,
				ColorR: t.Color[0], ColorG: t.Color[1], ColorB: t.Color[2], ColorA: 1,
			})
		}
		b.indices = append(b.indices, base, base+1, base+2)
	}
	if len(b.indices) == 0 {
		return
	}
	b.sceneImg.DrawTriangles(b.vertices, b.indices, b.whiteSub, &ebiten.DrawTrianglesOptions{AntiAlias: false})
}

func (b *Backend) compositePass(ctx renderer.FrameContext) {
	p := ctx.Params
	bg := p.BackgroundColor
	b.surface.Fill(colorFromVec(bg[0], bg[1], bg[2]))

	b.uniforms[ascii.UniformName(ascii.Kage, "resolution")] = []float32{p.Resolution[0], p.Resolution[1]}
	b.uniforms[ascii.UniformName(ascii.Kage, "cellSize")] = p.CellSize
	b.uniforms[ascii.UniformName(ascii.Kage, "charCount")] = p.CharacterCount
	b.uniforms[ascii.UniformName(ascii.Kage, "textColor")] = []float32{p.TextColor[0], p.TextColor[1], p.TextColor[2]}
	b.uniforms[ascii.UniformName(ascii.Kage, "mode")] = p.ModeValue()

	op := &ebiten.DrawRectShaderOptions{Uniforms: b.uniforms}
	op.Images[0] = b.sceneImg
	op.Images[1] = b.plane
	b.surface.DrawRectShader(b.width, b.height, b.shader, op)
}

// Dispose releases images in reverse order of creation.
func (b *Backend) Dispose() {
	b.release()
	if b.white != nil {
		b.white.Deallocate()
		b.white, b.whiteSub = nil, nil
	}
	if b.strip != nil {
		b.strip.Deallocate()
		b.strip = nil
	}
	if b.shader != nil {
		b.shader.Deallocate()
		b.shader = nil
	}
	b.surface = nil
}
