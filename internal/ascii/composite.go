package ascii

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Luma weights (ITU-R BT.601).
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Sampler returns the color at a normalized texture coordinate. The CPU
// path uses a top-left origin with v growing downward.
type Sampler interface {
	Sample(uv mgl32.Vec2) mgl32.Vec4
}

// Luminance is the inverted perceptual luma of c: black yields 1, white 0.
func Luminance(c mgl32.Vec4) float32 {
	return 1 - (lumaR*c[0] + lumaG*c[1] + lumaB*c[2])
}

// CharIndex maps a luminance in [0,1] to a ramp entry of an n-glyph ramp.
func CharIndex(luminance float32, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(math.Floor(float64(luminance * float32(n-1))))
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// CellUV snaps uv to the corner of its cell. Every pixel of a cell gets the
// same value, so a cell samples the scene exactly once.
func CellUV(uv, gridDims mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		floor32(uv[0]*gridDims[0]) / gridDims[0],
		floor32(uv[1]*gridDims[1]) / gridDims[1],
	}
}

// UVInCell is the fractional position of uv inside its cell.
func UVInCell(uv, gridDims mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{fract32(uv[0] * gridDims[0]), fract32(uv[1] * gridDims[1])}
}

// FontUV addresses the texel of glyph charIndex at uvInCell within an
// n-glyph atlas strip.
func FontUV(charIndex float32, uvInCell mgl32.Vec2, n float32) mgl32.Vec2 {
	return mgl32.Vec2{(charIndex + uvInCell[0]) / n, uvInCell[1]}
}

// Shade combines the scene sample and glyph coverage for the given mode.
// Output alpha is always scaled by scene coverage.
func Shade(sceneColor mgl32.Vec4, ink float32, p Parameters) mgl32.Vec4 {
	if p.Mode == ModeSolidTinted {
		return mgl32.Vec4{p.TextColor[0] * ink, p.TextColor[1] * ink, p.TextColor[2] * ink, ink * sceneColor[3]}
	}
	return mgl32.Vec4{sceneColor[0] * ink, sceneColor[1] * ink, sceneColor[2] * ink, sceneColor[3] * ink}
}

// Composite runs the full per-pixel algorithm for the pixel at uv.
func Composite(uv mgl32.Vec2, scene, font Sampler, p Parameters) mgl32.Vec4 {
	gridDims := p.GridDims()
	cellUv := CellUV(uv, gridDims)
	sceneColor := scene.Sample(cellUv)
	charIndex := floor32(Luminance(sceneColor) * (p.CharacterCount - 1))
	uvInCell := UVInCell(uv, gridDims)
	fontSample := font.Sample(FontUV(charIndex, uvInCell, p.CharacterCount))
	return Shade(sceneColor, fontSample[0], p)
}

// CompositeImage writes the composite of scene into dst. Both images must
// cover the parameters' resolution; dst holds non-premultiplied color.
func CompositeImage(dst *image.NRGBA, scene *image.NRGBA, atlas *Atlas, p Parameters) {
	b := dst.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	src := NRGBASampler{Image: scene}
	for y := 0; y < b.Dy(); y++ {
		v := (float32(y) + 0.5) / h
		for x := 0; x < b.Dx(); x++ {
			u := (float32(x) + 0.5) / w
			c := Composite(mgl32.Vec2{u, v}, src, atlas, p)
			dst.SetNRGBA(b.Min.X+x, b.Min.Y+y, toNRGBA(c))
		}
	}
}

// CellSample is the per-cell result of the first half of the algorithm.
type CellSample struct {
	Index     int
	Luminance float32
	Color     mgl32.Vec4
}

// SampleCell evaluates the cell at column col, row row of the grid
// described by p. Used by presenters that draw glyphs directly.
func SampleCell(scene Sampler, p Parameters, col, row int) CellSample {
	gridDims := p.GridDims()
	cellUv := mgl32.Vec2{float32(col) / gridDims[0], float32(row) / gridDims[1]}
	c := scene.Sample(cellUv)
	lum := Luminance(c)
	return CellSample{
		Index:     CharIndex(lum, int(p.CharacterCount)),
		Luminance: lum,
		Color:     c,
	}
}

// NRGBASampler samples an NRGBA image with nearest filtering and clamped
// addressing.
type NRGBASampler struct {
	Image *image.NRGBA
}

// Sample implements Sampler.
func (s NRGBASampler) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	b := s.Image.Bounds()
	x := nearest(uv[0], b.Dx())
	y := nearest(uv[1], b.Dy())
	c := s.Image.NRGBAAt(b.Min.X+x, b.Min.Y+y)
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

// nearestEpsilon keeps coordinates that land exactly on a texel corner
// from rounding into the previous texel.
const nearestEpsilon = 1e-4

func nearest(u float32, size int) int {
	i := int(math.Floor(float64(u)*float64(size) + nearestEpsilon))
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}

func toNRGBA(c mgl32.Vec4) color.NRGBA {
	return color.NRGBA{R: Unit8(c[0]), G: Unit8(c[1]), B: Unit8(c[2]), A: Unit8(c[3])}
}

// Unit8 converts a [0,1] channel to 8 bits, clamping and rounding.
func Unit8(f float32) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

func floor32(f float32) float32 { return float32(math.Floor(float64(f))) }

func fract32(f float32) float32 { return f - floor32(f) }
