package scene

import (
	"image"
	"image/color"
	"math"

	"asciicube/internal/ascii"
)

// Raster is a software render target: color with coverage alpha plus a
// depth buffer. Cleared pixels are transparent black.
type Raster struct {
	img   *image.NRGBA
	depth []float32

	// Allocations counts buffer (re)allocations.
	Allocations int
}

// NewRaster allocates a w×h target.
func NewRaster(w, h int) *Raster {
	r := &Raster{}
	r.Resize(w, h)
	return r
}

// Resize reallocates the buffers when the size changes.
func (r *Raster) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if r.img != nil && r.img.Rect.Dx() == w && r.img.Rect.Dy() == h {
		return
	}
	r.img = image.NewNRGBA(image.Rect(0, 0, w, h))
	r.depth = make([]float32, w*h)
	r.Allocations++
}

// Width returns the target width.
func (r *Raster) Width() int { return r.img.Rect.Dx() }

// Height returns the target height.
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// Image exposes the color buffer. It is reused across frames.
func (r *Raster) Image() *image.NRGBA { return r.img }

// Clear resets color to transparent black and depth to the far plane.
func (r *Raster) Clear() {
	clear(r.img.Pix)
	n := len(r.depth)
	if n == 0 {
		return
	}
	r.depth[0] = math.MaxFloat32
	for i := 1; i < n; i *= 2 {
		copy(r.depth[i:], r.depth[:i])
	}
}

// DrawTriangle fills t with its flat color, testing depth per pixel.
func (r *Raster) DrawTriangle(t ScreenTriangle) {
	w, h := r.Width(), r.Height()
	v0, v1, v2 := t.V[0], t.V[1], t.V[2]

	area := signedArea(v0, v1, v2)
	if area == 0 {
		return
	}

	minX := int(math.Max(0, math.Floor(float64(min(v0.X, v1.X, v2.X)))))
	maxX := int(math.Min(float64(w-1), math.Ceil(float64(max(v0.X, v1.X, v2.X)))))
	minY := int(math.Max(0, math.Floor(float64(min(v0.Y, v1.Y, v2.Y)))))
	maxY := int(math.Min(float64(h-1), math.Ceil(float64(max(v0.Y, v1.Y, v2.Y)))))

	c := color.NRGBA{R: ascii.Unit8(t.Color[0]), G: ascii.Unit8(t.Color[1]), B: ascii.Unit8(t.Color[2]), A: 255}
	p := ScreenVertex{}
	for y := minY; y <= maxY; y++ {
		p.Y = float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			p.X = float32(x) + 0.5

			b0 := signedArea(v1, v2, p) / area
			b1 := signedArea(v2, v0, p) / area
			b2 := signedArea(v0, v1, p) / area
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			z := b0*v0.Z + b1*v1.Z + b2*v2.Z
			i := y*w + x
			if z >= r.depth[i] {
				continue
			}
			r.depth[i] = z
			r.img.SetNRGBA(x, y, c)
		}
	}
}

// Render clears the target and draws every projected triangle of f.
func (r *Raster) Render(f Frame, scratch []ScreenTriangle) []ScreenTriangle {
	f.Width, f.Height = r.Width(), r.Height()
	r.Clear()
	scratch = ProjectTriangles(scratch[:0], f)
	for _, t := range scratch {
		r.DrawTriangle(t)
	}
	return scratch
}
