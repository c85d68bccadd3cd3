package ascii

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"

	"asciicube/internal/logging"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// MaxAtlasWidth bounds the strip so it fits a GL_MAX_TEXTURE_SIZE every
// GL 4.1 implementation guarantees.
const MaxAtlasWidth = 16384

// ErrAtlas reports that the font atlas could not be built. Without an
// atlas the pipeline cannot start.
var ErrAtlas = errors.New("font atlas unavailable")

// AtlasOptions tune glyph rasterization.
type AtlasOptions struct {
	// FontPath names a TrueType/OpenType file. Empty selects the embedded
	// Go Mono Bold face.
	FontPath string
}

// Atlas is a horizontal strip of ramp glyphs, one square cell each, white
// ink over opaque black. It is immutable after BuildAtlas returns.
type Atlas struct {
	Image *image.NRGBA
	Ramp  Ramp
	Cell  int
}

// BuildAtlas rasterizes ramp into a (len·cell)×cell strip. Glyph i is
// centered in, and clipped to, the span [i·cell, (i+1)·cell).
func BuildAtlas(ramp Ramp, cell int, opts AtlasOptions) (*Atlas, error) {
	n := ramp.Len()
	if n == 0 {
		return nil, fmt.Errorf("%w: empty ramp", ErrAtlas)
	}
	if cell < 1 || n*cell > MaxAtlasWidth {
		return nil, fmt.Errorf("%w: cannot allocate %dx%d surface", ErrAtlas, n*cell, cell)
	}

	face, err := loadFace(opts.FontPath, cell)
	if err != nil {
		return nil, err
	}
	defer func() { _ = face.Close() }()

	img := image.NewNRGBA(image.Rect(0, 0, n*cell, cell))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	m := face.Metrics()
	lineH := m.Ascent + m.Descent
	baseline := (fixed.I(cell)-lineH)/2 + m.Ascent

	for i := 0; i < n; i++ {
		r := ramp.Glyph(i)
		rect := image.Rect(i*cell, 0, (i+1)*cell, cell)
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			logging.Logger().Warn("glyph missing from font face", "glyph", string(r))
		}
		d := font.Drawer{
			Dst:  img.SubImage(rect).(*image.NRGBA),
			Src:  image.White,
			Face: face,
			Dot:  fixed.Point26_6{X: fixed.I(rect.Min.X) + (fixed.I(cell)-adv)/2, Y: baseline},
		}
		d.DrawString(string(r))
	}

	logging.Logger().Info("font atlas built", "glyphs", n, "cell", cell, "width", n*cell)
	return &Atlas{Image: img, Ramp: ramp, Cell: cell}, nil
}

// loadFace opens the requested face at a size whose line height fits cell.
func loadFace(path string, cell int) (font.Face, error) {
	data := gomonobold.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read font: %v", ErrAtlas, err)
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse font: %v", ErrAtlas, err)
	}

	size := float64(cell)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("%w: new face: %v", ErrAtlas, err)
	}
	m := face.Metrics()
	if h := (m.Ascent + m.Descent).Ceil(); h > cell {
		_ = face.Close()
		size = size * float64(cell) / float64(h)
		face, err = opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return nil, fmt.Errorf("%w: new face: %v", ErrAtlas, err)
		}
	}
	return face, nil
}

// Len returns the glyph count.
func (a *Atlas) Len() int { return a.Ramp.Len() }

// Width returns the strip width in pixels.
func (a *Atlas) Width() int { return a.Image.Bounds().Dx() }

// Height returns the strip height in pixels.
func (a *Atlas) Height() int { return a.Image.Bounds().Dy() }

// GlyphRect is the pixel span owned by glyph i.
func (a *Atlas) GlyphRect(i int) image.Rectangle {
	return image.Rect(i*a.Cell, 0, (i+1)*a.Cell, a.Cell)
}

// Sample implements Sampler with nearest filtering, top-left origin.
func (a *Atlas) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	return NRGBASampler{Image: a.Image}.Sample(uv)
}

// FlippedPix returns the strip rows bottom-up, for APIs whose texture
// origin is the lower-left corner.
func (a *Atlas) FlippedPix() []uint8 {
	stride := a.Image.Stride
	h := a.Height()
	out := make([]uint8, len(a.Image.Pix))
	for y := 0; y < h; y++ {
		copy(out[(h-1-y)*stride:(h-y)*stride], a.Image.Pix[y*stride:(y+1)*stride])
	}
	return out
}
