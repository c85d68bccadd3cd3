package ascii

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestAtlasGeometry(t *testing.T) {
	for _, cell := range []int{8, 16, 33} {
		atlas := buildTestAtlas(t, cell)
		if got, want := atlas.Width(), atlas.Len()*cell; got != want {
			t.Errorf("cell %d: width = %d, want %d", cell, got, want)
		}
		if atlas.Height() != cell {
			t.Errorf("cell %d: height = %d, want %d", cell, atlas.Height(), cell)
		}
	}
}

func TestAtlasGlyphsStayInTheirCells(t *testing.T) {
	atlas := buildTestAtlas(t, 24)
	firstInk := -1
	for i := 0; i < atlas.Len(); i++ {
		r := atlas.GlyphRect(i)
		ink := 0
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := atlas.Image.NRGBAAt(x, y)
				if c.A != 255 {
					t.Fatalf("pixel (%d,%d) not opaque: %v", x, y, c)
				}
				ink += int(c.R)
			}
		}
		if ink == 0 {
			t.Errorf("glyph %d (%q) has no ink", i, atlas.Ramp.Glyph(i))
		}
		if i == 0 {
			firstInk = ink
		}
	}
	first := atlas.GlyphRect(0)
	last := atlas.GlyphRect(atlas.Len() - 1)
	if first.Max.X != last.Min.X-(atlas.Len()-2)*atlas.Cell {
		t.Errorf("glyph rects are not contiguous: %v .. %v", first, last)
	}
	lastInk := 0
	for y := last.Min.Y; y < last.Max.Y; y++ {
		for x := last.Min.X; x < last.Max.X; x++ {
			lastInk += int(atlas.Image.NRGBAAt(x, y).R)
		}
	}
	if lastInk <= firstInk {
		t.Errorf("densest glyph ink %d not above sparsest %d", lastInk, firstInk)
	}
}

func TestAtlasFlippedPix(t *testing.T) {
	atlas := buildTestAtlas(t, 12)
	flipped := atlas.FlippedPix()
	stride := atlas.Image.Stride
	h := atlas.Height()
	for y := 0; y < h; y++ {
		top := atlas.Image.Pix[y*stride : (y+1)*stride]
		bottom := flipped[(h-1-y)*stride : (h-y)*stride]
		for i := range top {
			if top[i] != bottom[i] {
				t.Fatalf("row %d byte %d differs after flip", y, i)
			}
		}
	}
}

func TestBuildAtlasErrors(t *testing.T) {
	tests := []struct {
		name string
		ramp Ramp
		cell int
		opts AtlasOptions
	}{
		{"empty ramp", Ramp{}, 10, AtlasOptions{}},
		{"zero cell", MustRamp(DefaultRamp), 0, AtlasOptions{}},
		{"too wide", MustRamp(DefaultRamp), MaxAtlasWidth, AtlasOptions{}},
		{"missing font", MustRamp(DefaultRamp), 10, AtlasOptions{FontPath: filepath.Join(t.TempDir(), "nope.ttf")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildAtlas(tt.ramp, tt.cell, tt.opts); !errors.Is(err, ErrAtlas) {
				t.Fatalf("err = %v, want ErrAtlas", err)
			}
		})
	}
}
