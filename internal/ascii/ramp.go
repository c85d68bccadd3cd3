package ascii

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"
)

// DefaultRamp orders glyphs from sparsest to densest ink.
const DefaultRamp = ".:-=+*%#@"

// ErrRamp reports an unusable character ramp.
var ErrRamp = errors.New("invalid character ramp")

// Ramp is an ordered glyph sequence, lowest visual density first.
// It is immutable once built.
type Ramp struct {
	glyphs []rune
}

// NewRamp validates s and returns it as a Ramp. Every glyph must be a
// printable, single-column rune so that it fits one square atlas cell and
// one terminal cell.
func NewRamp(s string) (Ramp, error) {
	glyphs := []rune(s)
	if len(glyphs) < 2 {
		return Ramp{}, fmt.Errorf("%w: need at least 2 glyphs, got %d", ErrRamp, len(glyphs))
	}
	for i, r := range glyphs {
		if !unicode.IsPrint(r) {
			return Ramp{}, fmt.Errorf("%w: glyph %d (%U) is not printable", ErrRamp, i, r)
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			return Ramp{}, fmt.Errorf("%w: glyph %d (%q) is double width", ErrRamp, i, r)
		}
		if runewidth.RuneWidth(r) != 1 {
			return Ramp{}, fmt.Errorf("%w: glyph %d (%U) does not occupy one column", ErrRamp, i, r)
		}
	}
	return Ramp{glyphs: glyphs}, nil
}

// MustRamp is NewRamp for compile-time constants.
func MustRamp(s string) Ramp {
	r, err := NewRamp(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the glyph count N.
func (r Ramp) Len() int { return len(r.glyphs) }

// Glyph returns ramp entry i, clamped into range.
func (r Ramp) Glyph(i int) rune {
	if len(r.glyphs) == 0 {
		return ' '
	}
	if i < 0 {
		i = 0
	}
	if i >= len(r.glyphs) {
		i = len(r.glyphs) - 1
	}
	return r.glyphs[i]
}

// String returns the ramp as text.
func (r Ramp) String() string { return string(r.glyphs) }
