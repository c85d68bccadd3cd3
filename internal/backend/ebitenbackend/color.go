package ebitenbackend

import (
	"image/color"

	"asciicube/internal/ascii"
)

func colorFromVec(r, g, b float32) color.NRGBA {
	return color.NRGBA{R: ascii.Unit8(r), G: ascii.Unit8(g), B: ascii.Unit8(b), A: 0xff}
}
