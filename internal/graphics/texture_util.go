package graphics

import (
	"fmt"

	"asciicube/internal/ascii"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// UploadAtlas creates a nearest-filtered, non-mipmapped texture from the
// atlas strip. Rows are flipped so that v = 0 is the bottom of each glyph.
func UploadAtlas(atlas *ascii.Atlas) (uint32, error) {
	w, h := atlas.Width(), atlas.Height()
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	if int32(w) > maxSize {
		return 0, fmt.Errorf("atlas width %d exceeds GL_MAX_TEXTURE_SIZE %d", w, maxSize)
	}

	pix := atlas.FlippedPix()

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	setNearestClamp()

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(w),
		int32(h),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(pix),
	)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	return texture, nil
}

// NewColorTexture allocates an empty RGBA8 texture used as a render target.
func NewColorTexture(width, height int) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	setNearestClamp()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

func setNearestClamp() {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
}
