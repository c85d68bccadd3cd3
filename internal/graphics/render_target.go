package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// RenderTarget is an offscreen color texture with a depth attachment.
type RenderTarget struct {
	FBO    uint32
	Color  uint32
	Depth  uint32
	Width  int
	Height int
}

// NewRenderTarget allocates a complete framebuffer of the given size.
func NewRenderTarget(width, height int) (*RenderTarget, error) {
	rt := &RenderTarget{Width: width, Height: height}

	gl.GenFramebuffers(1, &rt.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.FBO)

	rt.Color = NewColorTexture(width, height)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, rt.Color, 0)

	gl.GenRenderbuffers(1, &rt.Depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rt.Depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(width), int32(height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, rt.Depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		rt.Delete()
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return rt, nil
}

// Bind directs drawing into the target and sets the viewport to its size.
func (rt *RenderTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.FBO)
	gl.Viewport(0, 0, int32(rt.Width), int32(rt.Height))
}

// Delete releases every GL object of the target.
func (rt *RenderTarget) Delete() {
	if rt.Depth != 0 {
		gl.DeleteRenderbuffers(1, &rt.Depth)
		rt.Depth = 0
	}
	if rt.Color != 0 {
		gl.DeleteTextures(1, &rt.Color)
		rt.Color = 0
	}
	if rt.FBO != 0 {
		gl.DeleteFramebuffers(1, &rt.FBO)
		rt.FBO = 0
	}
}
