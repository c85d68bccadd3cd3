package scene

import "github.com/go-gl/mathgl/mgl32"

// Camera handles the view and projection matrices
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
	Eye         mgl32.Vec3
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       45.0,
		NearPlane: 0.1,
		FarPlane:  100.0,
		Eye:       mgl32.Vec3{0, 0, 3.2},
	}
	c.SetViewport(width, height, 1)
	return c
}

// SetViewport updates the aspect ratio. pixelAspect is the displayed
// width/height of one pixel (0.5 for terminal cells).
func (c *Camera) SetViewport(width, height int, pixelAspect float32) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if pixelAspect <= 0 {
		pixelAspect = 1
	}
	c.AspectRatio = float32(width) / float32(height) * pixelAspect
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

// ViewProjection is projection × view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}
