package scene

import "github.com/go-gl/mathgl/mgl32"

// ScreenVertex is a projected vertex in pixels, top-left origin, with NDC
// depth in Z.
type ScreenVertex struct {
	X, Y, Z float32
}

// ScreenTriangle is a front-facing, flat-lit triangle ready to fill.
type ScreenTriangle struct {
	V     [3]ScreenVertex
	UV    [3]mgl32.Vec2
	Color mgl32.Vec3
}

// Frame bundles everything needed to project a mesh for one frame.
type Frame struct {
	Mesh        *Mesh
	Model       mgl32.Mat4
	ViewProj    mgl32.Mat4
	Light       Light
	ObjectColor mgl32.Vec3
	Width       int
	Height      int
}

// ProjectTriangles transforms, culls and lights f.Mesh, appending the
// visible triangles to dst. Back faces and triangles crossing the eye
// plane are dropped.
func ProjectTriangles(dst []ScreenTriangle, f Frame) []ScreenTriangle {
	mvp := f.ViewProj.Mul4(f.Model)
	normalMat := f.Model.Mat3()
	w, h := float32(f.Width), float32(f.Height)

	verts := f.Mesh.Vertices
	for i := 0; i+2 < len(verts); i += 3 {
		var st ScreenTriangle
		visible := true
		for k := 0; k < 3; k++ {
			clip := mvp.Mul4x1(verts[i+k].Position.Vec4(1))
			if clip[3] <= 0 {
				visible = false
				break
			}
			ndc := clip.Vec3().Mul(1 / clip[3])
			st.V[k] = ScreenVertex{
				X: (ndc[0] + 1) * 0.5 * w,
				Y: (1 - ndc[1]) * 0.5 * h,
				Z: ndc[2],
			}
			st.UV[k] = verts[i+k].UV
		}
		if !visible {
			continue
		}
		// counter-clockwise in NDC is clockwise once y points down
		if signedArea(st.V[0], st.V[1], st.V[2]) >= 0 {
			continue
		}
		n := normalMat.Mul3x1(verts[i].Normal)
		st.Color = f.Light.Shade(f.ObjectColor, n)
		dst = append(dst, st)
	}
	return dst
}

func signedArea(a, b, c ScreenVertex) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
