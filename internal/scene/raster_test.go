package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testFrame(shape Shape, w, h int) Frame {
	cam := NewCamera(w, h)
	return Frame{
		Mesh:        shape.Mesh(),
		Model:       NewRotation().Model(),
		ViewProj:    cam.ViewProjection(),
		Light:       DefaultLight(),
		ObjectColor: mgl32.Vec3{1, 1, 1},
	}
}

func TestRasterCoverage(t *testing.T) {
	for _, shape := range []Shape{ShapeCube, ShapeDodecahedron} {
		t.Run(shape.String(), func(t *testing.T) {
			r := NewRaster(64, 64)
			r.Render(testFrame(shape, 64, 64), nil)
			img := r.Image()

			if c := img.NRGBAAt(32, 32); c.A != 255 {
				t.Errorf("center pixel alpha = %d, want 255", c.A)
			}
			for _, p := range [][2]int{{0, 0}, {63, 0}, {0, 63}, {63, 63}} {
				if c := img.NRGBAAt(p[0], p[1]); c.A != 0 {
					t.Errorf("corner %v = %v, want transparent", p, c)
				}
			}
		})
	}
}

func TestProjectCullsBackFaces(t *testing.T) {
	f := testFrame(ShapeCube, 64, 64)
	f.Width, f.Height = 64, 64
	tris := ProjectTriangles(nil, f)
	if len(tris) == 0 || len(tris) > 6 {
		t.Fatalf("visible cube triangles = %d, want 1..6", len(tris))
	}
	for i, tri := range tris {
		for k := 0; k < 3; k++ {
			if tri.Color[k] < DefaultLight().Ambient-1e-6 || tri.Color[k] > 1 {
				t.Errorf("triangle %d color %v outside lighting range", i, tri.Color)
			}
		}
	}
}

func TestRasterResizeIdempotent(t *testing.T) {
	r := NewRaster(32, 16)
	if r.Allocations != 1 {
		t.Fatalf("Allocations = %d after NewRaster, want 1", r.Allocations)
	}
	r.Resize(32, 16)
	if r.Allocations != 1 {
		t.Errorf("same-size resize allocated")
	}
	r.Resize(0, -5)
	if r.Width() != 1 || r.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", r.Width(), r.Height())
	}
	if r.Allocations != 2 {
		t.Errorf("Allocations = %d, want 2", r.Allocations)
	}
}

func TestCameraAspect(t *testing.T) {
	c := NewCamera(200, 100)
	if c.AspectRatio != 2 {
		t.Errorf("AspectRatio = %v, want 2", c.AspectRatio)
	}
	c.SetViewport(200, 100, 0.5)
	if c.AspectRatio != 1 {
		t.Errorf("terminal AspectRatio = %v, want 1", c.AspectRatio)
	}
}
