package scene

import (
	"math"
	"testing"
)

func TestMeshTriangleCounts(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{ShapeDodecahedron, 12 * 5},
		{ShapeCube, 12},
	}
	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			m := tt.shape.Mesh()
			if got := m.TriangleCount(); got != tt.want {
				t.Fatalf("TriangleCount() = %d, want %d", got, tt.want)
			}
			if got := len(m.Interleaved()); got != len(m.Vertices)*FloatsPerVertex {
				t.Errorf("Interleaved() len = %d, want %d", got, len(m.Vertices)*FloatsPerVertex)
			}
		})
	}
}

func TestMeshWindingFacesOutward(t *testing.T) {
	for _, m := range []*Mesh{Cube(), Dodecahedron()} {
		for i := 0; i < len(m.Vertices); i += 3 {
			a, b, c := m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]
			cross := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
			if cross.Dot(a.Normal) <= 0 {
				t.Fatalf("%s triangle %d is clockwise from outside", m.Name, i/3)
			}
			centroid := a.Position.Add(b.Position).Add(c.Position)
			if centroid.Dot(a.Normal) <= 0 {
				t.Fatalf("%s triangle %d normal points inward", m.Name, i/3)
			}
		}
	}
}

func TestDodecahedronUnitCircumradius(t *testing.T) {
	m := Dodecahedron()
	if r := m.Radius(); math.Abs(float64(r)-1) > 1e-5 {
		t.Fatalf("Radius() = %v, want 1", r)
	}
	// all 20 corners sit on the unit sphere
	corners := map[[3]int32]bool{}
	for _, v := range m.Vertices {
		if v.UV[0] == 0.5 && v.UV[1] == 0.5 {
			continue
		}
		if l := v.Position.Len(); math.Abs(float64(l)-1) > 1e-5 {
			t.Fatalf("corner %v has length %v", v.Position, l)
		}
		key := [3]int32{
			int32(math.Round(float64(v.Position[0]) * 1e4)),
			int32(math.Round(float64(v.Position[1]) * 1e4)),
			int32(math.Round(float64(v.Position[2]) * 1e4)),
		}
		corners[key] = true
	}
	if len(corners) != 20 {
		t.Errorf("distinct corners = %d, want 20", len(corners))
	}
}

func TestCubeExtent(t *testing.T) {
	for _, v := range Cube().Vertices {
		for i := 0; i < 3; i++ {
			if math.Abs(math.Abs(float64(v.Position[i]))-cubeHalfExtent) > 1e-6 {
				t.Fatalf("vertex %v not on the cube corners", v.Position)
			}
		}
	}
}

func TestParseShape(t *testing.T) {
	if s, err := ParseShape("Cube"); err != nil || s != ShapeCube {
		t.Errorf("ParseShape(Cube) = %v, %v", s, err)
	}
	if s, err := ParseShape("dodecahedron"); err != nil || s != ShapeDodecahedron {
		t.Errorf("ParseShape(dodecahedron) = %v, %v", s, err)
	}
	if _, err := ParseShape("teapot"); err == nil {
		t.Errorf("ParseShape(teapot) accepted")
	}
}
