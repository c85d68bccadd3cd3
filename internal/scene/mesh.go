// Package scene holds the geometry, camera and rotation state of the
// rendered object, plus the CPU projection shared by software paths.
package scene

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerVertex is the interleaved layout: position(3) normal(3) uv(2).
const FloatsPerVertex = 8

// Vertex is one corner of a triangle. Normals are per face (flat shading).
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh is a triangle list, counter-clockwise when seen from outside.
type Mesh struct {
	Name     string
	Vertices []Vertex
}

// TriangleCount returns len(Vertices)/3.
func (m *Mesh) TriangleCount() int { return len(m.Vertices) / 3 }

// Interleaved packs the vertices for a GPU vertex buffer.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1])
	}
	return out
}

// Radius is the largest vertex distance from the origin.
func (m *Mesh) Radius() float32 {
	var r float32
	for _, v := range m.Vertices {
		if l := v.Position.Len(); l > r {
			r = l
		}
	}
	return r
}

// Shape selects one of the built-in meshes.
type Shape int

const (
	ShapeDodecahedron Shape = iota
	ShapeCube
)

func (s Shape) String() string {
	switch s {
	case ShapeDodecahedron:
		return "dodecahedron"
	case ShapeCube:
		return "cube"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape accepts "dodecahedron" or "cube".
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "dodecahedron", "dodeca":
		return ShapeDodecahedron, nil
	case "cube":
		return ShapeCube, nil
	}
	return 0, fmt.Errorf("unknown shape %q (use dodecahedron or cube)", s)
}

// Mesh builds the mesh for s.
func (s Shape) Mesh() *Mesh {
	if s == ShapeCube {
		return Cube()
	}
	return Dodecahedron()
}

const cubeHalfExtent = 0.6

// Cube returns a cube of half-extent 0.6, two triangles per face.
func Cube() *Mesh {
	normals := []mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	m := &Mesh{Name: "cube", Vertices: make([]Vertex, 0, 36)}
	for _, n := range normals {
		u := perpendicular(n)
		v := n.Cross(u)
		corner := func(su, sv float32) Vertex {
			p := n.Add(u.Mul(su)).Add(v.Mul(sv)).Mul(cubeHalfExtent)
			return Vertex{Position: p, Normal: n, UV: mgl32.Vec2{(su + 1) / 2, (sv + 1) / 2}}
		}
		c := [4]Vertex{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)}
		m.Vertices = append(m.Vertices, c[0], c[1], c[2], c[0], c[2], c[3])
	}
	return m
}

// Dodecahedron returns a regular dodecahedron with unit circumradius. Each
// pentagonal face is a fan of five triangles around its center.
func Dodecahedron() *Mesh {
	phi := float32((1 + math.Sqrt(5)) / 2)
	inv := 1 / phi

	var corners []mgl32.Vec3
	for _, x := range []float32{-1, 1} {
		for _, y := range []float32{-1, 1} {
			for _, z := range []float32{-1, 1} {
				corners = append(corners, mgl32.Vec3{x, y, z})
			}
		}
	}
	for _, a := range []float32{-1, 1} {
		for _, b := range []float32{-1, 1} {
			corners = append(corners,
				mgl32.Vec3{0, a * inv, b * phi},
				mgl32.Vec3{a * inv, b * phi, 0},
				mgl32.Vec3{a * phi, 0, b * inv})
		}
	}
	scale := 1 / float32(math.Sqrt(3))
	for i := range corners {
		corners[i] = corners[i].Mul(scale)
	}

	// face directions are the vertices of the dual icosahedron
	var faceDirs []mgl32.Vec3
	for _, a := range []float32{-1, 1} {
		for _, b := range []float32{-1, 1} {
			faceDirs = append(faceDirs,
				mgl32.Vec3{0, a * phi, b},
				mgl32.Vec3{a, 0, b * phi},
				mgl32.Vec3{a * phi, b, 0})
		}
	}

	m := &Mesh{Name: "dodecahedron", Vertices: make([]Vertex, 0, 12*5*3)}
	for _, dir := range faceDirs {
		n := dir.Normalize()
		ring := pentagon(corners, n)

		var center mgl32.Vec3
		for _, p := range ring {
			center = center.Add(p)
		}
		center = center.Mul(1.0 / float32(len(ring)))

		mid := Vertex{Position: center, Normal: n, UV: mgl32.Vec2{0.5, 0.5}}
		for k := range ring {
			next := (k + 1) % len(ring)
			m.Vertices = append(m.Vertices,
				mid,
				Vertex{Position: ring[k], Normal: n, UV: pentagonUV(k)},
				Vertex{Position: ring[next], Normal: n, UV: pentagonUV(next)})
		}
	}
	return m
}

// pentagon picks the five corners furthest along n and orders them
// counter-clockwise around n.
func pentagon(corners []mgl32.Vec3, n mgl32.Vec3) []mgl32.Vec3 {
	sorted := append([]mgl32.Vec3(nil), corners...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Dot(n) > sorted[j].Dot(n) })
	ring := sorted[:5]

	u := perpendicular(n)
	v := n.Cross(u)
	angle := func(p mgl32.Vec3) float64 {
		return math.Atan2(float64(p.Dot(v)), float64(p.Dot(u)))
	}
	sort.Slice(ring, func(i, j int) bool { return angle(ring[i]) < angle(ring[j]) })
	return ring
}

func pentagonUV(k int) mgl32.Vec2 {
	a := 2 * math.Pi * float64(k) / 5
	return mgl32.Vec2{float32(0.5 + 0.5*math.Cos(a)), float32(0.5 + 0.5*math.Sin(a))}
}

// perpendicular returns a unit vector orthogonal to n.
func perpendicular(n mgl32.Vec3) mgl32.Vec3 {
	ref := mgl32.Vec3{0, 1, 0}
	if math.Abs(float64(n[1])) > 0.9 {
		ref = mgl32.Vec3{1, 0, 0}
	}
	return ref.Cross(n).Normalize()
}
