// Package models provides 3D mesh loading and representation for fisheye.
//
// A Mesh separates geometry from topology: a vertex pool, a deduplicated
// edge list over that pool, and face lists that reference edges by index
// rather than owning geometry. Each physical edge appears once, so the
// renderer can compute its projected curve once per frame no matter how
// many faces border it.
package models

import (
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/fisheye/pkg/math3d"
)

// EdgeRef names an edge of the mesh together with a traversal direction.
// Reversed means the face walks the edge end→start.
type EdgeRef struct {
	Edge     int
	Reversed bool
}

// LineFace is a single edge drawn as a line.
type LineFace struct {
	Edge  int
	Color color.RGBA
}

// TriangleFace is a filled face bounded by three edges.
type TriangleFace struct {
	Edges [3]EdgeRef
	Color color.RGBA
}

// QuadFace is a filled parallelogram face bounded by four edges.
type QuadFace struct {
	Edges [4]EdgeRef
	Color color.RGBA
}

// Mesh is a shared vertex/edge mesh with line, triangle, and
// parallelogram faces. It is built once at load time and must not be
// mutated while a frame is being rendered.
type Mesh struct {
	Name           string
	Vertices       []math3d.Vec3
	Edges          [][2]int
	Lines          []LineFace
	Triangles      []TriangleFace
	Parallelograms []QuadFace

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// Validate checks the mesh invariants: every edge references existing
// vertices, every face references existing edges, and no edge is
// degenerate (same vertex at both ends). Loaders and constructors must
// reject invalid meshes here rather than let the renderer discover a
// dangling index mid-frame.
func (m *Mesh) Validate() error {
	for i, e := range m.Edges {
		if e[0] < 0 || e[0] >= len(m.Vertices) || e[1] < 0 || e[1] >= len(m.Vertices) {
			return fmt.Errorf("edge %d references vertex out of range [0,%d)", i, len(m.Vertices))
		}
		if e[0] == e[1] {
			return fmt.Errorf("edge %d is degenerate (vertex %d twice)", i, e[0])
		}
	}
	checkRef := func(kind string, face, edge int) error {
		if edge < 0 || edge >= len(m.Edges) {
			return fmt.Errorf("%s face %d references edge out of range [0,%d)", kind, face, len(m.Edges))
		}
		return nil
	}
	for i, l := range m.Lines {
		if err := checkRef("line", i, l.Edge); err != nil {
			return err
		}
	}
	for i, t := range m.Triangles {
		for _, r := range t.Edges {
			if err := checkRef("triangle", i, r.Edge); err != nil {
				return err
			}
		}
	}
	for i, q := range m.Parallelograms {
		for _, r := range q.Edges {
			if err := checkRef("parallelogram", i, r.Edge); err != nil {
				return err
			}
		}
	}
	return nil
}

// EdgeStart returns the vertex index the referenced edge starts at,
// honoring the reversed flag.
func (m *Mesh) EdgeStart(r EdgeRef) int {
	if r.Reversed {
		return m.Edges[r.Edge][1]
	}
	return m.Edges[r.Edge][0]
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// EdgeCount returns the number of deduplicated edges.
func (m *Mesh) EdgeCount() int {
	return len(m.Edges)
}

// FaceCount returns the number of filled faces.
func (m *Mesh) FaceCount() int {
	return len(m.Triangles) + len(m.Parallelograms)
}

// Transform applies an affine transform to all vertices in place and
// recomputes the bounds.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	m.CalculateBounds()
}

// FitTransform returns the transform that centers the mesh on the
// origin and scales its largest dimension to size.
func (m *Mesh) FitTransform(size float64) math3d.Mat4 {
	dim := m.Size()
	maxDim := math.Max(dim.X, math.Max(dim.Y, dim.Z))
	if maxDim == 0 {
		return math3d.Identity()
	}
	return math3d.ScaleUniform(size / maxDim).
		Mul(math3d.Translate(m.Center().Negate()))
}

// FaceAlpha scales a color's alpha for translucent face fills.
func FaceAlpha(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{c.R, c.G, c.B, uint8(float64(c.A) * factor)}
}

// Cuboid builds a box mesh of the given size centered on the origin.
// All 12 edges are drawn as lines in the given color, and the 6 faces
// are filled as parallelograms at quarter alpha.
func Cuboid(size math3d.Vec3, c color.RGBA) *Mesh {
	h := size.Scale(0.5)

	vertices := []math3d.Vec3{
		math3d.V3(h.X, h.Y, h.Z),
		math3d.V3(h.X, h.Y, -h.Z),
		math3d.V3(h.X, -h.Y, -h.Z),
		math3d.V3(h.X, -h.Y, h.Z),
		math3d.V3(-h.X, -h.Y, h.Z),
		math3d.V3(-h.X, -h.Y, -h.Z),
		math3d.V3(-h.X, h.Y, -h.Z),
		math3d.V3(-h.X, h.Y, h.Z),
	}

	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 7}, {7, 0},
		{0, 3}, {1, 6}, {2, 5}, {4, 7},
	}

	lines := make([]LineFace, len(edges))
	for i := range edges {
		lines[i] = LineFace{Edge: i, Color: c}
	}

	fc := FaceAlpha(c, 0.25)
	quad := func(a, b, cc, d EdgeRef) QuadFace {
		return QuadFace{Edges: [4]EdgeRef{a, b, cc, d}, Color: fc}
	}
	fwd := func(e int) EdgeRef { return EdgeRef{Edge: e} }
	rev := func(e int) EdgeRef { return EdgeRef{Edge: e, Reversed: true} }

	parallelograms := []QuadFace{
		quad(fwd(0), fwd(1), fwd(2), rev(8)),
		quad(fwd(0), fwd(9), fwd(6), fwd(7)),
		quad(fwd(1), fwd(10), fwd(5), rev(9)),
		quad(fwd(2), fwd(3), fwd(4), rev(10)),
		quad(fwd(3), fwd(11), fwd(7), fwd(8)),
		quad(fwd(4), fwd(5), fwd(6), rev(11)),
	}

	m := &Mesh{
		Name:           "cuboid",
		Vertices:       vertices,
		Edges:          edges,
		Lines:          lines,
		Parallelograms: parallelograms,
	}
	m.CalculateBounds()
	return m
}
