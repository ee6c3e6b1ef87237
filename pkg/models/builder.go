package models

import (
	"fmt"
	"image/color"

	"github.com/taigrr/fisheye/pkg/math3d"
)

// triangleBuilder accumulates triangle geometry into the shared-edge
// mesh representation. Edges are interned so that two faces meeting at
// the same pair of vertices reference a single edge record.
type triangleBuilder struct {
	mesh  *Mesh
	edges map[[2]int]int // canonical (lo, hi) vertex pair -> edge index
}

func newTriangleBuilder(name string) *triangleBuilder {
	return &triangleBuilder{
		mesh:  NewMesh(name),
		edges: make(map[[2]int]int),
	}
}

// addVertex appends a vertex to the pool and returns its index.
func (b *triangleBuilder) addVertex(v math3d.Vec3) int {
	b.mesh.Vertices = append(b.mesh.Vertices, v)
	return len(b.mesh.Vertices) - 1
}

// edgeRef interns the edge from vertex a to vertex b and returns a
// reference that traverses it in that direction. The first time an edge
// is seen it also gets a line face so the mesh has a full wireframe.
func (b *triangleBuilder) edgeRef(a, bb int, line color.RGBA) EdgeRef {
	key := [2]int{a, bb}
	reversed := false
	if a > bb {
		key = [2]int{bb, a}
		reversed = true
	}
	idx, ok := b.edges[key]
	if !ok {
		idx = len(b.mesh.Edges)
		b.mesh.Edges = append(b.mesh.Edges, [2]int{key[0], key[1]})
		b.mesh.Lines = append(b.mesh.Lines, LineFace{Edge: idx, Color: line})
		b.edges[key] = idx
	}
	return EdgeRef{Edge: idx, Reversed: reversed}
}

// addTriangle records one triangle face over vertex indices a, b, c.
func (b *triangleBuilder) addTriangle(a, bb, c int, line, fill color.RGBA) error {
	n := len(b.mesh.Vertices)
	for _, i := range [3]int{a, bb, c} {
		if i < 0 || i >= n {
			return fmt.Errorf("triangle references vertex %d out of range [0,%d)", i, n)
		}
	}
	if a == bb || bb == c || c == a {
		return fmt.Errorf("degenerate triangle (%d, %d, %d)", a, bb, c)
	}
	b.mesh.Triangles = append(b.mesh.Triangles, TriangleFace{
		Edges: [3]EdgeRef{
			b.edgeRef(a, bb, line),
			b.edgeRef(bb, c, line),
			b.edgeRef(c, a, line),
		},
		Color: fill,
	})
	return nil
}

// build finalizes the mesh, validating invariants and computing bounds.
func (b *triangleBuilder) build() (*Mesh, error) {
	if err := b.mesh.Validate(); err != nil {
		return nil, err
	}
	b.mesh.CalculateBounds()
	return b.mesh, nil
}
