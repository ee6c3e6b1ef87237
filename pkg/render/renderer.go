package render

import (
	"image/color"

	"github.com/taigrr/fisheye/pkg/math3d"
	"github.com/taigrr/fisheye/pkg/models"
)

// Default curve approximation parameters: segments subdivide until
// adjacent projections are within DefaultResolution pixels, up to
// DefaultMaxSplit levels deep.
const (
	DefaultResolution = 40.0
	DefaultMaxSplit   = 9
)

// Renderer draws meshes through the spherical projection into a
// framebuffer. One renderer owns the framebuffer's stencil state for
// the duration of a frame; it is not safe for concurrent use.
type Renderer struct {
	camera *Camera
	fb     *Framebuffer

	// Curve approximation parameters (see ApproximateCurve).
	Resolution float64
	MaxSplit   int

	// Stats accumulates per-frame counters for debugging/testing.
	Stats RenderStats
}

// RenderStats tracks per-frame rendering work.
type RenderStats struct {
	EdgeCurves  int // curve approximations computed (one per mesh edge)
	FacesDrawn  int // filled faces dispatched to DrawPoly
	FacesBehind int // faces classified as surrounding the viewer
}

// NewRenderer creates a renderer drawing into fb as seen by camera.
func NewRenderer(camera *Camera, fb *Framebuffer) *Renderer {
	return &Renderer{
		camera:     camera,
		fb:         fb,
		Resolution: DefaultResolution,
		MaxSplit:   DefaultMaxSplit,
	}
}

// ResetStats clears the per-frame counters (call once per frame).
func (r *Renderer) ResetStats() {
	r.Stats = RenderStats{}
}

// center returns the pixel coordinates of the view center.
func (r *Renderer) center() math3d.Vec2 {
	return math3d.V2(float64(r.fb.Width)/2, float64(r.fb.Height)/2)
}

// DrawMesh renders a posed mesh: vertices are transformed once, one
// curve is approximated per edge, and the line and polygon draws
// consume those curves by reference. Faces sharing an edge never
// recompute its curve.
func (r *Renderer) DrawMesh(mesh *models.Mesh, pose math3d.Pose) {
	verts := make([]math3d.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		verts[i] = pose.Apply(v)
	}

	curves := make([][]math3d.Vec2, len(mesh.Edges))
	for i, e := range mesh.Edges {
		curves[i] = ApproximateCurve(verts[e[0]], verts[e[1]], r.camera, r.Resolution, r.MaxSplit)
		r.Stats.EdgeCurves++
	}

	for _, l := range mesh.Lines {
		r.DrawCurve(curves[l.Edge], l.Color)
	}

	backward := r.camera.Backward()

	for _, t := range mesh.Triangles {
		var vs [3]math3d.Vec3
		for i, ref := range t.Edges {
			vs[i] = verts[mesh.EdgeStart(ref)]
		}
		isBehind := intersectsTriangle(r.camera.Position, backward, vs)
		r.drawFace(t.Color, curves, t.Edges[:], isBehind)
	}

	for _, q := range mesh.Parallelograms {
		var vs [4]math3d.Vec3
		for i, ref := range q.Edges {
			vs[i] = verts[mesh.EdgeStart(ref)]
		}
		isBehind := intersectsParallelogram(r.camera.Position, backward, vs)
		r.drawFace(q.Color, curves, q.Edges[:], isBehind)
	}
}

// DrawCurve strokes a screen-space polyline (centered coordinates)
// into the framebuffer.
func (r *Renderer) DrawCurve(points []math3d.Vec2, c color.RGBA) {
	if len(points) < 2 {
		return
	}
	center := r.center()
	prev := points[0].Add(center)
	for _, p := range points[1:] {
		next := p.Add(center)
		r.fb.DrawLine(int(prev.X), int(prev.Y), int(next.X), int(next.Y), c)
		prev = next
	}
}

// drawFace concatenates the cached edge curves of a face boundary,
// reversing each curve the face traverses end→start, and hands the
// closed polyline to the stencil fill.
func (r *Renderer) drawFace(c color.RGBA, curves [][]math3d.Vec2, refs []models.EdgeRef, isBehind bool) {
	n := 0
	for _, ref := range refs {
		n += len(curves[ref.Edge])
	}
	poly := make([]math3d.Vec2, 0, n)
	for _, ref := range refs {
		curve := curves[ref.Edge]
		if ref.Reversed {
			for i := len(curve) - 1; i >= 0; i-- {
				poly = append(poly, curve[i])
			}
		} else {
			poly = append(poly, curve...)
		}
	}

	r.Stats.FacesDrawn++
	if isBehind {
		r.Stats.FacesBehind++
	}
	r.DrawPoly(c, poly, isBehind)
}

// intersectsTriangle reports whether the ray from origin along
// direction hits the triangle. Möller–Trumbore with a single divide;
// the face is hit when t ≥ 0 and the barycentric coordinates fall
// inside the triangle's domain.
func intersectsTriangle(origin, direction math3d.Vec3, face [3]math3d.Vec3) bool {
	a, b, c := face[0], face[1], face[2]

	normal := a.Sub(b).Cross(a.Sub(c))
	ao := a.Sub(origin)
	m := direction.Cross(ao)

	// divides are much more expensive than multiplies, so only do it once here
	invdet := 1.0 / direction.Dot(normal)

	t := ao.Dot(normal) * invdet
	u := a.Sub(c).Dot(m) * invdet
	v := -a.Sub(b).Dot(m) * invdet

	return t >= 0 && u >= 0 && v >= 0 && u+v <= 1
}

// intersectsParallelogram is the parallelogram variant: the bilinear
// coordinates range over [0,1] independently. The face is spanned by
// its first, second, and fourth vertices; the third is implied.
func intersectsParallelogram(origin, direction math3d.Vec3, face [4]math3d.Vec3) bool {
	a, b, c := face[0], face[1], face[3]

	normal := a.Sub(b).Cross(a.Sub(c))
	ao := a.Sub(origin)
	m := direction.Cross(ao)

	invdet := 1.0 / direction.Dot(normal)

	t := ao.Dot(normal) * invdet
	u := a.Sub(c).Dot(m) * invdet
	v := -a.Sub(b).Dot(m) * invdet

	return t >= 0 && u >= 0 && v >= 0 && u <= 1 && v <= 1
}
