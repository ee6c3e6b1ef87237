package render

import (
	"image/color"

	"github.com/taigrr/fisheye/pkg/math3d"
)

// DrawPoly fills a closed screen-space polyline using the stencil
// parity trick. Under the spherical projection a face can project to a
// self-intersecting or inside-out polygon, which a conventional fan or
// scanline fill renders wrongly; parity coverage does not care.
//
// The polygon is fan-triangulated from its first vertex and each fan
// triangle is drawn into the stencil with an invert op, leaving bits
// set exactly where coverage is odd. When isBehind is set — the face's
// visibility test found the camera looking at its back, so the
// projected region surrounds the viewer instead of sitting in front —
// the whole stencil is inverted to correct the parity. Finally the
// color is blended through the stencil test.
//
// The stencil plane is cleared on entry and on exit so surrounding
// draws are unaffected. Skipping either clear corrupts later fills.
//
// Points are in centered screen coordinates (origin at the view
// center). Polygons with fewer than three points are a precondition
// violation and draw nothing.
func (r *Renderer) DrawPoly(c color.RGBA, poly []math3d.Vec2, isBehind bool) {
	if len(poly) < 3 {
		return
	}

	r.fb.ClearStencil()

	center := r.center()
	anchor := poly[0].Add(center)
	prev := poly[1].Add(center)
	for _, p := range poly[2:] {
		next := p.Add(center)
		r.fb.FillTriangleInvert(anchor, prev, next)
		prev = next
	}

	if isBehind {
		r.fb.InvertStencil()
	}

	r.fb.FillStencil(c)

	r.fb.ClearStencil()
}
