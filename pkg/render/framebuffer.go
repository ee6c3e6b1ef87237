package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/taigrr/fisheye/pkg/math3d"
)

// Framebuffer is a 2D array of pixels plus a 1-bit stencil plane.
// It is the graphics sink for the render pipeline: lines draw straight
// into the color plane, while polygon fills go through the stencil
// (invert-on-coverage writes, then a stencil-tested color pass).
// Terminal display uses double vertical resolution via half-block
// characters (▀▄).
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data

	stencil []uint8 // 1-bit coverage plane, row-major
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Height should be 2x the desired terminal rows for half-block rendering.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:   width,
		Height:  height,
		Pixels:  make([]color.RGBA, width*height),
		stencil: make([]uint8, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// BlendPixel source-over blends a color onto the pixel at (x, y).
func (fb *Framebuffer) BlendPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	if c.A == 255 {
		fb.Pixels[y*fb.Width+x] = c
		return
	}
	if c.A == 0 {
		return
	}
	dst := fb.Pixels[y*fb.Width+x]
	a := uint32(c.A)
	ia := 255 - a
	fb.Pixels[y*fb.Width+x] = color.RGBA{
		R: uint8((uint32(c.R)*a + uint32(dst.R)*ia) / 255),
		G: uint8((uint32(c.G)*a + uint32(dst.G)*ia) / 255),
		B: uint8((uint32(c.B)*a + uint32(dst.B)*ia) / 255),
		A: 255,
	}
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ClearStencil zeroes the stencil plane. Fills must leave the stencil
// cleared so unrelated draws are unaffected; DrawPoly clears on entry
// and exit.
func (fb *Framebuffer) ClearStencil() {
	n := len(fb.stencil)
	if n == 0 {
		return
	}
	fb.stencil[0] = 0
	for i := 1; i < n; i *= 2 {
		copy(fb.stencil[i:], fb.stencil[:i])
	}
}

// StencilAt reports whether the stencil bit at (x, y) is set.
func (fb *Framebuffer) StencilAt(x, y int) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	return fb.stencil[y*fb.Width+x] != 0
}

// InvertStencil flips every stencil bit. This is the full-screen invert
// pass used when a filled face topologically surrounds the viewer.
func (fb *Framebuffer) InvertStencil() {
	for i := range fb.stencil {
		fb.stencil[i] ^= 1
	}
}

// FillTriangleInvert rasterizes a triangle into the stencil plane with
// an invert write op: every covered pixel has its stencil bit toggled.
// The color plane is untouched. Overlapping triangles therefore leave
// bits set exactly where coverage is odd, which is the parity rule that
// makes a fan fill of a self-overlapping polygon come out right.
func (fb *Framebuffer) FillTriangleInvert(a, b, c math3d.Vec2) {
	minX := int(math.Max(0, math.Floor(min3(a.X, b.X, c.X))))
	maxX := int(math.Min(float64(fb.Width-1), math.Ceil(max3(a.X, b.X, c.X))))
	minY := int(math.Max(0, math.Floor(min3(a.Y, b.Y, c.Y))))
	maxY := int(math.Min(float64(fb.Height-1), math.Ceil(max3(a.Y, b.Y, c.Y))))

	// Signed area doubles as the orientation; degenerate triangles
	// cover nothing. Flip to positive orientation so interior pixels
	// have all edge functions positive.
	if edgeFn(a, b, c) == 0 {
		return
	}
	if edgeFn(a, b, c) < 0 {
		b, c = c, b
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := math3d.V2(float64(x)+0.5, float64(y)+0.5)
			if insideEdge(a, b, p) && insideEdge(b, c, p) && insideEdge(c, a, p) {
				fb.stencil[y*fb.Width+x] ^= 1
			}
		}
	}
}

// edgeFn is the signed area of the parallelogram spanned by p→q and
// p→pt; positive when pt is on the interior side of a positively
// oriented triangle's edge p→q.
func edgeFn(p, q, pt math3d.Vec2) float64 {
	return (q.X-p.X)*(pt.Y-p.Y) - (q.Y-p.Y)*(pt.X-p.X)
}

// insideEdge is a half-open coverage test: pixels strictly inside the
// edge count, and pixels exactly on the edge line count for exactly one
// of the two traversal directions. Two fan triangles sharing an edge
// traverse it in opposite directions, so a pixel on the shared line is
// toggled exactly once — no seams and no double toggles.
func insideEdge(p, q, pt math3d.Vec2) bool {
	w := edgeFn(p, q, pt)
	if w != 0 {
		return w > 0
	}
	dy := q.Y - p.Y
	return dy > 0 || (dy == 0 && q.X < p.X)
}

// FillStencil blends the color into every pixel whose stencil bit is
// set. This is the stencil-tested full-screen color pass of a fill.
func (fb *Framebuffer) FillStencil(c color.RGBA) {
	for y := 0; y < fb.Height; y++ {
		row := y * fb.Width
		for x := 0; x < fb.Width; x++ {
			if fb.stencil[row+x] != 0 {
				fb.BlendPixel(x, y, c)
			}
		}
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
