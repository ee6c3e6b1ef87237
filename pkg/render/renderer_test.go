package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/fisheye/pkg/math3d"
	"github.com/taigrr/fisheye/pkg/models"
)

func TestDrawMeshCurvePerEdge(t *testing.T) {
	// A cuboid's 12 lines and 6 faces reference its 12 edges 36 times,
	// but each edge's curve is approximated exactly once per frame.
	mesh := models.Cuboid(math3d.V3(100, 100, 100), color.RGBA{128, 0, 128, 255})

	cam := NewCamera(50)
	cam.Position = math3d.V3(-30, 0, -30)
	cam.Orientation = math3d.AxisAngle(math3d.V3(0, -1, 0), math.Pi/4)

	fb := NewFramebuffer(80, 48)
	r := NewRenderer(cam, fb)

	r.ResetStats()
	r.DrawMesh(mesh, math3d.IdentityPose())

	if r.Stats.EdgeCurves != 12 {
		t.Errorf("EdgeCurves = %d, want 12", r.Stats.EdgeCurves)
	}
	if r.Stats.FacesDrawn != 6 {
		t.Errorf("FacesDrawn = %d, want 6", r.Stats.FacesDrawn)
	}
}

func TestDrawMeshPaintsPixels(t *testing.T) {
	mesh := models.Cuboid(math3d.V3(100, 100, 100), color.RGBA{255, 255, 255, 255})

	cam := NewCamera(12)
	cam.Position = math3d.V3(-120, 0, 0)

	fb := NewFramebuffer(80, 48)
	bg := color.RGBA{0, 0, 0, 255}
	fb.Clear(bg)

	r := NewRenderer(cam, fb)
	r.DrawMesh(mesh, math3d.IdentityPose())

	painted := 0
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if fb.GetPixel(x, y) != bg {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Fatal("rendering a cuboid in front of the camera painted nothing")
	}
}

func TestDrawMeshInsideCuboid(t *testing.T) {
	// From inside the box the backward ray exits through exactly one
	// face; that face surrounds the viewer and is filled inverted.
	mesh := models.Cuboid(math3d.V3(100, 100, 100), color.RGBA{0, 64, 128, 255})

	cam := NewCamera(12)
	fb := NewFramebuffer(80, 48)
	r := NewRenderer(cam, fb)

	r.ResetStats()
	r.DrawMesh(mesh, math3d.IdentityPose())

	if r.Stats.FacesBehind != 1 {
		t.Errorf("FacesBehind = %d, want 1", r.Stats.FacesBehind)
	}
	if r.Stats.FacesDrawn != 6 {
		t.Errorf("FacesDrawn = %d, want 6", r.Stats.FacesDrawn)
	}
}

func TestDrawMeshPosed(t *testing.T) {
	// Posing the mesh and moving the camera by the inverse pose must
	// paint the same image as the unposed render.
	mesh := models.Cuboid(math3d.V3(40, 40, 40), color.RGBA{255, 255, 255, 255})
	bg := color.RGBA{0, 0, 0, 255}

	fbA := NewFramebuffer(60, 40)
	fbA.Clear(bg)
	camA := NewCamera(9)
	camA.Position = math3d.V3(-80, 0, 0)
	NewRenderer(camA, fbA).DrawMesh(mesh, math3d.IdentityPose())

	offset := math3d.V3(0, 30, -10)
	pose := math3d.Pose{Position: offset, Orientation: math3d.IdentityQuat()}
	fbB := NewFramebuffer(60, 40)
	fbB.Clear(bg)
	camB := NewCamera(9)
	camB.Position = math3d.V3(-80, 0, 0).Add(offset)
	NewRenderer(camB, fbB).DrawMesh(mesh, pose)

	for i := range fbA.Pixels {
		if fbA.Pixels[i] != fbB.Pixels[i] {
			t.Fatalf("pixel %d differs between posed and unposed render", i)
		}
	}
}

func TestIntersectsTriangle(t *testing.T) {
	face := [3]math3d.Vec3{
		math3d.V3(5, -1, -1),
		math3d.V3(5, 2, -1),
		math3d.V3(5, -1, 2),
	}

	tests := []struct {
		name      string
		origin    math3d.Vec3
		direction math3d.Vec3
		want      bool
	}{
		{"through the interior", math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), true},
		{"opposite direction", math3d.V3(0, 0, 0), math3d.V3(-1, 0, 0), false},
		{"past the corner", math3d.V3(0, 0, 0), math3d.V3(1, 2, 2), false},
		{"origin beyond the plane", math3d.V3(10, 0, 0), math3d.V3(1, 0, 0), false},
		{"unnormalized direction", math3d.V3(0, 0, 0), math3d.V3(7, 0, 0), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := intersectsTriangle(tc.origin, tc.direction, face); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIntersectsParallelogram(t *testing.T) {
	// Unit-ish square at x=5 spanned by face[0]→face[1] and
	// face[0]→face[3].
	face := [4]math3d.Vec3{
		math3d.V3(5, -1, -1),
		math3d.V3(5, 1, -1),
		math3d.V3(5, 1, 1),
		math3d.V3(5, -1, 1),
	}

	tests := []struct {
		name      string
		direction math3d.Vec3
		want      bool
	}{
		{"through the center", math3d.V3(1, 0, 0), true},
		{"near a corner", math3d.V3(5, 0.9, 0.9), true},
		{"outside in u", math3d.V3(5, 3, 0), false},
		{"outside in v", math3d.V3(5, 0, 3), false},
		{"away from the plane", math3d.V3(-1, 0, 0), false},
	}

	origin := math3d.V3(0, 0, 0)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := intersectsParallelogram(origin, tc.direction, face); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func BenchmarkDrawMesh(b *testing.B) {
	mesh := models.Cuboid(math3d.V3(100, 100, 100), color.RGBA{128, 0, 128, 255})

	cam := NewCamera(12)
	cam.Position = math3d.V3(-120, 0, -40)
	fb := NewFramebuffer(160, 96)
	r := NewRenderer(cam, fb)

	for b.Loop() {
		fb.Clear(color.RGBA{0, 0, 0, 255})
		r.ResetStats()
		r.DrawMesh(mesh, math3d.IdentityPose())
	}
}
