package render

import (
	"math"
	"testing"

	"github.com/taigrr/fisheye/pkg/math3d"
)

func TestToScreenSpaceForwardAxis(t *testing.T) {
	tests := []struct {
		name        string
		orientation math3d.Quaternion
	}{
		{"identity", math3d.IdentityQuat()},
		{"rolled", math3d.AxisAngle(math3d.V3(1, 0, 0), 1.2)},
		{"pitched", math3d.AxisAngle(math3d.V3(0, 1, 0), -0.8)},
		{"arbitrary", math3d.AxisAngle(math3d.V3(1, 2, 3), 2.5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cam := NewCamera(100)
			cam.Position = math3d.V3(5, -3, 2)
			cam.Orientation = tc.orientation

			// A point exactly along the look direction projects to the
			// view center.
			p := cam.Position.Add(cam.Forward().Scale(17))
			got := cam.ToScreenSpace(p)
			if got.Len() > 1e-4 {
				t.Errorf("forward point projected to %v, want (0, 0)", got)
			}
		})
	}
}

func TestToScreenSpaceAntipode(t *testing.T) {
	cam := NewCamera(100)
	p := cam.Position.Sub(cam.Forward().Scale(9))

	got := cam.ToScreenSpace(p)
	want := math3d.V2(100*math.Pi, 0)
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("antipodal point projected to %v, want %v", got, want)
	}
}

func TestToScreenSpaceRadiusIsScaledAngle(t *testing.T) {
	cam := NewCamera(171.9)
	cam.Position = math3d.V3(1, 2, 3)
	cam.Orientation = math3d.AxisAngle(math3d.V3(0, 1, 1), 0.4)

	forward := cam.Forward()
	up := cam.Up()

	// Sweep alpha across (0, π): the screen radius must equal Scale·alpha,
	// including for points behind the camera.
	for _, alpha := range []float64{0.01, 0.5, math.Pi / 2, 2.0, 3.0, math.Pi - 0.01} {
		dir := forward.Scale(math.Cos(alpha)).Add(up.Scale(math.Sin(alpha)))
		p := cam.Position.Add(dir.Scale(42))

		got := cam.ToScreenSpace(p)
		want := cam.Scale * alpha
		if math.Abs(got.Len()-want) > 1e-6 {
			t.Errorf("alpha=%v: radius = %v, want %v", alpha, got.Len(), want)
		}
		if math.IsNaN(got.X) || math.IsNaN(got.Y) {
			t.Errorf("alpha=%v: NaN screen point %v", alpha, got)
		}
	}
}

func TestToScreenSpaceRightIsPositiveX(t *testing.T) {
	cam := NewCamera(50)
	p := cam.Position.Add(cam.Right().Scale(3))

	got := cam.ToScreenSpace(p)
	if got.X <= 0 || math.Abs(got.Y) > 1e-9 {
		t.Errorf("point to the right projected to %v, want positive x axis", got)
	}
	if math.Abs(got.X-50*math.Pi/2) > 1e-9 {
		t.Errorf("90° off axis: radius = %v, want %v", got.X, 50*math.Pi/2)
	}
}

func TestToScreenSpaceIndependentOfDistance(t *testing.T) {
	// The projection depends only on direction: scaling the distance to
	// the point must not move its screen position.
	cam := NewCamera(120)
	cam.Orientation = math3d.AxisAngle(math3d.V3(1, 0, 2), -0.9)

	dir := cam.Forward().Add(cam.Right().Scale(0.7)).Add(cam.Up().Scale(-0.3))
	near := cam.ToScreenSpace(cam.Position.Add(dir))
	far := cam.ToScreenSpace(cam.Position.Add(dir.Scale(1000)))

	if near.Distance(far) > 1e-6 {
		t.Errorf("near %v and far %v projections differ", near, far)
	}
}

func TestCameraBasisOrthonormal(t *testing.T) {
	cam := NewCamera(1)
	cam.Pitch(0.3)
	cam.Roll(-1.1)
	cam.Yaw(0.6)
	cam.Renormalize()

	f, r, u := cam.Forward(), cam.Right(), cam.Up()
	for name, v := range map[string]math3d.Vec3{"forward": f, "right": r, "up": u} {
		if math.Abs(v.Len()-1) > 1e-9 {
			t.Errorf("%s basis norm = %v, want 1", name, v.Len())
		}
	}
	if math.Abs(f.Dot(r)) > 1e-9 {
		t.Errorf("forward · right = %v, want 0", f.Dot(r))
	}
	if math.Abs(f.Dot(u)) > 1e-9 {
		t.Errorf("forward · up = %v, want 0", f.Dot(u))
	}
}

func TestMoveForward(t *testing.T) {
	cam := NewCamera(1)
	cam.Yaw(math.Pi / 2)
	start := cam.Position

	cam.MoveForward(10)
	moved := cam.Position.Sub(start)
	if math.Abs(moved.Len()-10) > 1e-9 {
		t.Errorf("moved %v units, want 10", moved.Len())
	}
	if math.Abs(moved.Normalize().Dot(cam.Forward())-1) > 1e-9 {
		t.Errorf("moved along %v, want forward %v", moved.Normalize(), cam.Forward())
	}
}
