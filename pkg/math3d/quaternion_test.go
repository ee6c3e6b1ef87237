package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func vecClose(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func quatClose(a, b Quaternion, tol float64) bool {
	return math.Abs(a.R-b.R) <= tol && math.Abs(a.I-b.I) <= tol &&
		math.Abs(a.J-b.J) <= tol && math.Abs(a.K-b.K) <= tol
}

func TestHamiltonProduct(t *testing.T) {
	// The defining relations: i² = j² = k² = ijk = -1.
	i := Q(0, 1, 0, 0)
	j := Q(0, 0, 1, 0)
	k := Q(0, 0, 0, 1)

	tests := []struct {
		name     string
		a, b     Quaternion
		expected Quaternion
	}{
		{"i*i", i, i, Q(-1, 0, 0, 0)},
		{"j*j", j, j, Q(-1, 0, 0, 0)},
		{"k*k", k, k, Q(-1, 0, 0, 0)},
		{"i*j", i, j, k},
		{"j*i", j, i, k.Scale(-1)},
		{"j*k", j, k, i},
		{"k*i", k, i, j},
		{"identity", IdentityQuat(), Q(1, 2, 3, 4), Q(1, 2, 3, 4)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Mul(tc.b)
			if !quatClose(got, tc.expected, eps) {
				t.Errorf("got %+v, want %+v", got, tc.expected)
			}
		})
	}
}

func TestMulAssociative(t *testing.T) {
	q1 := AxisAngle(V3(1, 0, 0), 0.3)
	q2 := AxisAngle(V3(0, 1, 2), 1.1)
	q3 := AxisAngle(V3(3, -1, 0.5), -2.4)

	left := q1.Mul(q2).Mul(q3)
	right := q1.Mul(q2.Mul(q3))

	if !quatClose(left, right, 1e-12) {
		t.Errorf("(q1*q2)*q3 = %+v, q1*(q2*q3) = %+v", left, right)
	}
}

func TestRotateIdentity(t *testing.T) {
	v := V3(1.5, -2, 0.25)
	got := IdentityQuat().Rotate(v)
	if !vecClose(got, v, eps) {
		t.Errorf("identity rotation moved %v to %v", v, got)
	}
}

func TestRotatePreservesNorm(t *testing.T) {
	vectors := []Vec3{
		V3(1, 0, 0),
		V3(0, 0, -7),
		V3(1, 2, 3),
		V3(-0.01, 100, 0.5),
	}
	rotations := []Quaternion{
		AxisAngle(V3(0, 0, 1), math.Pi/2),
		AxisAngle(V3(1, 1, 1), math.Pi/4),
		AxisAngle(V3(-2, 0.5, 1), 3.0),
	}

	for _, q := range rotations {
		for _, v := range vectors {
			got := q.Rotate(v).Len()
			want := v.Len()
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("rotating %v by %+v changed norm %v -> %v", v, q, want, got)
			}
		}
	}
}

func TestAxisAngle(t *testing.T) {
	// Quarter turn around z maps x to y.
	q := AxisAngle(V3(0, 0, 1), math.Pi/2)
	got := q.Rotate(V3(1, 0, 0))
	if !vecClose(got, V3(0, 1, 0), 1e-9) {
		t.Errorf("quarter turn around z: got %v, want (0, 1, 0)", got)
	}

	// The axis is normalized internally: a scaled axis gives the same rotation.
	q2 := AxisAngle(V3(0, 0, 42), math.Pi/2)
	if !quatClose(q, q2, eps) {
		t.Errorf("axis scaling changed rotation: %+v vs %+v", q, q2)
	}
}

func TestInverse(t *testing.T) {
	q := AxisAngle(V3(1, -2, 0.5), 1.8).Scale(1.5) // non-unit on purpose

	got := q.Mul(q.Inverse())
	if !quatClose(got, IdentityQuat(), 1e-12) {
		t.Errorf("q * q⁻¹ = %+v, want identity", got)
	}
}

func TestConjugateRoundTrip(t *testing.T) {
	// For unit quaternions the conjugate is the inverse.
	q := AxisAngle(V3(3, 1, -1), 0.7)
	v := V3(2, -5, 1)

	back := q.Conjugate().Rotate(q.Rotate(v))
	if !vecClose(back, v, 1e-9) {
		t.Errorf("conjugate did not undo rotation: %v -> %v", v, back)
	}
}

func TestNormalizeDrift(t *testing.T) {
	// Repeated incremental rotation drifts off unit norm; Normalize
	// must bring it back.
	q := IdentityQuat()
	step := AxisAngle(V3(0, 1, 0), 0.013)
	for range 10000 {
		q = q.Mul(step)
	}
	n := q.Normalize().Norm()
	if math.Abs(n-1) > 1e-12 {
		t.Errorf("normalized norm = %v, want 1", n)
	}
}

func TestPoseApply(t *testing.T) {
	p := Pose{
		Position:    V3(10, 0, 0),
		Orientation: AxisAngle(V3(0, 0, 1), math.Pi/2),
	}
	got := p.Apply(V3(1, 0, 0))
	if !vecClose(got, V3(10, 1, 0), 1e-9) {
		t.Errorf("got %v, want (10, 1, 0)", got)
	}
}

func TestPoseRotateAbout(t *testing.T) {
	p := Pose{Position: V3(1, 0, 0), Orientation: IdentityQuat()}
	q := AxisAngle(V3(0, 0, 1), math.Pi)

	got := p.RotateAbout(V3(0, 0, 0), q)
	if !vecClose(got.Position, V3(-1, 0, 0), 1e-9) {
		t.Errorf("position = %v, want (-1, 0, 0)", got.Position)
	}
	// The orientation turns with the pose.
	fwd := got.Orientation.Rotate(V3(1, 0, 0))
	if !vecClose(fwd, V3(-1, 0, 0), 1e-9) {
		t.Errorf("rotated forward = %v, want (-1, 0, 0)", fwd)
	}
}
