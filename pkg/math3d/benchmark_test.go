package math3d

import (
	"testing"
)

func BenchmarkQuaternionMul(b *testing.B) {
	q1 := AxisAngle(V3(1, 2, 3), 0.5)
	q2 := AxisAngle(V3(0, 1, 0), 1.2)

	for b.Loop() {
		_ = q1.Mul(q2)
	}
}

func BenchmarkQuaternionRotate(b *testing.B) {
	q := AxisAngle(V3(1, 1, 1), 0.7)
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = q.Rotate(v)
	}
}

func BenchmarkAxisAngle(b *testing.B) {
	axis := V3(1, 2, 3)

	for b.Loop() {
		_ = AxisAngle(axis, 0.5)
	}
}

func BenchmarkPoseApply(b *testing.B) {
	p := Pose{Position: V3(1, 2, 3), Orientation: AxisAngle(V3(0, 1, 0), 0.5)}
	v := V3(4, 5, 6)

	for b.Loop() {
		_ = p.Apply(v)
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_ = v.Normalize()
	}
}

func BenchmarkVec3Cross(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Cross(v2)
	}
}

func BenchmarkVec3Dot(b *testing.B) {
	v1 := V3(1, 2, 3)
	v2 := V3(4, 5, 6)

	for b.Loop() {
		_ = v1.Dot(v2)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := ScaleUniform(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}
