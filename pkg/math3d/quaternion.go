package math3d

import "math"

// Quaternion represents an orientation or rotation operator.
// Orientations are expected to stay numerically close to unit norm;
// after repeated incremental multiplication callers should renormalize
// to keep floating-point drift in check.
type Quaternion struct {
	R, I, J, K float64
}

// Q creates a new Quaternion.
func Q(r, i, j, k float64) Quaternion {
	return Quaternion{r, i, j, k}
}

// IdentityQuat returns the identity rotation (1, 0, 0, 0).
func IdentityQuat() Quaternion {
	return Quaternion{R: 1}
}

// FromRealImag builds a quaternion from a real part and an imaginary
// vector part.
func FromRealImag(real float64, imag Vec3) Quaternion {
	return Quaternion{real, imag.X, imag.Y, imag.Z}
}

// AxisAngle builds the rotation of angle radians around axis.
// The axis is normalized internally.
func AxisAngle(axis Vec3, angle float64) Quaternion {
	half := angle / 2
	return FromRealImag(math.Cos(half), axis.Normalize().Scale(math.Sin(half)))
}

// Mul returns the Hamilton product a * b. Quaternion multiplication is
// associative but not commutative; composing rotations applies b first,
// then a.
func (a Quaternion) Mul(b Quaternion) Quaternion {
	return Quaternion{
		R: a.R*b.R - a.I*b.I - a.J*b.J - a.K*b.K,
		I: a.R*b.I + a.I*b.R + a.J*b.K - a.K*b.J,
		J: a.R*b.J - a.I*b.K + a.J*b.R + a.K*b.I,
		K: a.R*b.K + a.I*b.J - a.J*b.I + a.K*b.R,
	}
}

// Conjugate returns the quaternion with the imaginary part negated.
func (a Quaternion) Conjugate() Quaternion {
	return Quaternion{a.R, -a.I, -a.J, -a.K}
}

// Scale returns the scalar product a * s.
func (a Quaternion) Scale(s float64) Quaternion {
	return Quaternion{a.R * s, a.I * s, a.J * s, a.K * s}
}

// Norm returns the quaternion's magnitude.
func (a Quaternion) Norm() float64 {
	return math.Sqrt(a.NormSq())
}

// NormSq returns the squared magnitude.
func (a Quaternion) NormSq() float64 {
	return a.R*a.R + a.I*a.I + a.J*a.J + a.K*a.K
}

// Normalize returns the unit quaternion in the same direction.
// The zero quaternion is a precondition violation and normalizes to
// the identity.
func (a Quaternion) Normalize() Quaternion {
	n := a.Norm()
	if n == 0 {
		return IdentityQuat()
	}
	return a.Scale(1 / n)
}

// Inverse returns the multiplicative inverse, conjugate / squared norm.
// The zero quaternion has no inverse; passing one yields NaN components.
func (a Quaternion) Inverse() Quaternion {
	return a.Conjugate().Scale(1 / a.NormSq())
}

// Imag returns the imaginary part as a vector.
func (a Quaternion) Imag() Vec3 {
	return Vec3{a.I, a.J, a.K}
}

// Rotate rotates v by the quaternion: the vector is lifted to a pure
// imaginary quaternion, conjugated as q * v * q⁻¹, and the imaginary
// part extracted.
func (a Quaternion) Rotate(v Vec3) Vec3 {
	return a.Mul(FromRealImag(0, v)).Mul(a.Inverse()).Imag()
}
