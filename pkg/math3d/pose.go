package math3d

// Pose is a rigid transform: a rotation followed by a translation.
type Pose struct {
	Position    Vec3
	Orientation Quaternion
}

// IdentityPose returns the pose that leaves points unchanged.
func IdentityPose() Pose {
	return Pose{Orientation: IdentityQuat()}
}

// Apply transforms a point: rotate by the orientation, then translate.
func (p Pose) Apply(v Vec3) Vec3 {
	return p.Orientation.Rotate(v).Add(p.Position)
}

// RotateAbout rotates the whole pose by q around an external origin,
// yielding a new pose. Both the position (relative to origin) and the
// orientation are rotated.
func (p Pose) RotateAbout(origin Vec3, q Quaternion) Pose {
	return Pose{
		Position:    q.Rotate(p.Position.Sub(origin)).Add(origin),
		Orientation: q.Mul(p.Orientation),
	}
}
