// Package render draws shared-edge meshes through a spherical
// (angle-preserving) camera projection into a software framebuffer.
//
// Screen-space radius from the view center is proportional to the
// angle between the look direction and the target point, not to the
// tangent of that angle as in a pinhole projection. Points behind the
// camera therefore project to finite coordinates (radius approaching
// Scale·π) instead of blowing up at the horizon.
package render

import (
	"math"

	"github.com/taigrr/fisheye/pkg/math3d"
)

// Camera holds the view position, orientation, and the scale factor
// that maps angular distance (radians) to pixels. The render pipeline
// treats a Camera as an immutable snapshot for the duration of a frame;
// the update tick owns all mutation.
type Camera struct {
	Position    math3d.Vec3
	Orientation math3d.Quaternion

	// Scale maps one radian of angular distance to Scale pixels of
	// screen radius. A point 90° off axis lands Scale·π/2 pixels from
	// the view center.
	Scale float64
}

// NewCamera creates a camera at the origin looking down +X with the
// given angular scale.
func NewCamera(scale float64) *Camera {
	return &Camera{
		Orientation: math3d.IdentityQuat(),
		Scale:       scale,
	}
}

// Forward returns the camera's forward basis vector: world forward
// rotated by the orientation.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Orientation.Rotate(math3d.Forward())
}

// Right returns the camera's right basis vector.
func (c *Camera) Right() math3d.Vec3 {
	return c.Orientation.Rotate(math3d.Right())
}

// Up returns the camera's up basis vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Forward().Cross(c.Right())
}

// Backward returns the direction the camera is looking away from.
func (c *Camera) Backward() math3d.Vec3 {
	return c.Orientation.Rotate(math3d.Forward().Negate())
}

// Pitch rotates the camera about its own right axis.
func (c *Camera) Pitch(angle float64) {
	c.Orientation = c.Orientation.Mul(math3d.AxisAngle(math3d.Right(), angle))
}

// Roll rotates the camera about its own forward axis.
func (c *Camera) Roll(angle float64) {
	c.Orientation = c.Orientation.Mul(math3d.AxisAngle(math3d.Forward(), angle))
}

// Yaw rotates the camera about its own up axis.
func (c *Camera) Yaw(angle float64) {
	c.Orientation = c.Orientation.Mul(math3d.AxisAngle(math3d.Up(), angle))
}

// MoveForward moves the camera along its forward vector.
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
}

// Renormalize snaps the orientation back to unit norm. Incremental
// rotation accumulates floating-point drift; the update tick should
// call this once after applying its rotations.
func (c *Camera) Renormalize() {
	c.Orientation = c.Orientation.Normalize()
}

// ToScreenSpace projects a world-space point to screen space. The
// returned point's distance from the origin is Scale times the angular
// distance between the look direction and the point.
//
// The two singular directions have fixed conventions: a point exactly
// on the forward axis maps to (0, 0), and a point exactly antipodal
// maps to (Scale·π, 0) — the screen direction is ambiguous there and
// the positive x-axis is picked arbitrarily.
//
// The camera position coinciding exactly with the point is a
// precondition violation (the direction to the point is undefined).
func (c *Camera) ToScreenSpace(point math3d.Vec3) math3d.Vec2 {
	toPoint := point.Sub(c.Position)

	forward := c.Forward()
	right := c.Right()

	// Clamp: the dot of two unit vectors can land an ulp outside [-1, 1]
	// and acos would return NaN.
	dot := math.Max(-1, math.Min(1, toPoint.Normalize().Dot(forward)))
	alpha := math.Acos(dot)

	// Don't vom at the poles
	switch alpha {
	case 0:
		return math3d.V2(0, 0)
	case math.Pi:
		return math3d.V2(c.Scale*alpha, 0)
	}

	// Rescale the in-plane component of toPoint so the final radius
	// comes out to Scale·alpha.
	inPlane := toPoint.Sub(forward.Scale(toPoint.Dot(forward)))
	beta := alpha / inPlane.Len()
	x := beta * toPoint.Dot(right)
	y := beta * toPoint.Dot(forward.Cross(right))
	return math3d.V2(c.Scale*x, c.Scale*y)
}
