package render

import (
	"math"

	"github.com/taigrr/fisheye/pkg/math3d"
)

// arcStep is the angular resolution of the circular-arc fallback:
// synthesized arcs never step more than this many radians of screen
// polar angle between consecutive points.
const arcStep = math.Pi / 32

// curvePoint pairs a world-space point with its projection.
type curvePoint struct {
	world  math3d.Vec3
	screen math3d.Vec2
}

// ApproximateCurve projects the 3D segment a→b into a screen-space
// polyline. Under the spherical projection a straight segment projects
// to a curve, so the segment is recursively bisected until adjacent
// projections are within resolution pixels of each other or maxSplit
// levels of subdivision have been spent.
//
// The recursion is run on explicit stacks (done/todo plus a
// branch-completion marker stack) so the pending work is bounded by
// maxSplit entries rather than by call depth.
//
// When the depth budget runs out while both compared points lie behind
// the camera, a straight screen-space segment is known to be wrong —
// the true projection bends into an arc around the view center — so
// the gap is bridged with a circular arc interpolated in polar screen
// coordinates instead.
//
// The result always starts at the projection of a and ends at the
// projection of b; maxSplit of 0 yields exactly those two points. The
// function is pure: same inputs, same output, no mutation.
func ApproximateCurve(a, b math3d.Vec3, cam *Camera, resolution float64, maxSplit int) []math3d.Vec2 {
	done := make([]curvePoint, 0, 8)
	todo := make([]curvePoint, 0, maxSplit+1)

	done = append(done, curvePoint{a, cam.ToScreenSpace(a)})
	todo = append(todo, curvePoint{b, cam.ToScreenSpace(b)})

	level := 0
	branchDone := make([]bool, 1, maxSplit+2)

	for len(todo) > 0 {
		end := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		begin := done[len(done)-1]

		distance := begin.screen.Distance(end.screen)

		switch {
		case distance <= resolution:
			done = append(done, end)
			done, level, branchDone = unwind(done, level, branchDone)

		case level >= maxSplit:
			// Out of subdivision budget. If both points are behind the
			// camera the straight segment is visually wrong; bridge the
			// gap with a circular arc before accepting the endpoint.
			if cam.behind(begin.world) && cam.behind(end.world) {
				done = append(done, arcPoints(begin, end)...)
			}
			done = append(done, end)
			done, level, branchDone = unwind(done, level, branchDone)

		default:
			todo = append(todo, end)
			mid := begin.world.Midpoint(end.world)
			todo = append(todo, curvePoint{mid, cam.ToScreenSpace(mid)})
			level++
			branchDone = append(branchDone, false)
		}
	}

	points := make([]math3d.Vec2, len(done))
	for i, p := range done {
		points[i] = p.screen
	}
	return points
}

// unwind pops completed recursion branches after accepting a point and
// marks the current branch as finishing.
func unwind(done []curvePoint, level int, branchDone []bool) ([]curvePoint, int, []bool) {
	for branchDone[len(branchDone)-1] {
		branchDone = branchDone[:len(branchDone)-1]
		level--
	}
	branchDone[len(branchDone)-1] = true
	return done, level, branchDone
}

// behind reports whether a world point is behind the camera's view
// plane.
func (c *Camera) behind(p math3d.Vec3) bool {
	return p.Sub(c.Position).Dot(c.Forward()) < 0
}

// arcPoints interpolates intermediate screen points between begin and
// end along a circular arc: polar angle and radius are stepped linearly
// with the signed angular difference normalized to (-π, π].
func arcPoints(begin, end curvePoint) []curvePoint {
	thetaA := begin.screen.Angle()
	radiusA := begin.screen.Len()
	thetaB := end.screen.Angle()
	radiusB := end.screen.Len()

	delta := normalizeAngle(thetaB - thetaA)
	steps := int(math.Ceil(math.Abs(delta) / arcStep))
	if steps < 2 {
		return nil
	}

	points := make([]curvePoint, 0, steps-1)
	for i := 1; i < steps; i++ {
		t := float64(i) / float64(steps)
		angle := thetaA + delta*t
		radius := radiusA + (radiusB-radiusA)*t
		points = append(points, curvePoint{
			world:  begin.world.Add(end.world.Sub(begin.world).Scale(t)),
			screen: math3d.Polar(angle, radius),
		})
	}
	return points
}

// normalizeAngle wraps an angle into (-π, π].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
