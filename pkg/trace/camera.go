package trace

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxtrace/go-voxel-raytracer/pkg/geom"
)

// Camera movement constants
const (
	FastMoveFactor = 3.0
	maxPitch       = 1.5 // radians, keeps the orbit off the poles
)

// Camera holds an eye/target pose and projects pixels to world rays.
// The render loop is its single writer; a frame always works from a
// Snapshot so input arriving mid-frame cannot tear a render pass.
type Camera struct {
	eye, target, worldUp mgl64.Vec3
	vfovDeg              float64

	// orthonormal basis, rebuilt after every mutation
	forward, right, up mgl64.Vec3
}

// NewCamera creates a camera looking from eye toward target
func NewCamera(eye, target, worldUp mgl64.Vec3, vfovDeg float64) *Camera {
	c := &Camera{eye: eye, target: target, worldUp: worldUp, vfovDeg: vfovDeg}
	c.updateBasis()
	return c
}

// updateBasis rebuilds the orthonormal frame. Degenerate poses (eye on
// target, forward parallel to up) are clamped to a safe default rather
// than surfaced as errors; they come from continuous user input.
func (c *Camera) updateBasis() {
	c.forward = geom.SafeNormalize(c.target.Sub(c.eye))
	if c.forward.Len() == 0 {
		c.forward = mgl64.Vec3{0, 0, -1}
	}
	up := c.worldUp
	if up.Len() < 1e-9 {
		up = mgl64.Vec3{0, 1, 0}
	}
	c.right = geom.SafeNormalize(c.forward.Cross(up))
	if c.right.Len() == 0 {
		// forward is parallel to up; pick any perpendicular axis
		c.right = geom.SafeNormalize(c.forward.Cross(mgl64.Vec3{1, 0, 0}))
		if c.right.Len() == 0 {
			c.right = mgl64.Vec3{0, 0, 1}
		}
	}
	c.up = c.right.Cross(c.forward)
}

// Eye returns the camera position
func (c Camera) Eye() mgl64.Vec3 { return c.eye }

// Target returns the orbit center / look-at point
func (c Camera) Target() mgl64.Vec3 { return c.target }

// Forward returns the unit view direction
func (c Camera) Forward() mgl64.Vec3 { return c.forward }

// Right returns the unit camera-right axis
func (c Camera) Right() mgl64.Vec3 { return c.right }

// Up returns the unit camera-up axis
func (c Camera) Up() mgl64.Vec3 { return c.up }

// RayForPixel converts a pixel coordinate to a world-space ray using a
// perspective projection. Pure with respect to camera state.
func (c Camera) RayForPixel(px, py, width, height int) geom.Ray {
	aspect := float64(width) / float64(height)
	fov := math.Tan(mgl64.DegToRad(c.vfovDeg))

	ndcX := ((float64(px)+0.5)/float64(width))*2 - 1
	ndcY := 1 - ((float64(py)+0.5)/float64(height))*2

	direction := c.right.Mul(ndcX * aspect * fov).
		Add(c.up.Mul(ndcY * fov)).
		Add(c.forward)

	return geom.NewRay(c.eye, direction)
}

// Translate moves eye and target together by a camera-local delta:
// X along camera right, Y along world up, Z along the view direction.
// fast applies the sprint multiplier.
func (c *Camera) Translate(local mgl64.Vec3, fast bool) {
	speed := 1.0
	if fast {
		speed = FastMoveFactor
	}
	offset := c.right.Mul(local.X() * speed).
		Add(mgl64.Vec3{0, local.Y() * speed, 0}).
		Add(c.forward.Mul(local.Z() * speed))

	c.eye = c.eye.Add(offset)
	c.target = c.target.Add(offset)
	c.updateBasis()
}

// Orbit rotates the eye around the target by yaw/pitch deltas in
// radians, keeping the orbit radius. Pitch is clamped away from the
// poles so the basis never collapses.
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	relative := c.eye.Sub(c.target)
	radius := relative.Len()
	if radius < 1e-9 {
		return
	}

	theta := math.Atan2(relative.Z(), relative.X()) + deltaYaw
	phi := math.Asin(mgl64.Clamp(relative.Y()/radius, -1, 1)) + deltaPitch
	phi = mgl64.Clamp(phi, -maxPitch, maxPitch)

	c.eye = c.target.Add(mgl64.Vec3{
		radius * math.Cos(phi) * math.Cos(theta),
		radius * math.Sin(phi),
		radius * math.Cos(phi) * math.Sin(theta),
	})
	c.updateBasis()
}

// Snapshot returns an immutable copy of the camera for one frame's
// worth of parallel pixel work
func (c *Camera) Snapshot() Camera {
	return *c
}
