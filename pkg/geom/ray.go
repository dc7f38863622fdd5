package geom

import "github.com/go-gl/mathgl/mgl64"

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay creates a new ray with a normalized direction
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: SafeNormalize(direction)}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Reflect mirrors an incident direction about a surface normal
func Reflect(incident, normal mgl64.Vec3) mgl64.Vec3 {
	return incident.Sub(normal.Mul(2 * incident.Dot(normal)))
}

// SafeNormalize normalizes a vector, returning the zero vector for
// degenerate input instead of NaNs. Continuous user input can produce
// zero-length deltas, so this must never panic.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	if v.Len() < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Normalize()
}
