package trace

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxtrace/go-voxel-raytracer/pkg/geom"
)

// LightKind distinguishes directional lights (a direction, infinitely
// far away) from point lights (a position in the scene)
type LightKind int

const (
	Directional LightKind = iota
	Point
)

// Light is a scene light. The set is fixed for the session and shared
// read-only by all render workers.
type Light struct {
	Kind      LightKind
	Direction mgl64.Vec3 // normalized, pointing from the light into the scene
	Position  mgl64.Vec3 // point lights only
	Color     geom.Color
	Intensity float64
}

// NewDirectionalLight creates a sun-style light shining along dir
func NewDirectionalLight(dir mgl64.Vec3, color geom.Color, intensity float64) Light {
	return Light{
		Kind:      Directional,
		Direction: geom.SafeNormalize(dir),
		Color:     color,
		Intensity: intensity,
	}
}

// NewPointLight creates a light radiating from a position
func NewPointLight(pos mgl64.Vec3, color geom.Color, intensity float64) Light {
	return Light{
		Kind:      Point,
		Position:  pos,
		Color:     color,
		Intensity: intensity,
	}
}

// directionFrom returns the unit direction from a surface point toward
// the light, and the distance to it (infinite for directional lights)
func (l Light) directionFrom(point mgl64.Vec3) (mgl64.Vec3, float64) {
	if l.Kind == Directional {
		return l.Direction.Mul(-1), math.Inf(1)
	}
	toLight := l.Position.Sub(point)
	dist := toLight.Len()
	if dist < 1e-9 {
		return mgl64.Vec3{0, 1, 0}, 0
	}
	return toLight.Mul(1 / dist), dist
}
