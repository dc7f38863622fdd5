package trace

import (
	"math"

	"github.com/voxtrace/go-voxel-raytracer/pkg/geom"
	"github.com/voxtrace/go-voxel-raytracer/pkg/voxel"
)

// Shading constants. Lighting is deterministic Blinn-Phong with hard
// shadow rays; the only recursion is mirror reflection, bounded by
// MaxReflections.
const (
	MaxReflections = 3

	ambientStrength   = 0.25
	diffuseStrength   = 0.75
	shadowAttenuation = 0.3
	toneMapStrength   = 0.8

	// reflectivity below this is treated as fully matte
	reflectionCutoff = 0.01
)

// Shader turns hit records into colors. All referenced state (grid,
// materials, lights, skybox toggle) is immutable during a frame, so one
// Shader is safely shared by every render worker.
type Shader struct {
	Table       *voxel.Table
	Lights      []Light
	Sky         *Skybox
	Intersector *Intersector
}

// NewShader wires a shader to a frozen scene
func NewShader(grid *voxel.Grid, table *voxel.Table, lights []Light, sky *Skybox) *Shader {
	return &Shader{
		Table:       table,
		Lights:      lights,
		Sky:         sky,
		Intersector: NewIntersector(grid),
	}
}

// Shade computes the color seen along a ray. depth counts reflection
// bounces and is passed by value, which bounds the recursion without
// any shared state.
func (s *Shader) Shade(ray geom.Ray, depth int) geom.Color {
	if depth > MaxReflections {
		return s.Sky.Sample(ray.Direction)
	}

	hit, ok := s.Intersector.Intersect(ray, MaxRayDist, MaxDDASteps)
	if !ok {
		return s.Sky.Sample(ray.Direction)
	}

	mat := s.Table.Lookup(hit.Material)
	if mat == nil {
		return s.Sky.Sample(ray.Direction)
	}

	base := s.shadeSurface(hit, mat, ray)

	if mat.Reflectivity <= reflectionCutoff || depth >= MaxReflections {
		return base
	}

	reflectDir := geom.Reflect(ray.Direction, hit.Normal)
	reflectRay := geom.NewRay(hit.Point.Add(hit.Normal.Mul(surfaceEpsilon)), reflectDir)
	reflected := s.Shade(reflectRay, depth+1)

	// metals tint the reflection strongly with their own color,
	// dielectrics only mildly
	strength := mat.Reflectivity
	if mat.Metallic > 0.5 {
		tinted := reflected.Modulate(geom.NewColor(
			0.3+base.R*0.7,
			0.3+base.G*0.7,
			0.3+base.B*0.7,
		))
		return base.Multiply(1 - strength*0.5).Add(tinted.Multiply(strength * 0.5))
	}
	tinted := reflected.Modulate(geom.NewColor(
		0.5+base.R*0.5,
		0.5+base.G*0.5,
		0.5+base.B*0.5,
	))
	return base.Multiply(1 - strength*0.4).Add(tinted.Multiply(strength * 0.4))
}

// shadeSurface evaluates direct lighting at a hit: ambient, Lambertian
// diffuse and Phong specular per light with shadow rays, plus emissive
// glow, tone mapped into displayable range
func (s *Shader) shadeSurface(hit Hit, mat *voxel.Material, ray geom.Ray) geom.Color {
	albedo := mat.BaseColor(hit.U, hit.V)

	lightAccum := geom.Black
	for _, light := range s.Lights {
		lightDir, lightDist := light.directionFrom(hit.Point)
		ndotl := hit.Normal.Dot(lightDir)
		if ndotl < 0 {
			ndotl = 0
		}

		shadow := 1.0
		if ndotl > 0.05 {
			shadowRay := geom.NewRay(hit.Point.Add(hit.Normal.Mul(surfaceEpsilon)), lightDir)
			maxDist := math.Min(ShadowRayDist, lightDist)
			if occluder, blocked := s.Intersector.Intersect(shadowRay, maxDist, ShadowRaySteps); blocked && occluder.T < lightDist {
				shadow = shadowAttenuation
			}
		}

		diffuse := ndotl * diffuseStrength

		specular := 0.0
		if mat.Specular > 5 {
			viewDir := geom.SafeNormalize(ray.Origin.Sub(hit.Point))
			reflectDir := geom.Reflect(lightDir.Mul(-1), hit.Normal)
			specDot := viewDir.Dot(reflectDir)
			if specDot > 0 {
				roughnessFactor := 1.0 / (mat.Roughness*50 + 1)
				specular = math.Pow(specDot, mat.Specular*roughnessFactor) * 0.5 * shadow
			}
		}

		contribution := (diffuse + specular) * shadow * light.Intensity
		lightAccum = lightAccum.Add(light.Color.Multiply(contribution))
	}

	lit := albedo.Multiply(ambientStrength).Add(albedo.Modulate(lightAccum))
	return lit.Add(mat.EmissionColor(hit.U, hit.V)).ToneMap(toneMapStrength)
}
