package trace

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxtrace/go-voxel-raytracer/pkg/geom"
	"github.com/voxtrace/go-voxel-raytracer/pkg/voxel"
)

// Scene bundles everything a frame reads: the frozen grid, the material
// table, the session lights and the skybox. All of it is immutable once
// rendering starts except the skybox toggle, which is flipped between
// frames by the owning loop.
type Scene struct {
	Grid   *voxel.Grid
	Table  *voxel.Table
	Lights []Light
	Sky    *Skybox
}

// NewScene creates a scene lit by the default sun
func NewScene(grid *voxel.Grid, table *voxel.Table) *Scene {
	return &Scene{
		Grid:   grid,
		Table:  table,
		Lights: []Light{DefaultSun()},
		Sky:    NewSkybox(),
	}
}

// DefaultSun is the session's directional light
func DefaultSun() Light {
	return NewDirectionalLight(mgl64.Vec3{-0.6, -0.8, -0.4}, geom.White, 1.2)
}

// Shader builds the shader for this scene
func (s *Scene) Shader() *Shader {
	return NewShader(s.Grid, s.Table, s.Lights, s.Sky)
}

// DefaultCamera frames the whole structure: pulled back two and a half
// bounding radii, slightly above, looking at the center
func (s *Scene) DefaultCamera() *Camera {
	center := s.Grid.Center()
	distance := s.Grid.BoundingRadius() * 2.5
	if distance == 0 {
		distance = 10
	}
	eye := center.Add(mgl64.Vec3{distance * 0.7, distance * 0.4, distance * 0.7})
	return NewCamera(eye, center, mgl64.Vec3{0, 1, 0}, 45)
}
