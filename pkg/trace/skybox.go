package trace

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxtrace/go-voxel-raytracer/pkg/geom"
)

// Skybox supplies the background color for rays that leave the scene.
// Disabled, it samples flat black. The toggle is session configuration,
// not per-ray state.
type Skybox struct {
	Enabled bool
}

// NewSkybox creates an enabled skybox
func NewSkybox() *Skybox {
	return &Skybox{Enabled: true}
}

var (
	skyHorizon = geom.NewColor(1.0, 0.9, 0.8)
	skyZenith  = geom.NewColor(0.2, 0.5, 1.0)
	skyNadir   = geom.NewColor(0.3, 0.4, 0.6)
)

// Sample maps a normalized ray direction to a background color: a
// vertical gradient in three bands with a faint directional shimmer
func (s *Skybox) Sample(dir mgl64.Vec3) geom.Color {
	if !s.Enabled {
		return geom.Black
	}

	t := mgl64.Clamp(dir.Y()*0.5+0.5, 0, 1)

	var sky geom.Color
	if t > 0.5 {
		smooth := math.Pow((t-0.5)*2, 0.6)
		sky = skyHorizon.Add(skyZenith.Add(skyHorizon.Multiply(-1)).Multiply(smooth))
	} else {
		smooth := math.Pow(t*2, 1.4)
		sky = skyNadir.Add(skyHorizon.Add(skyNadir.Multiply(-1)).Multiply(smooth))
	}

	noise := math.Sin(dir.X()*5+dir.Z()*3) * 0.02
	sky = sky.Add(geom.NewColor(noise, noise*0.5, noise*0.3))
	return sky.Clamp(0, 1)
}
