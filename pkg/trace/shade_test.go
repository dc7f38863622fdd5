package trace

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxtrace/go-voxel-raytracer/pkg/geom"
	"github.com/voxtrace/go-voxel-raytracer/pkg/voxel"
)

func testShader(t *testing.T, build func(*voxel.Grid)) *Shader {
	t.Helper()
	grid, err := voxel.NewGrid(6, 6, 6)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	build(grid)
	return NewShader(grid, voxel.NewTable(""), []Light{DefaultSun()}, NewSkybox())
}

func TestShadeMissSamplesSkybox(t *testing.T) {
	s := testShader(t, func(g *voxel.Grid) {})

	ray := geom.NewRay(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 1, 0})
	if got, want := s.Shade(ray, 0), s.Sky.Sample(ray.Direction); got != want {
		t.Errorf("miss shade = %v, want skybox sample %v", got, want)
	}

	s.Sky.Enabled = false
	if got := s.Shade(ray, 0); got != geom.Black {
		t.Errorf("miss with skybox off = %v, want black", got)
	}
}

func TestShadeDepthCutoff(t *testing.T) {
	s := testShader(t, func(g *voxel.Grid) {
		g.Set(0, 0, 0, voxel.Gold)
	})

	// past the bounce budget even a direct hit resolves as background
	ray := geom.NewRay(mgl64.Vec3{-5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0})
	if got, want := s.Shade(ray, MaxReflections+1), s.Sky.Sample(ray.Direction); got != want {
		t.Errorf("over-depth shade = %v, want skybox sample %v", got, want)
	}
}

func TestShadeShadowAttenuation(t *testing.T) {
	lit := testShader(t, func(g *voxel.Grid) {
		g.Set(2, 0, 2, voxel.Stone)
	})
	// same floor voxel plus a block sitting on the path to the sun
	shadowed := testShader(t, func(g *voxel.Grid) {
		g.Set(2, 0, 2, voxel.Stone)
		g.Set(3, 2, 3, voxel.Stone)
	})
	unlit := testShader(t, func(g *voxel.Grid) {
		g.Set(2, 0, 2, voxel.Stone)
	})
	unlit.Lights = nil

	ray := geom.NewRay(mgl64.Vec3{2.5, 5, 2.5}, mgl64.Vec3{0, -1, 0})
	litColor := lit.Shade(ray, 0)
	shadowColor := shadowed.Shade(ray, 0)
	ambientColor := unlit.Shade(ray, 0)

	if shadowColor.Luminance() >= litColor.Luminance() {
		t.Errorf("shadowed %v should be darker than lit %v", shadowColor, litColor)
	}
	// shadows attenuate, they do not erase the light entirely
	if shadowColor.Luminance() <= ambientColor.Luminance() {
		t.Errorf("shadowed %v should stay brighter than ambient-only %v", shadowColor, ambientColor)
	}
	if ambientColor.Luminance() <= 0 {
		t.Error("ambient term should keep unlit surfaces visible")
	}
}

func TestShadeEmission(t *testing.T) {
	glow := testShader(t, func(g *voxel.Grid) {
		g.Set(0, 0, 0, voxel.GlowingObsidian)
	})
	dark := testShader(t, func(g *voxel.Grid) {
		g.Set(0, 0, 0, voxel.Obsidian)
	})
	// no lights: only ambient and emission remain
	glow.Lights = nil
	dark.Lights = nil

	ray := geom.NewRay(mgl64.Vec3{0.5, 5, 0.5}, mgl64.Vec3{0, -1, 0})
	if g, d := glow.Shade(ray, 0), dark.Shade(ray, 0); g.Luminance() <= d.Luminance() {
		t.Errorf("emissive block %v should outshine plain obsidian %v", g, d)
	}
}

func TestShadeReflectionTracesScene(t *testing.T) {
	// a gold face reflecting an emissive block must differ from the same
	// face reflecting empty sky
	mirrorOnly := testShader(t, func(g *voxel.Grid) {
		g.Set(4, 0, 2, voxel.Gold)
	})
	withPartner := testShader(t, func(g *voxel.Grid) {
		g.Set(4, 0, 2, voxel.Gold)
		g.Set(0, 0, 2, voxel.GlowingObsidian)
	})

	ray := geom.NewRay(mgl64.Vec3{2.5, 0.5, 2.5}, mgl64.Vec3{1, 0, 0})
	a := mirrorOnly.Shade(ray, 0)
	b := withPartner.Shade(ray, 0)
	if a == b {
		t.Error("reflection should pick up the facing block")
	}
}

func TestShadeMutualReflectionTerminates(t *testing.T) {
	s := testShader(t, func(g *voxel.Grid) {
		g.Set(0, 0, 2, voxel.Gold)
		g.Set(4, 0, 2, voxel.Gold)
	})

	// bounce between the facing mirrors; recursion depth bounds the work
	ray := geom.NewRay(mgl64.Vec3{2.5, 0.5, 2.5}, mgl64.Vec3{1, 0, 0})
	c := s.Shade(ray, 0)
	for _, ch := range []float64{c.R, c.G, c.B} {
		if math.IsNaN(ch) || math.IsInf(ch, 0) {
			t.Fatalf("mutual reflection produced %v", c)
		}
	}
	if got := s.Shade(ray, 0); got != c {
		t.Error("shading must be deterministic")
	}
}

// inverseToneMap undoes x/(1+k*x) to recover the linear lighting term
func inverseToneMap(y, k float64) float64 {
	return y / (1 - k*y)
}

func TestShadeLambertTopFace(t *testing.T) {
	// straight-down white light on a matte top face: ndotl is exactly 1,
	// no specular, no reflection, so the shaded color is the albedo times
	// (ambient + diffuse) = 1.0, tone mapped
	grid, err := voxel.NewGrid(4, 4, 4)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	grid.Set(0, 0, 0, voxel.Dirt)
	table := voxel.NewTable("")
	light := NewDirectionalLight(mgl64.Vec3{0, -1, 0}, geom.White, 1.0)
	s := NewShader(grid, table, []Light{light}, NewSkybox())

	ray := geom.NewRay(mgl64.Vec3{0.5, 5, 0.5}, mgl64.Vec3{0, -1, 0})
	got := s.Shade(ray, 0)

	albedo := table.Lookup(voxel.Dirt).BaseColor(0.5, 0.5)
	want := albedo.Multiply(ambientStrength + diffuseStrength).ToneMap(toneMapStrength)
	for i, pair := range [][2]float64{{got.R, want.R}, {got.G, want.G}, {got.B, want.B}} {
		if math.Abs(pair[0]-pair[1]) > 1e-12 {
			t.Errorf("channel %d = %v, want analytic %v", i, pair[0], pair[1])
		}
	}
}

func TestShadeShadowFactorRecovered(t *testing.T) {
	// same matte floor under a straight-down light, once open and once
	// with a block hanging over it. Inverting the tone map on both
	// results recovers the direct term and hence the exact attenuation
	// factor an occluded light keeps.
	light := NewDirectionalLight(mgl64.Vec3{0, -1, 0}, geom.White, 1.0)
	table := voxel.NewTable("")

	floor := func(g *voxel.Grid) { g.Set(2, 0, 2, voxel.Dirt) }
	open, _ := voxel.NewGrid(6, 6, 6)
	floor(open)
	covered, _ := voxel.NewGrid(6, 6, 6)
	floor(covered)
	covered.Set(2, 3, 2, voxel.Stone)

	// the primary ray comes in at a slant so the overhang never blocks
	// it, only the vertical shadow ray
	ray := geom.NewRay(mgl64.Vec3{2.5, 5, 6}, mgl64.Vec3{0, -4, -3.5})

	shadeFloor := func(g *voxel.Grid) geom.Color {
		s := NewShader(g, table, []Light{light}, NewSkybox())
		hit, ok := s.Intersector.Intersect(ray, MaxRayDist, MaxDDASteps)
		if !ok || hit.Material != voxel.Dirt {
			t.Fatalf("ray did not land on the floor voxel (ok=%v)", ok)
		}
		return s.Shade(ray, 0)
	}
	litColor := shadeFloor(open)
	shadowColor := shadeFloor(covered)

	// per channel: color = albedo*(ambient + diffuse*shadow) tone mapped
	albedo := table.Lookup(voxel.Dirt).BaseColor(0.5, 0.5)
	factorFrom := func(c geom.Color) float64 {
		return (inverseToneMap(c.R, toneMapStrength)/albedo.R - ambientStrength) / diffuseStrength
	}
	if f := factorFrom(litColor); math.Abs(f-1.0) > 1e-9 {
		t.Errorf("unoccluded light factor = %v, want 1.0", f)
	}
	if f := factorFrom(shadowColor); math.Abs(f-shadowAttenuation) > 1e-9 {
		t.Errorf("occluded light factor = %v, want %v", f, shadowAttenuation)
	}
}

func TestShadeMatteMaterialIgnoresReflection(t *testing.T) {
	s := testShader(t, func(g *voxel.Grid) {
		g.Set(2, 0, 2, voxel.Dirt)
		// a bright emissive neighbor that a reflective surface would pick up
		g.Set(2, 0, 0, voxel.GlowingObsidian)
	})

	ray := geom.NewRay(mgl64.Vec3{2.5, 5, 2.5}, mgl64.Vec3{0, -1, 0})
	atDepthZero := s.Shade(ray, 0)
	atMaxDepth := s.Shade(ray, MaxReflections)
	if atDepthZero != atMaxDepth {
		t.Error("matte dirt should shade identically at any depth")
	}
}
