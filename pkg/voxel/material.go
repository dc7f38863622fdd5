package voxel

import (
	"github.com/voxtrace/go-voxel-raytracer/pkg/geom"
)

// Material IDs. Empty must stay zero so a fresh grid cell is empty.
const (
	Empty MaterialID = iota
	Dirt
	Grass
	Netherrack
	Stone
	Magma
	Gold
	Obsidian
	GlowingObsidian
	StoneStairs
	StoneSlab
	StonePillar
	WoodChest

	materialCount
)

// Material holds the optical properties of one voxel type. Materials
// are plain data shared read-only by all render workers; shading
// behavior lives in the shader, not here.
type Material struct {
	Name         string
	Diffuse      geom.Color
	Reflectivity float64 // [0,1] share of the reflected ray blended in
	Specular     float64 // Blinn-Phong exponent; <=5 means matte
	Roughness    float64
	Metallic     float64 // >0.5 tints reflections with the base color
	Emission     float64 // self-illumination strength, 0 for most
	Texture      *Texture
}

// FromCode maps a scene-file character to a material id.
// '.' and 'V' are empty cells.
func FromCode(code byte) (MaterialID, bool) {
	switch code {
	case 'M':
		return Dirt, true
	case 'T':
		return Grass, true
	case 'P':
		return Netherrack, true
	case 'R':
		return Stone, true
	case 'L':
		return Magma, true
	case 'O':
		return Gold, true
	case 'B':
		return Obsidian, true
	case 'W':
		return GlowingObsidian, true
	case 'S':
		return StoneStairs, true
	case 'Z':
		return StoneSlab, true
	case 'J':
		return StonePillar, true
	case 'C':
		return WoodChest, true
	case '.', 'V':
		return Empty, true
	default:
		return Empty, false
	}
}

// Table maps material ids to their properties. It is a fixed-size array
// rather than a map so lookups in the shading inner loop are a single
// index operation.
type Table struct {
	materials [materialCount]Material
}

// NewTable builds the material table. textureDir is searched for
// <name>.png per material; missing files fall back to the material's
// procedural pattern.
func NewTable(textureDir string) *Table {
	t := &Table{}
	def := func(id MaterialID, m Material) {
		m.Texture = NewTexture(textureDir, m.Name, m.Diffuse)
		t.materials[id] = m
	}

	def(Dirt, Material{
		Name:         "dirt",
		Diffuse:      geom.NewColor(0.5, 0.3, 0.2),
		Reflectivity: 0.0,
		Specular:     2.0,
		Roughness:    0.95,
	})
	def(Grass, Material{
		Name:         "grass",
		Diffuse:      geom.NewColor(0.4, 0.7, 0.2),
		Reflectivity: 0.02,
		Specular:     8.0,
		Roughness:    0.8,
	})
	def(Netherrack, Material{
		Name:         "netherrack",
		Diffuse:      geom.NewColor(0.6, 0.2, 0.2),
		Reflectivity: 0.0,
		Specular:     4.0,
		Roughness:    0.9,
		Emission:     0.15,
	})
	def(Stone, Material{
		Name:         "stone",
		Diffuse:      geom.NewColor(0.5, 0.5, 0.5),
		Reflectivity: 0.05,
		Specular:     18.0,
		Roughness:    0.6,
	})
	def(Magma, Material{
		Name:         "magma",
		Diffuse:      geom.NewColor(0.8, 0.3, 0.1),
		Reflectivity: 0.1,
		Specular:     25.0,
		Roughness:    0.3,
		Emission:     0.8,
	})
	def(Gold, Material{
		Name:         "gold",
		Diffuse:      geom.NewColor(1.0, 0.8, 0.0),
		Reflectivity: 0.3,
		Specular:     120.0,
		Roughness:    0.15,
		Metallic:     1.0,
	})
	def(Obsidian, Material{
		Name:         "obsidian",
		Diffuse:      geom.NewColor(0.15, 0.1, 0.25),
		Reflectivity: 0.2,
		Specular:     90.0,
		Roughness:    0.15,
	})
	def(GlowingObsidian, Material{
		Name:         "glowing_obsidian",
		Diffuse:      geom.NewColor(0.5, 0.3, 0.9),
		Reflectivity: 0.3,
		Specular:     120.0,
		Roughness:    0.1,
		Emission:     1.2,
	})
	def(StoneStairs, Material{
		Name:         "stone_stairs",
		Diffuse:      geom.NewColor(0.6, 0.6, 0.6),
		Reflectivity: 0.05,
		Specular:     15.0,
		Roughness:    0.7,
	})
	def(StoneSlab, Material{
		Name:         "stone_slab",
		Diffuse:      geom.NewColor(0.55, 0.55, 0.55),
		Reflectivity: 0.05,
		Specular:     12.0,
		Roughness:    0.65,
	})
	def(StonePillar, Material{
		Name:         "stone_pillar",
		Diffuse:      geom.NewColor(0.7, 0.7, 0.7),
		Reflectivity: 0.05,
		Specular:     22.0,
		Roughness:    0.4,
	})
	def(WoodChest, Material{
		Name:         "wood_chest",
		Diffuse:      geom.NewColor(0.6, 0.4, 0.2),
		Reflectivity: 0.05,
		Specular:     6.0,
		Roughness:    0.75,
	})

	return t
}

// Lookup returns the material for an id. Empty or out-of-range ids
// return nil.
func (t *Table) Lookup(id MaterialID) *Material {
	if id == Empty || id >= materialCount {
		return nil
	}
	return &t.materials[id]
}

// BaseColor samples the material's surface color at a face UV. Textured
// materials blend a sliver of the flat diffuse back in, matching how
// the atlas colors were tuned.
func (m *Material) BaseColor(u, v float64) geom.Color {
	if m.Texture == nil {
		return m.Diffuse
	}
	return m.Texture.Sample(u, v).Multiply(0.98).Add(m.Diffuse.Multiply(0.02))
}

// EmissionColor returns the self-illumination contribution at a face UV
func (m *Material) EmissionColor(u, v float64) geom.Color {
	if m.Emission <= 0 {
		return geom.Black
	}
	if m.Texture != nil {
		return m.Diffuse.Add(m.Texture.Sample(u, v).Multiply(0.3)).Multiply(m.Emission)
	}
	return m.Diffuse.Multiply(m.Emission)
}
