package voxel

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaterialID identifies a material in the Table. The zero value is Empty.
type MaterialID uint8

// Grid is a fixed-size voxel lattice backed by a flat array indexed by
// coordinate arithmetic. Coordinates outside the bounds are treated as
// empty, which is how rays exit the scene cleanly. The grid is written
// only during scene load and is read-only for the whole render session.
type Grid struct {
	width, height, depth int
	cells                []MaterialID

	occupied int
	// occupied-cell extent, tracked on Set so bounds need no rescan
	minX, minY, minZ int
	maxX, maxY, maxZ int
}

// NewGrid creates an empty grid with the given dimensions
func NewGrid(width, height, depth int) (*Grid, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, &InvalidSceneError{
			Reason: fmt.Sprintf("grid dimensions must be positive, got %dx%dx%d", width, height, depth),
		}
	}
	return &Grid{
		width:  width,
		height: height,
		depth:  depth,
		cells:  make([]MaterialID, width*height*depth),
	}, nil
}

// Size returns the grid dimensions
func (g *Grid) Size() (width, height, depth int) {
	return g.width, g.height, g.depth
}

// OccupiedCount returns the number of non-empty cells
func (g *Grid) OccupiedCount() int {
	return g.occupied
}

func (g *Grid) index(x, y, z int) int {
	return (y*g.depth+z)*g.width + x
}

// inRange reports whether a coordinate is inside the allocated lattice
func (g *Grid) inRange(x, y, z int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height && z >= 0 && z < g.depth
}

// Set places a material at a cell during scene construction. Setting a
// cell outside the declared dimensions is a load-time scene error.
func (g *Grid) Set(x, y, z int, id MaterialID) error {
	if !g.inRange(x, y, z) {
		return &InvalidSceneError{
			Reason: fmt.Sprintf("voxel (%d,%d,%d) outside grid %dx%dx%d", x, y, z, g.width, g.height, g.depth),
		}
	}
	idx := g.index(x, y, z)
	if g.cells[idx] == Empty && id != Empty {
		if g.occupied == 0 {
			g.minX, g.minY, g.minZ = x, y, z
			g.maxX, g.maxY, g.maxZ = x, y, z
		} else {
			g.minX, g.maxX = min(g.minX, x), max(g.maxX, x)
			g.minY, g.maxY = min(g.minY, y), max(g.maxY, y)
			g.minZ, g.maxZ = min(g.minZ, z), max(g.maxZ, z)
		}
		g.occupied++
	}
	g.cells[idx] = id
	return nil
}

// MaterialAt returns the material at a cell. Any coordinate outside the
// grid bounds is empty, never an error.
func (g *Grid) MaterialAt(x, y, z int) MaterialID {
	if !g.inRange(x, y, z) {
		return Empty
	}
	return g.cells[g.index(x, y, z)]
}

// Bounds returns the axis-aligned box enclosing all occupied cells,
// padded slightly so boundary-cell faces sit strictly inside the box.
// An empty grid yields a degenerate box at the origin.
func (g *Grid) Bounds() (bmin, bmax mgl64.Vec3) {
	if g.occupied == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	bmin = mgl64.Vec3{float64(g.minX) - 0.1, float64(g.minY) - 0.1, float64(g.minZ) - 0.1}
	bmax = mgl64.Vec3{float64(g.maxX) + 1.1, float64(g.maxY) + 1.1, float64(g.maxZ) + 1.1}
	return bmin, bmax
}

// Center returns the midpoint of the occupied extent
func (g *Grid) Center() mgl64.Vec3 {
	bmin, bmax := g.Bounds()
	return bmin.Add(bmax).Mul(0.5)
}

// BoundingRadius returns the radius of a sphere around Center enclosing
// every occupied cell, used for initial camera framing
func (g *Grid) BoundingRadius() float64 {
	if g.occupied == 0 {
		return 0
	}
	bmin, bmax := g.Bounds()
	half := bmax.Sub(bmin).Mul(0.5)
	return math.Sqrt(half.X()*half.X() + half.Y()*half.Y() + half.Z()*half.Z())
}
