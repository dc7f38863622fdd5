package trace

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/voxtrace/go-voxel-raytracer/pkg/geom"
	"github.com/voxtrace/go-voxel-raytracer/pkg/voxel"
)

// Traversal limits. The step cap converts direction-vector degeneracies
// into a deterministic miss instead of an unbounded loop.
const (
	MaxRayDist  = 50.0
	MaxDDASteps = 100

	ShadowRayDist  = 20.0
	ShadowRaySteps = 50

	// secondary rays start this far along the normal to avoid
	// self-intersection acne on the face they left
	surfaceEpsilon = 1e-4

	// direction components below this never cross their axis
	axisEpsilon = 1e-6
)

// Hit describes the nearest occupied voxel along a ray
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3 // axis-aligned, one of ±x/±y/±z
	T        float64
	Material voxel.MaterialID
	U, V     float64 // texture coordinate on the entered face
}

// Intersector answers nearest-hit queries against a voxel grid using
// incremental 3D-DDA traversal
type Intersector struct {
	grid *voxel.Grid
}

// NewIntersector creates an intersector over a frozen grid
func NewIntersector(grid *voxel.Grid) *Intersector {
	return &Intersector{grid: grid}
}

// Intersect walks the ray through the grid and returns the first
// occupied cell within maxDist, or false for a miss. Cells are visited
// by always stepping the axis with the smallest next-boundary distance;
// ties break in fixed x, y, z order so edge grazes are deterministic.
func (it *Intersector) Intersect(ray geom.Ray, maxDist float64, maxSteps int) (Hit, bool) {
	if it.grid.OccupiedCount() == 0 {
		return Hit{}, false
	}

	bmin, bmax := it.grid.Bounds()

	// clip the ray to the grid box with the slab method, remembering
	// which slab produced the entry point for the entry-face normal
	tmin, tmaxBox := 0.0, maxDist
	entryAxis := -1
	for axis := 0; axis < 3; axis++ {
		ro, rd := ray.Origin[axis], ray.Direction[axis]
		if math.Abs(rd) < axisEpsilon {
			if ro < bmin[axis] || ro > bmax[axis] {
				return Hit{}, false
			}
			continue
		}
		invD := 1.0 / rd
		t0 := (bmin[axis] - ro) * invD
		t1 := (bmax[axis] - ro) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
			entryAxis = axis
		}
		if t1 < tmaxBox {
			tmaxBox = t1
		}
		if tmaxBox < tmin {
			return Hit{}, false
		}
	}

	tEntry := tmin
	if tmin <= 0 {
		// origin is inside the box: there is no entry face
		tEntry = 0
		entryAxis = -1
	}
	start := ray.At(tEntry)

	cx := int(math.Floor(start[0]))
	cy := int(math.Floor(start[1]))
	cz := int(math.Floor(start[2]))
	cell := [3]int{cx, cy, cz}

	var step [3]int
	var tDelta, tMax [3]float64
	for axis := 0; axis < 3; axis++ {
		rd := ray.Direction[axis]
		if rd > 0 {
			step[axis] = 1
		} else {
			step[axis] = -1
		}
		if math.Abs(rd) < axisEpsilon {
			tDelta[axis] = math.Inf(1)
			tMax[axis] = math.Inf(1)
			continue
		}
		tDelta[axis] = 1.0 / math.Abs(rd)
		var nextBoundary float64
		if rd > 0 {
			nextBoundary = math.Floor(start[axis]) + 1
		} else {
			nextBoundary = math.Floor(start[axis])
		}
		tMax[axis] = math.Abs(nextBoundary-start[axis]) / math.Abs(rd)
	}

	limitMin := [3]int{int(math.Floor(bmin[0])), int(math.Floor(bmin[1])), int(math.Floor(bmin[2]))}
	limitMax := [3]int{int(math.Ceil(bmax[0])), int(math.Ceil(bmax[1])), int(math.Ceil(bmax[2]))}

	lastAxis := -1 // axis stepped to reach the current cell; -1 until the first step

	for i := 0; i < maxSteps; i++ {
		if cell[0] < limitMin[0] || cell[1] < limitMin[1] || cell[2] < limitMin[2] ||
			cell[0] > limitMax[0] || cell[1] > limitMax[1] || cell[2] > limitMax[2] {
			break
		}

		if id := it.grid.MaterialAt(cell[0], cell[1], cell[2]); id != voxel.Empty {
			var tHit float64
			faceAxis := lastAxis
			if lastAxis >= 0 {
				tHit = tEntry + tMax[lastAxis] - tDelta[lastAxis]
			} else {
				// first visited cell: entered through the box boundary,
				// or the ray started inside it
				tHit = tEntry
				faceAxis = entryAxis
			}
			if tHit > maxDist {
				break
			}

			normal := faceNormal(faceAxis, ray.Direction)
			point := ray.At(tHit)
			u, v := faceUV(point, cell, normal)

			return Hit{
				Point:    point,
				Normal:   normal,
				T:        tHit,
				Material: id,
				U:        u,
				V:        v,
			}, true
		}

		// advance along the axis with the nearest boundary; <= keeps
		// the x,y,z preference on exact ties
		if tMax[0] <= tMax[1] && tMax[0] <= tMax[2] {
			cell[0] += step[0]
			tMax[0] += tDelta[0]
			lastAxis = 0
		} else if tMax[1] <= tMax[2] {
			cell[1] += step[1]
			tMax[1] += tDelta[1]
			lastAxis = 1
		} else {
			cell[2] += step[2]
			tMax[2] += tDelta[2]
			lastAxis = 2
		}
	}

	return Hit{}, false
}

// faceNormal returns the axis-aligned normal of the face crossed to
// enter a cell. With no known face (ray born inside the cell) it points
// up, matching how the shader biases secondary rays.
func faceNormal(axis int, dir mgl64.Vec3) mgl64.Vec3 {
	if axis < 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	var n mgl64.Vec3
	if dir[axis] > 0 {
		n[axis] = -1
	} else {
		n[axis] = 1
	}
	return n
}

// faceUV maps a hit point to [0,1) texture coordinates on the entered
// face of its unit cell
func faceUV(point mgl64.Vec3, cell [3]int, normal mgl64.Vec3) (float64, float64) {
	fx := point[0] - float64(cell[0])
	fy := point[1] - float64(cell[1])
	fz := point[2] - float64(cell[2])

	switch {
	case math.Abs(normal[0]) > 0.5:
		return wrap01(fz), 1 - wrap01(fy)
	case math.Abs(normal[1]) > 0.5:
		return wrap01(fx), 1 - wrap01(fz)
	default:
		return wrap01(fx), 1 - wrap01(fy)
	}
}

func wrap01(v float64) float64 {
	w := v - math.Floor(v)
	if w < 0 {
		w += 1
	}
	return w
}
