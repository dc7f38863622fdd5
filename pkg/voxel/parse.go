package voxel

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scene layers live in one text file per y-level. Rows are z, columns
// are x, one material code per cell.
const (
	layerFilePattern = "Capa %d.txt"
	maxLayers        = 64
)

// LoadLayers reads the layer files from dir and assembles the voxel
// grid. Grid dimensions come from the widest row, the deepest file, and
// the number of layers present; every file must fit inside them. An
// unknown material code is a fatal InvalidSceneError. If dir has no
// layer files at all, the built-in test diorama is returned instead.
func LoadLayers(dir string) (*Grid, error) {
	type layer struct {
		path string
		rows []string
	}

	var layers []layer
	for i := 1; i <= maxLayers; i++ {
		path := filepath.Join(dir, fmt.Sprintf(layerFilePattern, i))
		content, err := os.ReadFile(path)
		if err != nil {
			break
		}
		rows := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
		// trailing newline yields one empty row; drop it
		for len(rows) > 0 && rows[len(rows)-1] == "" {
			rows = rows[:len(rows)-1]
		}
		layers = append(layers, layer{path: path, rows: rows})
	}

	if len(layers) == 0 {
		return TestDiorama()
	}

	width, depth := 0, 0
	for _, l := range layers {
		depth = max(depth, len(l.rows))
		for _, row := range l.rows {
			width = max(width, len(row))
		}
	}
	if width == 0 || depth == 0 {
		return nil, &InvalidSceneError{Path: layers[0].path, Reason: "layer files contain no cells"}
	}

	grid, err := NewGrid(width, len(layers), depth)
	if err != nil {
		return nil, err
	}

	for y, l := range layers {
		for z, row := range l.rows {
			for x := 0; x < len(row); x++ {
				id, ok := FromCode(row[x])
				if !ok {
					return nil, &InvalidSceneError{
						Path:   l.path,
						Line:   z + 1,
						Reason: fmt.Sprintf("unknown material code %q", row[x]),
					}
				}
				if id == Empty {
					continue
				}
				if err := grid.Set(x, y, z, id); err != nil {
					return nil, err
				}
			}
		}
	}

	return grid, nil
}

// TestDiorama builds the 16x16 checkered floor used when no layer files
// are available, so the renderer always has something to show.
func TestDiorama() (*Grid, error) {
	grid, err := NewGrid(16, 1, 16)
	if err != nil {
		return nil, err
	}
	pattern := []MaterialID{Grass, Stone, Gold, GlowingObsidian, Dirt}
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			if err := grid.Set(x, 0, z, pattern[(x+z)%len(pattern)]); err != nil {
				return nil, err
			}
		}
	}
	return grid, nil
}
