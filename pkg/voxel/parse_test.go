package voxel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeLayer(t *testing.T, dir string, n int, content string) {
	t.Helper()
	path := filepath.Join(dir, layerFileName(n))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing layer %d: %v", n, err)
	}
}

func layerFileName(n int) string {
	return "Capa " + string(rune('0'+n)) + ".txt"
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	writeLayer(t, dir, 1, "RRR\nR.R\nRRR\n")
	writeLayer(t, dir, 2, "...\n.O.\n...\n")

	grid, err := LoadLayers(dir)
	if err != nil {
		t.Fatalf("LoadLayers failed: %v", err)
	}

	w, h, d := grid.Size()
	if w != 3 || h != 2 || d != 3 {
		t.Errorf("Size = %dx%dx%d, want 3x2x3", w, h, d)
	}
	if got := grid.MaterialAt(0, 0, 0); got != Stone {
		t.Errorf("(0,0,0) = %v, want Stone", got)
	}
	if got := grid.MaterialAt(1, 0, 1); got != Empty {
		t.Errorf("(1,0,1) = %v, want Empty", got)
	}
	if got := grid.MaterialAt(1, 1, 1); got != Gold {
		t.Errorf("(1,1,1) = %v, want Gold", got)
	}
	if got := grid.OccupiedCount(); got != 9 {
		t.Errorf("OccupiedCount = %d, want 9", got)
	}
}

func TestLoadLayersRaggedRows(t *testing.T) {
	// shorter rows and files are padded with empty, never an error
	dir := t.TempDir()
	writeLayer(t, dir, 1, "RR\nRRRR\nR\n")

	grid, err := LoadLayers(dir)
	if err != nil {
		t.Fatalf("LoadLayers failed: %v", err)
	}
	w, _, d := grid.Size()
	if w != 4 || d != 3 {
		t.Errorf("Size = %dx%d (x,z), want 4x3", w, d)
	}
	if got := grid.MaterialAt(3, 0, 0); got != Empty {
		t.Errorf("cell beyond short row = %v, want Empty", got)
	}
}

func TestLoadLayersWindowsLineEndings(t *testing.T) {
	dir := t.TempDir()
	writeLayer(t, dir, 1, "RR\r\nRR\r\n")

	grid, err := LoadLayers(dir)
	if err != nil {
		t.Fatalf("LoadLayers failed: %v", err)
	}
	if got := grid.OccupiedCount(); got != 4 {
		t.Errorf("OccupiedCount = %d, want 4", got)
	}
}

func TestLoadLayersUnknownCode(t *testing.T) {
	dir := t.TempDir()
	writeLayer(t, dir, 1, "R\n")
	writeLayer(t, dir, 2, ".\nX\n")

	_, err := LoadLayers(dir)
	var sceneErr *InvalidSceneError
	if !errors.As(err, &sceneErr) {
		t.Fatalf("error = %v, want *InvalidSceneError", err)
	}
	if sceneErr.Line != 2 {
		t.Errorf("error line = %d, want 2", sceneErr.Line)
	}
	if sceneErr.Path == "" {
		t.Error("error should carry the offending file path")
	}
}

func TestLoadLayersFallbackDiorama(t *testing.T) {
	grid, err := LoadLayers(t.TempDir())
	if err != nil {
		t.Fatalf("LoadLayers on empty dir failed: %v", err)
	}
	w, h, d := grid.Size()
	if w != 16 || h != 1 || d != 16 {
		t.Errorf("fallback Size = %dx%dx%d, want 16x1x16", w, h, d)
	}
	if got := grid.OccupiedCount(); got != 256 {
		t.Errorf("fallback OccupiedCount = %d, want 256", got)
	}
	// checker cycle: (x+z)%5 over Grass,Stone,Gold,GlowingObsidian,Dirt
	if got := grid.MaterialAt(0, 0, 0); got != Grass {
		t.Errorf("fallback (0,0,0) = %v, want Grass", got)
	}
	if got := grid.MaterialAt(2, 0, 0); got != Gold {
		t.Errorf("fallback (2,0,0) = %v, want Gold", got)
	}
}

func TestLoadLayersStopsAtGap(t *testing.T) {
	// layer numbering must be contiguous from 1; a gap ends the scene
	dir := t.TempDir()
	writeLayer(t, dir, 1, "R\n")
	writeLayer(t, dir, 3, "O\n")

	grid, err := LoadLayers(dir)
	if err != nil {
		t.Fatalf("LoadLayers failed: %v", err)
	}
	_, h, _ := grid.Size()
	if h != 1 {
		t.Errorf("height = %d, want 1 (layer after gap ignored)", h)
	}
}
