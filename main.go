package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/voxtrace/go-voxel-raytracer/pkg/trace"
	"github.com/voxtrace/go-voxel-raytracer/pkg/voxel"
	"github.com/voxtrace/go-voxel-raytracer/web/server"
)

func main() {
	var (
		sceneDir   = flag.String("scene", "layers", "directory holding the layer files")
		textureDir = flag.String("textures", "images", "directory holding material textures")
		width      = flag.Int("width", 1200, "display width in pixels")
		height     = flag.Int("height", 800, "display height in pixels")
		scale      = flag.Int("scale", 1, "render at display/scale resolution, upscale for display")
		workers    = flag.Int("workers", 0, "render workers (0 = all CPUs)")
		serve      = flag.Bool("serve", false, "serve the interactive viewer instead of rendering once")
		port       = flag.Int("port", 8080, "viewer HTTP port")
		staticDir  = flag.String("static", "web/static", "viewer static assets directory")
		outputDir  = flag.String("output", "output", "headless render output directory")
	)
	flag.Parse()

	logger := trace.NewDefaultLogger()

	grid, err := voxel.LoadLayers(*sceneDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading scene: %v\n", err)
		os.Exit(1)
	}
	w, h, d := grid.Size()
	logger.Printf("scene: %dx%dx%d grid, %d voxels occupied\n", w, h, d, grid.OccupiedCount())

	table := voxel.NewTable(*textureDir)
	scene := trace.NewScene(grid, table)

	config := trace.Config{
		Width:       *width,
		Height:      *height,
		RenderScale: *scale,
		NumWorkers:  *workers,
	}

	if *serve {
		srv := server.NewServer(scene, config, *port, *staticDir, logger)
		if err := srv.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "server: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := renderOnce(scene, config, *outputDir, logger); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

// renderOnce produces a single frame from the default camera and writes
// it as a timestamped PNG.
func renderOnce(scene *trace.Scene, config trace.Config, outputDir string, logger trace.Logger) error {
	renderer := trace.NewRenderer(scene.Shader(), config, logger)
	defer renderer.Stop()

	camera := scene.DefaultCamera()
	fb, stats := renderer.RenderFrame(camera.Snapshot())
	img := fb.Upscale(config.Width, config.Height)
	logger.Printf("rendered %dx%d in %.1fms\n", config.Width, config.Height, stats.RenderMillis)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	name := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return err
	}
	logger.Printf("render saved as %s\n", name)
	return nil
}
