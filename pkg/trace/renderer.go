package trace

import (
	"runtime"
	"sync"
	"time"
)

// Config controls frame rendering
type Config struct {
	Width       int // display width in pixels
	Height      int // display height in pixels
	RenderScale int // integer divisor; 2 renders at half resolution and upscales
	NumWorkers  int // parallel band workers (0 = CPU count)
	BandRows    int // rows per work unit
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:       1200,
		Height:      800,
		RenderScale: 1,
		NumWorkers:  0,
		BandRows:    16,
	}
}

func (c Config) normalized() Config {
	if c.RenderScale < 1 {
		c.RenderScale = 1
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = runtime.NumCPU()
	}
	if c.BandRows <= 0 {
		c.BandRows = 16
	}
	return c
}

// FrameStats reports timing for one rendered frame
type FrameStats struct {
	Frame        int
	RenderMillis float64
	AvgMillis    float64
}

// bandTask is one horizontal strip of a frame. Bands never overlap, so
// workers write to the shared framebuffer without locks.
type bandTask struct {
	yMin, yMax int
	camera     Camera
	fb         *FrameBuffer
	done       *sync.WaitGroup
}

// Renderer orchestrates frames: it snapshots nothing itself — callers
// hand it an immutable Camera copy — splits the image into row bands,
// renders them on a persistent worker pool, and joins before returning.
type Renderer struct {
	shader *Shader
	config Config
	logger Logger

	tasks   chan bandTask
	started sync.Once
	wg      sync.WaitGroup

	frameCount int
	times      [60]float64
	timeIndex  int
	timeCount  int
}

// NewRenderer creates a renderer over a shader. Workers start lazily on
// the first frame.
func NewRenderer(shader *Shader, config Config, logger Logger) *Renderer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	cfg := config.normalized()
	return &Renderer{
		shader: shader,
		config: cfg,
		logger: logger,
		tasks:  make(chan bandTask, 256),
	}
}

// Config returns the renderer's normalized configuration
func (r *Renderer) Config() Config {
	return r.config
}

func (r *Renderer) start() {
	r.started.Do(func() {
		for i := 0; i < r.config.NumWorkers; i++ {
			r.wg.Add(1)
			go r.worker()
		}
		r.logger.Printf("renderer: %d workers, %dx%d at 1/%d scale\n",
			r.config.NumWorkers, r.config.Width, r.config.Height, r.config.RenderScale)
	})
}

// Stop shuts the worker pool down. The renderer cannot be reused after.
func (r *Renderer) Stop() {
	r.start() // ensure started so close has workers to release
	close(r.tasks)
	r.wg.Wait()
}

func (r *Renderer) worker() {
	defer r.wg.Done()
	for task := range r.tasks {
		r.renderBand(task)
		task.done.Done()
	}
}

func (r *Renderer) renderBand(task bandTask) {
	width := task.fb.Width()
	height := task.fb.Height()
	for y := task.yMin; y < task.yMax; y++ {
		for x := 0; x < width; x++ {
			ray := task.camera.RayForPixel(x, y, width, height)
			task.fb.SetPixel(x, y, r.shader.Shade(ray, 0))
		}
	}
}

// RenderFrame renders one frame from a camera snapshot and returns the
// framebuffer plus timing stats. Pixels depend only on immutable scene
// state and the snapshot, so bands run fully in parallel.
func (r *Renderer) RenderFrame(camera Camera) (*FrameBuffer, FrameStats) {
	r.start()

	renderW := r.config.Width / r.config.RenderScale
	renderH := r.config.Height / r.config.RenderScale
	fb := NewFrameBuffer(renderW, renderH)

	started := time.Now()

	var done sync.WaitGroup
	for y := 0; y < renderH; y += r.config.BandRows {
		yMax := min(y+r.config.BandRows, renderH)
		done.Add(1)
		r.tasks <- bandTask{yMin: y, yMax: yMax, camera: camera, fb: fb, done: &done}
	}
	done.Wait()

	elapsed := float64(time.Since(started).Microseconds()) / 1000.0

	r.frameCount++
	r.times[r.timeIndex] = elapsed
	r.timeIndex = (r.timeIndex + 1) % len(r.times)
	if r.timeCount < len(r.times) {
		r.timeCount++
	}
	sum := 0.0
	for i := 0; i < r.timeCount; i++ {
		sum += r.times[i]
	}

	return fb, FrameStats{
		Frame:        r.frameCount,
		RenderMillis: elapsed,
		AvgMillis:    sum / float64(r.timeCount),
	}
}
