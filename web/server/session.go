package server

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/voxtrace/go-voxel-raytracer/pkg/trace"
)

const (
	// camera units per move command
	moveStep = 0.5
	// orbit radians per dragged pixel
	orbitSensitivity = 0.003
	// pacing floor between frames; rendering slower than this just
	// runs flat out
	frameInterval = 33 * time.Millisecond

	// resize bounds
	minDisplaySize = 64
	maxDisplaySize = 4096
)

// session is one connected viewer: its own live camera, skybox toggle
// and renderer over the shared immutable scene. The render loop is the
// camera's single writer; input is applied from the command channel
// between frames, and each frame works from a snapshot.
type session struct {
	id       uuid.UUID
	writer   *SafeWriter
	camera   *trace.Camera
	sky      *trace.Skybox
	shader   *trace.Shader
	renderer *trace.Renderer
	config   trace.Config
	commands chan Command
	logger   trace.Logger

	// set after a resize so the render loop re-announces dimensions
	announce bool
}

func newSession(writer *SafeWriter, scene *trace.Scene, config trace.Config, logger trace.Logger) *session {
	// per-session skybox so one client's toggle doesn't repaint another's
	sky := trace.NewSkybox()
	shader := trace.NewShader(scene.Grid, scene.Table, scene.Lights, sky)

	return &session{
		id:       uuid.New(),
		writer:   writer,
		camera:   scene.DefaultCamera(),
		sky:      sky,
		shader:   shader,
		renderer: trace.NewRenderer(shader, config, logger),
		config:   config,
		commands: make(chan Command, 64),
		logger:   logger,
	}
}

// run drives the session until the client disconnects or quits
func (s *session) run() {
	s.logger.Printf("session %s: connected\n", s.id)
	go s.readLoop()
	s.renderLoop()
	s.logger.Printf("session %s: closed\n", s.id)
}

// readLoop decodes client commands onto the channel. Closing the
// channel is the disconnect signal for the render loop.
func (s *session) readLoop() {
	defer close(s.commands)
	for {
		var cmd Command
		if err := s.writer.ReadJSON(&cmd); err != nil {
			return
		}
		select {
		case s.commands <- cmd:
		default:
			// input faster than frames; stale commands are droppable
		}
	}
}

func (s *session) renderLoop() {
	// the renderer is swapped on resize, so resolve it at exit time
	defer func() { s.renderer.Stop() }()
	defer s.writer.Close()

	if err := s.sendHello(); err != nil {
		return
	}

	for {
		if !s.applyPending() {
			return
		}
		if s.announce {
			s.announce = false
			if err := s.sendHello(); err != nil {
				return
			}
		}

		frameStart := time.Now()
		fb, stats := s.renderer.RenderFrame(s.camera.Snapshot())
		img := fb.Upscale(s.config.Width, s.config.Height)

		encoded, err := encodeFrame(img)
		if err != nil {
			s.logger.Printf("session %s: encode failed: %v\n", s.id, err)
			return
		}
		msg := FrameMessage{
			Type:         "frame",
			Session:      s.id.String(),
			Frame:        stats.Frame,
			ImageData:    encoded,
			RenderMillis: stats.RenderMillis,
			AvgMillis:    stats.AvgMillis,
			SkyboxOn:     s.sky.Enabled,
		}
		if err := s.writer.WriteJSON(msg); err != nil {
			return
		}

		if remaining := frameInterval - time.Since(frameStart); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// applyPending drains queued input into the live camera. Returns false
// when the client has disconnected or asked to quit.
func (s *session) applyPending() bool {
	for {
		select {
		case cmd, ok := <-s.commands:
			if !ok || cmd.Type == "quit" {
				return false
			}
			s.apply(cmd)
		default:
			return true
		}
	}
}

func (s *session) apply(cmd Command) {
	switch cmd.Type {
	case "move":
		delta := mgl64.Vec3{cmd.DX, cmd.DY, cmd.DZ}.Mul(moveStep)
		s.camera.Translate(delta, cmd.Fast)
	case "orbit":
		s.camera.Orbit(cmd.DX*orbitSensitivity, cmd.DY*orbitSensitivity)
	case "skybox":
		s.sky.Enabled = !s.sky.Enabled
		s.logger.Printf("session %s: skybox %v\n", s.id, s.sky.Enabled)
	case "resize":
		s.resize(cmd.W, cmd.H)
	}
}

// resize swaps the renderer for one sized to the new display. The old
// pool is drained first; frames in flight have already joined.
func (s *session) resize(w, h int) {
	w = clampInt(w, minDisplaySize, maxDisplaySize)
	h = clampInt(h, minDisplaySize, maxDisplaySize)
	if w == s.config.Width && h == s.config.Height {
		return
	}
	s.config.Width = w
	s.config.Height = h
	s.renderer.Stop()
	s.renderer = trace.NewRenderer(s.shader, s.config, s.logger)
	s.announce = true
	s.logger.Printf("session %s: resized to %dx%d\n", s.id, w, h)
}

func (s *session) sendHello() error {
	return s.writer.WriteJSON(HelloMessage{
		Type:    "hello",
		Session: s.id.String(),
		Width:   s.config.Width,
		Height:  s.config.Height,
	})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// encodeFrame converts a frame to the base64 PNG the client paints
func encodeFrame(img *image.RGBA) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
