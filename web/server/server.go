package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/voxtrace/go-voxel-raytracer/pkg/trace"
)

// Server exposes the interactive viewer: a static client page plus a
// websocket endpoint that streams frames and accepts camera commands.
type Server struct {
	port      int
	staticDir string
	scene     *trace.Scene
	config    trace.Config
	logger    trace.Logger
	upgrader  websocket.Upgrader
}

// NewServer creates a viewer server over a loaded scene
func NewServer(scene *trace.Scene, config trace.Config, port int, staticDir string, logger trace.Logger) *Server {
	if logger == nil {
		logger = trace.NewDefaultLogger()
	}
	return &Server{
		port:      port,
		staticDir: staticDir,
		scene:     scene,
		config:    config,
		logger:    logger,
		upgrader: websocket.Upgrader{
			// frames are large; give the write side room
			WriteBufferSize: 1 << 20,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Start blocks serving HTTP until the listener fails
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/health", s.handleHealth)

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Printf("viewer on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleWS upgrades the connection and hands it a session goroutine
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("ws upgrade failed: %v\n", err)
		return
	}
	sess := newSession(NewSafeWriter(conn), s.scene, s.config, s.logger)
	go sess.run()
}
