package server

import (
	"sync"

	"github.com/gorilla/websocket"
)

// SafeWriter serializes writes to a websocket connection. The session's
// render loop is the only message writer, but Close on teardown can
// race a frame still being written, and gorilla permits only one
// writer on the connection at a time.
type SafeWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewSafeWriter wraps a websocket connection
func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{conn: conn}
}

// WriteJSON writes a JSON message, serialized with other writers
func (w *SafeWriter) WriteJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

// ReadJSON reads a JSON message. Reading is single-goroutine by
// construction (only the session's read loop calls it).
func (w *SafeWriter) ReadJSON(v interface{}) error {
	return w.conn.ReadJSON(v)
}

// Close closes the underlying connection
func (w *SafeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.Close()
}
