package voxel

import "fmt"

// InvalidSceneError reports a malformed scene at load time: inconsistent
// grid dimensions, out-of-range cells, or unknown material codes. Scene
// errors are fatal; no partial scene is ever rendered.
type InvalidSceneError struct {
	Path   string // layer file, if the error came from parsing
	Line   int    // 1-based line within the file, 0 if not applicable
	Reason string
}

func (e *InvalidSceneError) Error() string {
	if e.Path != "" {
		if e.Line > 0 {
			return fmt.Sprintf("invalid scene: %s:%d: %s", e.Path, e.Line, e.Reason)
		}
		return fmt.Sprintf("invalid scene: %s: %s", e.Path, e.Reason)
	}
	return "invalid scene: " + e.Reason
}
