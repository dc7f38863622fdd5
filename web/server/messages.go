package server

// Command is an input message from the viewer client. Move deltas are
// camera-local unit steps; orbit deltas are mouse-drag pixels.
type Command struct {
	Type string  `json:"type"` // "move", "orbit", "skybox", "resize", "quit"
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
	DZ   float64 `json:"dz"`
	Fast bool    `json:"fast"`
	W    int     `json:"w"` // resize only
	H    int     `json:"h"`
}

// HelloMessage is sent once when a session opens
type HelloMessage struct {
	Type    string `json:"type"` // "hello"
	Session string `json:"session"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// FrameMessage carries one rendered frame as base64 PNG plus stats
type FrameMessage struct {
	Type         string  `json:"type"` // "frame"
	Session      string  `json:"session"`
	Frame        int     `json:"frame"`
	ImageData    string  `json:"imageData"`
	RenderMillis float64 `json:"renderMillis"`
	AvgMillis    float64 `json:"avgMillis"`
	SkyboxOn     bool    `json:"skyboxOn"`
}
