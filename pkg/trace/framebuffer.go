package trace

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/voxtrace/go-voxel-raytracer/pkg/geom"
)

// FrameBuffer accumulates one frame of pixels. It is owned exclusively
// by the renderer while a frame is in flight; band workers write
// disjoint rows, so no locking is needed.
type FrameBuffer struct {
	img           *image.RGBA
	width, height int
}

// NewFrameBuffer allocates a width x height buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}
}

// Width returns the buffer width in pixels
func (fb *FrameBuffer) Width() int { return fb.width }

// Height returns the buffer height in pixels
func (fb *FrameBuffer) Height() int { return fb.height }

// SetPixel writes a linear color to a pixel, applying display gamma
// and clamping exactly once
func (fb *FrameBuffer) SetPixel(x, y int, c geom.Color) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}
	fb.img.SetRGBA(x, y, c.ToRGBA())
}

// Image returns the underlying RGBA image
func (fb *FrameBuffer) Image() *image.RGBA {
	return fb.img
}

// Upscale resizes the frame to the display resolution. Frames rendered
// at a reduced scale are smoothed on the way up, matching how the
// original presents low-res passes.
func (fb *FrameBuffer) Upscale(width, height int) *image.RGBA {
	if width == fb.width && height == fb.height {
		return fb.img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), fb.img, fb.img.Bounds(), xdraw.Src, nil)
	return dst
}
