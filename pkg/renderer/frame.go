package renderer

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Frame is the linear radiance output of a render. Each pixel is written by
// exactly one tile.
type Frame struct {
	Width, Height int
	Pixels        []core.Vec3 // Row-major, index y*Width+x
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the radiance of pixel (x, y)
func (f *Frame) At(x, y int) core.Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Set stores the radiance of pixel (x, y)
func (f *Frame) Set(x, y int, color core.Vec3) {
	f.Pixels[y*f.Width+x] = color
}

// AverageLuminance returns the mean linear luminance of the frame
func (f *Frame) AverageLuminance() float64 {
	if len(f.Pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range f.Pixels {
		total += p.Luminance()
	}
	return total / float64(len(f.Pixels))
}
