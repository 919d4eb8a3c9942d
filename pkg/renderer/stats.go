package renderer

import (
	"time"
)

// WorkerStats records the work done by a single worker
type WorkerStats struct {
	ID     int           // Worker index
	Tiles  int           // Tiles rendered
	Pixels int           // Pixels rendered
	Busy   time.Duration // Time spent rendering tiles
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	SamplesPerPixel int           // Primary rays per pixel
	TotalSamples    int           // Total number of primary rays traced
	Tiles           int           // Number of tiles in the frame
	Emitters        int           // Emissive triangles in the scene
	TotalLightArea  float64       // Sum of the emitter areas
	Workers         []WorkerStats // Per-worker breakdown
	Elapsed         time.Duration // Wall clock time of the render
}

// SamplesPerSecond returns the primary ray throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}
