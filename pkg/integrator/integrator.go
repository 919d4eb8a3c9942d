package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms.
// Implementations must be safe for concurrent use by multiple workers as long
// as each worker passes its own sampler.
type Integrator interface {
	// TracePixel returns the averaged linear radiance of pixel (x, y)
	TracePixel(view *View, x, y int, sampler core.Sampler) core.Vec3
}
