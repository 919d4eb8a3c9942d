package integrator

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// View holds the per-frame values shared by every pixel of a render
type View struct {
	Scene            *scene.Scene
	Width, Height    int
	InverseViewScale mgl64.Mat4 // (Scale * View)^-1 of the scene camera
	TotalLightArea   float64    // Sum of the areas of all emitters
}

// NewView caches the emitter areas and the inverse camera transform. It must
// run before any pixel of the frame is traced.
func NewView(s *scene.Scene, width, height int) *View {
	return &View{
		Scene:            s,
		Width:            width,
		Height:           height,
		InverseViewScale: s.Camera.InverseViewScale(),
		TotalLightArea:   s.ComputeLightArea(),
	}
}

// PrimaryRay returns the world-space camera ray through the point offset
// within pixel (x, y). Offsets are in [0,1) along each axis.
func (v *View) PrimaryRay(x, y int, offset core.Vec2) core.Ray {
	direction := core.NewVec3(
		(2*(float64(x)+offset.X)/float64(v.Width))-1,
		1-(2*(float64(y)+offset.Y)/float64(v.Height)),
		-1,
	).Normalize()

	return core.NewRay(core.Vec3{}, direction).Transform(v.InverseViewScale)
}

// TracePixel averages SamplesPerPixel jittered estimates for pixel (x, y)
func (pt *PathTracer) TracePixel(view *View, x, y int, sampler core.Sampler) core.Vec3 {
	color := core.Vec3{}
	for i := 0; i < pt.settings.SamplesPerPixel; i++ {
		ray := view.PrimaryRay(x, y, sampler.Get2D())
		color = color.Add(pt.Estimate(ray, view.Scene, sampler, view.TotalLightArea, true, 0))
	}
	return color.Multiply(1 / float64(pt.settings.SamplesPerPixel))
}
