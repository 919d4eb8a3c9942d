package integrator

import (
	"fmt"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestEstimate_MissIsBlack(t *testing.T) {
	pt := newPathTracer(t, nil)
	s := newLightOverPlaneScene(1, 0.8, core.NewVec3(10, 10, 10))

	ray := core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, 1, 0))
	if got := pt.Estimate(ray, s, newSampler(1), s.ComputeLightArea(), true, 0); !got.IsZero() {
		t.Errorf("Expected black background, got %v", got)
	}
}

func TestEstimate_CountEmitted(t *testing.T) {
	pt := newPathTracer(t, func(s *Settings) { s.DirectLightingOnly = true })
	emission := core.NewVec3(4, 3, 2)
	s := newLightOverPlaneScene(1, 0.8, emission)
	area := s.ComputeLightArea()

	// Looking up at the light from below
	ray := core.NewRay(core.NewVec3(0.1, 0.5, 0.2), core.NewVec3(0, 1, 0))

	if got := pt.Estimate(ray, s, newSampler(1), area, true, 0); got != emission {
		t.Errorf("Expected emission %v when counted, got %v", emission, got)
	}
	if got := pt.Estimate(ray, s, newSampler(1), area, false, 0); !got.IsZero() {
		t.Errorf("Expected no radiance when emission is not counted, got %v", got)
	}
}

func TestEstimate_ZeroLightAreaReturnsOwnEmission(t *testing.T) {
	emission := core.NewVec3(0.3, 0.2, 0.1)
	glow := &material.Material{Emission: emission, Diffuse: core.NewVec3(0.5, 0.5, 0.5), IOR: 1}
	plane := scene.NewGroundQuad(core.NewVec3(0.3, 0, 0.7), 10, glow)
	s := scene.NewScene("glow", testCamera, plane)

	pt := newPathTracer(t, func(s *Settings) { s.DirectLightingOnly = true })
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	for seed := int64(0); seed < 20; seed++ {
		got := pt.Estimate(ray, s, newSampler(seed), 0, true, 0)
		if got != emission {
			t.Fatalf("seed %d: expected exactly %v, got %v", seed, emission, got)
		}
	}
}

func TestEstimate_DegenerateEmitterContributesNothing(t *testing.T) {
	light := geometry.NewTriangle(core.NewVec3(0, 2, 0), core.NewVec3(1, 2, 0), core.NewVec3(2, 2, 0),
		material.NewEmissive(core.NewVec3(10, 10, 10), core.Vec3{}))
	triangles := append(scene.NewGroundQuad(core.NewVec3(0.3, 0, 0.7), 10, material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.8))), light)
	s := scene.NewScene("degenerate", testCamera, triangles)

	pt := newPathTracer(t, func(s *Settings) { s.DirectLightingOnly = true })
	view := NewView(s, 4, 4)
	if view.TotalLightArea != 0 {
		t.Fatalf("Expected zero light area, got %f", view.TotalLightArea)
	}

	got := pt.Estimate(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), s, newSampler(3), view.TotalLightArea, true, 0)
	if !got.IsZero() {
		t.Errorf("Expected black, got %v", got)
	}
}

func TestEstimate_DirectLightingMatchesClosedForm(t *testing.T) {
	const albedo = 0.8
	emission := core.NewVec3(10, 10, 10)

	tests := []struct {
		name   string
		height float64
	}{
		{"Light at unit height", 1},
		{"Light close to the plane", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newLightOverPlaneScene(tt.height, albedo, emission)
			pt := newPathTracer(t, func(s *Settings) {
				s.DirectLightingOnly = true
				s.NumDirectLightingSamples = 2
			})

			ray := core.NewRay(core.NewVec3(0, tt.height/2, 0), core.NewVec3(0, -1, 0))
			got := meanEstimate(pt, ray, s, 42, 20000)

			want := emission.Multiply(albedo * unitSquareFormFactor(tt.height))
			assertRelativeError(t, got, want, 0.02)
		})
	}
}

func TestEstimate_DirectLightingSampleCountScaling(t *testing.T) {
	// Each emitter gets ceil(n/2) shadow rays but the sum is divided by n,
	// so odd counts over a two-triangle light are scaled by 2*ceil(n/2)/n
	const albedo = 0.8
	emission := core.NewVec3(10, 10, 10)
	s := newLightOverPlaneScene(1, albedo, emission)
	closedForm := emission.Multiply(albedo * unitSquareFormFactor(1))

	tests := []struct {
		samples int
		scale   float64
	}{
		{1, 2},
		{2, 1},
		{3, 4.0 / 3.0},
		{4, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d samples", tt.samples), func(t *testing.T) {
			pt := newPathTracer(t, func(s *Settings) {
				s.DirectLightingOnly = true
				s.NumDirectLightingSamples = tt.samples
			})

			ray := core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, -1, 0))
			got := meanEstimate(pt, ray, s, 11, 20000)
			assertRelativeError(t, got, closedForm.Multiply(tt.scale), 0.03)
		})
	}
}

func TestEstimate_IndirectDoesNotDoubleCountEmitters(t *testing.T) {
	// The only surface the plane can see is the black light, so full path
	// tracing must converge to the direct lighting result
	const albedo = 0.8
	emission := core.NewVec3(10, 10, 10)
	s := newLightOverPlaneScene(1, albedo, emission)

	pt := newPathTracer(t, func(s *Settings) {
		s.PathContinuationProb = 0.5
		s.NumDirectLightingSamples = 2
	})

	ray := core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, -1, 0))
	got := meanEstimate(pt, ray, s, 7, 20000)

	want := emission.Multiply(albedo * unitSquareFormFactor(1))
	assertRelativeError(t, got, want, 0.02)
}

func TestEstimate_OccludedLightCastsHardShadow(t *testing.T) {
	s := newLightOverPlaneScene(1, 0.8, core.NewVec3(10, 10, 10))
	blocker := scene.NewGroundQuad(core.NewVec3(0, 0.5, 0), 3, material.NewDiffuse(core.Vec3{}))
	s = scene.NewScene("shadow", testCamera, append(s.Triangles, blocker...))

	pt := newPathTracer(t, func(s *Settings) { s.DirectLightingOnly = true })

	// From below the blocker, every shadow ray hits the blocker first
	ray := core.NewRay(core.NewVec3(0.05, 0.25, 0.1), core.NewVec3(0, -1, 0))
	got := meanEstimate(pt, ray, s, 9, 200)
	if !got.IsZero() {
		t.Errorf("Expected full shadow, got %v", got)
	}
}

func TestEstimate_MirrorReflectsEmitter(t *testing.T) {
	center := core.NewVec3(0, 0, -5)
	sphere := geometry.NewIcosphere(center, 1, 3, material.NewMirror())

	ray := core.NewRay(core.NewVec3(0, 0.05, 0), core.NewVec3(0.7, 0.05, -5).Normalize())
	hit, ok := scene.NewScene("probe", testCamera, sphere).Intersect(ray)
	if !ok {
		t.Fatal("Probe ray should hit the mirror sphere")
	}
	reflected := material.Reflect(hit.Surface.NormalAt(hit), ray.Direction)

	// Small emitter three units along the reflected ray, facing back along it
	emission := core.NewVec3(5, 4, 3)
	lightCenter := hit.Point.Add(reflected.Multiply(3))
	e1 := reflected.Cross(core.NewVec3(0, 1, 0)).Normalize()
	e2 := reflected.Cross(e1).Normalize()
	light := geometry.NewTriangle(
		lightCenter.Add(e1.Multiply(0.2)),
		lightCenter.Add(e1.Multiply(-0.1)).Add(e2.Multiply(0.17)),
		lightCenter.Add(e1.Multiply(-0.1)).Add(e2.Multiply(-0.17)),
		material.NewEmissive(emission, core.Vec3{}),
	)
	s := scene.NewScene("mirror", testCamera, append(sphere, light))

	if probe, ok := s.Intersect(ray); !ok || probe.Surface.Material.Behavior != material.Mirror {
		t.Fatal("The emitter must not occlude the primary ray")
	}
	if terminal, ok := s.Intersect(core.NewRay(hit.Point, reflected)); !ok || terminal.Surface != light {
		t.Fatal("The reflected ray must end on the emitter")
	}

	t.Run("Certain continuation", func(t *testing.T) {
		pt := newPathTracer(t, func(s *Settings) {
			s.PathContinuationProb = 1
			s.MaxDepth = 1
		})
		got := pt.Estimate(ray, s, newSampler(1), s.ComputeLightArea(), true, 0)
		if got.Subtract(emission).Length() > 1e-12 {
			t.Errorf("Expected exactly %v, got %v", emission, got)
		}
	})

	t.Run("Russian roulette", func(t *testing.T) {
		pt := newPathTracer(t, func(s *Settings) { s.PathContinuationProb = 0.5 })
		got := meanEstimate(pt, ray, s, 11, 10000)
		assertRelativeError(t, got, emission, 0.05)
	})
}

func TestEstimate_GlassPaneTransmitsByFresnel(t *testing.T) {
	glass := material.NewDielectric(1.5)
	var triangles []*geometry.Triangle
	// Front face towards the camera, back face away from it
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(-1, -1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), glass)...)
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(-1, -1, -1.1), core.NewVec3(0, 2, 0), core.NewVec3(2, 0, 0), glass)...)
	emission := core.NewVec3(2, 2, 2)
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(-2, -2, -3), core.NewVec3(4, 0, 0), core.NewVec3(0, 4, 0),
		material.NewEmissive(emission, core.Vec3{}))...)
	s := scene.NewScene("pane", testCamera, triangles)

	pt := newPathTracer(t, func(s *Settings) {
		s.PathContinuationProb = 1
		s.MaxDepth = 10
	})

	ray := core.NewRay(core.NewVec3(0.1, 0.23, 0), core.NewVec3(0, 0, -1))
	got := meanEstimate(pt, ray, s, 5, 20000)

	// Two transmissions at normal incidence plus one internal round trip
	r0 := 0.04
	transmitted := (1 - r0) * (1 - r0) * (1 + r0*r0)
	assertRelativeError(t, got, emission.Multiply(transmitted), 0.01)
}

func TestEstimate_NonNegative(t *testing.T) {
	s := scene.NewCornellScene()
	pt := newPathTracer(t, func(s *Settings) { s.PathContinuationProb = 0.7 })
	view := NewView(s, 32, 32)
	sampler := newSampler(99)

	for i := 0; i < 400; i++ {
		ray := view.PrimaryRay(i%32, (i*7)%32, sampler.Get2D())
		got := pt.Estimate(ray, s, sampler, view.TotalLightArea, true, 0)
		if got.X < 0 || got.Y < 0 || got.Z < 0 || math.IsNaN(got.X+got.Y+got.Z) || math.IsInf(got.X+got.Y+got.Z, 0) {
			t.Fatalf("ray %d: invalid radiance %v", i, got)
		}
	}
}

func TestEstimate_MaxDepthStopsBouncing(t *testing.T) {
	emission := core.NewVec3(3, 3, 3)
	s := newLightOverPlaneScene(1, 0.8, emission)
	pt := newPathTracer(t, func(s *Settings) {
		s.PathContinuationProb = 1
		s.MaxDepth = 2
	})

	ray := core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(0, -1, 0))
	sampler := newSampler(4)
	for i := 0; i < 200; i++ {
		got := pt.Estimate(ray, s, sampler, s.ComputeLightArea(), true, 0)
		if math.IsNaN(got.X) || got.X < 0 {
			t.Fatalf("Invalid radiance %v", got)
		}
	}
}
