package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// PathTracer implements unidirectional path tracing with next-event
// estimation and Russian roulette termination
type PathTracer struct {
	settings Settings
}

// NewPathTracer creates a path tracer after validating its settings
func NewPathTracer(settings Settings) (*PathTracer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &PathTracer{settings: settings}, nil
}

// Settings returns the settings the path tracer was created with
func (pt *PathTracer) Settings() Settings {
	return pt.settings
}

// Estimate returns a Monte Carlo estimate of the radiance arriving along ray.
// countEmitted controls whether the emission of the first surface hit is
// added; it is false after a glossy bounce because that surface's light was
// already gathered by next-event estimation at the previous hit. depth is the
// number of bounces taken so far.
func (pt *PathTracer) Estimate(ray core.Ray, s *scene.Scene, sampler core.Sampler, totalLightArea float64, countEmitted bool, depth int) core.Vec3 {
	hit, isHit := s.Intersect(ray)
	if !isHit {
		return core.Vec3{}
	}

	surface := hit.Surface
	mat := surface.Material
	normal := surface.NormalAt(hit)

	var perfectReflection core.Vec3
	if mat.NeedsReflection() {
		perfectReflection = material.Reflect(normal, ray.Direction)
	}

	radiance := core.Vec3{}

	// Mirrors and dielectrics see light through their specular bounce instead
	if pt.settings.DirectLightingOnly || mat.Behavior == material.Glossy {
		radiance = radiance.Add(pt.sampleDirectLighting(hit, normal, perfectReflection, s, sampler, totalLightArea))
	}

	if countEmitted {
		radiance = radiance.Add(mat.Emission)
	}

	if pt.settings.DirectLightingOnly {
		return radiance
	}
	if pt.settings.MaxDepth > 0 && depth >= pt.settings.MaxDepth {
		return radiance
	}

	pdfRR := pt.settings.PathContinuationProb
	if sampler.Get1D() >= pdfRR {
		return radiance
	}

	switch mat.Behavior {
	case material.Dielectric:
		direction := pt.scatterDielectric(ray.Direction, normal, mat.IOR, sampler)
		incoming := pt.Estimate(core.NewRay(hit.Point, direction), s, sampler, totalLightArea, true, depth+1)
		radiance = radiance.Add(incoming.Multiply(1 / pdfRR))

	case material.Mirror:
		incoming := pt.Estimate(core.NewRay(hit.Point, perfectReflection), s, sampler, totalLightArea, true, depth+1)
		radiance = radiance.Add(incoming.Multiply(1 / pdfRR))

	case material.Glossy:
		radiance = radiance.Add(pt.sampleIndirect(hit, normal, perfectReflection, s, sampler, totalLightArea, depth, pdfRR))
	}

	return radiance
}

// scatterDielectric picks reflection or refraction at a dielectric boundary
// with a probability given by the Schlick-style reflectance
func (pt *PathTracer) scatterDielectric(incoming, normal core.Vec3, ior float64, sampler core.Sampler) core.Vec3 {
	// The normal points out of the medium; a ray along it is leaving
	exiting := normal.Dot(incoming) > 0

	var reflectProb float64
	if exiting {
		reflectProb = material.Reflectance(normal.Dot(incoming), ior, 1)
	} else {
		reflectProb = material.Reflectance(normal.Negate().Dot(incoming), 1, ior)
	}

	if sampler.Get1D() <= reflectProb {
		return material.Reflect(normal, incoming)
	}
	if exiting {
		return material.Refract(normal.Negate(), incoming, ior, 1)
	}
	return material.Refract(normal, incoming, 1, ior)
}

// sampleIndirect follows one uniformly sampled hemisphere direction from a
// glossy surface
func (pt *PathTracer) sampleIndirect(hit geometry.IntersectionInfo, normal, perfectReflection core.Vec3, s *scene.Scene, sampler core.Sampler, totalLightArea float64, depth int, pdfRR float64) core.Vec3 {
	outgoing := core.SampleUniformHemisphere(normal, sampler.Get2D())
	cosine := math.Max(0, outgoing.Dot(normal))
	if cosine == 0 {
		return core.Vec3{}
	}

	brdf := hit.Surface.Material.BRDF(perfectReflection, outgoing)
	if brdf.IsZero() {
		return core.Vec3{}
	}

	incoming := pt.Estimate(core.NewRay(hit.Point, outgoing), s, sampler, totalLightArea, false, depth+1)
	return incoming.MultiplyVec(brdf).Multiply(cosine / (core.UniformHemispherePDF * pdfRR))
}
