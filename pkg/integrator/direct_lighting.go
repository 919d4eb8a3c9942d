package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// sampleDirectLighting estimates the light arriving directly from every
// emitter with shadow rays. Points are chosen uniformly by area over the
// total emissive area, so each sample is weighted by totalLightArea.
//
// The outer loop runs ceil(n/2) times and covers every emitter, so each
// emitter receives ceil(n/2) shadow rays while the estimate is divided by n.
// For lights built from pairs of equal-area triangles (quads) and even n this
// is exactly the total-area estimator. Odd n scales the estimate by
// 2*ceil(n/2)/n: n = 1 doubles it and n = 3 gives 4/3.
func (pt *PathTracer) sampleDirectLighting(hit geometry.IntersectionInfo, normal, perfectReflection core.Vec3, s *scene.Scene, sampler core.Sampler, totalLightArea float64) core.Vec3 {
	emissives := s.Emissives()
	if totalLightArea <= 0 || len(emissives) == 0 {
		return core.Vec3{}
	}

	numSamples := pt.settings.NumDirectLightingSamples
	lightSampleProb := 1 / totalLightArea
	mat := hit.Surface.Material

	radiance := core.Vec3{}
	for i := 0; float64(i) < float64(numSamples)/2; i++ {
		for _, light := range emissives {
			point := core.SampleTriangle(light.V0, light.V1, light.V2, sampler.Get2D())

			toLight := point.Subtract(hit.Point)
			distanceSquared := toLight.LengthSquared()
			if distanceSquared == 0 {
				continue
			}
			dirToLight := toLight.Normalize()

			shadowHit, ok := s.Intersect(core.NewRay(hit.Point, dirToLight))
			if !ok || shadowHit.Surface != light {
				continue
			}

			surfaceCos := math.Max(0, dirToLight.Dot(normal))
			lightCos := math.Max(0, dirToLight.Negate().Dot(light.NormalAt(shadowHit)))
			if surfaceCos == 0 || lightCos == 0 {
				continue
			}

			brdf := mat.BRDF(perfectReflection, dirToLight)
			contribution := light.Material.Emission.MultiplyVec(brdf).
				Multiply(surfaceCos * lightCos / distanceSquared).
				Multiply(1 / (lightSampleProb * float64(numSamples)))
			radiance = radiance.Add(contribution)
		}
	}

	return radiance
}
