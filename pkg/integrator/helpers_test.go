package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var testCamera = scene.NewCamera(core.NewVec3(0, 0, 1), core.Vec3{}, core.NewVec3(0, 1, 0), 60, 1)

func newSampler(seed int64) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(seed)))
}

func newPathTracer(t *testing.T, modify func(s *Settings)) *PathTracer {
	t.Helper()
	s := DefaultSettings()
	if modify != nil {
		modify(&s)
	}
	pt, err := NewPathTracer(s)
	if err != nil {
		t.Fatalf("Invalid test settings: %v", err)
	}
	return pt
}

// newLightOverPlaneScene builds a unit square light at height h facing down
// over a large diffuse plane. The plane is shifted so the point under the
// light's center does not lie on the plane's diagonal.
func newLightOverPlaneScene(h, albedo float64, emission core.Vec3) *scene.Scene {
	var triangles []*geometry.Triangle
	triangles = append(triangles, scene.NewGroundQuad(core.NewVec3(0.3, 0, 0.7), 10, material.NewDiffuse(core.NewVec3(albedo, albedo, albedo)))...)
	triangles = append(triangles, scene.NewCeilingLight(core.NewVec3(0, h, 0), 1, emission)...)
	return scene.NewScene("light-over-plane", testCamera, triangles)
}

// unitSquareFormFactor returns the form factor from a differential area to a
// parallel unit square centered above it at height h
func unitSquareFormFactor(h float64) float64 {
	x := 0.5 / h
	y := 0.5 / h
	sx := math.Sqrt(1 + x*x)
	sy := math.Sqrt(1 + y*y)
	corner := (x/sx*math.Atan(y/sx) + y/sy*math.Atan(x/sy)) / (2 * math.Pi)
	return 4 * corner
}

func meanEstimate(pt *PathTracer, ray core.Ray, s *scene.Scene, seed int64, samples int) core.Vec3 {
	sampler := newSampler(seed)
	totalLightArea := s.ComputeLightArea()
	sum := core.Vec3{}
	for i := 0; i < samples; i++ {
		sum = sum.Add(pt.Estimate(ray, s, sampler, totalLightArea, true, 0))
	}
	return sum.Multiply(1 / float64(samples))
}

func assertRelativeError(t *testing.T, got, want core.Vec3, tolerance float64) {
	t.Helper()
	relErr := got.Subtract(want).Length() / want.Length()
	if relErr > tolerance {
		t.Errorf("Expected %v, got %v (relative error %.4f > %.4f)", want, got, relErr, tolerance)
	}
}
