package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleUniformHemisphere_StaysInHemisphere(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0, 0, -1), // antiparallel to the canonical pole
		NewVec3(1, 1, 1).Normalize(),
		NewVec3(-0.3, 0.2, -0.9).Normalize(),
	}

	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))
	for _, normal := range normals {
		for i := 0; i < 2000; i++ {
			dir := SampleUniformHemisphere(normal, sampler.Get2D())
			if math.Abs(dir.Length()-1) > 1e-9 {
				t.Fatalf("Sample not unit length for normal %v: %v (len %f)", normal, dir, dir.Length())
			}
			if dir.Dot(normal) < -1e-9 {
				t.Fatalf("Sample %v below hemisphere of normal %v", dir, normal)
			}
		}
	}
}

func TestSampleUniformHemisphere_PoleMapsToNormal(t *testing.T) {
	// sample.Y = 1 gives theta = 0, i.e. the pole itself
	normal := NewVec3(0.2, -0.7, 0.4).Normalize()
	dir := SampleUniformHemisphere(normal, NewVec2(0.3, 1.0))
	if dir.Subtract(normal).Length() > 1e-9 {
		t.Errorf("Expected pole sample to equal normal %v, got %v", normal, dir)
	}
}

func TestSampleUniformHemisphere_IsUniformInSolidAngle(t *testing.T) {
	// For a uniform hemisphere density, E[cos(theta)] = 1/2 and
	// the fraction of samples with cos(theta) > 0.5 is 1/2 as well.
	normal := NewVec3(0, 1, 0)
	sampler := NewRandomSampler(rand.New(rand.NewSource(7)))

	const n = 200000
	sumCos := 0.0
	upper := 0
	for i := 0; i < n; i++ {
		cos := SampleUniformHemisphere(normal, sampler.Get2D()).Dot(normal)
		sumCos += cos
		if cos > 0.5 {
			upper++
		}
	}

	if mean := sumCos / n; math.Abs(mean-0.5) > 0.005 {
		t.Errorf("Expected mean cosine 0.5, got %f", mean)
	}
	if frac := float64(upper) / n; math.Abs(frac-0.5) > 0.005 {
		t.Errorf("Expected half the samples within 60 degrees, got %f", frac)
	}
}

func TestSphericalToCartesian(t *testing.T) {
	tests := []struct {
		name       string
		theta, phi float64
		expected   Vec3
	}{
		{"Pole", 0, 0, NewVec3(0, 0, 1)},
		{"Equator X", math.Pi / 2, 0, NewVec3(1, 0, 0)},
		{"Equator Y", math.Pi / 2, math.Pi / 2, NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SphericalToCartesian(tt.theta, tt.phi)
			if got.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSampleTriangle_InsideAndUniform(t *testing.T) {
	v0 := NewVec3(0, 0, 0)
	v1 := NewVec3(1, 0, 0)
	v2 := NewVec3(0, 1, 0)
	sampler := NewRandomSampler(rand.New(rand.NewSource(3)))

	const n = 100000
	centroid := Vec3{}
	for i := 0; i < n; i++ {
		p := SampleTriangle(v0, v1, v2, sampler.Get2D())
		if p.X < -1e-12 || p.Y < -1e-12 || p.X+p.Y > 1+1e-12 || p.Z != 0 {
			t.Fatalf("Sample %v outside triangle", p)
		}
		centroid = centroid.Add(p)
	}
	centroid = centroid.Multiply(1.0 / n)

	// A uniform area distribution has its mean at the centroid
	expected := NewVec3(1.0/3.0, 1.0/3.0, 0)
	if centroid.Subtract(expected).Length() > 0.005 {
		t.Errorf("Expected sample mean near centroid %v, got %v", expected, centroid)
	}
}

func TestRandomSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(99)
	b := NewSeededSampler(99)
	for i := 0; i < 10; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with the same seed should produce the same stream")
		}
	}
}
