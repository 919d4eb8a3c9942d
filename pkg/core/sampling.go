package core

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// UniformHemispherePDF is the solid-angle density of SampleUniformHemisphere
const UniformHemispherePDF = 1.0 / (2.0 * math.Pi)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator.
// A RandomSampler is not safe for concurrent use; give each worker its own.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own independently seeded stream
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SphericalToCartesian converts polar angle theta (from +Z) and azimuth phi to a unit vector
func SphericalToCartesian(theta, phi float64) Vec3 {
	sinTheta := math.Sin(theta)
	return NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), math.Cos(theta))
}

// RotateFromZ applies the minimal rotation that maps +Z onto normal
func RotateFromZ(v, normal Vec3) Vec3 {
	q := mgl64.QuatBetweenVectors(mgl64.Vec3{0, 0, 1}, normal.Normalize().Mgl())
	return NewVec3FromMgl(q.Rotate(v.Mgl()))
}

// SampleUniformHemisphere draws a direction uniformly over the solid angle of the
// hemisphere around normal. sample.X drives the azimuth, sample.Y the polar angle.
// The density is UniformHemispherePDF.
func SampleUniformHemisphere(normal Vec3, sample Vec2) Vec3 {
	phi := 2.0 * math.Pi * sample.X
	theta := math.Acos(sample.Y)
	local := SphericalToCartesian(theta, phi).Normalize()
	return RotateFromZ(local, normal)
}

// SampleTriangle returns a point distributed uniformly by area on the triangle
// (v0, v1, v2). alpha is drawn in [0,1) with density 2(1-alpha), beta uniformly
// in [0,1-alpha) and gamma takes the rest. Drawing alpha uniformly instead would
// crowd samples towards v0 and break the 1/area density the light sampler assumes.
func SampleTriangle(v0, v1, v2 Vec3, sample Vec2) Vec3 {
	alpha := 1.0 - math.Sqrt(1.0-sample.X)
	beta := sample.Y * (1.0 - alpha)
	gamma := 1.0 - (alpha + beta)
	return v0.Multiply(alpha).Add(v1.Multiply(beta)).Add(v2.Multiply(gamma))
}
