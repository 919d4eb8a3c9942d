package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Reflect returns the mirror reflection of incoming about normal:
// r = i + 2((-i)·n)n
func Reflect(normal, incoming core.Vec3) core.Vec3 {
	projOnNormal := normal.Multiply(incoming.Negate().Dot(normal))
	return incoming.Add(projOnNormal.Multiply(2))
}

// Refract bends incoming through a boundary from index n1 into index n2 using
// Snell's law. normal must face the side incoming arrives from. Past the
// critical angle the ray is totally internally reflected and the result
// equals Reflect(normal, incoming).
func Refract(normal, incoming core.Vec3, n1, n2 float64) core.Vec3 {
	reversed := incoming.Negate()
	projOnNormal := normal.Multiply(reversed.Dot(normal))
	tangential := reversed.Subtract(projOnNormal).Multiply(-(n1 / n2))

	sinSquared := tangential.LengthSquared()
	if sinSquared > 1 {
		return Reflect(normal, incoming)
	}

	// Rounding can leave the radicand a hair below zero at grazing angles
	cosTransmitted := math.Sqrt(math.Max(0, 1-sinSquared))
	return tangential.Add(normal.Multiply(-cosTransmitted))
}

// Reflectance returns the probability of reflecting at a dielectric boundary
// between indices n1 and n2, for a ray making cosTheta with the normal.
// It starts at the normal-incidence Fresnel term ((n1-n2)/(n1+n2))² and
// blends linearly towards 1 as the angle grows.
func Reflectance(cosTheta, n1, n2 float64) float64 {
	r0 := (n1 - n2) / (n1 + n2)
	r0 = r0 * r0
	cosTheta = math.Max(0, math.Min(1, cosTheta))
	return r0 + (1-r0)*(1-cosTheta)
}
