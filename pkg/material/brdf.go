package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// BRDF evaluates the reflectance for light leaving along outgoing, given the
// perfect reflection direction of the incoming ray at the hit.
//
// The model is an either/or choice, not a blend: a dominant specular color
// (any channel > 0.5) selects the normalized Phong lobe
// ((shininess+2)/2π)·max(0, outgoing·reflected)^shininess·specular,
// anything else the Lambertian diffuse/π.
func (m *Material) BRDF(reflected, outgoing core.Vec3) core.Vec3 {
	if m.HasDominantSpecular() {
		cosAlpha := math.Max(0, outgoing.Dot(reflected))
		lobe := ((m.Shininess + 2) / (2 * math.Pi)) * math.Pow(cosAlpha, m.Shininess)
		return m.Specular.Multiply(lobe)
	}
	return m.Diffuse.Multiply(1 / math.Pi)
}
