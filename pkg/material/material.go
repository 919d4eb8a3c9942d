package material

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Behavior classifies how a surface transports light. The set is closed:
// every switch over Behavior handles all three cases.
type Behavior int

const (
	// Glossy surfaces use the diffuse/Phong BRDF and next-event estimation
	Glossy Behavior = iota
	// Mirror surfaces reflect perfectly about the normal
	Mirror
	// Dielectric surfaces reflect or refract according to their index of refraction
	Dielectric
)

// Wavefront MTL illumination models that select a non-glossy behavior
const (
	illumMirror     = 5
	illumDielectric = 7
)

// String returns a readable name for the behavior
func (b Behavior) String() string {
	switch b {
	case Glossy:
		return "glossy"
	case Mirror:
		return "mirror"
	case Dielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("Behavior(%d)", int(b))
	}
}

// BehaviorFromIllum maps an MTL illum model to a surface behavior
func BehaviorFromIllum(illum int) Behavior {
	switch illum {
	case illumMirror:
		return Mirror
	case illumDielectric:
		return Dielectric
	default:
		return Glossy
	}
}

// Material holds the per-surface parameters the estimator reads during tracing.
// Materials are shared read-only between triangles and workers.
type Material struct {
	Name      string
	Emission  core.Vec3
	Diffuse   core.Vec3
	Specular  core.Vec3
	Shininess float64
	IOR       float64 // Index of refraction (e.g., 1.5 for glass)
	Behavior  Behavior
}

// NewDiffuse creates a glossy-class material with only a diffuse color
func NewDiffuse(diffuse core.Vec3) *Material {
	return &Material{Diffuse: diffuse, IOR: 1, Behavior: Glossy}
}

// NewPhong creates a glossy material with a specular lobe
func NewPhong(diffuse, specular core.Vec3, shininess float64) *Material {
	return &Material{Diffuse: diffuse, Specular: specular, Shininess: shininess, IOR: 1, Behavior: Glossy}
}

// NewEmissive creates a diffuse material that emits light
func NewEmissive(emission, diffuse core.Vec3) *Material {
	return &Material{Emission: emission, Diffuse: diffuse, IOR: 1, Behavior: Glossy}
}

// NewMirror creates a perfect mirror
func NewMirror() *Material {
	return &Material{Specular: core.NewVec3(1, 1, 1), IOR: 1, Behavior: Mirror}
}

// NewDielectric creates a clear refractive material
func NewDielectric(ior float64) *Material {
	return &Material{Specular: core.NewVec3(1, 1, 1), IOR: ior, Behavior: Dielectric}
}

// IsEmissive reports whether the material emits any light
func (m *Material) IsEmissive() bool {
	return m.Emission.X > 0 || m.Emission.Y > 0 || m.Emission.Z > 0
}

// HasDominantSpecular reports whether any specular channel exceeds 0.5,
// which switches the BRDF from Lambertian to the Phong lobe
func (m *Material) HasDominantSpecular() bool {
	return m.Specular.AnyGreaterThan(0.5)
}

// NeedsReflection reports whether the perfect reflection direction is needed at a hit
func (m *Material) NeedsReflection() bool {
	return m.Behavior == Mirror || m.Behavior == Dielectric || m.HasDominantSpecular()
}

// Validate checks that the parameters are physically meaningful
func (m *Material) Validate() error {
	for _, c := range []struct {
		name  string
		value core.Vec3
	}{{"emission", m.Emission}, {"diffuse", m.Diffuse}, {"specular", m.Specular}} {
		if c.value.X < 0 || c.value.Y < 0 || c.value.Z < 0 {
			return fmt.Errorf("material %q: negative %s color %v", m.Name, c.name, c.value)
		}
	}
	if m.Shininess < 0 {
		return fmt.Errorf("material %q: negative shininess %f", m.Name, m.Shininess)
	}
	if m.Behavior == Dielectric && m.IOR <= 0 {
		return fmt.Errorf("material %q: dielectric needs a positive index of refraction, got %f", m.Name, m.IOR)
	}
	return nil
}
