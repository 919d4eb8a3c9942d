package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewGroundQuad creates a large square centered at the given point with its
// normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, mat *material.Material) []*geometry.Triangle {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) = (0,size²,0) which normalizes to (0,1,0)
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, mat)
}

// NewCeilingLight creates a square emitter at the given height facing down
func NewCeilingLight(center core.Vec3, size float64, emission core.Vec3) []*geometry.Triangle {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	u := core.NewVec3(size, 0, 0)
	v := core.NewVec3(0, 0, size)
	return geometry.NewQuad(corner, u, v, material.NewEmissive(emission, core.Vec3{}))
}

// NewPlaneScene creates a unit square light one unit above a large diffuse
// plane. Its direct illumination has a closed form, which makes it the
// reference scene for convergence checks.
func NewPlaneScene() *Scene {
	camera := NewCamera(
		core.NewVec3(0, 2.5, 3),
		core.NewVec3(0, 0.3, 0),
		core.NewVec3(0, 1, 0),
		50.0,
		4.0/3.0,
	)

	var triangles []*geometry.Triangle
	triangles = append(triangles, NewGroundQuad(core.NewVec3(0, 0, 0), 10, material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.8)))...)
	triangles = append(triangles, NewCeilingLight(core.NewVec3(0, 1, 0), 1, core.NewVec3(10, 10, 10))...)

	return NewScene("plane", camera, triangles)
}

// NewMirrorScene creates a mirror sphere on a two-tone floor next to a glossy box
func NewMirrorScene() *Scene {
	camera := NewCamera(
		core.NewVec3(0, 1.5, 5),
		core.NewVec3(0, 0.8, 0),
		core.NewVec3(0, 1, 0),
		45.0,
		16.0/9.0,
	)

	warm := material.NewDiffuse(core.NewVec3(0.8, 0.6, 0.4))
	cool := material.NewDiffuse(core.NewVec3(0.3, 0.4, 0.7))
	glossy := material.NewPhong(core.NewVec3(0.1, 0.1, 0.1), core.NewVec3(0.7, 0.7, 0.6), 60)

	var triangles []*geometry.Triangle
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(-6, 0, -6), core.NewVec3(0, 0, 12), core.NewVec3(6, 0, 0), warm)...)
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(0, 0, -6), core.NewVec3(0, 0, 12), core.NewVec3(6, 0, 0), cool)...)
	triangles = append(triangles, geometry.NewBox(core.NewVec3(1.2, 0, -0.8), core.NewVec3(2.2, 1, 0.2), glossy)...)
	triangles = append(triangles, geometry.NewIcosphere(core.NewVec3(-0.6, 1, 0), 1, 4, material.NewMirror())...)
	triangles = append(triangles, NewCeilingLight(core.NewVec3(0, 4, 1), 2, core.NewVec3(12, 12, 11))...)

	return NewScene("mirror", camera, triangles)
}

// NewGlassScene creates a glass sphere in front of colored boxes so refraction
// and caustics are visible
func NewGlassScene() *Scene {
	camera := NewCamera(
		core.NewVec3(0, 1.2, 4.5),
		core.NewVec3(0, 0.9, 0),
		core.NewVec3(0, 1, 0),
		45.0,
		16.0/9.0,
	)

	floor := material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7))
	red := material.NewDiffuse(core.NewVec3(0.7, 0.1, 0.1))
	blue := material.NewDiffuse(core.NewVec3(0.1, 0.2, 0.7))

	var triangles []*geometry.Triangle
	triangles = append(triangles, NewGroundQuad(core.NewVec3(0, 0, 0), 12, floor)...)
	// Back wall facing the camera
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(-6, 0, -3), core.NewVec3(12, 0, 0), core.NewVec3(0, 6, 0), floor)...)
	triangles = append(triangles, geometry.NewBox(core.NewVec3(-2, 0, -2), core.NewVec3(-1, 1.5, -1), red)...)
	triangles = append(triangles, geometry.NewBox(core.NewVec3(1, 0, -2), core.NewVec3(2, 1, -1), blue)...)
	triangles = append(triangles, geometry.NewIcosphere(core.NewVec3(0, 0.9, 0), 0.9, 4, material.NewDielectric(1.5))...)
	triangles = append(triangles, NewCeilingLight(core.NewVec3(0, 4, 0), 1.5, core.NewVec3(20, 20, 20))...)

	return NewScene("glass", camera, triangles)
}
