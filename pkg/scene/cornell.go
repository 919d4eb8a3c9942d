package scene

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewCornellScene creates a classic Cornell box scene with a mirror sphere, a
// glass sphere and a ceiling area light. Every wall faces into the box.
func NewCornellScene() *Scene {
	camera := NewCamera(
		core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		core.NewVec3(278, 278, 0),    // Look at the center of the box
		core.NewVec3(0, 1, 0),        // Standard up direction
		40.0,                         // Field of view
		1.0,                          // Square aspect ratio for Cornell box
	)

	// Create materials
	white := material.NewDiffuse(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewDiffuse(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewDiffuse(core.NewVec3(0.12, 0.45, 0.15))
	light := material.NewEmissive(core.NewVec3(15, 15, 15), core.NewVec3(0.78, 0.78, 0.78))

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0
	x := core.NewVec3(boxSize, 0, 0)
	y := core.NewVec3(0, boxSize, 0)
	z := core.NewVec3(0, 0, boxSize)

	var triangles []*geometry.Triangle

	// Floor (white) - XZ plane at y=0, facing up
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(0, 0, 0), z, x, white)...)
	// Ceiling (white) - XZ plane at y=boxSize, facing down
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(0, boxSize, 0), x, z, white)...)
	// Back wall (white) - XY plane at z=boxSize, facing the camera
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(0, 0, boxSize), y, x, white)...)
	// Left wall (red) - YZ plane at x=0
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(0, 0, 0), y, z, red)...)
	// Right wall (green) - YZ plane at x=boxSize
	triangles = append(triangles, geometry.NewQuad(core.NewVec3(boxSize, 0, 0), z, y, green)...)

	// Ceiling light (smaller quad slightly below the ceiling, facing down)
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	triangles = append(triangles, geometry.NewQuad(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		light,
	)...)

	// Left sphere (smaller, mirror)
	triangles = append(triangles, geometry.NewIcosphere(core.NewVec3(185, 82.5, 169), 82.5, 3, material.NewMirror())...)
	// Right sphere (larger, glass)
	triangles = append(triangles, geometry.NewIcosphere(core.NewVec3(370, 90, 351), 90, 3, material.NewDielectric(1.5))...)

	return NewScene("cornell", camera, triangles)
}
