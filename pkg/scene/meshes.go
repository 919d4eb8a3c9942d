package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewMeshesScene creates a scene showcasing rotated triangle meshes: a
// mirror box, a glossy pyramid and a glass icosphere under a warm area light
func NewMeshesScene() *Scene {
	camera := NewCamera(
		core.NewVec3(0, 2, 6), // Position camera to see the meshes
		core.NewVec3(0, 1, 0), // Look at the center of the scene
		core.NewVec3(0, 1, 0),
		45.0,
		16.0/9.0,
	)

	var triangles []*geometry.Triangle
	triangles = append(triangles, NewGroundQuad(core.Vec3{}, 12, material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7)))...)
	triangles = append(triangles, NewCeilingLight(core.NewVec3(0, 5, 1), 2, core.NewVec3(12, 11, 10))...)

	// Box rotated 30° around Y to show multiple faces
	triangles = append(triangles, newBoxMesh(
		core.NewVec3(-2, 0.5, 0),
		core.NewVec3(1, 1, 1),
		core.NewVec3(0, math.Pi/6, 0),
		material.NewMirror(),
	)...)

	// Pyramid rotated 45° around Y so two sides face the camera
	blue := material.NewPhong(core.NewVec3(0.2, 0.3, 0.8), core.NewVec3(0.6, 0.6, 0.6), 40)
	triangles = append(triangles, newPyramidMesh(
		core.NewVec3(0, 1, 0),
		1.5,
		2.0,
		core.NewVec3(0, math.Pi/4, 0),
		blue,
	)...)

	triangles = append(triangles, geometry.NewIcosphere(core.NewVec3(2, 0.8, 0), 0.8, 2, material.NewDielectric(1.5))...)

	return NewScene("meshes", camera, triangles)
}

// newBoxMesh creates an outward-facing box rotated about its center
func newBoxMesh(center, size, rotation core.Vec3, mat *material.Material) []*geometry.Triangle {
	half := size.Multiply(0.5)
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-half.X, -half.Y, -half.Z)), // 0: left-bottom-back
		center.Add(core.NewVec3(+half.X, -half.Y, -half.Z)), // 1: right-bottom-back
		center.Add(core.NewVec3(+half.X, +half.Y, -half.Z)), // 2: right-top-back
		center.Add(core.NewVec3(-half.X, +half.Y, -half.Z)), // 3: left-top-back
		center.Add(core.NewVec3(-half.X, -half.Y, +half.Z)), // 4: left-bottom-front
		center.Add(core.NewVec3(+half.X, -half.Y, +half.Z)), // 5: right-bottom-front
		center.Add(core.NewVec3(+half.X, +half.Y, +half.Z)), // 6: right-top-front
		center.Add(core.NewVec3(-half.X, +half.Y, +half.Z)), // 7: left-top-front
	}

	// Counter-clockwise seen from outside
	faces := []int{
		0, 2, 1, 0, 3, 2, // Back (Z-)
		4, 5, 6, 4, 6, 7, // Front (Z+)
		0, 7, 3, 0, 4, 7, // Left (X-)
		1, 6, 5, 1, 2, 6, // Right (X+)
		0, 5, 4, 0, 1, 5, // Bottom (Y-)
		3, 6, 2, 3, 7, 6, // Top (Y+)
	}

	return mustMesh(vertices, faces, mat, center, rotation)
}

// newPyramidMesh creates a square-based pyramid rotated about its center
func newPyramidMesh(center core.Vec3, baseSize, height float64, rotation core.Vec3, mat *material.Material) []*geometry.Triangle {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfBase, -halfHeight, -halfBase)), // 0: left-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, -halfBase)), // 1: right-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, +halfBase)), // 2: right-front
		center.Add(core.NewVec3(-halfBase, -halfHeight, +halfBase)), // 3: left-front
		center.Add(core.NewVec3(0, +halfHeight, 0)),                 // 4: apex
	}

	faces := []int{
		0, 1, 2, 0, 2, 3, // Base
		1, 0, 4, // Back
		2, 1, 4, // Right
		3, 2, 4, // Front
		0, 3, 4, // Left
	}

	return mustMesh(vertices, faces, mat, center, rotation)
}

// mustMesh builds a mesh from constant index data, where an error is a bug
func mustMesh(vertices []core.Vec3, faces []int, mat *material.Material, center, rotation core.Vec3) []*geometry.Triangle {
	triangles, err := geometry.NewTriangleMesh(vertices, faces, mat, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	})
	if err != nil {
		panic(fmt.Sprintf("built-in mesh: %v", err))
	}
	return triangles
}
