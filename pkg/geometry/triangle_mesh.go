package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	VertexNormals []core.Vec3          // Optional per-vertex normals (one per vertex)
	Materials     []*material.Material // Optional per-triangle materials
	Rotation      *core.Vec3           // Optional XYZ Euler rotation in radians
	Center        *core.Vec3           // Optional center point for rotation
}

// NewTriangleMesh creates triangles from vertices and face indices.
// vertices: array of 3D points
// faces: array of triangle indices (each group of 3 indices forms a triangle)
// mat: default material for all triangles
// options: optional parameters (can be nil for basic mesh)
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat *material.Material, options *TriangleMeshOptions) ([]*Triangle, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}

	numTriangles := len(faces) / 3

	if options != nil {
		if options.VertexNormals != nil && len(options.VertexNormals) != len(vertices) {
			return nil, fmt.Errorf("number of vertex normals (%d) must match number of vertices (%d)",
				len(options.VertexNormals), len(vertices))
		}
		if options.Materials != nil && len(options.Materials) != numTriangles {
			return nil, fmt.Errorf("number of materials (%d) must match number of triangles (%d)",
				len(options.Materials), numTriangles)
		}
	}

	workingVertices := vertices
	workingNormals := []core.Vec3(nil)
	if options != nil {
		workingNormals = options.VertexNormals
	}

	// Translate to center, rotate, then translate back
	if options != nil && options.Rotation != nil {
		rotation := mgl64.AnglesToQuat(options.Rotation.X, options.Rotation.Y, options.Rotation.Z, mgl64.XYZ)
		center := core.Vec3{}
		if options.Center != nil {
			center = *options.Center
		}

		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			rotated := rotation.Rotate(vertex.Subtract(center).Mgl())
			workingVertices[i] = core.NewVec3FromMgl(rotated).Add(center)
		}
		if workingNormals != nil {
			rotatedNormals := make([]core.Vec3, len(workingNormals))
			for i, normal := range workingNormals {
				rotatedNormals[i] = core.NewVec3FromMgl(rotation.Rotate(normal.Mgl()))
			}
			workingNormals = rotatedNormals
		}
	}

	triangles := make([]*Triangle, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]

		for _, idx := range [3]int{i0, i1, i2} {
			if idx < 0 || idx >= len(workingVertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of bounds [0, %d)", i, idx, len(workingVertices))
			}
		}

		triangleMaterial := mat
		if options != nil && options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}

		if workingNormals != nil {
			triangles[i] = NewTriangleWithNormals(
				workingVertices[i0], workingVertices[i1], workingVertices[i2],
				workingNormals[i0], workingNormals[i1], workingNormals[i2],
				triangleMaterial)
		} else {
			triangles[i] = NewTriangle(workingVertices[i0], workingVertices[i1], workingVertices[i2], triangleMaterial)
		}
	}

	return triangles, nil
}

// BoundsOf returns the bounding box enclosing every triangle
func BoundsOf(triangles []*Triangle) core.AABB {
	if len(triangles) == 0 {
		return core.AABB{}
	}
	bbox := triangles[0].BoundingBox()
	for _, tri := range triangles[1:] {
		bbox = bbox.Union(tri.BoundingBox())
	}
	return bbox
}
