package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func unitSquare() ([]core.Vec3, []int) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0), // 0
		core.NewVec3(1, 0, 0), // 1
		core.NewVec3(1, 1, 0), // 2
		core.NewVec3(0, 1, 0), // 3
	}
	faces := []int{
		0, 1, 2, // first triangle
		0, 2, 3, // second triangle
	}
	return vertices, faces
}

func TestTriangleMesh_Creation(t *testing.T) {
	vertices, faces := unitSquare()
	mat := material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5))

	triangles, err := NewTriangleMesh(vertices, faces, mat, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(triangles) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(triangles))
	}
	for i, tri := range triangles {
		if tri.Material != mat {
			t.Errorf("Triangle %d: expected default material", i)
		}
	}

	bbox := BoundsOf(triangles)
	const tolerance = 1e-9
	if bbox.Min.Subtract(core.NewVec3(0, 0, 0)).Length() > tolerance {
		t.Errorf("Expected min (0,0,0), got %v", bbox.Min)
	}
	if bbox.Max.Subtract(core.NewVec3(1, 1, 0)).Length() > tolerance {
		t.Errorf("Expected max (1,1,0), got %v", bbox.Max)
	}
}

func TestTriangleMesh_ErrorHandling(t *testing.T) {
	vertices, _ := unitSquare()

	tests := []struct {
		name    string
		faces   []int
		options *TriangleMeshOptions
	}{
		{"Faces not a multiple of 3", []int{0, 1}, nil},
		{"Index out of bounds", []int{0, 1, 4}, nil},
		{"Negative index", []int{0, -1, 2}, nil},
		{"Normals count mismatch", []int{0, 1, 2}, &TriangleMeshOptions{VertexNormals: []core.Vec3{{Z: 1}}}},
		{"Materials count mismatch", []int{0, 1, 2}, &TriangleMeshOptions{Materials: []*material.Material{nil, nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTriangleMesh(vertices, tt.faces, nil, tt.options); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestTriangleMesh_WithVertexNormals(t *testing.T) {
	vertices, faces := unitSquare()
	up := core.NewVec3(0, 0, 1)
	tilted := core.NewVec3(1, 0, 1)
	options := &TriangleMeshOptions{VertexNormals: []core.Vec3{up, tilted, up, up}}

	triangles, err := NewTriangleMesh(vertices, faces, nil, options)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Second vertex of the first triangle carries the tilted normal
	got := triangles[0].NormalAt(IntersectionInfo{U: 1, V: 0})
	if got.Subtract(tilted.Normalize()).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", tilted.Normalize(), got)
	}
}

func TestTriangleMesh_WithPerTriangleMaterials(t *testing.T) {
	vertices, faces := unitSquare()
	red := material.NewDiffuse(core.NewVec3(0.8, 0.1, 0.1))
	green := material.NewDiffuse(core.NewVec3(0.1, 0.8, 0.1))

	triangles, err := NewTriangleMesh(vertices, faces, nil, &TriangleMeshOptions{
		Materials: []*material.Material{red, green},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if triangles[0].Material != red || triangles[1].Material != green {
		t.Error("Per-triangle materials were not applied in order")
	}
}

func TestTriangleMesh_Rotation(t *testing.T) {
	vertices, faces := unitSquare()
	center := core.NewVec3(0.5, 0.5, 0)
	rotation := core.NewVec3(0, math.Pi/2, 0)

	triangles, err := NewTriangleMesh(vertices, faces, nil, &TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// A quarter turn about Y through the center stands the square in the YZ plane
	bbox := BoundsOf(triangles)
	const tolerance = 1e-9
	if math.Abs(bbox.Size().X) > tolerance {
		t.Errorf("Expected zero X extent after rotation, got %f", bbox.Size().X)
	}
	if math.Abs(bbox.Size().Z-1) > tolerance || math.Abs(bbox.Size().Y-1) > tolerance {
		t.Errorf("Expected unit Y and Z extents, got %v", bbox.Size())
	}
	if bbox.Center().Subtract(center).Length() > tolerance {
		t.Errorf("Rotation should keep the center fixed, got %v", bbox.Center())
	}
	if n := triangles[0].GeometricNormal(); math.Abs(math.Abs(n.X)-1) > tolerance {
		t.Errorf("Expected normal along X after rotation, got %v", n)
	}
}

func TestTriangleMesh_Empty(t *testing.T) {
	triangles, err := NewTriangleMesh(nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(triangles) != 0 {
		t.Errorf("Expected no triangles, got %d", len(triangles))
	}
	if BoundsOf(triangles) != (core.AABB{}) {
		t.Error("Expected empty bounds for empty mesh")
	}
}
