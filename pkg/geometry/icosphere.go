package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewIcosphere tessellates a sphere by repeatedly subdividing an icosahedron.
// Every face is wound so its normal points away from the center, and vertex
// normals are the radial directions so shading stays smooth.
func NewIcosphere(center core.Vec3, radius float64, subdivisions int, mat *material.Material) []*Triangle {
	t := (1 + math.Sqrt(5)) / 2

	vertices := []core.Vec3{
		core.NewVec3(-1, t, 0), core.NewVec3(1, t, 0), core.NewVec3(-1, -t, 0), core.NewVec3(1, -t, 0),
		core.NewVec3(0, -1, t), core.NewVec3(0, 1, t), core.NewVec3(0, -1, -t), core.NewVec3(0, 1, -t),
		core.NewVec3(t, 0, -1), core.NewVec3(t, 0, 1), core.NewVec3(-t, 0, -1), core.NewVec3(-t, 0, 1),
	}
	for i := range vertices {
		vertices[i] = vertices[i].Normalize()
	}

	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for s := 0; s < subdivisions; s++ {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			vertices = append(vertices, vertices[a].Add(vertices[b]).Normalize())
			midpoints[key] = len(vertices) - 1
			return len(vertices) - 1
		}

		next := make([][3]int, 0, len(faces)*4)
		for _, f := range faces {
			ab := midpoint(f[0], f[1])
			bc := midpoint(f[1], f[2])
			ca := midpoint(f[2], f[0])
			next = append(next,
				[3]int{f[0], ab, ca},
				[3]int{f[1], bc, ab},
				[3]int{f[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		faces = next
	}

	triangles := make([]*Triangle, 0, len(faces))
	for _, f := range faces {
		n0, n1, n2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]
		triangles = append(triangles, NewTriangleWithNormals(
			center.Add(n0.Multiply(radius)),
			center.Add(n1.Multiply(radius)),
			center.Add(n2.Multiply(radius)),
			n0, n1, n2, mat))
	}
	return triangles
}
