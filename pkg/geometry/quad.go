package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewQuad creates the two triangles spanning the parallelogram corner, corner+u,
// corner+u+v, corner+v. Both triangles share the winding of u×v, so their
// normals point along u×v.
func NewQuad(corner, u, v core.Vec3, mat *material.Material) []*Triangle {
	p0 := corner
	p1 := corner.Add(u)
	p2 := corner.Add(u).Add(v)
	p3 := corner.Add(v)

	return []*Triangle{
		NewTriangle(p0, p1, p2, mat),
		NewTriangle(p0, p2, p3, mat),
	}
}

// NewBox creates the 12 outward-facing triangles of an axis-aligned box
func NewBox(min, max core.Vec3, mat *material.Material) []*Triangle {
	dx := core.NewVec3(max.X-min.X, 0, 0)
	dy := core.NewVec3(0, max.Y-min.Y, 0)
	dz := core.NewVec3(0, 0, max.Z-min.Z)

	var triangles []*Triangle
	// back (-z)
	triangles = append(triangles, NewQuad(min, dy, dx, mat)...)
	// front (+z)
	triangles = append(triangles, NewQuad(min.Add(dz), dx, dy, mat)...)
	// left (-x)
	triangles = append(triangles, NewQuad(min, dz, dy, mat)...)
	// right (+x)
	triangles = append(triangles, NewQuad(min.Add(dx), dy, dz, mat)...)
	// bottom (-y)
	triangles = append(triangles, NewQuad(min, dx, dz, mat)...)
	// top (+y)
	triangles = append(triangles, NewQuad(min.Add(dy), dz, dx, mat)...)
	return triangles
}
