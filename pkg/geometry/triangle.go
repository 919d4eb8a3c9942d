package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// IntersectionInfo describes the closest hit of a ray against the scene
type IntersectionInfo struct {
	Point   core.Vec3 // Point of intersection
	T       float64   // Parameter t along the ray
	U, V    float64   // Barycentric weights of V1 and V2 at the hit
	Surface *Triangle // The intersected triangle
}

// Triangle represents a single triangle defined by three vertices.
// Triangles are immutable once a render starts; the cached area is written
// by the frame driver before any pixel is traced.
type Triangle struct {
	V0, V1, V2 core.Vec3          // The three vertices
	Material   *material.Material // Material of the triangle
	Index      int                // Stable index within the owning scene

	vertexNormals    [3]core.Vec3
	hasVertexNormals bool
	normal           core.Vec3 // Cached geometric normal
	bbox             core.AABB // Cached bounding box
	area             float64
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, mat *material.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: mat,
	}

	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)
	return t
}

// NewTriangleWithNormals creates a triangle whose shading normal is interpolated
// from per-vertex normals
func NewTriangleWithNormals(v0, v1, v2, n0, n1, n2 core.Vec3, mat *material.Material) *Triangle {
	t := NewTriangle(v0, v1, v2, mat)
	t.vertexNormals = [3]core.Vec3{n0.Normalize(), n1.Normalize(), n2.Normalize()}
	t.hasVertexNormals = true
	return t
}

// TriangleArea returns half the magnitude of the cross product of two edges from v0
func TriangleArea(v0, v1, v2 core.Vec3) float64 {
	return v1.Subtract(v0).Cross(v2.Subtract(v0)).Length() / 2
}

// HasVertexNormals reports whether the shading normal is interpolated
func (t *Triangle) HasVertexNormals() bool {
	return t.hasVertexNormals
}

// Vertices returns the three corner points
func (t *Triangle) Vertices() [3]core.Vec3 {
	return [3]core.Vec3{t.V0, t.V1, t.V2}
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm.
// Both faces are hit; no culling is applied.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (IntersectionInfo, bool) {
	const epsilon = 1e-12

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return IntersectionInfo{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return IntersectionInfo{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return IntersectionInfo{}, false
	}

	tParam := f * edge2.Dot(q)
	if tParam < tMin || tParam > tMax {
		return IntersectionInfo{}, false
	}

	return IntersectionInfo{
		Point:   ray.At(tParam),
		T:       tParam,
		U:       u,
		V:       v,
		Surface: t,
	}, true
}

// NormalAt returns the unit surface normal at a hit on this triangle. The
// normal keeps the triangle's winding orientation and is never flipped
// towards the ray.
func (t *Triangle) NormalAt(info IntersectionInfo) core.Vec3 {
	if !t.hasVertexNormals {
		return t.normal
	}

	w := 1 - info.U - info.V
	n := t.vertexNormals[0].Multiply(w).
		Add(t.vertexNormals[1].Multiply(info.U)).
		Add(t.vertexNormals[2].Multiply(info.V)).
		Normalize()
	if n.IsZero() {
		return t.normal
	}
	return n
}

// GeometricNormal returns the normalized (V1-V0)x(V2-V0)
func (t *Triangle) GeometricNormal() core.Vec3 {
	return t.normal
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// ComputeArea caches and returns the triangle's area
func (t *Triangle) ComputeArea() float64 {
	t.area = TriangleArea(t.V0, t.V1, t.V2)
	return t.area
}

// Area returns the area cached by ComputeArea
func (t *Triangle) Area() float64 {
	return t.area
}

// IsEmissive reports whether the triangle's material emits light
func (t *Triangle) IsEmissive() bool {
	return t.Material != nil && t.Material.IsEmissive()
}
