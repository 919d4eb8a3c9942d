package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// IntersectEpsilon is the minimum hit distance accepted by Intersect; it keeps
// shadow and bounce rays from re-hitting the surface they leave
const IntersectEpsilon = 1e-4

// Scene contains all the elements needed for rendering. A scene is read-only
// while a frame is being traced.
type Scene struct {
	Name      string
	Camera    Camera
	Triangles []*geometry.Triangle
	BVH       *geometry.BVH // Acceleration structure for ray-triangle intersection

	emissives []*geometry.Triangle
}

// NewScene indexes the triangles, collects the emitters and builds the BVH
func NewScene(name string, camera Camera, triangles []*geometry.Triangle) *Scene {
	s := &Scene{
		Name:      name,
		Camera:    camera,
		Triangles: triangles,
	}

	for i, tri := range triangles {
		tri.Index = i
		if tri.IsEmissive() {
			s.emissives = append(s.emissives, tri)
		}
	}

	s.BVH = geometry.NewBVH(triangles)
	return s
}

// Intersect returns the closest hit along the ray beyond IntersectEpsilon
func (s *Scene) Intersect(ray core.Ray) (geometry.IntersectionInfo, bool) {
	return s.BVH.Hit(ray, IntersectEpsilon, math.Inf(1))
}

// Emissives returns the triangles with nonzero emission, in scene order
func (s *Scene) Emissives() []*geometry.Triangle {
	return s.emissives
}

// ComputeLightArea caches the area of every emitter and returns their sum.
// It must run before tracing starts and not concurrently with it.
func (s *Scene) ComputeLightArea() float64 {
	total := 0.0
	for _, tri := range s.emissives {
		total += tri.ComputeArea()
	}
	return total
}

// TriangleCount returns the total number of triangles in the scene
func (s *Scene) TriangleCount() int {
	return len(s.Triangles)
}

// Bounds returns the bounding box of all triangles
func (s *Scene) Bounds() core.AABB {
	return geometry.BoundsOf(s.Triangles)
}
