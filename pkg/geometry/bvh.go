package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Triangles   []*Triangle // Triangles for leaf nodes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-triangle intersection.
// A built BVH is read-only and safe for concurrent queries.
type BVH struct {
	Root *BVHNode
}

// BVHStats summarizes the shape of a BVH
type BVHStats struct {
	TotalNodes int
	LeafNodes  int
	MaxDepth   int
	Triangles  int
}

// Leaf threshold: if we have this many or fewer triangles, store them in a leaf node
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of triangles
func NewBVH(triangles []*Triangle) *BVH {
	if len(triangles) == 0 {
		return &BVH{Root: nil}
	}

	// Work on a copy; partitioning reorders the slice
	trianglesCopy := make([]*Triangle, len(triangles))
	copy(trianglesCopy, triangles)

	return &BVH{Root: buildBVH(trianglesCopy)}
}

// buildBVH recursively builds the BVH using median splits along the longest axis
func buildBVH(triangles []*Triangle) *BVHNode {
	boundingBox := triangles[0].BoundingBox()
	for _, tri := range triangles[1:] {
		boundingBox = boundingBox.Union(tri.BoundingBox())
	}

	if len(triangles) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Triangles: triangles}
	}

	axis := boundingBox.LongestAxis()
	lo := boundingBox.Min.Component(axis)
	hi := boundingBox.Max.Component(axis)
	if hi <= lo {
		return &BVHNode{BoundingBox: boundingBox, Triangles: triangles}
	}

	left, right := partitionTriangles(triangles, axis, (lo+hi)*0.5)

	// Ensure we don't create empty partitions
	if len(left) == 0 || len(right) == 0 {
		return &BVHNode{BoundingBox: boundingBox, Triangles: triangles}
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(left),
		Right:       buildBVH(right),
	}
}

// partitionTriangles splits triangles by bounding box center against splitPos
func partitionTriangles(triangles []*Triangle, axis int, splitPos float64) ([]*Triangle, []*Triangle) {
	var left, right []*Triangle
	for _, tri := range triangles {
		if tri.BoundingBox().Center().Component(axis) < splitPos {
			left = append(left, tri)
		} else {
			right = append(right, tri)
		}
	}
	return left, right
}

// Hit returns the closest intersection with t in [tMin, tMax]
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (IntersectionInfo, bool) {
	if bvh.Root == nil {
		return IntersectionInfo{}, false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax)
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (IntersectionInfo, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return IntersectionInfo{}, false
	}

	var closest IntersectionInfo
	hitAnything := false
	closestSoFar := tMax

	if node.Triangles != nil {
		for _, tri := range node.Triangles {
			if hit, isHit := tri.Hit(ray, tMin, closestSoFar); isHit {
				hitAnything = true
				closestSoFar = hit.T
				closest = hit
			}
		}
		return closest, hitAnything
	}

	for _, child := range [2]*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if hit, isHit := bvh.hitNode(child, ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closest = hit
		}
	}

	return closest, hitAnything
}

// Stats walks the tree and returns its node counts and depth
func (bvh *BVH) Stats() BVHStats {
	var stats BVHStats
	if bvh.Root != nil {
		collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.Triangles != nil {
		stats.LeafNodes++
		stats.Triangles += len(node.Triangles)
		return
	}
	if node.Left != nil {
		collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		collectStats(node.Right, depth+1, stats)
	}
}
