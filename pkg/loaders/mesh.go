package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Mesh is the triangle soup produced by a loader
type Mesh struct {
	Name      string
	Triangles []*geometry.Triangle
	Materials []*material.Material
	Camera    *scene.Camera // Camera stored in the file, nil if none
}

// IsSceneFile reports whether path has an extension Load understands
func IsSceneFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj", ".ply", ".gltf", ".glb":
		return true
	}
	return false
}

// Load reads a mesh file, choosing the reader by extension
func Load(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".ply":
		return LoadPLY(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported scene file %q: expected .obj, .ply, .gltf or .glb", path)
	}
}

// Scene builds a renderable scene from the mesh. A non-nil camera overrides
// the one stored in the file; without either, the camera frames the bounds.
func (m *Mesh) Scene(camera *scene.Camera) (*scene.Scene, error) {
	if len(m.Triangles) == 0 {
		return nil, fmt.Errorf("mesh %q has no triangles", m.Name)
	}

	var cam scene.Camera
	switch {
	case camera != nil:
		cam = *camera
	case m.Camera != nil:
		cam = *m.Camera
	default:
		cam = scene.NewCameraForBounds(geometry.BoundsOf(m.Triangles), 45, 1)
	}
	if err := cam.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
	}

	return scene.NewScene(m.Name, cam, m.Triangles), nil
}
