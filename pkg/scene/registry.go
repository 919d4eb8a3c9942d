package scene

import (
	"fmt"
	"sort"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string `json:"name"`        // Unique identifier used on the command line
	Description string `json:"description"` // Short human readable description
}

type builtin struct {
	info  SceneInfo
	build func() *Scene
}

var builtins = map[string]builtin{
	"cornell": {SceneInfo{"cornell", "Cornell box with a mirror sphere and a glass sphere"}, NewCornellScene},
	"mirror":  {SceneInfo{"mirror", "Mirror sphere on a two-tone floor next to a glossy box"}, NewMirrorScene},
	"glass":   {SceneInfo{"glass", "Glass sphere refracting two colored boxes"}, NewGlassScene},
	"plane":   {SceneInfo{"plane", "Square area light above a diffuse plane"}, NewPlaneScene},
	"meshes":  {SceneInfo{"meshes", "Rotated mirror box, glossy pyramid and glass icosphere"}, NewMeshesScene},
}

// ListScenes returns the built-in scenes sorted by name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		scenes = append(scenes, b.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes
}

// IsBuiltin reports whether name refers to a built-in scene
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Builtin constructs the named built-in scene
func Builtin(name string) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", name)
	}
	return b.build(), nil
}
