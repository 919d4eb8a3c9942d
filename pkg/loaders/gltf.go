package loaders

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/qmuntal/gltf"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
)

// glTF material extras understood by the loader
const (
	extraSpecular  = "specular"
	extraShininess = "shininess"
	extraIOR       = "ior"
	extraIllum     = "illum"
)

// GLTFLoader loads glTF and GLB files into triangles
type GLTFLoader struct {
	logger log.Logger
}

// NewGLTFLoader creates a new glTF loader
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{logger: log.New("gltf reader")}
}

// LoadGLTF loads a .gltf or .glb file
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a glTF document and converts every triangle primitive of every
// mesh. Node transforms are not applied.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	start := time.Now()

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	materials := make([]*material.Material, len(doc.Materials))
	for i, m := range doc.Materials {
		mat, err := convertMaterial(m)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		materials[i] = mat
	}

	mesh := &Mesh{
		Name:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Materials: materials,
	}

	var fallback *material.Material
	for _, m := range doc.Meshes {
		for primIdx, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				l.logger.Warningf("mesh %q primitive %d: skipping non-triangle mode %v", m.Name, primIdx, prim.Mode)
				continue
			}

			mat := fallback
			if prim.Material != nil {
				if *prim.Material >= len(materials) {
					return nil, fmt.Errorf("mesh %q primitive %d: material index %d out of range", m.Name, primIdx, *prim.Material)
				}
				mat = materials[*prim.Material]
			} else if mat == nil {
				fallback = material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7))
				mesh.Materials = append(mesh.Materials, fallback)
				mat = fallback
			}

			triangles, err := l.processPrimitive(doc, prim, mat)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, primIdx, err)
			}
			mesh.Triangles = append(mesh.Triangles, triangles...)
		}
	}

	l.logger.Infof("parsed %q: %d triangles, %d materials in %v",
		path, len(mesh.Triangles), len(mesh.Materials), time.Since(start))
	return mesh, nil
}

// processPrimitive extracts the triangles of a single primitive
func (l *GLTFLoader) processPrimitive(doc *gltf.Document, prim *gltf.Primitive, mat *material.Material) ([]*geometry.Triangle, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := readVec3Accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals []core.Vec3
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = readVec3Accessor(doc, normIdx)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
		if len(normals) != len(positions) {
			return nil, fmt.Errorf("%d normals for %d positions", len(normals), len(positions))
		}
	}

	var indices []int
	if prim.Indices != nil {
		indices, err = readIndices(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		// No indices, positions are sequential triangles
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	options := &geometry.TriangleMeshOptions{VertexNormals: normals}
	return geometry.NewTriangleMesh(positions, indices[:len(indices)/3*3], mat, options)
}

// convertMaterial maps the metallic-roughness model onto the renderer's
// material. Extras may override the specular lobe, IOR and illum model.
func convertMaterial(m *gltf.Material) (*material.Material, error) {
	mat := &material.Material{
		Name:     m.Name,
		Diffuse:  core.NewVec3(1, 1, 1),
		Emission: core.NewVec3(m.EmissiveFactor[0], m.EmissiveFactor[1], m.EmissiveFactor[2]),
		IOR:      1,
		Behavior: material.Glossy,
	}

	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			c := pbr.BaseColorFactor
			mat.Diffuse = core.NewVec3(c[0], c[1], c[2])
		}
		metallic, roughness := 1.0, 1.0
		if pbr.MetallicFactor != nil {
			metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			roughness = *pbr.RoughnessFactor
		}
		if metallic == 1 && roughness == 0 {
			mat.Behavior = material.Mirror
			mat.Specular = core.NewVec3(1, 1, 1)
		}
	}

	if extras, ok := m.Extras.(map[string]interface{}); ok {
		if v, ok := extraVec3(extras[extraSpecular]); ok {
			mat.Specular = v
		}
		if v, ok := extras[extraShininess].(float64); ok {
			mat.Shininess = v
		}
		if v, ok := extras[extraIOR].(float64); ok {
			mat.IOR = v
		}
		if v, ok := extras[extraIllum].(float64); ok {
			mat.Behavior = material.BehaviorFromIllum(int(v))
		}
	}

	if err := mat.Validate(); err != nil {
		return nil, err
	}
	return mat, nil
}

// extraVec3 accepts either a 3 element array or a scalar applied to every channel
func extraVec3(value interface{}) (core.Vec3, bool) {
	switch v := value.(type) {
	case float64:
		return core.NewVec3(v, v, v), true
	case []interface{}:
		if len(v) != 3 {
			return core.Vec3{}, false
		}
		var c [3]float64
		for i := range c {
			f, ok := v[i].(float64)
			if !ok {
				return core.Vec3{}, false
			}
			c[i] = f
		}
		return core.NewVec3(c[0], c[1], c[2]), true
	}
	return core.Vec3{}, false
}

// readVec3Accessor reads float VEC3 data from a glTF accessor
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]core.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	data, stride, start, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]core.Vec3, accessor.Count)
	for i := range result {
		offset := start + i*stride
		if offset+12 > len(data) {
			return nil, fmt.Errorf("accessor %d overruns its buffer", accessorIdx)
		}
		result[i] = core.NewVec3(
			float64(readFloat32(data[offset:])),
			float64(readFloat32(data[offset+4:])),
			float64(readFloat32(data[offset+8:])),
		)
	}
	return result, nil
}

// readIndices reads unsigned scalar index data from a glTF accessor
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type %v", accessor.ComponentType)
	}

	data, stride, start, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		offset := start + i*stride
		if offset+size > len(data) {
			return nil, fmt.Errorf("accessor %d overruns its buffer", accessorIdx)
		}
		switch size {
		case 1:
			result[i] = int(data[offset])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		case 4:
			result[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return result, nil
}

// accessorBytes resolves the buffer backing an accessor and returns it with
// the element stride and the offset of the first element
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elementSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	bufferView := doc.BufferViews[*accessor.BufferView]
	if bufferView.Buffer >= len(doc.Buffers) {
		return nil, 0, 0, fmt.Errorf("buffer %d out of range", bufferView.Buffer)
	}
	buffer := doc.Buffers[bufferView.Buffer]
	if len(buffer.Data) == 0 {
		return nil, 0, 0, fmt.Errorf("buffer %d has no data", bufferView.Buffer)
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elementSize
	}
	return buffer.Data, stride, bufferView.ByteOffset + accessor.ByteOffset, nil
}

// readFloat32 reads a little-endian float32
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
