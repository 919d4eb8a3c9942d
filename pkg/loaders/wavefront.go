package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// defaultMaterialName is used for faces that appear before any usemtl
const defaultMaterialName = ""

type wavefrontReader struct {
	logger log.Logger

	// Parsed materials by name, in definition order.
	materials      []*material.Material
	matNameToIndex map[string]int

	// Currently selected material.
	curMaterial *material.Material

	// Vertex and normal lists shared by every face of the file.
	vertexList []core.Vec3
	normalList []core.Vec3
	uvCount    int

	triangles []*geometry.Triangle

	// Optional camera statements.
	camera    scene.Camera
	hasCamera bool
}

func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		logger:         log.New("wavefront reader"),
		matNameToIndex: make(map[string]int),
	}
}

// LoadOBJ parses a Wavefront OBJ file together with the MTL libraries it
// references. Paths in mtllib statements are resolved against the directory
// of the OBJ file.
func LoadOBJ(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	return ReadOBJ(file, filename)
}

// ReadOBJ parses OBJ data from r. name is used in error messages and as the
// base for relative mtllib paths.
func ReadOBJ(r io.Reader, name string) (*Mesh, error) {
	start := time.Now()
	reader := newWavefrontReader()

	if err := reader.parse(r, name); err != nil {
		return nil, err
	}

	mesh := &Mesh{
		Name:      strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
		Triangles: reader.triangles,
		Materials: reader.materials,
	}
	if reader.hasCamera {
		camera := reader.camera
		mesh.Camera = &camera
	}

	reader.logger.Infof("parsed %q: %d triangles, %d materials in %v",
		name, len(mesh.Triangles), len(mesh.Materials), time.Since(start))
	return mesh, nil
}

// Generate an error message that carries the file and line.
func emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	if file == "" {
		return fmt.Errorf("error: %s", msg)
	}
	return fmt.Errorf("[%s: %d] error: %s", file, line, msg)
}

// Select the default material, creating it on first use.
func (r *wavefrontReader) defaultMaterial() *material.Material {
	matIndex, exists := r.matNameToIndex[defaultMaterialName]
	if !exists {
		r.materials = append(r.materials, material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7)))
		matIndex = len(r.materials) - 1
		r.matNameToIndex[defaultMaterialName] = matIndex
	}
	return r.materials[matIndex]
}

func (r *wavefrontReader) parse(in io.Reader, path string) error {
	lineNum := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "mtllib":
			if len(lineTokens) != 2 {
				return emitError(path, lineNum, `unsupported syntax for "mtllib"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			libPath := lineTokens[1]
			if !filepath.IsAbs(libPath) {
				libPath = filepath.Join(filepath.Dir(path), libPath)
			}
			if err := r.loadMaterials(libPath); err != nil {
				return fmt.Errorf("%w\nreferenced from %s:%d [mtllib]", err, path, lineNum)
			}
		case "usemtl":
			if len(lineTokens) != 2 {
				return emitError(path, lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			matIndex, exists := r.matNameToIndex[lineTokens[1]]
			if !exists {
				return emitError(path, lineNum, `undefined material with name "%s"`, lineTokens[1])
			}
			r.curMaterial = r.materials[matIndex]
		case "v":
			var v core.Vec3
			if v, err = parseVec3(lineTokens); err == nil {
				r.vertexList = append(r.vertexList, v)
			}
		case "vn":
			var v core.Vec3
			if v, err = parseVec3(lineTokens); err == nil {
				r.normalList = append(r.normalList, v.Normalize())
			}
		case "vt":
			r.uvCount++
		case "f":
			err = r.parseFace(lineTokens)
		case "camera_eye":
			r.camera.Eye, err = parseVec3(lineTokens)
			r.hasCamera = true
		case "camera_look":
			r.camera.Look, err = parseVec3(lineTokens)
			r.hasCamera = true
		case "camera_up":
			r.camera.Up, err = parseVec3(lineTokens)
			r.hasCamera = true
		case "camera_fov":
			r.camera.HeightAngle, err = parseFloat(lineTokens)
			r.hasCamera = true
		}

		if err != nil {
			return emitError(path, lineNum, "%s", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return emitError(path, lineNum, "%s", err)
	}

	if r.hasCamera {
		if r.camera.Up.IsZero() {
			r.camera.Up = core.NewVec3(0, 1, 0)
		}
		if r.camera.HeightAngle == 0 {
			r.camera.HeightAngle = 45
		}
		r.camera.AspectRatio = 1
		r.camera.Far = 1
	}
	return nil
}

// Parse a face and fan triangulate it around its first vertex. Each vertex
// argument has one of the forms v, v/vt, v//vn or v/vt/vn. Indices start
// from 1 and may be negative to count back from the end of the list.
func (r *wavefrontReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	numVerts := len(lineTokens) - 1
	vertices := make([]core.Vec3, numVerts)
	normals := make([]core.Vec3, numVerts)
	expIndices := 0
	hasNormals := false

	for arg := 0; arg < numVerts; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
			hasNormals = expIndices > 2 && vTokens[2] != ""
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}
		index, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList))
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[index]

		if expIndices > 1 && vTokens[1] != "" {
			if _, err := selectFaceCoordIndex(vTokens[1], r.uvCount); err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
		}

		if hasNormals {
			if len(vTokens) < 3 || vTokens[2] == "" {
				return fmt.Errorf("face argument %d does not include a normal index", arg)
			}
			index, err := selectFaceCoordIndex(vTokens[2], len(r.normalList))
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			normals[arg] = r.normalList[index]
		}
	}

	if r.curMaterial == nil {
		r.curMaterial = r.defaultMaterial()
	}

	for i := 1; i+1 < numVerts; i++ {
		var tri *geometry.Triangle
		if hasNormals {
			tri = geometry.NewTriangleWithNormals(vertices[0], vertices[i], vertices[i+1],
				normals[0], normals[i], normals[i+1], r.curMaterial)
		} else {
			tri = geometry.NewTriangle(vertices[0], vertices[i], vertices[i+1], r.curMaterial)
		}
		r.triangles = append(r.triangles, tri)
	}
	return nil
}

func (r *wavefrontReader) loadMaterials(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return emitError(path, 0, "failed to open material library: %v", err)
	}
	defer file.Close()

	return r.parseMaterials(file, path)
}

// Parse a wavefront material library.
func (r *wavefrontReader) parseMaterials(in io.Reader, path string) error {
	r.logger.Infof(`parsing material library "%s"`, path)

	lineNum := 0
	var curMaterial *material.Material
	defined := 0

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		if lineTokens[0] == "newmtl" {
			if len(lineTokens) != 2 {
				return emitError(path, lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			if curMaterial != nil {
				if err := curMaterial.Validate(); err != nil {
					return emitError(path, lineNum, "%s", err)
				}
			}

			matName := lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return emitError(path, lineNum, `material "%s" already defined`, matName)
			}
			curMaterial = &material.Material{Name: matName, IOR: 1, Behavior: material.Glossy}
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
			defined++
			continue
		}

		if curMaterial == nil {
			return emitError(path, lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
		}

		var err error
		switch lineTokens[0] {
		case "Kd":
			curMaterial.Diffuse, err = parseVec3(lineTokens)
		case "Ks":
			curMaterial.Specular, err = parseVec3(lineTokens)
		case "Ke":
			curMaterial.Emission, err = parseVec3(lineTokens)
		case "Ns":
			curMaterial.Shininess, err = parseFloat(lineTokens)
		case "Ni":
			curMaterial.IOR, err = parseFloat(lineTokens)
		case "illum":
			var illum int
			illum, err = parseInt(lineTokens)
			curMaterial.Behavior = material.BehaviorFromIllum(illum)
		}

		if err != nil {
			return emitError(path, lineNum, "%s", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return emitError(path, lineNum, "%s", err)
	}
	if curMaterial != nil {
		if err := curMaterial.Validate(); err != nil {
			return emitError(path, lineNum, "%s", err)
		}
	}

	r.logger.Infof("parsed %d materials from %q", defined, path)
	return nil
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = int(index - 1)
	}
	if offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index %d out of bounds", index)
	}
	return offset, nil
}

// Parse a float scalar value.
func parseFloat(lineTokens []string) (float64, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}
	return strconv.ParseFloat(lineTokens[1], 64)
}

// Parse an integer scalar value.
func parseInt(lineTokens []string) (int, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}
	return strconv.Atoi(lineTokens[1])
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (core.Vec3, error) {
	if len(lineTokens) < 4 {
		return core.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var coords [3]float64
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 64)
		if err != nil {
			return core.Vec3{}, err
		}
		coords[tokIdx-1] = coord
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}
