package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
)

// plyProperty represents a property definition in the PLY header
type plyProperty struct {
	Name      string
	Type      string // Scalar type, or the element type for list properties
	IsList    bool
	CountType string // For list properties, the type of the count
}

// plyElement is an element block such as "vertex" or "face"
type plyElement struct {
	Name  string
	Count int
	Props []plyProperty
}

// plyHeader represents the parsed header information from a PLY file
type plyHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Elements []plyElement
}

// plyValueReader reads one scalar of the given PLY type from the body
type plyValueReader interface {
	read(dataType string) (float64, error)
}

var plyLogger = log.New("ply reader")

// LoadPLY loads a PLY file into triangles sharing a default gray material
func LoadPLY(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	return ReadPLY(file, filename)
}

// ReadPLY parses PLY data from r. Faces with more than three vertices are
// fan triangulated; elements other than vertex and face are skipped.
func ReadPLY(r io.Reader, name string) (*Mesh, error) {
	startTime := time.Now()
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse PLY header: %w", name, err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &plyASCIIReader{scanner: scanner}
	case "binary_little_endian":
		values = &plyBinaryReader{r: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &plyBinaryReader{r: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%s: unsupported PLY format: %s", name, header.Format)
	}

	mat := material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7))
	mesh := &Mesh{
		Name:      strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)),
		Materials: []*material.Material{mat},
	}

	var vertices, normals []core.Vec3
	hasNormals := false
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			vertices, normals, hasNormals, err = readPLYVertices(values, element)
		case "face":
			err = readPLYFaces(values, element, vertices, normals, hasNormals, mat, mesh)
		default:
			err = skipPLYElement(values, element)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read %s data: %w", name, element.Name, err)
		}
	}

	plyLogger.Infof("loaded %q: %d vertices, %d triangles in %v",
		name, len(vertices), len(mesh.Triangles), time.Since(startTime))
	return mesh, nil
}

// parsePLYHeader reads up to and including the end_header line
func parsePLYHeader(reader *bufio.Reader) (*plyHeader, error) {
	header := &plyHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic number")
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unterminated header: %w", err)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("header has no format line")
			}
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line: %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line: %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, plyElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("failed to parse property: %w", err)
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("unknown header keyword %q", parts[0])
		}
	}
}

// parsePLYProperty parses the arguments of a property line
func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		if plyTypeSize(parts[1]) == 0 || plyTypeSize(parts[2]) == 0 {
			return plyProperty{}, fmt.Errorf("unknown list types %s %s", parts[1], parts[2])
		}
		return plyProperty{Name: parts[3], Type: parts[2], IsList: true, CountType: parts[1]}, nil
	}
	if len(parts) >= 2 {
		if plyTypeSize(parts[0]) == 0 {
			return plyProperty{}, fmt.Errorf("unknown property type %s", parts[0])
		}
		return plyProperty{Name: parts[1], Type: parts[0]}, nil
	}
	return plyProperty{}, fmt.Errorf("invalid property definition %v", parts)
}

// readPLYVertices reads positions and, when nx, ny and nz are all present,
// vertex normals
func readPLYVertices(values plyValueReader, element plyElement) ([]core.Vec3, []core.Vec3, bool, error) {
	index := map[string]int{}
	for i, prop := range element.Props {
		index[prop.Name] = i
	}
	for _, axis := range []string{"x", "y", "z"} {
		if _, ok := index[axis]; !ok {
			return nil, nil, false, fmt.Errorf("vertex element has no %s property", axis)
		}
	}
	_, hasNX := index["nx"]
	_, hasNY := index["ny"]
	_, hasNZ := index["nz"]
	hasNormals := hasNX && hasNY && hasNZ

	vertices := make([]core.Vec3, element.Count)
	var normals []core.Vec3
	if hasNormals {
		normals = make([]core.Vec3, element.Count)
	}

	row := make([]float64, len(element.Props))
	for v := 0; v < element.Count; v++ {
		for i, prop := range element.Props {
			if prop.IsList {
				if err := skipPLYList(values, prop); err != nil {
					return nil, nil, false, err
				}
				continue
			}
			value, err := values.read(prop.Type)
			if err != nil {
				return nil, nil, false, fmt.Errorf("vertex %d: %w", v, err)
			}
			row[i] = value
		}

		vertices[v] = core.NewVec3(row[index["x"]], row[index["y"]], row[index["z"]])
		if hasNormals {
			normals[v] = core.NewVec3(row[index["nx"]], row[index["ny"]], row[index["nz"]]).Normalize()
		}
	}

	return vertices, normals, hasNormals, nil
}

// readPLYFaces reads the vertex index lists and appends the triangles to mesh
func readPLYFaces(values plyValueReader, element plyElement, vertices, normals []core.Vec3, hasNormals bool, mat *material.Material, mesh *Mesh) error {
	for f := 0; f < element.Count; f++ {
		for _, prop := range element.Props {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipPLYProperty(values, prop); err != nil {
					return err
				}
				continue
			}

			count, err := values.read(prop.CountType)
			if err != nil {
				return fmt.Errorf("face %d: %w", f, err)
			}
			indices := make([]int, int(count))
			for i := range indices {
				value, err := values.read(prop.Type)
				if err != nil {
					return fmt.Errorf("face %d: %w", f, err)
				}
				idx := int(value)
				if idx < 0 || idx >= len(vertices) {
					return fmt.Errorf("face %d: vertex index %d out of range", f, idx)
				}
				indices[i] = idx
			}

			for i := 1; i+1 < len(indices); i++ {
				a, b, c := indices[0], indices[i], indices[i+1]
				var tri *geometry.Triangle
				if hasNormals {
					tri = geometry.NewTriangleWithNormals(vertices[a], vertices[b], vertices[c],
						normals[a], normals[b], normals[c], mat)
				} else {
					tri = geometry.NewTriangle(vertices[a], vertices[b], vertices[c], mat)
				}
				mesh.Triangles = append(mesh.Triangles, tri)
			}
		}
	}
	return nil
}

func skipPLYElement(values plyValueReader, element plyElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			if err := skipPLYProperty(values, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipPLYProperty(values plyValueReader, prop plyProperty) error {
	if prop.IsList {
		return skipPLYList(values, prop)
	}
	_, err := values.read(prop.Type)
	return err
}

func skipPLYList(values plyValueReader, prop plyProperty) error {
	count, err := values.read(prop.CountType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := values.read(prop.Type); err != nil {
			return err
		}
	}
	return nil
}

// plyTypeSize returns the size in bytes of a PLY scalar type, 0 if unknown
func plyTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

type plyASCIIReader struct {
	scanner *bufio.Scanner
}

func (a *plyASCIIReader) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.scanner.Text(), 64)
}

type plyBinaryReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *plyBinaryReader) read(dataType string) (float64, error) {
	size := plyTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unknown type %s", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.r, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default:
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}
