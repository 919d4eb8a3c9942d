package loaders

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

const asciiPLY = `ply
format ascii 1.0
comment unit square
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`

// binaryPLY builds a two-triangle square with normals and a per-face flag
// that the reader has to skip
func binaryPLY(order binary.ByteOrder, format string) []byte {
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format " + format + " 1.0\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\nproperty float y\nproperty float z\n")
	buf.WriteString("property float nx\nproperty float ny\nproperty float nz\n")
	buf.WriteString("property uchar red\n")
	buf.WriteString("element face 2\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("property uchar flags\n")
	buf.WriteString("end_header\n")

	vertices := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	for _, v := range vertices {
		binary.Write(&buf, order, v)
		binary.Write(&buf, order, [3]float32{0, 0, 2})
		buf.WriteByte(255)
	}
	for _, face := range [][3]int32{{0, 1, 2}, {0, 2, 3}} {
		buf.WriteByte(3)
		binary.Write(&buf, order, face)
		buf.WriteByte(7)
	}
	return buf.Bytes()
}

func TestReadPLY(t *testing.T) {
	tests := []struct {
		name          string
		data          []byte
		hasNormals    bool
		expectedTris  int
		secondTriLast core.Vec3
	}{
		{"ASCII quad fan", []byte(asciiPLY), false, 2, core.NewVec3(0, 1, 0)},
		{"Binary little endian", binaryPLY(binary.LittleEndian, "binary_little_endian"), true, 2, core.NewVec3(0, 1, 0)},
		{"Binary big endian", binaryPLY(binary.BigEndian, "binary_big_endian"), true, 2, core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := ReadPLY(bytes.NewReader(tt.data), filepath.Join("models", "square.ply"))
			if err != nil {
				t.Fatalf("ReadPLY failed: %v", err)
			}
			if mesh.Name != "square" {
				t.Errorf("Expected name 'square', got %q", mesh.Name)
			}
			if len(mesh.Triangles) != tt.expectedTris {
				t.Fatalf("Expected %d triangles, got %d", tt.expectedTris, len(mesh.Triangles))
			}

			second := mesh.Triangles[1]
			if second.V2 != tt.secondTriLast {
				t.Errorf("Expected last vertex %v, got %v", tt.secondTriLast, second.V2)
			}

			// Normals are normalized on load; the square faces +Z either way
			hit, ok := second.Hit(core.NewRay(core.NewVec3(0.2, 0.6, 1), core.NewVec3(0, 0, -1)), 0, 10)
			if !ok {
				t.Fatal("Expected ray to hit the second triangle")
			}
			if n := second.NormalAt(hit); n.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
				t.Errorf("Expected +Z normal, got %v", n)
			}
			if second.HasVertexNormals() != tt.hasNormals {
				t.Errorf("Expected vertex normals %v", tt.hasNormals)
			}
		})
	}
}

func TestReadPLYErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		contains string
	}{
		{"Missing magic", "plx\nformat ascii 1.0\nend_header\n", "magic"},
		{"Unterminated header", "ply\nformat ascii 1.0\n", "unterminated header"},
		{"Unknown format", "ply\nformat binary_middle_endian 1.0\nend_header\n", "unsupported PLY format"},
		{"Unknown type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty quad x\nend_header\n", "unknown property type"},
		{"Missing z", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nproperty float y\nend_header\n0 0\n", "no z property"},
		{"Truncated body", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nproperty float y\nproperty float z\nend_header\n0 0 0\n1 0\n", "vertex 1"},
		{"Index out of range", strings.Replace(asciiPLY, "4 0 1 2 3", "3 0 1 9", 1), "vertex index 9 out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPLY(strings.NewReader(tt.data), "bad.ply")
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}
