package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestVec3_BasicOperations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", a.Divide(2), NewVec3(0.5, 1, 1.5)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Clamp", NewVec3(-1, 0.5, 2).Clamp(0, 1), NewVec3(0, 0.5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}

	if dot := a.Dot(b); dot != 12 {
		t.Errorf("Dot: expected 12, got %f", dot)
	}
	if a.MaxComponent() != 3 {
		t.Errorf("MaxComponent: expected 3, got %f", a.MaxComponent())
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}

	// Zero vector must not produce NaN
	zero := Vec3{}.Normalize()
	if !zero.IsZero() {
		t.Errorf("Expected zero vector, got %v", zero)
	}
}

func TestVec3_AnyGreaterThan(t *testing.T) {
	if !NewVec3(0.1, 0.6, 0.1).AnyGreaterThan(0.5) {
		t.Error("Expected Y component to exceed threshold")
	}
	if NewVec3(0.5, 0.5, 0.5).AnyGreaterThan(0.5) {
		t.Error("Threshold comparison should be strict")
	}
}

func TestRay_Transform(t *testing.T) {
	// Translate by (1,2,3) and rotate 90 degrees around Y
	m := mgl64.Translate3D(1, 2, 3).Mul4(mgl64.HomogRotate3DY(math.Pi / 2))
	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, -1))

	got := ray.Transform(m)

	if got.Origin.Subtract(NewVec3(1, 2, 3)).Length() > 1e-9 {
		t.Errorf("Origin should be translated, got %v", got.Origin)
	}
	// Rotating -Z by +90 degrees around Y yields -X
	if got.Direction.Subtract(NewVec3(-1, 0, 0)).Length() > 1e-9 {
		t.Errorf("Direction should be rotated but not translated, got %v", got.Direction)
	}
	if math.Abs(got.Direction.Length()-1) > 1e-9 {
		t.Errorf("Transformed direction should be normalized, got length %f", got.Direction.Length())
	}
}

func TestRay_TransformRenormalizesScaledDirection(t *testing.T) {
	ray := NewRay(NewVec3(1, 1, 1), NewVec3(1, 0, 0))
	got := ray.Transform(mgl64.Scale3D(4, 1, 1))

	if got.Origin.Subtract(NewVec3(4, 1, 1)).Length() > 1e-9 {
		t.Errorf("Expected scaled origin, got %v", got.Origin)
	}
	if got.Direction.Subtract(NewVec3(1, 0, 0)).Length() > 1e-9 {
		t.Errorf("Expected unit X direction, got %v", got.Direction)
	}
}

func TestAABB_Hit(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name string
		ray  Ray
		want bool
	}{
		{"Straight through", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), true},
		{"Miss above", NewRay(NewVec3(0, 2, 5), NewVec3(0, 0, -1)), false},
		{"Parallel inside slab", NewRay(NewVec3(0, 0.5, 5), NewVec3(0, 0, -1)), true},
		{"Pointing away", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, 0.001, math.Inf(1)); got != tt.want {
				t.Errorf("Hit() = %t, want %t", got, tt.want)
			}
		})
	}

	if axis := NewAABB(Vec3{}, NewVec3(1, 5, 2)).LongestAxis(); axis != 1 {
		t.Errorf("Expected longest axis 1, got %d", axis)
	}
}
