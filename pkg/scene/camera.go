package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Camera describes a pinhole camera. Primary rays are generated in a
// normalized camera space where the image plane spans [-1,1]x[-1,1] at z=-1;
// InverseViewScale maps them back to world space.
type Camera struct {
	Eye         core.Vec3 `json:"eye"`         // Camera position
	Look        core.Vec3 `json:"look"`        // Point the camera looks at
	Up          core.Vec3 `json:"up"`          // Up direction
	HeightAngle float64   `json:"heightAngle"` // Vertical field of view in degrees
	AspectRatio float64   `json:"aspectRatio"` // Width / height
	Far         float64   `json:"far"`         // Far plane distance
}

// NewCamera creates a camera with a unit far plane
func NewCamera(eye, look, up core.Vec3, heightAngle, aspectRatio float64) Camera {
	return Camera{
		Eye:         eye,
		Look:        look,
		Up:          up,
		HeightAngle: heightAngle,
		AspectRatio: aspectRatio,
		Far:         1,
	}
}

// Validate checks that the camera produces an invertible transform
func (c Camera) Validate() error {
	if c.HeightAngle <= 0 || c.HeightAngle >= 180 {
		return fmt.Errorf("camera height angle must be in (0, 180) degrees, got %f", c.HeightAngle)
	}
	if c.AspectRatio <= 0 {
		return fmt.Errorf("camera aspect ratio must be positive, got %f", c.AspectRatio)
	}
	if c.Far <= 0 {
		return fmt.Errorf("camera far plane must be positive, got %f", c.Far)
	}
	forward := c.Look.Subtract(c.Eye)
	if forward.IsZero() {
		return fmt.Errorf("camera eye and look point coincide at %v", c.Eye)
	}
	if forward.Cross(c.Up).IsZero() {
		return fmt.Errorf("camera up %v is parallel to the view direction %v", c.Up, forward)
	}
	return nil
}

// ViewMatrix returns the world-to-camera look-at transform
func (c Camera) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye.Mgl(), c.Look.Mgl(), c.Up.Mgl())
}

// ScaleMatrix maps the view frustum to the unit frustum whose far plane
// lies at z=-1 and spans [-1,1] in x and y
func (c Camera) ScaleMatrix() mgl64.Mat4 {
	tanH := math.Tan(mgl64.DegToRad(c.HeightAngle) / 2)
	tanW := c.AspectRatio * tanH
	return mgl64.Scale3D(1/(c.Far*tanW), 1/(c.Far*tanH), 1/c.Far)
}

// InverseViewScale returns (Scale * View)^-1, mapping normalized camera space
// rays into world space
func (c Camera) InverseViewScale() mgl64.Mat4 {
	return c.ScaleMatrix().Mul4(c.ViewMatrix()).Inv()
}

// WithAspectRatio returns a copy of the camera matching the given image size
func (c Camera) WithAspectRatio(width, height int) Camera {
	c.AspectRatio = float64(width) / float64(height)
	return c
}

// NewCameraForBounds returns a camera on the +Z side of the box looking at
// its center, far enough back for the bounding sphere to fit vertically
func NewCameraForBounds(bounds core.AABB, heightAngle, aspectRatio float64) Camera {
	center := bounds.Center()
	radius := bounds.Size().Length() / 2
	if radius == 0 {
		radius = 1
	}
	distance := radius / math.Sin(mgl64.DegToRad(heightAngle)/2)
	eye := center.Add(core.NewVec3(0, 0, distance))
	return NewCamera(eye, center, core.NewVec3(0, 1, 0), heightAngle, aspectRatio)
}
