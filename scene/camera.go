package scene

import (
	"material-scene/math"
)

// Projection selects how a Camera maps view space to clip space.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// Camera is a look-at camera with either a perspective or an orthographic
// projection. Fields may be edited freely; call UpdateProjection after
// changing projection parameters.
type Camera struct {
	Projection Projection

	// Perspective parameters. FOV is the vertical field of view in degrees.
	FOV    float32
	Aspect float32

	// Orthographic frustum.
	Left, Right, Top, Bottom float32

	Near, Far float32
	Zoom      float32

	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	projection math.Mat4
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z.
func NewPerspectiveCamera(fov, aspect, near, far float32) *Camera {
	c := &Camera{
		Projection: Perspective,
		FOV:        fov,
		Aspect:     aspect,
		Near:       near,
		Far:        far,
		Zoom:       1,
		Target:     math.Vec3{Z: -1},
		Up:         math.Vec3Up,
	}
	c.UpdateProjection()
	return c
}

func NewOrthographicCamera(left, right, top, bottom, near, far float32) *Camera {
	c := &Camera{
		Projection: Orthographic,
		Left:       left,
		Right:      right,
		Top:        top,
		Bottom:     bottom,
		Near:       near,
		Far:        far,
		Zoom:       1,
		Target:     math.Vec3{Z: -1},
		Up:         math.Vec3Up,
	}
	c.UpdateProjection()
	return c
}

// SetAspect updates the aspect ratio from a surface size. It only affects
// perspective cameras and ignores degenerate sizes.
func (c *Camera) SetAspect(width, height int) {
	if c.Projection != Perspective || width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// UpdateProjection recomputes the projection matrix from the parameters.
func (c *Camera) UpdateProjection() {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	switch c.Projection {
	case Orthographic:
		cx := (c.Left + c.Right) / 2
		cy := (c.Top + c.Bottom) / 2
		dx := (c.Right - c.Left) / (2 * zoom)
		dy := (c.Top - c.Bottom) / (2 * zoom)
		c.projection = math.Mat4Orthographic(cx-dx, cx+dx, cy-dy, cy+dy, c.Near, c.Far)
	default:
		c.projection = math.Mat4Perspective(math.DegToRad(c.FOV)/zoom, c.Aspect, c.Near, c.Far)
	}
}

func (c *Camera) ProjectionMatrix() math.Mat4 {
	return c.projection
}

func (c *Camera) ViewMatrix() math.Mat4 {
	return math.Mat4LookAt(c.Position, c.Target, c.Up)
}

func (c *Camera) ViewProjectionMatrix() math.Mat4 {
	return c.ViewMatrix().Mul(c.projection)
}

func (c *Camera) SetPosition(pos math.Vec3) {
	c.Position = pos
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
}

// Forward is the unit vector from the camera toward its target.
func (c *Camera) Forward() math.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// RightVector is the camera's unit right vector.
func (c *Camera) RightVector() math.Vec3 {
	return c.Forward().Cross(c.Up).Normalize()
}

// UpVector is the camera's unit up vector, orthogonal to Forward.
func (c *Camera) UpVector() math.Vec3 {
	return c.RightVector().Cross(c.Forward())
}
