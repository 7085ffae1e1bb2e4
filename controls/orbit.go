// Package controls drives the camera from pointer input on every display
// refresh.
package controls

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/jinzhu/copier"

	"material-scene/core"
	"material-scene/math"
	"material-scene/scene"
)

// State reports whether an Orbit is driving frames.
type State int

const (
	Idle State = iota
	Animating
)

func (s State) String() string {
	if s == Animating {
		return "animating"
	}
	return "idle"
}

// Renderer is redrawn once per tick.
type Renderer interface {
	Render()
}

// Ticker calls registered functions once per display refresh.
type Ticker interface {
	OnFrame(fn func(dt float32))
}

const polarEpsilon = 1e-4

type dragMode int

const (
	dragNone dragMode = iota
	dragRotate
	dragPan
	dragDolly
)

// view is the part of the camera SaveState remembers.
type view struct {
	Position math.Vec3
	Target   math.Vec3
	Zoom     float32
}

// Orbit rotates the camera around Target with the left button, pans with
// the right button or shift+left, and dollies with the wheel or middle
// button. Input accumulates between ticks and is applied by Update.
type Orbit struct {
	Target math.Vec3

	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32
	MinDistance float32
	MaxDistance float32

	cam    *scene.Camera
	r      Renderer
	state  State
	width  int
	height int

	drag         dragMode
	lastX, lastY float64

	dTheta, dPhi float32
	scale        float32
	pan          math.Vec3

	saved view
}

// NewOrbit aims cam at the origin and returns an idle driver for it.
func NewOrbit(cam *scene.Camera, r Renderer) *Orbit {
	o := &Orbit{
		RotateSpeed: 1,
		ZoomSpeed:   1,
		PanSpeed:    1,
		MinDistance: 0,
		MaxDistance: math32.MaxFloat32,
		cam:         cam,
		r:           r,
		width:       1,
		height:      1,
		scale:       1,
	}
	cam.LookAt(o.Target)
	o.saved = view{Position: cam.Position, Target: o.Target, Zoom: cam.Zoom}
	return o
}

func (o *Orbit) State() State { return o.state }

// SetSize tells the driver the surface size, which scales pointer deltas.
func (o *Orbit) SetSize(width, height int) {
	if width > 0 && height > 0 {
		o.width, o.height = width, height
	}
}

// Attach starts the per-tick loop: apply accumulated input, then render.
// Attaching twice is a no-op.
func (o *Orbit) Attach(t Ticker) {
	if o.state == Animating {
		return
	}
	o.state = Animating
	t.OnFrame(func(float32) {
		o.Update()
		o.r.Render()
	})
}

// Update applies accumulated input to the camera and reports whether it
// moved. Without input the camera is left untouched.
func (o *Orbit) Update() bool {
	if o.dTheta == 0 && o.dPhi == 0 && o.scale == 1 && o.pan.LengthSqr() == 0 {
		return false
	}

	offset := o.cam.Position.Sub(o.Target)
	radius := offset.Length()
	theta := math32.Atan2(offset.X, offset.Z)
	phi := float32(0)
	if radius > 0 {
		phi = math32.Acos(math.Clamp(offset.Y/radius, -1, 1))
	}

	theta += o.dTheta
	phi = math.Clamp(phi+o.dPhi, polarEpsilon, math32.Pi-polarEpsilon)
	radius = math.Clamp(radius*o.scale, o.MinDistance, o.MaxDistance)
	o.Target = o.Target.Add(o.pan)

	sinPhi := math32.Sin(phi)
	offset = math.Vec3{
		X: radius * sinPhi * math32.Sin(theta),
		Y: radius * math32.Cos(phi),
		Z: radius * sinPhi * math32.Cos(theta),
	}
	o.cam.Position = o.Target.Add(offset)
	o.cam.LookAt(o.Target)

	o.dTheta, o.dPhi, o.scale, o.pan = 0, 0, 1, math.Vec3{}
	return true
}

// SaveState remembers the current view for Reset.
func (o *Orbit) SaveState() error {
	if err := copier.Copy(&o.saved, o.cam); err != nil {
		return fmt.Errorf("save orbit state: %w", err)
	}
	o.saved.Target = o.Target
	return nil
}

// Reset restores the view stored by SaveState and drops pending input.
func (o *Orbit) Reset() error {
	if err := copier.Copy(o.cam, &o.saved); err != nil {
		return fmt.Errorf("reset orbit: %w", err)
	}
	o.Target = o.saved.Target
	o.cam.UpdateProjection()
	o.dTheta, o.dPhi, o.scale, o.pan = 0, 0, 1, math.Vec3{}
	o.drag = dragNone
	return nil
}

func (o *Orbit) PointerDown(b core.Button, x, y float64, shift bool) {
	switch {
	case b == core.ButtonLeft && !shift:
		o.drag = dragRotate
	case b == core.ButtonRight, b == core.ButtonLeft && shift:
		o.drag = dragPan
	case b == core.ButtonMiddle:
		o.drag = dragDolly
	default:
		return
	}
	o.lastX, o.lastY = x, y
}

func (o *Orbit) PointerMove(x, y float64) {
	if o.drag == dragNone {
		return
	}
	dx := float32(x - o.lastX)
	dy := float32(y - o.lastY)
	o.lastX, o.lastY = x, y

	h := float32(o.height)
	switch o.drag {
	case dragRotate:
		o.dTheta -= 2 * math32.Pi * dx / h * o.RotateSpeed
		o.dPhi -= 2 * math32.Pi * dy / h * o.RotateSpeed
	case dragPan:
		o.panBy(dx, dy)
	case dragDolly:
		if dy > 0 {
			o.scale /= o.zoomScale()
		} else if dy < 0 {
			o.scale *= o.zoomScale()
		}
	}
}

func (o *Orbit) PointerUp(core.Button) {
	o.drag = dragNone
}

// Wheel dollies in for positive dy (scroll up) and out for negative.
func (o *Orbit) Wheel(dy float64) {
	switch {
	case dy > 0:
		o.scale *= o.zoomScale()
	case dy < 0:
		o.scale /= o.zoomScale()
	}
}

func (o *Orbit) zoomScale() float32 {
	return math32.Pow(0.95, o.ZoomSpeed)
}

// panBy moves the target so the point under the pointer follows it.
func (o *Orbit) panBy(dx, dy float32) {
	right := o.cam.RightVector()
	up := o.cam.UpVector()

	var perPixelX, perPixelY float32
	if o.cam.Projection == scene.Orthographic {
		zoom := o.cam.Zoom
		if zoom <= 0 {
			zoom = 1
		}
		perPixelX = (o.cam.Right - o.cam.Left) / zoom / float32(o.width)
		perPixelY = (o.cam.Top - o.cam.Bottom) / zoom / float32(o.height)
	} else {
		dist := o.cam.Position.Sub(o.Target).Length()
		dist *= math32.Tan(math.DegToRad(o.cam.FOV) / 2)
		perPixelX = 2 * dist / float32(o.height)
		perPixelY = perPixelX
	}
	o.pan = o.pan.
		Add(right.Mul(-dx * perPixelX * o.PanSpeed)).
		Add(up.Mul(dy * perPixelY * o.PanSpeed))
}
