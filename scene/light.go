package scene

import (
	"material-scene/core"
	"material-scene/math"
)

type LightKind int

const (
	DirectionalLight LightKind = iota
	HemisphereLight
	PointLight
)

func (k LightKind) String() string {
	switch k {
	case HemisphereLight:
		return "hemisphere"
	case PointLight:
		return "point"
	}
	return "directional"
}

// ShadowSettings configures the shadow map a light renders when CastShadow
// is set.
type ShadowSettings struct {
	Bias        float32
	Radius      float32
	BlurSamples int
	MapSize     int
}

func DefaultShadowSettings() *ShadowSettings {
	return &ShadowSettings{
		Bias:        0,
		Radius:      1,
		BlurSamples: 8,
		MapSize:     2048,
	}
}

// Light is a scene light. Directional lights shine from Position toward
// Target; hemisphere lights blend Color (sky, +Y) and GroundColor (-Y) by
// the surface normal.
type Light struct {
	Name        string
	Kind        LightKind
	Color       core.Color
	GroundColor core.Color
	Intensity   float32
	Position    math.Vec3
	Target      math.Vec3
	Range       float32
	Visible     bool
	CastShadow  bool
	Shadow      *ShadowSettings
}

func NewDirectionalLight(color core.Color, intensity float32) *Light {
	return &Light{
		Name:      "DirectionalLight",
		Kind:      DirectionalLight,
		Color:     color,
		Intensity: intensity,
		Position:  math.Vec3Up,
		Visible:   true,
		Shadow:    DefaultShadowSettings(),
	}
}

func NewHemisphereLight(sky, ground core.Color, intensity float32) *Light {
	return &Light{
		Name:        "HemisphereLight",
		Kind:        HemisphereLight,
		Color:       sky,
		GroundColor: ground,
		Intensity:   intensity,
		Position:    math.Vec3Up,
		Visible:     true,
	}
}

func NewPointLight(color core.Color, intensity, rangeDist float32) *Light {
	return &Light{
		Name:      "PointLight",
		Kind:      PointLight,
		Color:     color,
		Intensity: intensity,
		Range:     rangeDist,
		Visible:   true,
		Shadow:    DefaultShadowSettings(),
	}
}

// Direction is the unit direction light travels for directional lights.
func (l *Light) Direction() math.Vec3 {
	d := l.Target.Sub(l.Position)
	if d.LengthSqr() == 0 {
		return math.Vec3{Y: -1}
	}
	return d.Normalize()
}

// CanCastShadow reports whether the light kind supports a shadow map.
func (l *Light) CanCastShadow() bool {
	return l.Kind != HemisphereLight && l.Shadow != nil
}
