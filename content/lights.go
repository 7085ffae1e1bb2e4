package content

import (
	"fmt"

	"material-scene/core"
	"material-scene/math"
	"material-scene/panel"
	"material-scene/scene"
	"material-scene/viewport"
)

// Lights are the three lights every showcase starts with.
type Lights struct {
	Main *scene.Light
	Hemi *scene.Light
	Sub  *scene.Light
}

// AddBasicLights adds a white key light, a hemisphere fill and a dimmer sub
// light to the scene, renders once, and exposes each under the "Light"
// folder when p is non-nil.
func AddBasicLights(v *viewport.Viewport, p *panel.Panel) (Lights, error) {
	l := Lights{
		Main: scene.NewDirectionalLight(core.Hex(0xffffff), 1),
		Hemi: scene.NewHemisphereLight(core.Hex(0xfefefe), core.Hex(0x080000), 0.8),
		Sub:  scene.NewDirectionalLight(core.Hex(0xffffff), 0.5),
	}
	l.Main.Name = "main"
	l.Hemi.Name = "hemi"
	l.Sub.Name = "sub"
	l.Main.Position = math.Vec3{X: -0.8, Y: -0.3, Z: 6}
	l.Sub.Position = math.Vec3{X: -1, Y: 1, Z: 0}

	v.Scene.AddLight(l.Main, l.Hemi, l.Sub)
	v.Render()

	if p == nil {
		return l, nil
	}
	f := p.AddFolder("Light")
	for _, light := range []*scene.Light{l.Main, l.Sub, l.Hemi} {
		if err := bindLight(f.AddFolder(light.Name), light); err != nil {
			return l, fmt.Errorf("light %s: %w", light.Name, err)
		}
	}
	return l, nil
}

func bindLight(f *panel.Folder, l *scene.Light) error {
	b := binder{f: f}
	b.bool(l, "visible")
	b.color(l, "color")
	if l.Kind == scene.HemisphereLight {
		b.color(l, "groundColor")
	}
	b.rng(l, "intensity", 0, 1)

	pos := binder{f: f.AddFolder("position")}
	for _, axis := range []string{"x", "y", "z"} {
		pos.number(&l.Position, axis)
	}

	if l.CanCastShadow() {
		s := binder{f: f.AddFolder("shadow")}
		s.bool(l, "castShadow")
		s.rng(l.Shadow, "radius", 0, 25, 1)
		s.rng(l.Shadow, "blurSamples", 1, 25, 1)
		if s.err != nil {
			return s.err
		}
	}
	if pos.err != nil {
		return pos.err
	}
	return b.err
}

// binder keeps the first bind error so folders read as a flat list of
// controls.
type binder struct {
	f   *panel.Folder
	err error
}

func (b *binder) keep(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *binder) color(target any, field string) {
	_, err := b.f.BindColor(target, field)
	b.keep(err)
}

func (b *binder) rng(target any, field string, min, max float64, step ...float64) {
	_, err := b.f.BindRange(target, field, min, max, step...)
	b.keep(err)
}

func (b *binder) number(target any, field string) {
	_, err := b.f.BindNumber(target, field)
	b.keep(err)
}

func (b *binder) bool(target any, field string) {
	_, err := b.f.BindBool(target, field)
	b.keep(err)
}

func (b *binder) enum(target any, field string, choices []panel.Choice) {
	_, err := b.f.BindEnum(target, field, choices)
	b.keep(err)
}
