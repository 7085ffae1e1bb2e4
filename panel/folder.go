package panel

import (
	"reflect"

	"material-scene/core"
)

// Folder groups controls and nested folders under a name.
type Folder struct {
	name     string
	panel    *Panel
	parent   *Folder
	folders  []*Folder
	controls []Control
}

func (f *Folder) Name() string { return f.name }

// Path is the slash-separated folder path from the panel root.
func (f *Folder) Path() string {
	if f.parent == nil || f.parent.parent == nil {
		return f.name
	}
	return f.parent.Path() + "/" + f.name
}

func (f *Folder) AddFolder(name string) *Folder {
	if sub := f.Folder(name); sub != nil {
		return sub
	}
	sub := &Folder{name: name, panel: f.panel, parent: f}
	f.folders = append(f.folders, sub)
	return sub
}

func (f *Folder) Folder(name string) *Folder {
	for _, sub := range f.folders {
		if sub.name == name {
			return sub
		}
	}
	return nil
}

func (f *Folder) Folders() []*Folder { return f.folders }

func (f *Folder) Controls() []Control { return f.controls }

// Control returns the control called name in this folder, or nil.
func (f *Folder) Control(name string) Control {
	for _, c := range f.controls {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func (f *Folder) walk(fn func(path string, c Control)) {
	for _, c := range f.controls {
		fn(c.Path(), c)
	}
	for _, sub := range f.folders {
		sub.walk(fn)
	}
}

// BindColor binds a core.Color field. Committed values may be hex strings
// ("#rgb", "#rrggbb", "#rrggbbaa", "0xrrggbb"), integers or core.Color.
func (f *Folder) BindColor(target any, field string) (*ColorControl, error) {
	v, err := lookupField(target, field)
	if err != nil {
		return nil, err
	}
	if v.Type() != colorType {
		return nil, fieldTypeError(field, v.Type(), "core.Color")
	}
	c := &ColorControl{}
	c.init(f, field, v, c, c.parse, c.format)
	return c, nil
}

// BindRange binds a numeric field to [min,max]. A positive step snaps
// committed values to min + k*step before clamping.
func (f *Folder) BindRange(target any, field string, min, max float64, step ...float64) (*RangeControl, error) {
	if min > max {
		min, max = max, min
	}
	c, err := f.bindNumber(target, field)
	if err != nil {
		return nil, err
	}
	c.Min, c.Max, c.Bounded = min, max, true
	if len(step) > 0 && step[0] > 0 {
		c.Step = step[0]
	}
	return c, nil
}

// BindNumber binds an unbounded numeric field.
func (f *Folder) BindNumber(target any, field string) (*RangeControl, error) {
	return f.bindNumber(target, field)
}

func (f *Folder) bindNumber(target any, field string) (*RangeControl, error) {
	v, err := lookupField(target, field)
	if err != nil {
		return nil, err
	}
	if !isNumeric(v.Kind()) {
		return nil, fieldTypeError(field, v.Type(), "number")
	}
	c := &RangeControl{}
	c.init(f, field, v, c, c.parse, c.format)
	return c, nil
}

// BindEnum binds a field to an ordered set of labelled values. Every choice
// value must be assignable to the field.
func (f *Folder) BindEnum(target any, field string, choices []Choice) (*EnumControl, error) {
	v, err := lookupField(target, field)
	if err != nil {
		return nil, err
	}
	if len(choices) == 0 {
		return nil, fieldTypeError(field, v.Type(), "at least one choice")
	}
	for _, ch := range choices {
		if ch.Value == nil {
			if !nillable(v.Kind()) {
				return nil, fieldTypeError(field, v.Type(), "nil choice "+ch.Label)
			}
			continue
		}
		if !reflect.TypeOf(ch.Value).AssignableTo(v.Type()) {
			return nil, fieldTypeError(field, v.Type(), reflect.TypeOf(ch.Value).String())
		}
	}
	c := &EnumControl{Choices: append([]Choice(nil), choices...)}
	c.init(f, field, v, c, c.parse, c.format)
	return c, nil
}

func (f *Folder) BindBool(target any, field string) (*BoolControl, error) {
	v, err := lookupField(target, field)
	if err != nil {
		return nil, err
	}
	if v.Kind() != reflect.Bool {
		return nil, fieldTypeError(field, v.Type(), "bool")
	}
	c := &BoolControl{}
	c.init(f, field, v, c, c.parse, c.format)
	return c, nil
}

var colorType = reflect.TypeOf(core.Color{})
