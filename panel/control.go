package panel

import (
	"fmt"
	"reflect"
)

// Control is one bound field. Input records an intermediate value without
// touching the field; Finish assigns the last recorded value and renders
// once; Commit is Input followed by Finish.
type Control interface {
	Name() string
	Path() string
	// Value is the field's current value in the form Input accepts.
	Value() any
	Input(v any) error
	Finish()
	Commit(v any) error
	Pending() bool
	OnFinishChange(fn func(value any))
	Describe() string

	bind() *binding
}

// binding is the commit machinery shared by every control type.
type binding struct {
	folder   *Folder
	name     string
	field    reflect.Value
	parse    func(v any) (reflect.Value, error)
	format   func(v reflect.Value) any
	pending  reflect.Value
	onFinish []func(value any)
}

// init wires the binding and registers self, the typed control embedding
// it, with the folder.
func (b *binding) init(f *Folder, name string, field reflect.Value, self Control,
	parse func(any) (reflect.Value, error), format func(reflect.Value) any) {
	b.folder = f
	b.name = name
	b.field = field
	b.parse = parse
	b.format = format
	f.controls = append(f.controls, self)
}

func (b *binding) bind() *binding { return b }

func (b *binding) Name() string { return b.name }

func (b *binding) Path() string {
	if p := b.folder.Path(); p != "" {
		return p + "/" + b.name
	}
	return b.name
}

func (b *binding) Value() any { return b.format(b.field) }

func (b *binding) Pending() bool { return b.pending.IsValid() }

func (b *binding) Input(v any) error {
	val, err := b.parse(v)
	if err != nil {
		err = fmt.Errorf("%s: %w", b.Path(), err)
		b.folder.panel.log.Warn("rejected value", "control", b.Path(), "value", v, "err", err)
		return err
	}
	b.pending = val
	return nil
}

func (b *binding) Finish() {
	if !b.pending.IsValid() {
		return
	}
	next := b.pending
	b.pending = reflect.Value{}

	p := b.folder.panel
	p.history.Do(&setCommand{b: b, prev: copyValue(b.field), next: next})
	p.log.Debug("committed", "control", b.Path(), "value", b.format(next))
	p.render()
}

func (b *binding) Commit(v any) error {
	if err := b.Input(v); err != nil {
		return err
	}
	b.Finish()
	return nil
}

func (b *binding) OnFinishChange(fn func(value any)) {
	b.onFinish = append(b.onFinish, fn)
}

// assign writes v to the field and runs finish handlers without rendering.
func (b *binding) assign(v reflect.Value) {
	b.field.Set(v)
	value := b.field.Interface()
	for _, fn := range b.onFinish {
		fn(value)
	}
}

func copyValue(v reflect.Value) reflect.Value {
	out := reflect.New(v.Type()).Elem()
	out.Set(v)
	return out
}

type setCommand struct {
	b          *binding
	prev, next reflect.Value
}

func (c *setCommand) Execute() { c.b.assign(c.next) }

func (c *setCommand) Undo() { c.b.assign(c.prev) }

func (c *setCommand) Description() string {
	return fmt.Sprintf("set %s = %v", c.b.Path(), c.b.format(c.next))
}
