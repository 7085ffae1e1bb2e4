// Package panel binds fields of arbitrary structs to named, foldered
// controls. A committed edit is written to its field and followed by exactly
// one render; intermediate drag values never render.
package panel

import (
	"errors"
	"log/slog"
	"strings"
)

var (
	// ErrInvalidValue is returned for input a control cannot represent.
	ErrInvalidValue = errors.New("panel: invalid value")
	// ErrFieldNotFound is returned when a bind target has no such field.
	ErrFieldNotFound = errors.New("panel: field not found")
	// ErrFieldType is returned when a field's type does not suit the control.
	ErrFieldType = errors.New("panel: field type mismatch")
	// ErrControlNotFound is returned for paths that name no control.
	ErrControlNotFound = errors.New("panel: control not found")
)

// Renderer is redrawn after every committed edit.
type Renderer interface {
	Render()
}

type Panel struct {
	root     *Folder
	renderer Renderer
	history  *History
	log      *slog.Logger
	depth    int
}

type Option func(*Panel)

func WithLogger(log *slog.Logger) Option {
	return func(p *Panel) {
		if log != nil {
			p.log = log
		}
	}
}

// WithHistoryDepth bounds the number of undoable edits.
func WithHistoryDepth(n int) Option {
	return func(p *Panel) { p.depth = n }
}

func New(r Renderer, opts ...Option) *Panel {
	p := &Panel{
		renderer: r,
		log:      slog.Default(),
		depth:    100,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.history = NewHistory(p.depth)
	p.root = &Folder{panel: p}
	return p
}

// AddFolder adds a top-level folder, or returns the existing one.
func (p *Panel) AddFolder(name string) *Folder {
	return p.root.AddFolder(name)
}

// Folder returns the top-level folder called name, or nil.
func (p *Panel) Folder(name string) *Folder {
	return p.root.Folder(name)
}

func (p *Panel) Folders() []*Folder {
	return p.root.Folders()
}

// Find resolves a "Folder/Sub/field" path to its control, or nil.
func (p *Panel) Find(path string) Control {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	f := p.root
	for _, name := range parts[:len(parts)-1] {
		if f = f.Folder(name); f == nil {
			return nil
		}
	}
	return f.Control(parts[len(parts)-1])
}

// Walk visits every control depth-first in insertion order.
func (p *Panel) Walk(fn func(path string, c Control)) {
	p.root.walk(fn)
}

// Paths lists every control path in Walk order.
func (p *Panel) Paths() []string {
	var out []string
	p.Walk(func(path string, _ Control) { out = append(out, path) })
	return out
}

// Undo reverts the last committed edit and renders once.
func (p *Panel) Undo() bool {
	if !p.history.Undo() {
		return false
	}
	p.render()
	return true
}

// Redo re-applies the last undone edit and renders once.
func (p *Panel) Redo() bool {
	if !p.history.Redo() {
		return false
	}
	p.render()
	return true
}

func (p *Panel) History() *History {
	return p.history
}

func (p *Panel) render() {
	if p.renderer != nil {
		p.renderer.Render()
	}
}
