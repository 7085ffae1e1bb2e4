package panel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
)

// PresetVersion is written into saved presets. Loading accepts any preset
// with the same major version.
const PresetVersion = "1.0.0"

// ErrPresetVersion is returned for presets written by an incompatible format.
var ErrPresetVersion = errors.New("panel: unsupported preset version")

// Preset maps control paths to values in the form Control.Value reports.
type Preset struct {
	Version string         `toml:"version"`
	Values  map[string]any `toml:"values"`
}

// Snapshot captures the current value of every control. Enum controls whose
// field holds none of their choices are left out, since the value could not
// be applied back.
func (p *Panel) Snapshot() Preset {
	pr := Preset{Version: PresetVersion, Values: map[string]any{}}
	p.Walk(func(path string, c Control) {
		if e, ok := c.(*EnumControl); ok && !e.Matched() {
			p.log.Debug("snapshot skips unmatched enum", "control", path)
			return
		}
		pr.Values[path] = c.Value()
	})
	return pr
}

// Apply assigns every value in pr that differs from the current one as a
// single undoable edit and renders once. When nothing differs it records no
// history and does not render. Unknown paths and invalid values are skipped
// and reported together; the rest still apply.
func (p *Panel) Apply(pr Preset) error {
	paths := make([]string, 0, len(pr.Values))
	for path := range pr.Values {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var errs []error
	var cmds []Command
	for _, path := range paths {
		c := p.Find(path)
		if c == nil {
			errs = append(errs, fmt.Errorf("%w: %s", ErrControlNotFound, path))
			continue
		}
		b := c.bind()
		next, err := b.parse(pr.Values[path])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if sameValue(b.field.Interface(), next.Interface()) {
			continue
		}
		prev := copyValue(b.field)
		cmds = append(cmds, &setCommand{b: b, prev: prev, next: next})
	}
	for _, err := range errs {
		p.log.Warn("preset entry skipped", "err", err)
	}
	if len(cmds) > 0 {
		p.history.Do(&batch{cmds: cmds, desc: fmt.Sprintf("apply preset (%d values)", len(cmds))})
		p.render()
	}
	return errors.Join(errs...)
}

// SavePreset writes the current snapshot to path as TOML.
func (p *Panel) SavePreset(path string) error {
	data, err := toml.Marshal(p.Snapshot())
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	p.log.Info("preset saved", "path", path, "controls", len(p.Paths()))
	return nil
}

// ReadPreset decodes a TOML preset file and checks its version.
func ReadPreset(path string) (Preset, error) {
	var pr Preset
	data, err := os.ReadFile(path)
	if err != nil {
		return pr, fmt.Errorf("read preset: %w", err)
	}
	if err := toml.Unmarshal(data, &pr); err != nil {
		return pr, fmt.Errorf("decode preset %s: %w", path, err)
	}
	if err := checkVersion(pr.Version); err != nil {
		return pr, fmt.Errorf("preset %s: %w", path, err)
	}
	return pr, nil
}

// LoadPreset reads path and applies it.
func (p *Panel) LoadPreset(path string) error {
	pr, err := ReadPreset(path)
	if err != nil {
		return err
	}
	p.log.Info("preset loaded", "path", path, "values", len(pr.Values))
	return p.Apply(pr)
}

func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrPresetVersion, v)
	}
	want := semver.MustParse(PresetVersion)
	c, err := semver.NewConstraint(fmt.Sprintf("^%d", want.Major()))
	if err != nil {
		return err
	}
	if !c.Check(ver) {
		return fmt.Errorf("%w: %s", ErrPresetVersion, v)
	}
	return nil
}

// WatchPreset reloads path whenever it changes on disk until ctx is done.
// Reloads are handed to post so they run on the caller's event loop; post
// must be safe to call from another goroutine.
func (p *Panel) WatchPreset(ctx context.Context, path string, post func(func())) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch preset: %w", err)
	}
	// Editors often replace files instead of writing them, so watch the dir.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch preset: %w", err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				post(func() {
					if err := p.LoadPreset(abs); err != nil {
						p.log.Warn("preset reload", "path", abs, "err", err)
					}
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				p.log.Warn("preset watcher", "err", err)
			}
		}
	}()
	return nil
}
