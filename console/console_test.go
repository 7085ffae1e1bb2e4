package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"material-scene/core"
	"material-scene/panel"
)

type counter struct{ n int }

func (c *counter) Render() { c.n++ }

type box struct {
	Color   core.Color
	Opacity float32
	Visible bool
}

func setup(t *testing.T) (*Console, *box, *counter, *bytes.Buffer) {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := &counter{}
	p := panel.New(r, panel.WithLogger(quiet))
	b := &box{Color: core.Hex(0x00ff00), Opacity: 1, Visible: true}
	f := p.AddFolder("Box Material")
	_, err := f.BindColor(b, "color")
	require.NoError(t, err)
	_, err = f.BindRange(b, "opacity", 0, 1)
	require.NoError(t, err)
	_, err = f.BindBool(b, "visible")
	require.NoError(t, err)

	var out bytes.Buffer
	return New(p, &out, WithProfile(termenv.Ascii), WithLogger(quiet)), b, r, &out
}

func TestSetCommitsAndRenders(t *testing.T) {
	c, b, r, out := setup(t)
	require.NoError(t, c.Exec(`set "Box Material/color" "#ff0000"`))
	assert.Equal(t, core.ColorRed, b.Color)
	assert.Equal(t, 1, r.n)
	assert.Contains(t, out.String(), "Box Material/color = #ff0000")

	require.NoError(t, c.Exec(`set "Box Material/visible" false`))
	assert.False(t, b.Visible)
}

func TestDragRendersOnlyOnFinish(t *testing.T) {
	c, b, r, _ := setup(t)
	require.NoError(t, c.Exec(`drag "Box Material/opacity" 0.2`))
	require.NoError(t, c.Exec(`drag "Box Material/opacity" 0.4`))
	assert.Equal(t, float32(1), b.Opacity)
	assert.Equal(t, 0, r.n)

	require.NoError(t, c.Exec(`finish "Box Material/opacity"`))
	assert.Equal(t, float32(0.4), b.Opacity)
	assert.Equal(t, 1, r.n)

	require.NoError(t, c.Exec(`finish "Box Material/opacity"`))
	assert.Equal(t, 1, r.n)
}

func TestInvalidValueLeavesTarget(t *testing.T) {
	c, b, r, _ := setup(t)
	err := c.Exec(`set "Box Material/color" "not a color"`)
	assert.ErrorIs(t, err, panel.ErrInvalidValue)
	assert.Equal(t, core.Hex(0x00ff00), b.Color)
	assert.Equal(t, 0, r.n)
}

func TestUnknownCommandSuggests(t *testing.T) {
	c, _, _, _ := setup(t)
	err := c.Exec("sett a b")
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), `did you mean "set"`)

	err = c.Exec("xyzzy")
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestUnknownPathSuggests(t *testing.T) {
	c, _, _, _ := setup(t)
	err := c.Exec(`get "Box Material/colr"`)
	require.ErrorIs(t, err, panel.ErrControlNotFound)
	assert.Contains(t, err.Error(), `did you mean "Box Material/color"`)
}

func TestUsageAndParseErrors(t *testing.T) {
	c, _, _, _ := setup(t)
	assert.ErrorIs(t, c.Exec("set only-one"), ErrUsage)
	assert.ErrorIs(t, c.Exec("undo extra"), ErrUsage)
	assert.Error(t, c.Exec(`set "Box Material/color`))
	assert.NoError(t, c.Exec("   "))
}

func TestListAndGet(t *testing.T) {
	c, _, _, out := setup(t)
	require.NoError(t, c.Exec("ls Box"))
	s := out.String()
	assert.Contains(t, s, "Box Material/color  color = #00ff00")
	assert.Contains(t, s, "Box Material/opacity  range [0, 1] = 1")
	assert.NotContains(t, s, "\x1b[", "ascii profile has no escapes")

	out.Reset()
	require.NoError(t, c.Exec(`get "Box Material/opacity"`))
	assert.Equal(t, "1\n", out.String())

	assert.ErrorIs(t, c.Exec("ls Bx Material"), ErrUsage)
	assert.ErrorIs(t, c.Exec(`ls "Bx Material"`), panel.ErrControlNotFound)
}

func TestUndoRedoHistory(t *testing.T) {
	c, b, r, out := setup(t)
	require.NoError(t, c.Exec(`set "Box Material/opacity" 0.5`))
	require.NoError(t, c.Exec("undo"))
	assert.Equal(t, float32(1), b.Opacity)
	require.NoError(t, c.Exec("redo"))
	assert.Equal(t, float32(0.5), b.Opacity)
	assert.Equal(t, 3, r.n)

	out.Reset()
	require.NoError(t, c.Exec("history"))
	assert.Contains(t, out.String(), "set Box Material/opacity = 0.5")

	out.Reset()
	require.NoError(t, c.Exec("redo"))
	assert.Equal(t, "nothing to redo\n", out.String())
}

func TestSaveShowLoad(t *testing.T) {
	c, b, _, out := setup(t)
	path := filepath.Join(t.TempDir(), "preset.toml")
	require.NoError(t, c.Exec("save "+path))
	assert.Contains(t, out.String(), "saved "+path)

	out.Reset()
	require.NoError(t, c.Exec("show "+path))
	assert.Contains(t, out.String(), "version")
	assert.Contains(t, out.String(), "Box Material/opacity")

	require.NoError(t, c.Exec(`set "Box Material/opacity" 0.25`))
	require.NoError(t, c.Exec("load "+path))
	assert.Equal(t, float32(1), b.Opacity)

	assert.Error(t, c.Exec("show "+filepath.Join(t.TempDir(), "missing.toml")))
}

func TestHelpListsCommands(t *testing.T) {
	c, _, _, out := setup(t)
	require.NoError(t, c.Exec("help"))
	for _, name := range []string{"ls", "set <path> <value>", "drag", "finish", "undo", "redo", "save", "load", "show"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestRunPostsEachLine(t *testing.T) {
	c, b, r, out := setup(t)
	posted := 0
	post := func(fn func()) {
		posted++
		fn()
	}
	in := strings.NewReader("set \"Box Material/opacity\" 0.5\nbogus\n\nget \"Box Material/opacity\"\n")
	err := c.Run(context.Background(), in, post)
	require.NoError(t, err)

	assert.Equal(t, 4, posted)
	assert.Equal(t, float32(0.5), b.Opacity)
	assert.Equal(t, 1, r.n)
	assert.Contains(t, out.String(), `error: unknown command "bogus"`)
	assert.Contains(t, out.String(), "0.5\n")
}

func TestRunStopsWithContext(t *testing.T) {
	c, _, _, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pr, pw := io.Pipe()
	defer pw.Close()
	err := c.Run(ctx, pr, func(fn func()) { fn() })
	assert.True(t, errors.Is(err, context.Canceled))
}
