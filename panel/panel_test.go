package panel

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"material-scene/core"
)

type countingRenderer struct{ n int }

func (r *countingRenderer) Render() { r.n++ }

type tone struct{ name string }

type material struct {
	Color        core.Color
	Opacity      float32
	IOR          float64
	BlurSamples  int
	Transparent  bool
	GradientMap  *tone
	hidden       float32
	Reflectivity float32
}

func newPanel(t *testing.T) (*Panel, *countingRenderer) {
	t.Helper()
	r := &countingRenderer{}
	return New(r, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))), r
}

func TestColorCommitRendersOnce(t *testing.T) {
	p, r := newPanel(t)
	m := &material{Color: core.Hex(0x00ff00)}
	c, err := p.AddFolder("Box Material").BindColor(m, "color")
	require.NoError(t, err)

	var seen []any
	c.OnFinishChange(func(v any) { seen = append(seen, v) })

	require.NoError(t, c.Commit("#ff0000"))
	assert.Equal(t, core.ColorRed, m.Color)
	assert.Equal(t, 1, r.n)
	assert.Equal(t, []any{core.ColorRed}, seen)
	assert.Equal(t, "#ff0000", c.Value())
	assert.Equal(t, "Box Material/color", c.Path())
}

func TestColorAcceptsIntegers(t *testing.T) {
	p, _ := newPanel(t)
	m := &material{}
	c, err := p.AddFolder("f").BindColor(m, "Color")
	require.NoError(t, err)

	require.NoError(t, c.Commit(0x9900ff))
	assert.Equal(t, "#9900ff", c.Value())
	require.NoError(t, c.Commit(int64(0xccddff)))
	assert.Equal(t, "#ccddff", c.Value())
}

func TestInvalidColorLeavesTargetAndDoesNotRender(t *testing.T) {
	var logs bytes.Buffer
	r := &countingRenderer{}
	p := New(r, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	m := &material{Color: core.ColorWhite}
	c, err := p.AddFolder("f").BindColor(m, "color")
	require.NoError(t, err)

	err = c.Commit("#zzzzzz")
	assert.True(t, errors.Is(err, ErrInvalidValue))
	assert.Equal(t, core.ColorWhite, m.Color)
	assert.Equal(t, 0, r.n)
	assert.Contains(t, logs.String(), "rejected value")

	assert.ErrorIs(t, c.Commit(-1), ErrInvalidValue)
	assert.ErrorIs(t, c.Commit(true), ErrInvalidValue)
}

func TestRangeClampsAndRenders(t *testing.T) {
	p, r := newPanel(t)
	m := &material{}
	c, err := p.AddFolder("Physical Sphere").BindRange(m, "IOR", 1, 2)
	require.NoError(t, err)

	require.NoError(t, c.Commit(1.45))
	assert.Equal(t, 1.45, m.IOR)

	require.NoError(t, c.Commit(5.0))
	assert.Equal(t, 2.0, m.IOR)

	require.NoError(t, c.Commit(-3))
	assert.Equal(t, 1.0, m.IOR)
	assert.Equal(t, 3, r.n)
}

func TestRangeSnapsToStep(t *testing.T) {
	p, _ := newPanel(t)
	m := &material{}
	c, err := p.AddFolder("shadow").BindRange(m, "blurSamples", 1, 25, 1)
	require.NoError(t, err)

	require.NoError(t, c.Commit(7.4))
	assert.Equal(t, 7, m.BlurSamples)
	require.NoError(t, c.Commit("12.6"))
	assert.Equal(t, 13, m.BlurSamples)
	require.NoError(t, c.Commit(0))
	assert.Equal(t, 1, m.BlurSamples)
	assert.Equal(t, "range [1, 25] step 1 = 1", c.Describe())
}

func TestRangeStepStaysMonotonicAtMax(t *testing.T) {
	p, _ := newPanel(t)
	m := &material{}
	c, err := p.AddFolder("f").BindRange(m, "opacity", 0, 1, 0.3)
	require.NoError(t, err)

	require.NoError(t, c.Commit(1.0))
	assert.Equal(t, float32(0.9), m.Opacity)
	require.NoError(t, c.Commit(5.0))
	assert.Equal(t, float32(0.9), m.Opacity, "clamped input lands on the last step inside the range")
	require.NoError(t, c.Commit(0.5))
	assert.Equal(t, float32(0.6), m.Opacity)

	prev := -1.0
	for x := -1.0; x <= 3; x += 0.05 {
		require.NoError(t, c.Commit(x))
		got := float64(m.Opacity)
		assert.GreaterOrEqual(t, got, prev, "commit %v", x)
		assert.LessOrEqual(t, got, 1.0)
		prev = got
	}
}

func TestRangeRejectsNaN(t *testing.T) {
	p, r := newPanel(t)
	m := &material{Opacity: 0.5}
	c, err := p.AddFolder("f").BindRange(m, "opacity", 0, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, c.Commit(math.NaN()), ErrInvalidValue)
	assert.ErrorIs(t, c.Commit("half"), ErrInvalidValue)
	assert.Equal(t, float32(0.5), m.Opacity)
	assert.Equal(t, 0, r.n)
}

func TestNumberIsUnbounded(t *testing.T) {
	p, _ := newPanel(t)
	pos := &struct{ X, Y, Z float32 }{}
	c, err := p.AddFolder("position").BindNumber(pos, "x")
	require.NoError(t, err)

	require.NoError(t, c.Commit(-0.8))
	assert.Equal(t, float32(-0.8), pos.X)
	require.NoError(t, c.Commit(1e4))
	assert.Equal(t, float32(1e4), pos.X)
	assert.Equal(t, "number = 10000", c.Describe())
}

func TestDragDoesNotRenderUntilFinish(t *testing.T) {
	p, r := newPanel(t)
	m := &material{}
	c, err := p.AddFolder("f").BindRange(m, "opacity", 0, 1)
	require.NoError(t, err)

	for _, v := range []float64{0.1, 0.2, 0.3, 0.4} {
		require.NoError(t, c.Input(v))
	}
	assert.True(t, c.Pending())
	assert.Equal(t, float32(0), m.Opacity, "intermediate values are not applied")
	assert.Equal(t, 0, r.n)

	c.Finish()
	assert.Equal(t, float32(0.4), m.Opacity)
	assert.Equal(t, 1, r.n)
	assert.False(t, c.Pending())

	c.Finish()
	assert.Equal(t, 1, r.n, "finish without pending input is a no-op")
}

func TestEnumByLabelAndValue(t *testing.T) {
	p, r := newPanel(t)
	three, four := &tone{"three"}, &tone{"four"}
	m := &material{GradientMap: three}
	c, err := p.AddFolder("Knot Material").BindEnum(m, "gradientMap", []Choice{
		{Label: "threeTone", Value: three},
		{Label: "fourTone", Value: four},
	})
	require.NoError(t, err)
	assert.Equal(t, "threeTone", c.Value())

	require.NoError(t, c.Commit("fourTone"))
	assert.Same(t, four, m.GradientMap)
	require.NoError(t, c.Commit(three))
	assert.Same(t, three, m.GradientMap)
	assert.Equal(t, 2, r.n)

	assert.ErrorIs(t, c.Commit("sixTone"), ErrInvalidValue)
	assert.Same(t, three, m.GradientMap)
	assert.Equal(t, 2, r.n)
	assert.Equal(t, []string{"threeTone", "fourTone"}, c.Labels())
}

func TestEnumChoiceTypeChecked(t *testing.T) {
	p, _ := newPanel(t)
	m := &material{}
	_, err := p.AddFolder("f").BindEnum(m, "gradientMap", []Choice{{Label: "bad", Value: 3}})
	assert.ErrorIs(t, err, ErrFieldType)
}

func TestBool(t *testing.T) {
	p, r := newPanel(t)
	m := &material{Transparent: true}
	c, err := p.AddFolder("Phong Sphere").BindBool(m, "transparent")
	require.NoError(t, err)

	require.NoError(t, c.Commit(false))
	assert.False(t, m.Transparent)
	require.NoError(t, c.Commit("true"))
	assert.True(t, m.Transparent)
	assert.ErrorIs(t, c.Commit("maybe"), ErrInvalidValue)
	assert.Equal(t, 2, r.n)
}

func TestBindErrors(t *testing.T) {
	p, _ := newPanel(t)
	f := p.AddFolder("f")
	m := &material{}

	_, err := f.BindRange(m, "missing", 0, 1)
	assert.ErrorIs(t, err, ErrFieldNotFound)
	_, err = f.BindRange(m, "hidden", 0, 1)
	assert.ErrorIs(t, err, ErrFieldNotFound, "unexported fields cannot be bound")
	_, err = f.BindColor(m, "opacity")
	assert.ErrorIs(t, err, ErrFieldType)
	_, err = f.BindBool(m, "color")
	assert.ErrorIs(t, err, ErrFieldType)
	_, err = f.BindRange(*m, "opacity", 0, 1)
	assert.ErrorIs(t, err, ErrFieldType)
	_, err = f.BindRange((*material)(nil), "opacity", 0, 1)
	assert.ErrorIs(t, err, ErrFieldType)
	assert.Empty(t, f.Controls())
}

func TestFindAndWalk(t *testing.T) {
	p, _ := newPanel(t)
	m := &material{}
	pos := &struct{ X, Y, Z float32 }{}

	main := p.AddFolder("Light").AddFolder("main")
	_, err := main.BindRange(m, "intensity", 0, 1)
	assert.Error(t, err)
	_, err = main.BindRange(m, "opacity", 0, 1)
	require.NoError(t, err)
	for _, axis := range []string{"x", "y", "z"} {
		_, err := main.AddFolder("position").BindNumber(pos, axis)
		require.NoError(t, err)
	}

	assert.Same(t, main, p.AddFolder("Light").AddFolder("main"), "folders are reused by name")
	assert.NotNil(t, p.Find("Light/main/position/y"))
	assert.Nil(t, p.Find("Light/sub/opacity"))
	assert.Nil(t, p.Find(""))
	assert.Equal(t, []string{
		"Light/main/opacity",
		"Light/main/position/x",
		"Light/main/position/y",
		"Light/main/position/z",
	}, p.Paths())
}

func TestUndoRedo(t *testing.T) {
	p, r := newPanel(t)
	m := &material{Reflectivity: 0.9}
	c, err := p.AddFolder("Phong Sphere").BindRange(m, "reflectivity", 0, 1)
	require.NoError(t, err)

	var calls int
	c.OnFinishChange(func(any) { calls++ })

	require.NoError(t, c.Commit(0.25))
	require.Equal(t, 1, r.n)

	assert.True(t, p.Undo())
	assert.Equal(t, float32(0.9), m.Reflectivity)
	assert.Equal(t, 2, r.n)

	assert.True(t, p.Redo())
	assert.Equal(t, float32(0.25), m.Reflectivity)
	assert.Equal(t, 3, r.n)
	assert.Equal(t, 3, calls)

	assert.False(t, p.Redo())
	assert.Equal(t, 3, r.n)
}

func TestHistoryDepth(t *testing.T) {
	r := &countingRenderer{}
	p := New(r, WithHistoryDepth(2))
	m := &material{}
	c, err := p.AddFolder("f").BindNumber(m, "ior")
	require.NoError(t, err)

	for _, v := range []float64{1, 2, 3} {
		require.NoError(t, c.Commit(v))
	}
	assert.Len(t, p.History().Descriptions(), 2)
	assert.True(t, p.Undo())
	assert.True(t, p.Undo())
	assert.False(t, p.Undo())
	assert.Equal(t, 1.0, m.IOR)
}
