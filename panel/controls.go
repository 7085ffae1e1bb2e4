package panel

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"material-scene/core"
)

// ColorControl edits a core.Color field.
type ColorControl struct {
	binding
}

func (c *ColorControl) parse(v any) (reflect.Value, error) {
	var col core.Color
	switch x := v.(type) {
	case core.Color:
		col = x
	case string:
		parsed, err := core.ParseColor(x)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		col = parsed
	default:
		n, ok := toInt(v)
		if !ok || n < 0 || n > 0xffffff {
			return reflect.Value{}, fmt.Errorf("%w: color %v", ErrInvalidValue, v)
		}
		col = core.Hex(uint32(n))
	}
	return reflect.ValueOf(col), nil
}

func (c *ColorControl) format(v reflect.Value) any {
	return v.Interface().(core.Color).HexString()
}

func (c *ColorControl) Describe() string {
	return fmt.Sprintf("color = %v", c.Value())
}

// RangeControl edits a numeric field, optionally bounded and stepped.
type RangeControl struct {
	binding
	Min, Max float64
	Step     float64
	Bounded  bool
}

func (c *RangeControl) parse(v any) (reflect.Value, error) {
	x, ok := toFloat(v)
	if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
		return reflect.Value{}, fmt.Errorf("%w: number %v", ErrInvalidValue, v)
	}
	x = c.snap(x)

	out := reflect.New(c.field.Type()).Elem()
	switch k := out.Kind(); {
	case k == reflect.Float32 || k == reflect.Float64:
		out.SetFloat(x)
	case isInt(k):
		n := int64(math.Round(x))
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrInvalidValue, v, out.Type())
		}
		out.SetInt(n)
	default:
		n := math.Round(x)
		if n < 0 || out.OverflowUint(uint64(n)) {
			return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrInvalidValue, v, out.Type())
		}
		out.SetUint(uint64(n))
	}
	return out, nil
}

// snap clamps x to the range, then rounds it to the step grid anchored at
// Min. A grid point past Max steps back to the last one inside the range, so
// larger inputs never yield smaller values.
func (c *RangeControl) snap(x float64) float64 {
	if c.Bounded {
		x = math.Min(math.Max(x, c.Min), c.Max)
	}
	if c.Step <= 0 {
		return x
	}
	origin := 0.0
	if c.Bounded {
		origin = c.Min
	}
	n := math.Round((x - origin) / c.Step)
	if c.Bounded && origin+n*c.Step > c.Max {
		n = math.Floor((c.Max-origin)/c.Step + 1e-9)
	}
	return origin + n*c.Step
}

func (c *RangeControl) format(v reflect.Value) any {
	f, _ := toFloat(v.Interface())
	return f
}

func (c *RangeControl) Describe() string {
	if !c.Bounded {
		return fmt.Sprintf("number = %v", c.Value())
	}
	if c.Step > 0 {
		return fmt.Sprintf("range [%v, %v] step %v = %v", c.Min, c.Max, c.Step, c.Value())
	}
	return fmt.Sprintf("range [%v, %v] = %v", c.Min, c.Max, c.Value())
}

// Choice is one labelled option of an EnumControl.
type Choice struct {
	Label string
	Value any
}

// EnumControl selects one of an ordered set of values. Input takes either a
// label or one of the choice values.
type EnumControl struct {
	binding
	Choices []Choice
}

func (c *EnumControl) parse(v any) (reflect.Value, error) {
	if s, ok := v.(string); ok {
		for _, ch := range c.Choices {
			if ch.Label == s {
				return c.valueOf(ch), nil
			}
		}
	}
	for _, ch := range c.Choices {
		if ch.Value != nil && sameValue(ch.Value, v) {
			return c.valueOf(ch), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%w: %v is not one of %s", ErrInvalidValue, v, strings.Join(c.Labels(), ", "))
}

func (c *EnumControl) valueOf(ch Choice) reflect.Value {
	if ch.Value == nil {
		return reflect.Zero(c.field.Type())
	}
	return reflect.ValueOf(ch.Value)
}

// format reports the label of the current value, falling back to the value
// itself when it matches no choice.
func (c *EnumControl) format(v reflect.Value) any {
	if label, ok := c.label(v); ok {
		return label
	}
	return fmt.Sprint(v.Interface())
}

// Matched reports whether the field currently holds one of the choices.
// Unmatched values have no label that parse would accept again.
func (c *EnumControl) Matched() bool {
	_, ok := c.label(c.field)
	return ok
}

func (c *EnumControl) label(v reflect.Value) (string, bool) {
	cur := v.Interface()
	for _, ch := range c.Choices {
		if ch.Value == nil {
			if v.IsZero() {
				return ch.Label, true
			}
			continue
		}
		if sameValue(ch.Value, cur) {
			return ch.Label, true
		}
	}
	return "", false
}

func (c *EnumControl) Labels() []string {
	out := make([]string, len(c.Choices))
	for i, ch := range c.Choices {
		out[i] = ch.Label
	}
	return out
}

func (c *EnumControl) Describe() string {
	return fmt.Sprintf("enum {%s} = %v", strings.Join(c.Labels(), "|"), c.Value())
}

// BoolControl toggles a bool field.
type BoolControl struct {
	binding
}

func (c *BoolControl) parse(v any) (reflect.Value, error) {
	switch x := v.(type) {
	case bool:
		return reflect.ValueOf(x).Convert(c.field.Type()), nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: bool %q", ErrInvalidValue, x)
		}
		return reflect.ValueOf(b).Convert(c.field.Type()), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: bool %v", ErrInvalidValue, v)
}

func (c *BoolControl) format(v reflect.Value) any {
	return v.Bool()
}

func (c *BoolControl) Describe() string {
	return fmt.Sprintf("bool = %v", c.Value())
}
