// Package value implements the tagged Value union stored by the
// configuration engine (spec §3, §4.2) together with the coercion rules
// that turn a fully-expanded raw string into a typed Value (applied by
// pkg/config once, when a key is written).
//
// The shape follows the teacher's RegType/typed-value conventions
// (joshuapare-hivekit's pkg/types.RegType and hive/values), generalized from
// a closed set of binary registry types to the closed set of Hyprlang value
// kinds named in spec §3.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates the closed set of Value variants.
type Kind int

const (
	Int Kind = iota
	Float
	Str
	Vec2Kind
	ColorKind
	CustomKind
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Str:
		return "Str"
	case Vec2Kind:
		return "Vec2"
	case ColorKind:
		return "Color"
	case CustomKind:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Vec2 is a 2D vector of float64 components.
type Vec2 struct {
	X, Y float64
}

// Color is an 8-bit-per-channel RGBA color (spec invariant 4: always
// normalized to 8-bit RGBA, never lossily truncated from out-of-range
// input — out-of-range input is a parse error, see ParseColor).
type Color struct {
	R, G, B, A uint8
}

// Value is a closed tagged union over the kinds enumerated by Kind. Only
// the field matching Kind is meaningful; the others are zero.
type Value struct {
	Kind Kind

	I int64
	F float64
	S string
	V Vec2
	C Color

	// CustomType and CustomPayload are only set when Kind == CustomKind;
	// CustomType is an opaque tag string for collaborators layering a
	// schema on top of this engine (spec §9 "Polymorphism").
	CustomType    string
	CustomPayload string
}

// NewInt constructs an Int value.
func NewInt(n int64) Value { return Value{Kind: Int, I: n} }

// NewFloat constructs a Float value.
func NewFloat(f float64) Value { return Value{Kind: Float, F: f} }

// NewStr constructs a Str value.
func NewStr(s string) Value { return Value{Kind: Str, S: s} }

// NewVec2 constructs a Vec2 value.
func NewVec2(x, y float64) Value { return Value{Kind: Vec2Kind, V: Vec2{X: x, Y: y}} }

// NewColor constructs a Color value.
func NewColor(r, g, b, a uint8) Value { return Value{Kind: ColorKind, C: Color{R: r, G: g, B: b, A: a}} }

// NewCustom constructs a Custom value carrying an opaque type tag.
func NewCustom(typeName, payload string) Value {
	return Value{Kind: CustomKind, CustomType: typeName, CustomPayload: payload}
}

// Equal reports whether two Values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Int:
		return v.I == o.I
	case Float:
		return v.F == o.F
	case Str:
		return v.S == o.S
	case Vec2Kind:
		return v.V == o.V
	case ColorKind:
		return v.C == o.C
	case CustomKind:
		return v.CustomType == o.CustomType && v.CustomPayload == o.CustomPayload
	default:
		return false
	}
}

// Raw renders v back to the textual form the serializer uses (spec §4.7):
// Int decimal, Float shortest decimal with at least one fractional digit,
// Color as rgba(RRGGBBAA), Vec2 as "x, y", Str bare or quoted.
func (v Value) Raw() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.I, 10)
	case Float:
		return formatFloat(v.F)
	case Str:
		return v.S
	case Vec2Kind:
		return fmt.Sprintf("%s, %s", formatFloat(v.V.X), formatFloat(v.V.Y))
	case ColorKind:
		return fmt.Sprintf("rgba(%02x%02x%02x%02x)", v.C.R, v.C.G, v.C.B, v.C.A)
	case CustomKind:
		return v.CustomPayload
	default:
		return ""
	}
}

// formatFloat renders f with at least one fractional digit, using the
// shortest representation that round-trips (strconv's 'f' format with
// precision -1, then ensuring a decimal point is present).
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
