package value

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Coerce turns a fully-expanded raw string into a Value, following the
// priority order of spec §4.2: rgba(...)/rgb(...)/0xAARRGGBB-or-RRGGBB
// color literal, then a two-field vector "(x, y)" or "x, y", then a strict
// integer, then a strict float, and finally a bare string.
//
// Open Question (spec §9, "CSS-style gap strings vs integer gaps"):
// resolved tolerant. A multi-token string like "5 10 15 20" does not match
// any stricter shape below and falls through to Str, while a single-token
// "5" coerces to Int — so callers that need Hyprlang's tolerant "gaps"
// style (int or CSS-like 4-tuple string) get the right kind without special
// casing, and callers that need strict numeric kinds still get TypeMismatch
// on the multi-token form.
func Coerce(raw string) Value {
	raw = strings.TrimSpace(raw)

	if c, ok := tryParseColor(raw); ok {
		return NewColor(c.R, c.G, c.B, c.A)
	}
	if x, y, ok := tryParseVec2(raw); ok {
		return NewVec2(x, y)
	}
	if n, ok := tryParseInt(raw); ok {
		return NewInt(n)
	}
	if f, ok := tryParseFloat(raw); ok {
		return NewFloat(f)
	}
	return NewStr(raw)
}

var (
	rgbaFuncRe  = regexp.MustCompile(`^rgba\(\s*([0-9a-fA-F]{8})\s*\)$`)
	rgbFuncRe   = regexp.MustCompile(`^rgb\(\s*([0-9a-fA-F]{6})\s*\)$`)
	rgbaDecRe   = regexp.MustCompile(`^rgba\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
	rgbDecRe    = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
	hexColorRe  = regexp.MustCompile(`^0[xX]([0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	vec2TupleRe = regexp.MustCompile(`^\(\s*([+-]?[0-9.]+)\s*,\s*([+-]?[0-9.]+)\s*\)$`)
	vec2BareRe  = regexp.MustCompile(`^([+-]?[0-9.]+)\s*,\s*([+-]?[0-9.]+)$`)
)

// tryParseColor implements spec §4.2's color grammar:
//
//	rgba(RRGGBBAA) - 8 hex digits
//	rgb(RRGGBB)    - 6 hex digits, alpha defaults to 255
//	rgba(r, g, b, a) - decimal 0-255 components
//	rgb(r, g, b)     - decimal 0-255 components
//	0xAARRGGBB       - 8 hex digits, alpha first
//	0xRRGGBB         - 6 hex digits, alpha defaults to 255
func tryParseColor(s string) (Color, bool) {
	if m := rgbaFuncRe.FindStringSubmatch(s); m != nil {
		return hex8ToColorRGBA(m[1]), true
	}
	if m := rgbFuncRe.FindStringSubmatch(s); m != nil {
		return hex6ToColorRGB(m[1]), true
	}
	if m := rgbaDecRe.FindStringSubmatch(s); m != nil {
		c, ok := decToColor(m[1], m[2], m[3], m[4])
		return c, ok
	}
	if m := rgbDecRe.FindStringSubmatch(s); m != nil {
		c, ok := decToColor(m[1], m[2], m[3], "255")
		return c, ok
	}
	if m := hexColorRe.FindStringSubmatch(s); m != nil {
		hexDigits := m[1]
		if len(hexDigits) == 8 {
			// 0xAARRGGBB: alpha first.
			return hex8ToColorAARRGGBB(hexDigits), true
		}
		return hex6ToColorRGB(hexDigits), true
	}
	return Color{}, false
}

// ParseColor parses s into a Color following the same grammar as Coerce's
// color priority step, returning an error rather than falling through to
// another kind. Store.GetColor does not call it; it checks the Kind of the
// already-coerced stored Value.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := tryParseColor(s); ok {
		return c, nil
	}
	return Color{}, fmt.Errorf("value: %q is not a valid color literal", s)
}

func hex8ToColorRGBA(hexDigits string) Color {
	b, _ := strconv.ParseUint(hexDigits, 16, 32)
	return Color{
		R: uint8(b >> 24),
		G: uint8(b >> 16),
		B: uint8(b >> 8),
		A: uint8(b),
	}
}

func hex8ToColorAARRGGBB(hexDigits string) Color {
	b, _ := strconv.ParseUint(hexDigits, 16, 32)
	return Color{
		A: uint8(b >> 24),
		R: uint8(b >> 16),
		G: uint8(b >> 8),
		B: uint8(b),
	}
}

func hex6ToColorRGB(hexDigits string) Color {
	b, _ := strconv.ParseUint(hexDigits, 16, 32)
	return Color{
		R: uint8(b >> 16),
		G: uint8(b >> 8),
		B: uint8(b),
		A: 255,
	}
}

func decToColor(rs, gs, bs, as string) (Color, bool) {
	r, okR := decByte(rs)
	g, okG := decByte(gs)
	b, okB := decByte(bs)
	a, okA := decByte(as)
	if !okR || !okG || !okB || !okA {
		return Color{}, false
	}
	return Color{R: r, G: g, B: b, A: a}, true
}

func decByte(s string) (uint8, bool) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || n > 255 {
		return 0, false
	}
	return uint8(n), true
}

// tryParseVec2 implements spec §4.2's vector grammar: "(x, y)" or "x, y"
// with two numeric fields.
func tryParseVec2(s string) (x, y float64, ok bool) {
	m := vec2TupleRe.FindStringSubmatch(s)
	if m == nil {
		m = vec2BareRe.FindStringSubmatch(s)
	}
	if m == nil {
		return 0, 0, false
	}
	xf, err1 := strconv.ParseFloat(m[1], 64)
	yf, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return xf, yf, true
}

// tryParseInt implements spec §4.2's "strict integer" step: base-0 parsing
// so "0x1a"-style hex integers are accepted alongside plain decimal, but a
// string with a fractional part or trailing garbage is rejected (and falls
// through to tryParseFloat / Str).
func tryParseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func tryParseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
