package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceColorEquivalence(t *testing.T) {
	// S4 — rgba(33ccffee) and 0xee33ccff must coerce to the same color.
	c1 := Coerce("rgba(33ccffee)")
	c2 := Coerce("0xee33ccff")

	require.Equal(t, ColorKind, c1.Kind)
	require.Equal(t, ColorKind, c2.Kind)
	assert.True(t, c1.Equal(c2))

	col, ok := c1.AsColor()
	require.True(t, ok)
	assert.Equal(t, Color{R: 0x33, G: 0xcc, B: 0xff, A: 0xee}, col)
}

func TestCoerceRGBDefaultsAlphaOpaque(t *testing.T) {
	v := Coerce("rgb(112233)")
	col, ok := v.AsColor()
	require.True(t, ok)
	assert.Equal(t, Color{R: 0x11, G: 0x22, B: 0x33, A: 255}, col)
}

func TestCoerceDecimalRGBA(t *testing.T) {
	v := Coerce("rgba(10, 20, 30, 40)")
	col, ok := v.AsColor()
	require.True(t, ok)
	assert.Equal(t, Color{R: 10, G: 20, B: 30, A: 40}, col)
}

func TestCoerceVec2(t *testing.T) {
	v := Coerce("(1.5, -2)")
	vec, ok := v.AsVec2()
	require.True(t, ok)
	assert.Equal(t, Vec2{X: 1.5, Y: -2}, vec)

	v2 := Coerce("3, 4")
	vec2, ok := v2.AsVec2()
	require.True(t, ok)
	assert.Equal(t, Vec2{X: 3, Y: 4}, vec2)
}

func TestCoerceIntAndFloat(t *testing.T) {
	vi := Coerce("42")
	n, ok := vi.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(42), n)

	vf := Coerce("1.5")
	assert.Equal(t, Float, vf.Kind)
	_, ok = vf.AsInt()
	assert.False(t, ok, "a float literal must not satisfy AsInt (invariant 2)")
}

func TestCoerceToleratesMultiTokenStringOverInt(t *testing.T) {
	// Open Question decision: CSS-style gap strings stay Str.
	v := Coerce("5 10 15 20")
	assert.Equal(t, Str, v.Kind)

	single := Coerce("5")
	assert.Equal(t, Int, single.Kind)
}

func TestCoerceFallsBackToString(t *testing.T) {
	v := Coerce("not-a-number")
	assert.Equal(t, Str, v.Kind)
}

func TestValueRawRoundTrip(t *testing.T) {
	cases := []Value{
		NewInt(7),
		NewFloat(3.5),
		NewStr("hello"),
		NewVec2(1, 2),
		NewColor(0x11, 0x22, 0x33, 0x44),
	}
	for _, v := range cases {
		raw := v.Raw()
		got := Coerce(raw)
		assert.True(t, v.Equal(got), "round trip of %v via %q produced %v", v, raw, got)
	}
}

func TestParseColorRejectsInvalid(t *testing.T) {
	_, err := ParseColor("not-a-color")
	assert.Error(t, err)
}
