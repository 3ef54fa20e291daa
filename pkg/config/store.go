package config

import (
	"strings"

	"github.com/hyprlang-go/hyprlang/pkg/herr"
	"github.com/hyprlang-go/hyprlang/pkg/value"
)

// valueStore is the colon-joined key -> Value map shared by the main Store
// and every special-category Instance (spec §4.5).
type valueStore struct {
	values map[string]value.Value
	order  []string
}

func newValueStore() *valueStore {
	return &valueStore{values: make(map[string]value.Value)}
}

func (s *valueStore) set(key string, v value.Value) {
	if _, exists := s.values[key]; !exists {
		s.order = append(s.order, key)
	}
	s.values[key] = v
}

func (s *valueStore) get(key string) (value.Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *valueStore) has(key string) bool {
	_, ok := s.values[key]
	return ok
}

func (s *valueStore) keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func joinKey(segs []string) string {
	return strings.Join(segs, ":")
}

// Get returns the raw typed Value stored at key, coerced per spec §4.2
// priority at write time (rgba/rgb/hex color, then vec2, then int, then
// float, then string).
func (s *Store) Get(key string) (value.Value, error) {
	v, ok := s.root.get(key)
	if !ok {
		return value.Value{}, herr.New(herr.KindUnknownKey, herr.Location{}, "unknown key %q", key)
	}
	return v, nil
}

// Has reports whether key is set.
func (s *Store) Has(key string) bool {
	return s.root.has(key)
}

// Keys returns the store's keys, in the order they were first set.
func (s *Store) Keys() []string {
	return s.root.keys()
}

func typeMismatch(key string, expected, actual value.Kind) error {
	return herr.New(herr.KindTypeMismatch, herr.Location{}, "key %q: expected %s, got %s", key, expected, actual)
}

// GetInt returns key's value as an int64, or TypeMismatch if the stored
// value did not coerce to Int (spec §8 property 2: a float literal never
// satisfies GetInt).
func (s *Store) GetInt(key string) (int64, error) {
	v, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, typeMismatch(key, value.Int, v.Kind)
	}
	return i, nil
}

// GetFloat returns key's value as a float64, widening an Int losslessly.
func (s *Store) GetFloat(key string) (float64, error) {
	v, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	f, ok := v.AsFloat()
	if !ok {
		return 0, typeMismatch(key, value.Float, v.Kind)
	}
	return f, nil
}

// GetString returns key's value as its textual form regardless of kind
// (mirrors the "Str" fallback of §4.2's coercion, but widened: a stored
// Int or Color still has a canonical textual rendering via Value.Raw).
func (s *Store) GetString(key string) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	return v.Raw(), nil
}

// GetVec2 returns key's value as a Vec2, or TypeMismatch otherwise.
func (s *Store) GetVec2(key string) (value.Vec2, error) {
	v, err := s.Get(key)
	if err != nil {
		return value.Vec2{}, err
	}
	vec, ok := v.AsVec2()
	if !ok {
		return value.Vec2{}, typeMismatch(key, value.Vec2Kind, v.Kind)
	}
	return vec, nil
}

// GetColor returns key's value as a Color, or TypeMismatch otherwise.
func (s *Store) GetColor(key string) (value.Color, error) {
	v, err := s.Get(key)
	if err != nil {
		return value.Color{}, err
	}
	c, ok := v.AsColor()
	if !ok {
		return value.Color{}, typeMismatch(key, value.ColorKind, v.Kind)
	}
	return c, nil
}

// Set writes value directly to key, bypassing parsing. Always permitted
// regardless of Options.AllowDynamicParsing — see DESIGN.md "Open Question
// decisions".
func (s *Store) Set(key string, v value.Value) {
	s.root.set(key, v)
}

// SetVariable assigns name's fully-resolved text directly, bypassing
// parsing.
func (s *Store) SetVariable(name, resolvedValue string) {
	s.vars.Set(name, resolvedValue)
}

// Variables returns every defined variable's fully resolved value.
func (s *Store) Variables() (map[string]string, error) {
	return s.vars.Variables()
}

// VariableNames returns every defined variable's name in insertion order,
// for collaborators (the serializer) that need ordering Variables' map
// return cannot carry.
func (s *Store) VariableNames() []string {
	return s.vars.Names()
}
