// Package varsub implements the Hyprlang variable table (spec §3 "Variable
// Table", §4.4): a name->raw-text map with environment-variable fallback
// and fixpoint expansion with cycle detection.
//
// Expansion is lazy: Set stores the assignment's raw text exactly as
// written, and substitution walks $name references only when a value is
// actually read (via Expand or Variables). This is what makes the forward
// cycle in spec scenario S6 ($a = $b, then $b = $a, then x = $a) surface as
// VarCycle instead of failing the first assignment with UnknownVar — see
// DESIGN.md "Open Question decisions".
package varsub

import (
	"os"
	"strings"

	"github.com/hyprlang-go/hyprlang/pkg/herr"
)

// Table is a variable name -> raw text map with insertion-order tracking
// (spec §4.7: variables serialize "each as $name = value in insertion
// order").
type Table struct {
	names []string
	raw   map[string]string
}

// New constructs an empty Table.
func New() *Table {
	return &Table{raw: make(map[string]string)}
}

// Set assigns name's raw text. Re-assigning an existing name keeps its
// original position in insertion order (last write wins on value, not on
// position), matching the Store's "last write wins" convention (invariant
// 1's analogue for variables).
func (t *Table) Set(name, rawText string) {
	if _, exists := t.raw[name]; !exists {
		t.names = append(t.names, name)
	}
	t.raw[name] = rawText
}

// Names returns variable names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Expand substitutes every $name reference in raw with its fully resolved
// value, recursing through chained variable references and detecting
// cycles along the active expansion chain (spec §4.4).
func (t *Table) Expand(raw string, loc herr.Location) (string, error) {
	return t.substitute(raw, make(map[string]bool), loc)
}

// Variables returns every defined variable's fully resolved value, keyed by
// name (use Names for insertion order), satisfying the "no retrievable value contains
// $name" half of invariant 7 for the variable table itself.
func (t *Table) Variables() (map[string]string, error) {
	out := make(map[string]string, len(t.names))
	for _, name := range t.names {
		val, err := t.resolve(name, make(map[string]bool), herr.Location{})
		if err != nil {
			return nil, err
		}
		out[name] = val
	}
	return out, nil
}

// Raw returns name's unexpanded assignment text and whether it is defined.
// The serializer does not use it; it emits the resolved form from
// Variables.
func (t *Table) Raw(name string) (string, bool) {
	v, ok := t.raw[name]
	return v, ok
}

func (t *Table) resolve(name string, chain map[string]bool, loc herr.Location) (string, error) {
	if chain[name] {
		return "", herr.New(herr.KindVarCycle, loc, "variable cycle involving %q", name)
	}
	raw, ok := t.raw[name]
	if !ok {
		if envVal, ok := os.LookupEnv(name); ok {
			return envVal, nil
		}
		return "", herr.New(herr.KindUnknownVar, loc, "unknown variable %q", name)
	}
	chain[name] = true
	defer delete(chain, name)
	return t.substitute(raw, chain, loc)
}

// substitute performs one greedy left-to-right scan of raw, replacing each
// $name with its resolved value. A lone "$" not followed by an identifier
// character is left as a literal "$".
func (t *Table) substitute(raw string, chain map[string]bool, loc herr.Location) (string, error) {
	if !strings.ContainsRune(raw, '$') {
		return raw, nil
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	i, n := 0, len(raw)
	for i < n {
		if raw[i] != '$' {
			sb.WriteByte(raw[i])
			i++
			continue
		}
		if i+1 >= n || !isIdentStartByte(raw[i+1]) {
			sb.WriteByte('$')
			i++
			continue
		}
		j := i + 1
		for j < n && isIdentByte(raw[j]) {
			j++
		}
		name := raw[i+1 : j]
		val, err := t.resolve(name, chain, loc)
		if err != nil {
			return "", err
		}
		sb.WriteString(val)
		i = j
	}
	return sb.String(), nil
}

func isIdentStartByte(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' || c == '.' ||
		(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// ExpandProbe behaves like Expand but never surfaces UnknownVar: a miss on
// both the table and the environment is substituted with the empty string.
// Used by the binder when evaluating a `# hyprlang if <cond>` directive,
// where an undefined variable should make the condition false rather than
// abort parsing (spec §4.4 "unless inside a conditional evaluation probe").
func (t *Table) ExpandProbe(raw string, loc herr.Location) string {
	out, err := t.substitute(raw, make(map[string]bool), loc)
	if err == nil {
		return out
	}
	if herrErr, ok := err.(*herr.Error); ok && herrErr.Kind == herr.KindUnknownVar {
		return probeSubstitute(t, raw, loc)
	}
	return raw
}

// probeSubstitute retries substitution but treats any unknown variable as
// empty text instead of propagating an error. Cycle detection still stops
// recursion, but a cyclic reference is likewise rendered as empty text and
// not reported.
func probeSubstitute(t *Table, raw string, loc herr.Location) string {
	var sb strings.Builder
	i, n := 0, len(raw)
	chain := make(map[string]bool)
	for i < n {
		if raw[i] != '$' {
			sb.WriteByte(raw[i])
			i++
			continue
		}
		if i+1 >= n || !isIdentStartByte(raw[i+1]) {
			sb.WriteByte('$')
			i++
			continue
		}
		j := i + 1
		for j < n && isIdentByte(raw[j]) {
			j++
		}
		name := raw[i+1 : j]
		val, err := t.resolve(name, chain, loc)
		if err != nil {
			// Unknown or cyclic: render as empty so the probe still
			// produces a parseable (if false) condition.
			i = j
			continue
		}
		sb.WriteString(val)
		i = j
	}
	return sb.String()
}
