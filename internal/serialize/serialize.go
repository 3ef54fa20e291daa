// Package serialize emits a parsed configuration back to text (spec §4.7):
// variables first, then keys grouped by longest common category prefix
// into nested `cat { }` blocks, then any recorded handler calls replayed
// at the scope that reproduces them. The emitted text is not meant to
// match the original byte-for-byte — only parse(serialize(parse(X))) to an
// equal store (value-and-handler-call equality) is required.
//
// Grounded on the teacher's internal/regtext buffer-based emitter
// (joshuapare-hivekit), adapted from a flat values-then-subkeys .reg walk
// to a key-tree walk over a colon-joined key space.
package serialize

import (
	"sort"
	"strings"

	"github.com/hyprlang-go/hyprlang/pkg/config"
	"github.com/hyprlang-go/hyprlang/pkg/value"
)

const indentUnit = "  "

// Store is the subset of *config.Store the serializer depends on, kept
// narrow so tests can exercise it against a fake.
type Store interface {
	Keys() []string
	Get(key string) (value.Value, error)
	VariableNames() []string
	Variables() (map[string]string, error)
	AllHandlerCalls() map[string][]string
	SpecialCategoryNames() []string
	AllSpecialCategoryInstances(name string) []*config.Instance
}

var _ Store = (*config.Store)(nil)

// Serialize renders s to its canonical textual form.
func Serialize(s Store) (string, error) {
	var sb strings.Builder

	if err := emitVariables(&sb, s); err != nil {
		return "", err
	}

	root := buildTree(s.Keys(), func(key string) (value.Value, bool) {
		v, err := s.Get(key)
		return v, err == nil
	})
	emitNode(&sb, root, "")

	emitHandlerCalls(&sb, s)
	emitSpecialCategories(&sb, s)

	return sb.String(), nil
}

func emitVariables(sb *strings.Builder, s Store) error {
	names := s.VariableNames()
	if len(names) == 0 {
		return nil
	}
	resolved, err := s.Variables()
	if err != nil {
		return err
	}
	for _, name := range names {
		sb.WriteString("$")
		sb.WriteString(name)
		sb.WriteString(" = ")
		sb.WriteString(resolved[name])
		sb.WriteString("\n")
	}
	return nil
}

// node is one level of the category tree built from the store's
// colon-joined keys. A node may carry both a leaf value and children, when
// a key and a category happen to share a name.
type node struct {
	value    *value.Value
	children map[string]*node
	order    []string
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

func (n *node) child(name string) *node {
	c, ok := n.children[name]
	if !ok {
		c = newNode()
		n.children[name] = c
		n.order = append(n.order, name)
	}
	return c
}

func buildTree(keys []string, get func(string) (value.Value, bool)) *node {
	root := newNode()
	for _, key := range keys {
		v, ok := get(key)
		if !ok {
			continue
		}
		segs := strings.Split(key, ":")
		cur := root
		for _, seg := range segs {
			cur = cur.child(seg)
		}
		vv := v
		cur.value = &vv
	}
	return root
}

func emitNode(sb *strings.Builder, n *node, indent string) {
	for _, name := range n.order {
		c := n.children[name]
		if c.value != nil {
			sb.WriteString(indent)
			sb.WriteString(name)
			sb.WriteString(" = ")
			sb.WriteString(valueText(*c.value))
			sb.WriteString("\n")
		}
		if len(c.children) > 0 {
			sb.WriteString(indent)
			sb.WriteString(name)
			sb.WriteString(" {\n")
			emitNode(sb, c, indent+indentUnit)
			sb.WriteString(indent)
			sb.WriteString("}\n")
		}
	}
}

// emitHandlerCalls replays every recorded handler call at the category
// scope that reproduces it. Each handler name's calls keep their source
// order; handler names themselves are emitted in sorted order, so the
// interleaving of different handlers is not kept. A call name of the form
// "cat:keyword" was recorded while the
// innermost open category was "cat" (see pkg/config/binder.go
// handleAssign); any other name was a root-level handler.
func emitHandlerCalls(sb *strings.Builder, s Store) {
	all := s.AllHandlerCalls()
	if len(all) == 0 {
		return
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	byCategory := make(map[string][]string)
	var categoryOrder []string
	for _, name := range names {
		cat, keyword, ok := strings.Cut(name, ":")
		if !ok {
			for _, rhs := range all[name] {
				sb.WriteString(name)
				sb.WriteString(" = ")
				sb.WriteString(rhs)
				sb.WriteString("\n")
			}
			continue
		}
		if _, seen := byCategory[cat]; !seen {
			categoryOrder = append(categoryOrder, cat)
		}
		for _, rhs := range all[name] {
			byCategory[cat] = append(byCategory[cat], keyword+" = "+rhs)
		}
	}

	for _, cat := range categoryOrder {
		sb.WriteString(cat)
		sb.WriteString(" {\n")
		for _, line := range byCategory[cat] {
			sb.WriteString(indentUnit)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("}\n")
	}
}

// emitSpecialCategories replays every open special-category instance as its
// own `name { }` or `name[key] { }` block (spec §4.5). Instances are
// isolated stores, so each gets its own key tree rather than merging into
// the main one.
func emitSpecialCategories(sb *strings.Builder, s Store) {
	for _, name := range s.SpecialCategoryNames() {
		for _, inst := range s.AllSpecialCategoryInstances(name) {
			if inst.InstanceKey != "" {
				sb.WriteString(name)
				sb.WriteString("[")
				sb.WriteString(inst.InstanceKey)
				sb.WriteString("] {\n")
			} else {
				sb.WriteString(name)
				sb.WriteString(" {\n")
			}
			tree := buildTree(inst.Keys(), inst.Get)
			emitNode(sb, tree, indentUnit)
			sb.WriteString("}\n")
		}
	}
}

// valueText renders v the way it must appear on an rhs to re-coerce to an
// equal Value (spec §4.7 per-kind formatting). Every kind but Str already
// has a canonical Raw() form; Str additionally needs quoting whenever its
// bare text would not survive the lexer unchanged.
func valueText(v value.Value) string {
	if v.Kind != value.Str {
		return v.Raw()
	}
	return stringText(v.S)
}

func stringText(s string) string {
	if isBareSafe(s) {
		return s
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(s[i])
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// isBareSafe reports whether s can appear unquoted on an rhs and still
// read back as the same Str value: non-empty, free of whitespace, quotes,
// braces, comment markers, and backslashes, and not itself parseable as a
// number/color/vec2 (which would coerce to a different Kind on reparse).
func isBareSafe(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '"', '{', '}', '#', '\\', ',':
			return false
		}
	}
	if value.Coerce(s).Kind != value.Str {
		return false
	}
	return true
}
