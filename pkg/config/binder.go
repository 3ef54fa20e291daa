package config

import (
	"path/filepath"
	"strings"

	"github.com/hyprlang-go/hyprlang/internal/expr"
	"github.com/hyprlang-go/hyprlang/internal/grammar"
	"github.com/hyprlang-go/hyprlang/internal/ingest"
	"github.com/hyprlang-go/hyprlang/internal/lexer"
	"github.com/hyprlang-go/hyprlang/internal/varsub"
	"github.com/hyprlang-go/hyprlang/pkg/herr"
	"github.com/hyprlang-go/hyprlang/pkg/value"
)

// Store is a parsed, queryable configuration document (spec §3 "Store"):
// a typed key/value map plus its variable table, handler-call lists, and
// special-category instances.
type Store struct {
	opts     Options
	root     *valueStore
	vars     *varsub.Table
	handlers *handlerRegistry
	special  *specialRegistry

	parsedOnce bool
}

// New constructs an empty Store.
func New(opts Options) *Store {
	return &Store{
		opts:     opts,
		root:     newValueStore(),
		vars:     varsub.New(),
		handlers: newHandlerRegistry(),
		special:  newSpecialRegistry(),
	}
}

// RegisterSpecialCategory declares name as a special category of the given
// kind (spec §6 "register_special_category"). Must be called before any
// `name {` or `name[key] {` line referencing it is parsed.
func (s *Store) RegisterSpecialCategory(name string, kind SpecialKind) {
	s.special.register(SpecialCategoryDescriptor{Name: name, Kind: kind})
}

// GetSpecialCategory returns the instance of name keyed by instanceKey (the
// empty string for an un-keyed Static instance). Un-keyed Anonymous
// instances are not indexed by key and are only reachable through
// AllSpecialCategoryInstances.
func (s *Store) GetSpecialCategory(name, instanceKey string) (*Instance, bool) {
	return s.special.lookup(name, instanceKey)
}

// AllSpecialCategoryInstances returns every open instance of name, in open
// order.
func (s *Store) AllSpecialCategoryInstances(name string) []*Instance {
	instances := s.special.all(name)
	out := make([]*Instance, len(instances))
	copy(out, instances)
	return out
}

// SpecialCategoryNames returns every name passed to RegisterSpecialCategory,
// in registration order. Used by the serializer to walk every special
// category's instances alongside the main key tree.
func (s *Store) SpecialCategoryNames() []string {
	out := make([]string, len(s.special.names))
	copy(out, s.special.names)
	return out
}

// SpecialCategoryDescriptorKind returns the SpecialKind name was registered
// with.
func (s *Store) SpecialCategoryDescriptorKind(name string) (SpecialKind, bool) {
	d, ok := s.special.descriptor(name)
	if !ok {
		return 0, false
	}
	return d.Kind, true
}

// Parse ingests text at the Store's current state (spec §6 "parse"). A
// second call fails unless Options.AllowDynamicParsing is true.
func (s *Store) Parse(text string) error {
	return s.parse(text, "<input>", s.opts.baseDir())
}

// ParseFile reads path (transcoding a UTF-16LE BOM if present) and parses
// it (spec §6 "parse_file"). Relative `source` directives within it resolve
// against path's directory unless Options.BaseDir is set.
func (s *Store) ParseFile(path string) error {
	data, err := ingest.ReadSourceFile(path, herr.Location{Source: path})
	if err != nil {
		return err
	}
	decoded, err := lexer.DecodeSource(data)
	if err != nil {
		return herr.Wrap(herr.KindSourceIO, herr.Location{Source: path}, err, "decoding %q", path)
	}
	base := s.opts.BaseDir
	if base == "" {
		base = filepath.Dir(path)
	}
	return s.parse(string(decoded), path, base)
}

func (s *Store) parse(text, label, baseDir string) error {
	if s.parsedOnce && !s.opts.AllowDynamicParsing {
		return herr.New(herr.KindParse, herr.Location{Source: label}, "store already parsed; re-parsing requires AllowDynamicParsing")
	}
	s.parsedOnce = true

	b := &binder{
		store:       s,
		baseDir:     baseDir,
		target:      s.root,
		sourceStack: ingest.NewStack(),
	}
	return b.run(text, label)
}

// frame is one entry of the binder's open-scope stack (spec §3 invariant 1:
// "the stack always has a well-defined depth matching paired open/close
// markers"), covering both plain categories and special-category instances
// uniformly so a single stack depth serves both.
type frame struct {
	isSpecial   bool
	savedTarget *valueStore // only meaningful when isSpecial
	savedPath   []string    // only meaningful when isSpecial
}

// binder drives one parse pass (spec §4.6): it walks a flat Item stream
// while tracking the category stack, conditional stack, no-error flag, and
// source-inclusion chain.
type binder struct {
	store   *Store
	baseDir string

	target  *valueStore // active write target: s.root, or an Instance's local store
	catPath []string    // category segments relative to target
	frames  []frame

	condStack   []bool
	noError     bool
	sourceStack *ingest.Stack

	multi *herr.MultiError
}

func (b *binder) run(text, label string) error {
	items, err := grammar.Parse(text, label)
	if err != nil {
		return err
	}
	if err := b.runItems(items); err != nil {
		return err
	}
	if b.multi != nil {
		return b.multi.AsError()
	}
	return nil
}

func (b *binder) condActive() bool {
	for _, c := range b.condStack {
		if !c {
			return false
		}
	}
	return true
}

// runItems processes one Item stream, honoring the conditional-skip stack
// and the no-error suppression flag, and accumulating into b.multi under
// ThrowAllErrors. It is called both for the top-level document and,
// recursively, for each `source`-included file.
func (b *binder) runItems(items []grammar.Item) error {
	for _, it := range items {
		isDirective := it.Kind == grammar.ItemIfDirective || it.Kind == grammar.ItemEndIf
		if !b.condActive() && !isDirective {
			continue
		}

		err := b.dispatch(it)
		clearsNoError := it.Kind != grammar.ItemIfDirective && it.Kind != grammar.ItemEndIf && it.Kind != grammar.ItemNoError
		if err != nil {
			suppressed := b.noError
			if clearsNoError {
				b.noError = false
			}
			if suppressed {
				continue
			}
			if b.store.opts.ThrowAllErrors {
				if b.multi == nil {
					b.multi = &herr.MultiError{}
				}
				b.multi.Add(err, it.Loc)
				continue
			}
			return err
		}
		if clearsNoError {
			b.noError = false
		}
	}
	return nil
}

func (b *binder) dispatch(it grammar.Item) error {
	switch it.Kind {
	case grammar.ItemAssignVar:
		b.store.vars.Set(it.Name, it.RHS)
		return nil
	case grammar.ItemAssign:
		return b.handleAssign(it)
	case grammar.ItemOpenCat:
		return b.handleOpenCat(it)
	case grammar.ItemOpenSpecial:
		return b.handleOpenSpecial(it)
	case grammar.ItemCloseCat:
		return b.handleCloseCat(it)
	case grammar.ItemSource:
		return b.handleSource(it)
	case grammar.ItemIfDirective:
		b.condStack = append(b.condStack, b.evalCondition(it.Cond, it.Loc))
		return nil
	case grammar.ItemEndIf:
		if len(b.condStack) == 0 {
			return herr.New(herr.KindUnmatchedEndif, it.Loc, "endif without matching if")
		}
		b.condStack = b.condStack[:len(b.condStack)-1]
		return nil
	case grammar.ItemNoError:
		b.noError = true
		return nil
	default:
		return herr.New(herr.KindParse, it.Loc, "unhandled item kind %v", it.Kind)
	}
}

// resolve expands variables and then arithmetic expression spans in raw,
// producing the final text that gets coerced and stored (spec §4.6:
// "Expression resolution happens in the binder so that the stored string is
// already the final numeric text").
func (b *binder) resolve(raw string, loc herr.Location) (string, error) {
	expanded, err := b.store.vars.Expand(raw, loc)
	if err != nil {
		return "", err
	}
	return expr.ExpandSpans(expanded, loc)
}

func (b *binder) pushCatFrame(name string) {
	b.frames = append(b.frames, frame{isSpecial: false})
	b.catPath = append(append([]string{}, b.catPath...), name)
}

func (b *binder) pushSpecialFrame(inst *Instance) {
	b.frames = append(b.frames, frame{isSpecial: true, savedTarget: b.target, savedPath: b.catPath})
	b.target = inst.store
	b.catPath = nil
}

func (b *binder) handleOpenCat(it grammar.Item) error {
	if d, ok := b.store.special.descriptor(it.Name); ok {
		if d.Kind == Keyed {
			return herr.New(herr.KindMissingKey, it.Loc, "special category %q requires a key", it.Name)
		}
		inst := b.store.special.open(it.Name, "")
		b.pushSpecialFrame(inst)
		return nil
	}
	b.pushCatFrame(it.Name)
	return nil
}

func (b *binder) handleOpenSpecial(it grammar.Item) error {
	d, ok := b.store.special.descriptor(it.Name)
	if !ok {
		return herr.New(herr.KindUnregisteredSpecialCategory, it.Loc, "special category %q not registered", it.Name)
	}
	if d.Kind == Keyed && it.Key == "" {
		return herr.New(herr.KindMissingKey, it.Loc, "special category %q requires a key", it.Name)
	}
	inst := b.store.special.open(it.Name, it.Key)
	b.pushSpecialFrame(inst)
	return nil
}

func (b *binder) handleCloseCat(it grammar.Item) error {
	if len(b.frames) == 0 {
		return herr.New(herr.KindUnmatchedClose, it.Loc, "unmatched '}'")
	}
	f := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	if f.isSpecial {
		b.target = f.savedTarget
		b.catPath = f.savedPath
		return nil
	}
	if len(b.catPath) > 0 {
		b.catPath = b.catPath[:len(b.catPath)-1]
	}
	return nil
}

// handleAssign implements spec §4.6's three-way dispatch for a key=rhs line:
// root handler, category handler, or plain key/value write.
func (b *binder) handleAssign(it grammar.Item) error {
	if len(it.Segs) == 1 {
		keyword := it.Segs[0]

		if len(b.frames) == 0 && b.store.handlers.isRootHandler(keyword) {
			resolved, err := b.resolve(it.RHS, it.Loc)
			if err != nil {
				return err
			}
			b.store.handlers.record(keyword, resolved)
			return b.invokeHandler(b.store.handlers.root[keyword], resolved, keyword, it.Loc)
		}

		if len(b.catPath) > 0 {
			cat := b.catPath[len(b.catPath)-1]
			if fn, ok := b.store.handlers.categoryHandler(cat, keyword); ok {
				resolved, err := b.resolve(it.RHS, it.Loc)
				if err != nil {
					return err
				}
				name := cat + ":" + keyword
				b.store.handlers.record(name, resolved)
				return b.invokeHandler(fn, resolved, name, it.Loc)
			}
		}
	}

	resolved, err := b.resolve(it.RHS, it.Loc)
	if err != nil {
		return err
	}
	key := joinKey(append(append([]string{}, b.catPath...), it.Segs...))
	b.target.set(key, coerceRHS(resolved))
	return nil
}

// coerceRHS turns a resolved right-hand side into a Value. A double-quoted
// literal (spec §4.1: "Strings: either bare ... or double-quoted with \",
// \\, \n escapes") always becomes a Str, bypassing the numeric/color/vec2
// priority order that applies to the bare form — quoting is how a document
// forces a value like "123" to stay a string.
func coerceRHS(s string) value.Value {
	if text, next, ok := lexer.ReadQuotedString(s, 0); ok && next == len(s) {
		return value.NewStr(text)
	}
	return value.Coerce(s)
}

func (b *binder) invokeHandler(fn HandlerFn, resolved, key string, loc herr.Location) error {
	if fn == nil {
		return nil
	}
	return fn(HandlerContext{RHS: resolved, Key: key, Loc: loc})
}

func (b *binder) handleSource(it grammar.Item) error {
	path := ingest.ResolvePath(b.baseDir, it.Name)
	if err := b.sourceStack.Push(path, it.Loc); err != nil {
		return err
	}
	defer b.sourceStack.Pop()

	data, err := ingest.ReadSourceFile(path, it.Loc)
	if err != nil {
		return err
	}
	decoded, err := lexer.DecodeSource(data)
	if err != nil {
		return herr.Wrap(herr.KindSourceIO, it.Loc, err, "decoding source %q", path)
	}
	items, err := grammar.Parse(string(decoded), path)
	if err != nil {
		return err
	}

	// The included file's declarations end at its own EOF: it starts with
	// an empty category stack at the current write target, not nested
	// under the including file's open categories (spec §4.6).
	// Without an explicit Options.BaseDir, the included file's own relative
	// sources resolve against its directory.
	savedFrames, savedPath, savedTarget, savedBase := b.frames, b.catPath, b.target, b.baseDir
	b.frames, b.catPath = nil, nil
	if b.store.opts.BaseDir == "" {
		b.baseDir = filepath.Dir(path)
	}
	err = b.runItems(items)
	b.frames, b.catPath, b.target, b.baseDir = savedFrames, savedPath, savedTarget, savedBase
	return err
}

// evalCondition evaluates a `# hyprlang if <cond>` condition (spec §9):
// variables are substituted tolerantly (an unknown variable does not abort
// parsing), then the result is compared with == / != if present, else
// treated as a numeric or string truthiness test.
func (b *binder) evalCondition(cond string, loc herr.Location) bool {
	expanded := b.store.vars.ExpandProbe(cond, loc)
	if resolved, err := expr.ExpandSpans(expanded, loc); err == nil {
		expanded = resolved
	}

	for _, op := range []string{"==", "!="} {
		if idx := strings.Index(expanded, op); idx >= 0 {
			left := strings.TrimSpace(expanded[:idx])
			right := strings.TrimSpace(expanded[idx+len(op):])
			eq := operandsEqual(left, right, loc)
			if op == "==" {
				return eq
			}
			return !eq
		}
	}

	if num, err := expr.Evaluate(expanded, loc); err == nil {
		if num.Float {
			return num.F != 0
		}
		return num.I != 0
	}
	trimmed := strings.TrimSpace(expanded)
	return trimmed != "" && trimmed != "0" && !strings.EqualFold(trimmed, "false")
}

func operandsEqual(left, right string, loc herr.Location) bool {
	leftNum, leftErr := expr.Evaluate(left, loc)
	rightNum, rightErr := expr.Evaluate(right, loc)
	if leftErr == nil && rightErr == nil {
		return leftNum.AsFloat() == rightNum.AsFloat()
	}
	return left == right
}
