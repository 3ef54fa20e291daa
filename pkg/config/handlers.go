package config

import "github.com/hyprlang-go/hyprlang/pkg/herr"

// HandlerContext is passed to a registered handler callback (spec §6:
// "resolved rhs string, full composed key, current source Location").
type HandlerContext struct {
	RHS string
	Key string
	Loc herr.Location
}

// HandlerFn is invoked once per matching assignment line, after variable
// and expression expansion. Handlers must not mutate the Store from within
// the callback (spec §5); they may queue work externally.
type HandlerFn func(ctx HandlerContext) error

type handlerRegistry struct {
	root     map[string]HandlerFn
	category map[string]map[string]HandlerFn // category -> keyword -> fn
	calls    map[string][]string
	callOrder []string
}

func newHandlerRegistry() *handlerRegistry {
	return &handlerRegistry{
		root:     make(map[string]HandlerFn),
		category: make(map[string]map[string]HandlerFn),
		calls:    make(map[string][]string),
	}
}

func (h *handlerRegistry) registerRoot(keyword string, fn HandlerFn) error {
	if _, exists := h.root[keyword]; exists {
		return herr.New(herr.KindDuplicateHandler, herr.Location{}, "handler %q already registered", keyword)
	}
	h.root[keyword] = fn
	return nil
}

func (h *handlerRegistry) registerCategory(category, keyword string, fn HandlerFn) error {
	bucket, ok := h.category[category]
	if !ok {
		bucket = make(map[string]HandlerFn)
		h.category[category] = bucket
	}
	if _, exists := bucket[keyword]; exists {
		return herr.New(herr.KindDuplicateHandler, herr.Location{}, "handler %q already registered for category %q", keyword, category)
	}
	bucket[keyword] = fn
	return nil
}

func (h *handlerRegistry) isRootHandler(keyword string) bool {
	_, ok := h.root[keyword]
	return ok
}

func (h *handlerRegistry) categoryHandler(category, keyword string) (HandlerFn, bool) {
	bucket, ok := h.category[category]
	if !ok {
		return nil, false
	}
	fn, ok := bucket[keyword]
	return fn, ok
}

// record appends rhs to name's call list in source order (spec §4.5).
func (h *handlerRegistry) record(name, rhs string) {
	if _, exists := h.calls[name]; !exists {
		h.callOrder = append(h.callOrder, name)
	}
	h.calls[name] = append(h.calls[name], rhs)
}

// RegisterHandlerFn registers a root-level handler keyword. Assignments to
// this keyword at the top level become handler calls instead of stored
// key/value pairs (spec §4.6 step 2).
func (s *Store) RegisterHandlerFn(keyword string, fn HandlerFn) error {
	return s.handlers.registerRoot(keyword, fn)
}

// RegisterCategoryHandlerFn registers a handler keyword scoped to category.
// An assignment to keyword while the category stack's top frame is category
// becomes a handler call recorded under "category:keyword" (spec §4.6 step
// 3).
func (s *Store) RegisterCategoryHandlerFn(category, keyword string, fn HandlerFn) error {
	return s.handlers.registerCategory(category, keyword, fn)
}

// GetHandlerCalls returns the right-hand sides recorded for name, after
// variable and expression expansion, in source order.
func (s *Store) GetHandlerCalls(name string) []string {
	calls := s.handlers.calls[name]
	out := make([]string, len(calls))
	copy(out, calls)
	return out
}

// AllHandlerCalls returns every handler name that received at least one
// call, mapped to its call list in source order. The result is a map, so
// the order in which different handler names were first invoked is not
// carried.
func (s *Store) AllHandlerCalls() map[string][]string {
	out := make(map[string][]string, len(s.handlers.callOrder))
	for _, name := range s.handlers.callOrder {
		calls := s.handlers.calls[name]
		cp := make([]string, len(calls))
		copy(cp, calls)
		out[name] = cp
	}
	return out
}
