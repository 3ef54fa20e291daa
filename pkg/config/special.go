package config

import "github.com/hyprlang-go/hyprlang/pkg/value"

// SpecialKind classifies how a special category's instances are tracked
// (spec §3 "SpecialCategoryDescriptor", GLOSSARY "Special category").
type SpecialKind int

const (
	// Keyed instances are addressed by an explicit `name[key] { ... }`.
	Keyed SpecialKind = iota
	// Static allows at most one instance; re-opening replaces it.
	Static
	// Anonymous auto-instances a new entry on every open.
	Anonymous
)

func (k SpecialKind) String() string {
	switch k {
	case Keyed:
		return "Keyed"
	case Static:
		return "Static"
	case Anonymous:
		return "Anonymous"
	default:
		return "Unknown"
	}
}

// SpecialCategoryDescriptor declares a category name as special, changing
// how `name { ... }` or `name[key] { ... }` opens are interpreted by the
// binder.
type SpecialCategoryDescriptor struct {
	Name string
	Kind SpecialKind
}

// Instance is isolated storage for one opened special-category block
// (invariant 6: a keyed device[mouse] never collides with a root key
// device:mouse).
type Instance struct {
	Descriptor  string
	InstanceKey string
	store       *valueStore
}

// Get returns the instance-local value for key, if set.
func (i *Instance) Get(key string) (value.Value, bool) {
	return i.store.get(key)
}

// Has reports whether key is set within this instance.
func (i *Instance) Has(key string) bool {
	return i.store.has(key)
}

// Keys returns this instance's keys.
func (i *Instance) Keys() []string {
	return i.store.keys()
}

type specialRegistry struct {
	descriptors map[string]SpecialCategoryDescriptor
	names       []string // registration order
	// instances maps descriptor name to its instances, in open order.
	instances map[string][]*Instance
	byKey     map[string]map[string]*Instance
}

func newSpecialRegistry() *specialRegistry {
	return &specialRegistry{
		descriptors: make(map[string]SpecialCategoryDescriptor),
		instances:   make(map[string][]*Instance),
		byKey:       make(map[string]map[string]*Instance),
	}
}

func (r *specialRegistry) register(d SpecialCategoryDescriptor) {
	if _, exists := r.descriptors[d.Name]; !exists {
		r.names = append(r.names, d.Name)
	}
	r.descriptors[d.Name] = d
	if r.byKey[d.Name] == nil {
		r.byKey[d.Name] = make(map[string]*Instance)
	}
}

func (r *specialRegistry) descriptor(name string) (SpecialCategoryDescriptor, bool) {
	d, ok := r.descriptors[name]
	return d, ok
}

// open returns the Instance to write into for a `name[key]` or bare `name`
// open, creating a new one or replacing an existing Static instance as the
// descriptor's kind demands.
func (r *specialRegistry) open(name, key string) *Instance {
	d := r.descriptors[name]
	switch d.Kind {
	case Static:
		inst := &Instance{Descriptor: name, InstanceKey: key, store: newValueStore()}
		r.instances[name] = []*Instance{inst}
		r.byKey[name] = map[string]*Instance{key: inst}
		return inst
	case Keyed:
		if existing, ok := r.byKey[name][key]; ok {
			return existing
		}
		inst := &Instance{Descriptor: name, InstanceKey: key, store: newValueStore()}
		r.instances[name] = append(r.instances[name], inst)
		r.byKey[name][key] = inst
		return inst
	default: // Anonymous
		inst := &Instance{Descriptor: name, InstanceKey: key, store: newValueStore()}
		r.instances[name] = append(r.instances[name], inst)
		if key != "" {
			r.byKey[name][key] = inst
		}
		return inst
	}
}

func (r *specialRegistry) lookup(name, key string) (*Instance, bool) {
	byKey, ok := r.byKey[name]
	if !ok {
		return nil, false
	}
	inst, ok := byKey[key]
	return inst, ok
}

func (r *specialRegistry) all(name string) []*Instance {
	return r.instances[name]
}
