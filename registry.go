package workflow

import (
	"slices"
)

// Registry resolves a component key to its descriptor. The engine only reads
// from it.
type Registry interface {
	Lookup(key string) (*Descriptor, bool)
}

// lookup resolves key in reg; a nil reg resolves nothing.
func lookup(reg Registry, key string) (*Descriptor, bool) {
	if reg == nil {
		return nil, false
	}
	return reg.Lookup(key)
}

// RegistryFunc adapts a plain function to Registry.
type RegistryFunc func(key string) (*Descriptor, bool)

// Lookup calls f(key).
func (f RegistryFunc) Lookup(key string) (*Descriptor, bool) { return f(key) }

// MapRegistry is a fixed set of descriptors keyed by Descriptor.Key.
type MapRegistry struct {
	byKey map[string]*Descriptor
}

var _ Registry = (*MapRegistry)(nil)

// NewMapRegistry builds a registry from descriptors. Later duplicates of a
// key replace earlier ones; descriptors with a blank key are skipped.
func NewMapRegistry(descriptors ...Descriptor) *MapRegistry {
	r := &MapRegistry{byKey: make(map[string]*Descriptor, len(descriptors))}
	for i := range descriptors {
		d := descriptors[i]
		if d.Key == "" {
			continue
		}
		r.byKey[d.Key] = &d
	}
	return r
}

// Lookup returns the descriptor registered under key.
func (r *MapRegistry) Lookup(key string) (*Descriptor, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.byKey[key]
	return d, ok
}

// Keys returns the registered keys in sorted order.
func (r *MapRegistry) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of registered descriptors.
func (r *MapRegistry) Len() int { return len(r.byKey) }
