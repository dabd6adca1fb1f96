package rules

import (
	"errors"
	"fmt"
)

// SameLayerPolicy controls whether modules may depend on modules in their own layer.
// There is no default; callers must choose one when constructing a Registry.
type SameLayerPolicy int

const (
	// SameLayerAllow permits edges between modules in the same layer
	SameLayerAllow SameLayerPolicy = iota
	// SameLayerForbid reports edges between modules in the same layer as violations
	SameLayerForbid
)

// String returns the string representation of the policy
func (p SameLayerPolicy) String() string {
	switch p {
	case SameLayerAllow:
		return "allow"
	case SameLayerForbid:
		return "forbid"
	default:
		return "unknown"
	}
}

// ErrDuplicateLayer is returned when the same layer name is declared twice.
var ErrDuplicateLayer = errors.New("duplicate layer declaration")

// ErrUnknownLayer is returned when a layer name was never declared.
var ErrUnknownLayer = errors.New("unknown layer")

// ForbiddenExternal names an external library a given layer must not reference.
type ForbiddenExternal struct {
	Layer    string
	External string
}

// Registry holds the declared layer order and the rules attached to each layer.
// Ranks are derived from declaration order: the first layer has rank 0, the
// second rank 1, and so on. A Registry is immutable once constructed.
type Registry struct {
	order     []string
	ranks     map[string]int
	policy    SameLayerPolicy
	forbidden map[ForbiddenExternal]struct{}
}

// NewRegistry builds a Registry from an ordered sequence of layer names, a
// same-layer edge policy, and a set of forbidden (layer, external) pairs.
// Duplicate layer names fail with ErrDuplicateLayer; a forbidden pair naming
// an undeclared layer fails with ErrUnknownLayer. On error no partially built
// registry is returned.
func NewRegistry(layers []string, policy SameLayerPolicy, forbidden []ForbiddenExternal) (*Registry, error) {
	r := &Registry{
		order:     make([]string, 0, len(layers)),
		ranks:     make(map[string]int, len(layers)),
		policy:    policy,
		forbidden: make(map[ForbiddenExternal]struct{}, len(forbidden)),
	}

	for _, name := range layers {
		if _, exists := r.ranks[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLayer, name)
		}
		r.ranks[name] = len(r.order)
		r.order = append(r.order, name)
	}

	for _, pair := range forbidden {
		if _, exists := r.ranks[pair.Layer]; !exists {
			return nil, fmt.Errorf("%w: forbidden external %q references layer %q", ErrUnknownLayer, pair.External, pair.Layer)
		}
		r.forbidden[pair] = struct{}{}
	}

	return r, nil
}

// RankOf returns the rank of a declared layer.
// Fails with ErrUnknownLayer if the layer was never declared.
func (r *Registry) RankOf(layer string) (int, error) {
	rank, exists := r.ranks[layer]
	if !exists {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, layer)
	}
	return rank, nil
}

// HasLayer reports whether the layer was declared
func (r *Registry) HasLayer(layer string) bool {
	_, exists := r.ranks[layer]
	return exists
}

// IsForbiddenExternal reports whether modules in the given layer are barred
// from referencing the given external library.
func (r *Registry) IsForbiddenExternal(layer, external string) bool {
	_, exists := r.forbidden[ForbiddenExternal{Layer: layer, External: external}]
	return exists
}

// SameLayerPolicy returns the configured same-layer edge policy
func (r *Registry) SameLayerPolicy() SameLayerPolicy {
	return r.policy
}

// Layers returns the declared layer names in rank order
func (r *Registry) Layers() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// LayerCount returns the number of declared layers
func (r *Registry) LayerCount() int {
	return len(r.order)
}
