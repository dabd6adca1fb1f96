package depmodel

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-archcheck/pkg/rules"
)

// ErrUnknownModule is returned when an edge references a module identifier
// that is not part of the supplied module set.
var ErrUnknownModule = errors.New("unknown module")

// ErrDuplicateModule is returned when two modules share an identifier.
var ErrDuplicateModule = errors.New("duplicate module")

// Module is a unit of code assigned to exactly one layer, together with the
// external libraries it declares a reference to.
type Module struct {
	ID        string
	Layer     string
	Externals []string
}

// Edge is an ordered pair meaning "From references To". Multiple edges
// between the same pair collapse to one.
type Edge struct {
	From string
	To   string
}

// Model is an immutable directed graph of modules. Construction validates
// every module layer against the Registry and every edge endpoint against
// the module set; after construction nothing mutates it.
type Model struct {
	ids       []string
	layers    map[string]string
	edges     map[string]map[string]struct{}
	externals map[string]map[string]struct{}
	edgeCount int
}

// NewModel builds a Model from a module set and an edge set. It fails with
// ErrDuplicateModule if two modules share an identifier, with
// rules.ErrUnknownLayer if a module's layer was not declared in the registry,
// and with ErrUnknownModule if an edge endpoint is absent from the module
// set. Failure is atomic: on error no usable model is returned.
func NewModel(reg *rules.Registry, modules []Module, edges []Edge) (*Model, error) {
	m := &Model{
		ids:       make([]string, 0, len(modules)),
		layers:    make(map[string]string, len(modules)),
		edges:     make(map[string]map[string]struct{}),
		externals: make(map[string]map[string]struct{}),
	}

	for _, mod := range modules {
		if _, exists := m.layers[mod.ID]; exists {
			return nil, fmt.Errorf("%w: %q declared twice", ErrDuplicateModule, mod.ID)
		}
		if !reg.HasLayer(mod.Layer) {
			return nil, fmt.Errorf("%w: module %q assigned to layer %q", rules.ErrUnknownLayer, mod.ID, mod.Layer)
		}
		m.layers[mod.ID] = mod.Layer
		m.ids = append(m.ids, mod.ID)

		if len(mod.Externals) > 0 {
			exts := make(map[string]struct{}, len(mod.Externals))
			for _, ext := range mod.Externals {
				exts[ext] = struct{}{}
			}
			m.externals[mod.ID] = exts
		}
	}
	sort.Strings(m.ids)

	for _, e := range edges {
		if _, exists := m.layers[e.From]; !exists {
			return nil, fmt.Errorf("%w: edge source %q", ErrUnknownModule, e.From)
		}
		if _, exists := m.layers[e.To]; !exists {
			return nil, fmt.Errorf("%w: edge target %q", ErrUnknownModule, e.To)
		}
		targets, exists := m.edges[e.From]
		if !exists {
			targets = make(map[string]struct{})
			m.edges[e.From] = targets
		}
		if _, dup := targets[e.To]; !dup {
			targets[e.To] = struct{}{}
			m.edgeCount++
		}
	}

	return m, nil
}

// Modules returns all module identifiers in lexicographic order
func (m *Model) Modules() []string {
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out
}

// LayerOf returns the layer a module is assigned to
func (m *Model) LayerOf(id string) (string, bool) {
	layer, exists := m.layers[id]
	return layer, exists
}

// EdgesFrom returns the identifiers of modules the given module references,
// in lexicographic order. Unknown modules yield an empty slice.
func (m *Model) EdgesFrom(id string) []string {
	targets := m.edges[id]
	if len(targets) == 0 {
		return nil
	}
	out := make([]string, 0, len(targets))
	for target := range targets {
		out = append(out, target)
	}
	sort.Strings(out)
	return out
}

// HasEdge reports whether the model contains the edge from -> to
func (m *Model) HasEdge(from, to string) bool {
	_, exists := m.edges[from][to]
	return exists
}

// ExternalsOf returns the external libraries a module declares, in
// lexicographic order.
func (m *Model) ExternalsOf(id string) []string {
	exts := m.externals[id]
	if len(exts) == 0 {
		return nil
	}
	out := make([]string, 0, len(exts))
	for ext := range exts {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ModuleCount returns the number of modules in the model
func (m *Model) ModuleCount() int {
	return len(m.ids)
}

// EdgeCount returns the number of distinct edges in the model
func (m *Model) EdgeCount() int {
	return m.edgeCount
}
