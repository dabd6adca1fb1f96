package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind categorizes a conformance violation. The declared order is also the
// report ordering priority.
type Kind int

const (
	KindLayerDirection Kind = iota
	KindForbiddenExternal
	KindCycle
)

// String returns the string representation of a violation kind
func (k Kind) String() string {
	switch k {
	case KindLayerDirection:
		return "LayerDirection"
	case KindForbiddenExternal:
		return "ForbiddenExternal"
	case KindCycle:
		return "Cycle"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders the kind as its string name
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", k.String())), nil
}

// UnmarshalJSON parses the string name back into a kind
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "LayerDirection":
		*k = KindLayerDirection
	case "ForbiddenExternal":
		*k = KindForbiddenExternal
	case "Cycle":
		*k = KindCycle
	default:
		return fmt.Errorf("unknown violation kind %q", name)
	}
	return nil
}

// Violation is a single detected breach of a layering rule. Which fields are
// populated depends on Kind: LayerDirection fills From/To and their layers,
// ForbiddenExternal fills Module/Layer/External, Cycle fills Cycle.
type Violation struct {
	Kind      Kind     `json:"kind"`
	From      string   `json:"from,omitempty"`
	To        string   `json:"to,omitempty"`
	FromLayer string   `json:"from_layer,omitempty"`
	ToLayer   string   `json:"to_layer,omitempty"`
	Module    string   `json:"module,omitempty"`
	Layer     string   `json:"layer,omitempty"`
	External  string   `json:"external,omitempty"`
	Cycle     []string `json:"cycle,omitempty"`
	Message   string   `json:"message"`
}

// primary returns the module identifier used as the secondary sort key
func (v Violation) primary() string {
	switch v.Kind {
	case KindLayerDirection:
		return v.From
	case KindForbiddenExternal:
		return v.Module
	case KindCycle:
		if len(v.Cycle) > 0 {
			return v.Cycle[0]
		}
	}
	return ""
}

func newLayerDirectionViolation(from, fromLayer, to, toLayer string) Violation {
	return Violation{
		Kind:      KindLayerDirection,
		From:      from,
		To:        to,
		FromLayer: fromLayer,
		ToLayer:   toLayer,
		Message:   fmt.Sprintf("%s (layer %s) must not depend on %s (layer %s)", from, fromLayer, to, toLayer),
	}
}

func newForbiddenExternalViolation(module, layer, external string) Violation {
	return Violation{
		Kind:     KindForbiddenExternal,
		Module:   module,
		Layer:    layer,
		External: external,
		Message:  fmt.Sprintf("%s (layer %s) references forbidden external %q", module, layer, external),
	}
}

func newCycleViolation(members []string) Violation {
	// Render as A -> B -> C -> A; a self-loop renders as A -> A
	path := append(append([]string(nil), members...), members[0])
	return Violation{
		Kind:    KindCycle,
		Cycle:   members,
		Message: fmt.Sprintf("dependency cycle: %s", strings.Join(path, " -> ")),
	}
}
