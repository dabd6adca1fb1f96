package analyzer

import (
	"sort"

	"github.com/dd0wney/cluso-archcheck/pkg/depmodel"
	"github.com/dd0wney/cluso-archcheck/pkg/rules"
)

// Verify checks a dependency model against a rule registry and returns the
// verification report. It runs three independent passes (layer direction,
// forbidden externals, cycles) and merges their findings through a fixed sort
// key, so the report is deterministic regardless of pass or map iteration
// order. Verify is total: once a model constructs, analysis cannot fail.
func Verify(reg *rules.Registry, m *depmodel.Model) *Report {
	violations := passLayerDirection(reg, m)
	violations = append(violations, passForbiddenExternals(reg, m)...)
	violations = append(violations, passCycles(m)...)
	sortViolations(violations)
	return newReport(violations)
}

// sortViolations orders violations by kind priority, then by the primary
// module identifier, then by message for a total order.
func sortViolations(violations []Violation) {
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Kind != violations[j].Kind {
			return violations[i].Kind < violations[j].Kind
		}
		if violations[i].primary() != violations[j].primary() {
			return violations[i].primary() < violations[j].primary()
		}
		return violations[i].Message < violations[j].Message
	})
}

// passLayerDirection flags every edge whose source layer does not sit
// strictly above its target layer. Equal ranks are flagged only under the
// forbid same-layer policy.
func passLayerDirection(reg *rules.Registry, m *depmodel.Model) []Violation {
	var violations []Violation

	for _, from := range m.Modules() {
		fromLayer, _ := m.LayerOf(from)
		// Layer existence was validated at model construction
		fromRank, _ := reg.RankOf(fromLayer)

		for _, to := range m.EdgesFrom(from) {
			toLayer, _ := m.LayerOf(to)
			toRank, _ := reg.RankOf(toLayer)

			switch {
			case fromRank > toRank:
				// Dependency flows down the stack
			case fromRank == toRank:
				if reg.SameLayerPolicy() == rules.SameLayerForbid && from != to {
					violations = append(violations, newLayerDirectionViolation(from, fromLayer, to, toLayer))
				}
			default:
				violations = append(violations, newLayerDirectionViolation(from, fromLayer, to, toLayer))
			}
		}
	}

	return violations
}

// passForbiddenExternals flags every module declaring an external reference
// its layer forbids.
func passForbiddenExternals(reg *rules.Registry, m *depmodel.Model) []Violation {
	var violations []Violation

	for _, id := range m.Modules() {
		layer, _ := m.LayerOf(id)
		for _, external := range m.ExternalsOf(id) {
			if reg.IsForbiddenExternal(layer, external) {
				violations = append(violations, newForbiddenExternalViolation(id, layer, external))
			}
		}
	}

	return violations
}

// tarjanFrame is one entry of the explicit DFS stack: a module and a cursor
// into its sorted neighbor list.
type tarjanFrame struct {
	id   string
	next int
}

// passCycles detects strongly connected components with Tarjan's algorithm,
// iteratively with an explicit stack so call depth stays constant on large
// graphs. Every SCC of size >= 2 yields exactly one violation; a self-loop
// yields a degenerate single-member cycle.
func passCycles(m *depmodel.Model) []Violation {
	ids := m.Modules()

	index := make(map[string]int, len(ids))
	lowlink := make(map[string]int, len(ids))
	onStack := make(map[string]bool, len(ids))
	var stack []string
	counter := 0

	var violations []Violation

	visit := func(id string) {
		index[id] = counter
		lowlink[id] = counter
		counter++
		stack = append(stack, id)
		onStack[id] = true
	}

	for _, root := range ids {
		if _, seen := index[root]; seen {
			continue
		}
		visit(root)
		frames := []tarjanFrame{{id: root}}

		for len(frames) > 0 {
			frame := &frames[len(frames)-1]
			neighbors := m.EdgesFrom(frame.id)

			if frame.next < len(neighbors) {
				next := neighbors[frame.next]
				frame.next++
				if _, seen := index[next]; !seen {
					visit(next)
					frames = append(frames, tarjanFrame{id: next})
				} else if onStack[next] {
					if index[next] < lowlink[frame.id] {
						lowlink[frame.id] = index[next]
					}
				}
				continue
			}

			// All neighbors explored: pop an SCC if this is its root,
			// then propagate the lowlink to the parent frame.
			finished := frame.id
			if lowlink[finished] == index[finished] {
				var members []string
				for {
					top := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[top] = false
					members = append(members, top)
					if top == finished {
						break
					}
				}
				if v, ok := cycleFor(m, members); ok {
					violations = append(violations, v)
				}
			}

			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := &frames[len(frames)-1]
				if lowlink[finished] < lowlink[parent.id] {
					lowlink[parent.id] = lowlink[finished]
				}
			}
		}
	}

	return violations
}

// cycleFor turns an SCC (in Tarjan pop order) into a cycle violation.
// Singleton components only count when they carry a self-loop. The member
// sequence is reversed into traversal order and rotated to start at the
// lexicographically smallest identifier, giving a canonical rendering.
func cycleFor(m *depmodel.Model, popped []string) (Violation, bool) {
	if len(popped) == 1 {
		if !m.HasEdge(popped[0], popped[0]) {
			return Violation{}, false
		}
		return newCycleViolation(popped), true
	}

	members := make([]string, len(popped))
	for i, id := range popped {
		members[len(popped)-1-i] = id
	}

	smallest := 0
	for i, id := range members {
		if id < members[smallest] {
			smallest = i
		}
	}
	rotated := append(append([]string(nil), members[smallest:]...), members[:smallest]...)
	return newCycleViolation(rotated), true
}
