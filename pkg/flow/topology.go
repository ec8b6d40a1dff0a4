package flow

import "sort"

// BuildParentChildren builds the parent → children adjacency of the flow.
// Every AND or OR mention of a step in a listener's condition is a
// structural edge, and a router gains an edge to every listener mentioning
// one of its declared path labels. Children lists are deduplicated and
// sorted lexicographically.
func BuildParentChildren(s *Snapshot) map[string][]string {
	parentChildren := make(map[string][]string)
	listeners, conds := normalizedListeners(s)

	for _, listener := range listeners {
		for _, trigger := range ExtractAll(conds[listener], s.Steps) {
			appendChild(parentChildren, trigger, listener)
		}
	}

	for _, router := range s.routers() {
		for _, path := range s.RouterPaths[router] {
			for _, listener := range listeners {
				if mentions(conds[listener], path) {
					appendChild(parentChildren, router, listener)
				}
			}
		}
	}

	for _, children := range parentChildren {
		sort.Strings(children)
	}
	return parentChildren
}

func appendChild(parentChildren map[string][]string, parent, child string) {
	for _, existing := range parentChildren[parent] {
		if existing == child {
			return
		}
	}
	parentChildren[parent] = append(parentChildren[parent], child)
}

// GetChildIndex returns the zero-based index of child within parent's
// lexicographically sorted children, or -1 if absent. The stored list is
// sorted in place at lookup; callers must not assume the pre-lookup
// ordering survives.
func GetChildIndex(parent, child string, parentChildren map[string][]string) int {
	children := parentChildren[parent]
	sort.Strings(children)
	for i, c := range children {
		if c == child {
			return i
		}
	}
	return -1
}

// CountOutgoingEdges counts, per step, how many listener declarations name
// it as a trigger. Router-path edges are excluded; a condition mentioning
// the same step twice counts twice. Used for branch-layout decisions.
func CountOutgoingEdges(s *Snapshot) map[string]int {
	counts := make(map[string]int, len(s.Steps))
	for _, name := range s.StepOrder {
		counts[name] = 0
	}
	listeners, conds := normalizedListeners(s)
	for _, listener := range listeners {
		for _, trigger := range ExtractAll(conds[listener], s.Steps) {
			counts[trigger]++
		}
	}
	return counts
}
