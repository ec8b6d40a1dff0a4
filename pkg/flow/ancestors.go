package flow

// BuildAncestors computes, for every step, the transitive closure of
// backward trigger and router edges reaching it. Depth-first with a global
// visited set, so each node is expanded once and construction stays near
// O(nodes + edges) even with high fan-in. Start steps are expanded first,
// then the remaining steps in registration order.
//
// Cyclic input is not rejected: the visited set bounds the recursion, and
// the resulting sets reflect first-visit order rather than a full fixpoint.
func BuildAncestors(s *Snapshot) map[string]map[string]bool {
	ancestors := make(map[string]map[string]bool, len(s.Steps))
	for _, name := range s.StepOrder {
		ancestors[name] = make(map[string]bool)
	}
	listeners, conds := normalizedListeners(s)
	visited := make(map[string]bool)
	for _, name := range s.StepOrder {
		if s.Steps[name].Start && !visited[name] {
			dfsAncestors(s, name, listeners, conds, ancestors, visited)
		}
	}
	for _, name := range s.StepOrder {
		if !visited[name] {
			dfsAncestors(s, name, listeners, conds, ancestors, visited)
		}
	}
	return ancestors
}

func dfsAncestors(
	s *Snapshot,
	node string,
	listeners []string,
	conds map[string]*Condition,
	ancestors map[string]map[string]bool,
	visited map[string]bool,
) {
	if visited[node] {
		return
	}
	visited[node] = true

	for _, listener := range listeners {
		triggered := false
		for _, trigger := range ExtractAll(conds[listener], s.Steps) {
			if trigger == node {
				triggered = true
				break
			}
		}
		if !triggered {
			continue
		}
		inherit(ancestors, listener, node)
		dfsAncestors(s, listener, listeners, conds, ancestors, visited)
	}

	step := s.Steps[node]
	if step == nil || !step.Router {
		return
	}
	for _, path := range s.RouterPaths[node] {
		for _, listener := range listeners {
			if !mentions(conds[listener], path) {
				continue
			}
			inherit(ancestors, listener, node)
			dfsAncestors(s, listener, listeners, conds, ancestors, visited)
		}
	}
}

// inherit records node as an ancestor of listener along with everything
// already known to precede node.
func inherit(ancestors map[string]map[string]bool, listener, node string) {
	set := ancestors[listener]
	if set == nil {
		set = make(map[string]bool)
		ancestors[listener] = set
	}
	set[node] = true
	for name := range ancestors[node] {
		set[name] = true
	}
}

// IsAncestor reports whether candidate structurally precedes node. O(1)
// membership test against a precomputed ancestor map.
func IsAncestor(node, candidate string, ancestors map[string]map[string]bool) bool {
	return ancestors[node][candidate]
}
