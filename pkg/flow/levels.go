package flow

// CalculateLevels assigns a hierarchical level to every step via
// breadth-first traversal from the start steps (level 0). Each listener is
// proposed level L+1 when a predecessor at level L is expanded:
//
//   - names under any OR branch propose individually,
//   - AND-join gating names accumulate until the whole required set has
//     been seen, then the listener becomes eligible,
//   - a router proposes to every listener whose condition mentions one of
//     its declared path labels.
//
// A proposal commits only if the listener is unassigned or the existing
// assignment is larger; a step is enqueued on its first commitment only and
// is never re-expanded after dequeue. This is first-discovery layering for
// diagram layout, not shortest-path relaxation: a predecessor discovered
// after the listener was dequeued cannot lower its level.
//
// Steps never reached are bucketed at max(assigned)+1 so every step has a
// total order for layout.
func CalculateLevels(s *Snapshot) map[string]int {
	levels := make(map[string]int)
	var queue []string
	visited := make(map[string]bool)
	pendingAnd := make(map[string]map[string]bool)

	for _, name := range s.StepOrder {
		if s.Steps[name].Start {
			levels[name] = 0
			queue = append(queue, name)
		}
	}

	listeners, conds := normalizedListeners(s)

	// Precompute listener dependencies.
	orListeners := make(map[string][]string)
	andListeners := make(map[string]map[string]bool)
	var andOrder []string
	for _, listener := range listeners {
		cond := conds[listener]
		for _, m := range orMembers(cond, s.Steps) {
			orListeners[m] = append(orListeners[m], listener)
		}
		if gating := ExtractGating(cond); len(gating) > 0 {
			required := make(map[string]bool, len(gating))
			for _, m := range gating {
				required[m] = true
			}
			andListeners[listener] = required
			andOrder = append(andOrder, listener)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		currentLevel := levels[current]

		for _, listener := range orListeners[current] {
			propose(listener, currentLevel+1, levels, &queue)
		}

		for _, listener := range andOrder {
			required := andListeners[listener]
			if !required[current] {
				continue
			}
			seen := pendingAnd[listener]
			if seen == nil {
				seen = make(map[string]bool)
				pendingAnd[listener] = seen
			}
			seen[current] = true
			if len(seen) == len(required) {
				propose(listener, currentLevel+1, levels, &queue)
			}
		}

		proposeRouterPaths(s, current, currentLevel, listeners, conds, levels, &queue)
	}

	maxLevel := 0
	for _, level := range levels {
		if level > maxLevel {
			maxLevel = level
		}
	}
	for _, name := range s.StepOrder {
		if _, ok := levels[name]; !ok {
			levels[name] = maxLevel + 1
		}
	}
	return levels
}

// propose commits a level under the minimum-of-first-opportunities policy
// and enqueues the step on its first commitment.
func propose(name string, level int, levels map[string]int, queue *[]string) {
	existing, assigned := levels[name]
	if assigned && existing <= level {
		return
	}
	levels[name] = level
	if !assigned {
		*queue = append(*queue, name)
	}
}

// proposeRouterPaths proposes current's level + 1 to every listener whose
// condition mentions one of current's declared path labels.
func proposeRouterPaths(
	s *Snapshot,
	current string,
	currentLevel int,
	listeners []string,
	conds map[string]*Condition,
	levels map[string]int,
	queue *[]string,
) {
	if step := s.Steps[current]; step == nil || !step.Router {
		return
	}
	for _, path := range s.RouterPaths[current] {
		for _, listener := range listeners {
			if mentions(conds[listener], path) {
				propose(listener, currentLevel+1, levels, queue)
			}
		}
	}
}
