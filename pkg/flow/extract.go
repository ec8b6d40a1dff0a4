package flow

// ExtractAll returns every step name mentioned anywhere in the condition
// tree, depth-first, left-to-right, duplicates preserved. When known is
// non-nil, names that are not registered steps are dropped; this excludes
// router-output labels, which stand in place of step names inside a
// listener's condition but are not steps themselves.
//
// Every mention, AND or OR, counts as a structural edge: use this for
// visualization, ancestry, and fan-out.
func ExtractAll(c *Condition, known map[string]*Step) []string {
	if c == nil {
		return nil
	}
	if c.Leaf() {
		if known != nil {
			if _, ok := known[c.Method]; !ok {
				return nil
			}
		}
		return []string{c.Method}
	}
	var names []string
	for _, child := range c.Children {
		names = append(names, ExtractAll(child, known)...)
	}
	return names
}

// ExtractGating returns only the leaves that gate an AND-join: the direct
// leaf children of an AND node, or a bare top-level leaf. An OR-only tree
// yields nothing, and an OR nested inside an AND branch contributes
// nothing — firing any single member of that OR is sufficient and must not
// block the join. Used exclusively by level/readiness computation.
func ExtractGating(c *Condition) []string {
	if c == nil {
		return nil
	}
	if c.Leaf() {
		return []string{c.Method}
	}
	if c.Kind != ConditionAnd {
		return nil
	}
	var names []string
	for _, child := range c.Children {
		if child.Leaf() {
			names = append(names, child.Method)
		}
	}
	return names
}

// orMembers returns the names in c that sit beneath at least one OR node,
// filtered to known steps. These are the names that can individually
// propose a level to the listener during traversal.
func orMembers(c *Condition, known map[string]*Step) []string {
	return orMembersUnder(c, known, false)
}

func orMembersUnder(c *Condition, known map[string]*Step, underOr bool) []string {
	if c == nil {
		return nil
	}
	if c.Leaf() {
		if !underOr {
			return nil
		}
		if known != nil {
			if _, ok := known[c.Method]; !ok {
				return nil
			}
		}
		return []string{c.Method}
	}
	var names []string
	for _, child := range c.Children {
		names = append(names, orMembersUnder(child, known, underOr || c.Kind == ConditionOr)...)
	}
	return names
}

// mentions reports whether the condition tree names label anywhere,
// including router-output labels that are not registered steps.
func mentions(c *Condition, label string) bool {
	for _, name := range ExtractAll(c, nil) {
		if name == label {
			return true
		}
	}
	return false
}
