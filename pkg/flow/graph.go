package flow

// RouterEdge is a dynamically resolved edge: listener triggers when router
// emits the path label Label, which stands in place of a step name inside
// the listener's condition.
type RouterEdge struct {
	Router   string
	Label    string
	Listener string
}

// Graph is the full structural analysis of one registry snapshot. All maps
// are freshly allocated per call and hold no references into the snapshot
// or the registry; mutate the registry, take a new snapshot, recompute.
type Graph struct {
	Levels      map[string]int
	Ancestors   map[string]map[string]bool
	Children    map[string][]string
	Fanout      map[string]int
	RouterEdges []RouterEdge
}

// Analyze computes levels, ancestors, adjacency, fan-out counts, and
// router-path edges in one pass over the snapshot.
func Analyze(s *Snapshot) *Graph {
	return &Graph{
		Levels:      CalculateLevels(s),
		Ancestors:   BuildAncestors(s),
		Children:    BuildParentChildren(s),
		Fanout:      CountOutgoingEdges(s),
		RouterEdges: RouterEdges(s),
	}
}

// ListenerEdge is a static structural edge: the listener's condition
// mentions the trigger step directly.
type ListenerEdge struct {
	Trigger  string
	Listener string
}

// ListenerEdges returns the deduplicated static edges of the snapshot in
// registration order, router-path edges excluded.
func ListenerEdges(s *Snapshot) []ListenerEdge {
	var edges []ListenerEdge
	seen := make(map[ListenerEdge]bool)
	listeners, conds := normalizedListeners(s)
	for _, listener := range listeners {
		for _, trigger := range ExtractAll(conds[listener], s.Steps) {
			e := ListenerEdge{Trigger: trigger, Listener: listener}
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}
	return edges
}

// RouterEdges synthesizes the (router, label, listener) edges declared by
// the snapshot: one edge for every listener whose condition mentions one of
// a router's declared path labels.
func RouterEdges(s *Snapshot) []RouterEdge {
	var edges []RouterEdge
	listeners, conds := normalizedListeners(s)
	for _, router := range s.routers() {
		for _, path := range s.RouterPaths[router] {
			for _, listener := range listeners {
				if mentions(conds[listener], path) {
					edges = append(edges, RouterEdge{Router: router, Label: path, Listener: listener})
				}
			}
		}
	}
	return edges
}
