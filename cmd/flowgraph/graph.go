package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Jaleel-zhu/crewAI/pkg/flow"
)

// levelOrder returns step names grouped by hierarchical level, sorted
// within each level for stable output.
func levelOrder(g *flow.Graph, s *flow.Snapshot) [][]string {
	maxLevel := 0
	for _, level := range g.Levels {
		if level > maxLevel {
			maxLevel = level
		}
	}
	buckets := make([][]string, maxLevel+1)
	for _, name := range s.StepOrder {
		level := g.Levels[name]
		buckets[level] = append(buckets[level], name)
	}
	for _, bucket := range buckets {
		sort.Strings(bucket)
	}
	return buckets
}

// renderText produces the human-readable flow summary.
func renderText(g *flow.Graph, s *flow.Snapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Flow: %d steps, %d edges, %d router edges\n",
		len(s.Steps), len(flow.ListenerEdges(s)), len(g.RouterEdges))

	maxNameLen := 4
	for _, name := range s.StepOrder {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	fmt.Fprintf(&sb, "\nLevels:\n")
	for level, bucket := range levelOrder(g, s) {
		if len(bucket) == 0 {
			continue
		}
		for _, name := range bucket {
			step := s.Steps[name]
			var tags []string
			if step.Start {
				tags = append(tags, "start")
			}
			if step.Router {
				tags = append(tags, "router")
			}
			if g.Fanout[name] > 0 {
				tags = append(tags, fmt.Sprintf("fan-out=%d", g.Fanout[name]))
			}
			fmt.Fprintf(&sb, "  L%d  %-*s  %s\n", level, maxNameLen, name, strings.Join(tags, " "))
		}
	}

	fmt.Fprintf(&sb, "\nEdges:\n")
	for _, e := range flow.ListenerEdges(s) {
		fmt.Fprintf(&sb, "  %-*s  →  %s\n", maxNameLen, e.Trigger, e.Listener)
	}
	for _, e := range g.RouterEdges {
		fmt.Fprintf(&sb, "  %-*s  →  %s  [%s]\n", maxNameLen, e.Router, e.Listener, e.Label)
	}

	fmt.Fprintf(&sb, "\nAncestors:\n")
	for _, name := range s.StepOrder {
		set := g.Ancestors[name]
		if len(set) == 0 {
			continue
		}
		ancestors := make([]string, 0, len(set))
		for a := range set {
			ancestors = append(ancestors, a)
		}
		sort.Strings(ancestors)
		fmt.Fprintf(&sb, "  %-*s  ⇐  %s\n", maxNameLen, name, strings.Join(ancestors, ", "))
	}

	return sb.String()
}
