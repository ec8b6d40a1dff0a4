package flow

import (
	"fmt"
	"strings"

	gographviz "github.com/awalterschulze/gographviz"
)

// ParseDOT parses a Graphviz DOT flow definition into a Registry.
//
// Node attributes:
//
//	start=true      the node is a start step
//	router=true     the node is a router step
//	paths="a,b"     declared router path labels, comma separated
//	join=and|or     how multiple incoming edges combine (default or)
//
// A plain edge `a -> b` declares a as a trigger of b. An edge label either
// names a router path label the target listens on, or carries a boolean
// trigger expression such as "a && (b || c)".
func ParseDOT(src string) (*Registry, error) {
	graphAst, err := gographviz.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("dot parse error: %w", err)
	}

	// Permissive collector: accepts any attribute name without the strict
	// validation that gographviz.Graph performs.
	collector := newDOTCollector()
	if err := gographviz.Analyse(graphAst, collector); err != nil {
		return nil, fmt.Errorf("dot analyse error: %w", err)
	}

	reg := NewRegistry()
	for _, id := range collector.order {
		attrs := collector.nodes[id]
		if isTruthy(attrs["start"]) {
			reg.AddStart(id)
		} else {
			reg.AddStep(id)
		}
		if isTruthy(attrs["router"]) {
			reg.AddRouter(id, splitPaths(attrs["paths"])...)
		}
	}

	// Group incoming edges by target, in definition order.
	incoming := make(map[string][]*Condition)
	var targets []string
	for _, e := range collector.edges {
		cond, err := edgeCondition(e)
		if err != nil {
			return nil, fmt.Errorf("edge %q -> %q: %w", e.from, e.to, err)
		}
		if _, ok := incoming[e.to]; !ok {
			targets = append(targets, e.to)
		}
		incoming[e.to] = append(incoming[e.to], cond)
	}

	for _, target := range targets {
		conds := incoming[target]
		if len(conds) == 1 {
			reg.AddListener(target, conds[0])
			continue
		}
		kind := ConditionOr
		if strings.EqualFold(collector.nodes[target]["join"], "and") {
			kind = ConditionAnd
		}
		reg.AddListener(target, &Condition{Kind: kind, Children: conds})
	}

	return reg, nil
}

func edgeCondition(e rawEdge) (*Condition, error) {
	if e.label == "" {
		return MethodRef(e.from), nil
	}
	if isExpression(e.label) {
		return ParseCondition(e.label)
	}
	return MethodRef(e.label), nil
}

func isTruthy(v string) bool {
	return strings.EqualFold(v, "true") || v == "1"
}

func splitPaths(v string) []string {
	if v == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// ─── permissive DOT collector ─────────────────────────────────────────────────

type rawEdge struct {
	from, to string
	label    string
}

// dotCollector implements gographviz.Interface without attribute validation.
type dotCollector struct {
	name  string
	nodes map[string]map[string]string // id → attrs
	order []string                     // ids in definition order
	edges []rawEdge
}

func newDOTCollector() *dotCollector {
	return &dotCollector{nodes: make(map[string]map[string]string)}
}

func (c *dotCollector) SetStrict(_ bool) error { return nil }
func (c *dotCollector) SetDir(_ bool) error    { return nil }
func (c *dotCollector) SetName(n string) error { c.name = unquote(n); return nil }
func (c *dotCollector) String() string         { return c.name }

func (c *dotCollector) AddNode(_ string, name string, attrs map[string]string) error {
	id := unquote(name)
	if _, ok := c.nodes[id]; !ok {
		c.order = append(c.order, id)
		c.nodes[id] = make(map[string]string, len(attrs))
	}
	for k, v := range attrs {
		c.nodes[id][k] = unquote(v)
	}
	return nil
}

func (c *dotCollector) AddEdge(src, dst string, _ bool, attrs map[string]string) error {
	label := ""
	if lbl, ok := attrs["label"]; ok {
		label = unquote(lbl)
	}
	from, to := unquote(src), unquote(dst)
	// Edge-only nodes still need registration in definition order.
	_ = c.AddNode("", from, nil)
	_ = c.AddNode("", to, nil)
	c.edges = append(c.edges, rawEdge{from: from, to: to, label: label})
	return nil
}

func (c *dotCollector) AddPortEdge(src, _, dst, _ string, directed bool, attrs map[string]string) error {
	return c.AddEdge(src, dst, directed, attrs)
}

func (c *dotCollector) AddAttr(_ string, _, _ string) error { return nil }

func (c *dotCollector) AddSubGraph(_, _ string, _ map[string]string) error { return nil }

// unquote strips surrounding double-quotes from a DOT attribute value.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
