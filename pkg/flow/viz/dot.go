// Package viz renders a flow analysis as a Graphviz DOT diagram.
package viz

import (
	"fmt"
	"strconv"

	gographviz "github.com/awalterschulze/gographviz"

	"github.com/Jaleel-zhu/crewAI/pkg/flow"
)

// BuildDOT renders the analyzed graph as DOT text. Start steps are bold
// boxes, routers are diamonds, listener edges are solid, and router-path
// edges are dashed and labeled with their path label. Node labels carry
// the hierarchical level so layered renderers agree with CalculateLevels.
func BuildDOT(g *flow.Graph, s *flow.Snapshot) (string, error) {
	name := "flow"
	gv := gographviz.NewGraph()
	if err := gv.SetName(name); err != nil {
		return "", fmt.Errorf("set graph name: %w", err)
	}
	if err := gv.SetDir(true); err != nil {
		return "", fmt.Errorf("set directed: %w", err)
	}

	for _, stepName := range s.StepOrder {
		step := s.Steps[stepName]
		attrs := map[string]string{
			"shape": "box",
			"label": strconv.Quote(fmt.Sprintf("%s\nL%d", stepName, g.Levels[stepName])),
		}
		switch {
		case step.Router:
			attrs["shape"] = "diamond"
		case step.Start:
			attrs["style"] = "bold"
		}
		if err := gv.AddNode(name, strconv.Quote(stepName), attrs); err != nil {
			return "", fmt.Errorf("add node %q: %w", stepName, err)
		}
	}

	for _, e := range flow.ListenerEdges(s) {
		if err := gv.AddEdge(strconv.Quote(e.Trigger), strconv.Quote(e.Listener), true, nil); err != nil {
			return "", fmt.Errorf("add edge %q -> %q: %w", e.Trigger, e.Listener, err)
		}
	}

	for _, e := range g.RouterEdges {
		attrs := map[string]string{
			"style": "dashed",
			"label": strconv.Quote(e.Label),
		}
		if err := gv.AddEdge(strconv.Quote(e.Router), strconv.Quote(e.Listener), true, attrs); err != nil {
			return "", fmt.Errorf("add router edge %q -> %q: %w", e.Router, e.Listener, err)
		}
	}

	return gv.String(), nil
}
