package flow_test

import (
	"reflect"
	"testing"

	"github.com/Jaleel-zhu/crewAI/pkg/flow"
)

func TestBuildParentChildren_SortedAndDeduplicated(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("a")
	reg.AddListener("z", "a")
	reg.AddListener("y", "a")
	// A second mention of a in the same condition must not duplicate the edge.
	reg.AddListener("x", flow.Trigger{Kind: flow.ConditionOr, Methods: []string{"a", "a"}})

	children := flow.BuildParentChildren(reg.Snapshot())
	want := []string{"x", "y", "z"}
	if !reflect.DeepEqual(children["a"], want) {
		t.Errorf("children(a) = %v, want %v", children["a"], want)
	}
}

func TestBuildParentChildren_RouterPathEdges(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("r")
	reg.AddRouter("r", "ok", "fail")
	reg.AddListener("d", "ok")
	reg.AddListener("e", "fail")

	children := flow.BuildParentChildren(reg.Snapshot())
	want := []string{"d", "e"}
	if !reflect.DeepEqual(children["r"], want) {
		t.Errorf("children(r) = %v, want %v", children["r"], want)
	}
}

func TestBuildParentChildren_AndMentionsCountAsEdges(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("a")
	reg.AddStep("b")
	reg.AddListener("c", flow.Trigger{Kind: flow.ConditionAnd, Methods: []string{"a", "b"}})

	children := flow.BuildParentChildren(reg.Snapshot())
	if !reflect.DeepEqual(children["a"], []string{"c"}) || !reflect.DeepEqual(children["b"], []string{"c"}) {
		t.Errorf("children = %v, want c under both a and b", children)
	}
}

func TestGetChildIndex(t *testing.T) {
	children := map[string][]string{"p": {"c", "a", "b"}}
	if got := flow.GetChildIndex("p", "b", children); got != 1 {
		t.Errorf("index(b) = %d, want 1", got)
	}
	if got := flow.GetChildIndex("p", "missing", children); got != -1 {
		t.Errorf("index(missing) = %d, want -1", got)
	}
	// The lookup sorts the stored list in place.
	if !reflect.DeepEqual(children["p"], []string{"a", "b", "c"}) {
		t.Errorf("children after lookup = %v, want sorted", children["p"])
	}
}

func TestCountOutgoingEdges(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("a")
	reg.AddListener("b", "a")
	reg.AddListener("c", "a")
	reg.AddRouter("a", "ok")
	reg.AddListener("d", "ok")

	counts := flow.CountOutgoingEdges(reg.Snapshot())
	// Two listeners declare a as a trigger; the router-path edge to d is
	// excluded from the count.
	if counts["a"] != 2 {
		t.Errorf("count(a) = %d, want 2", counts["a"])
	}
	if counts["d"] != 0 {
		t.Errorf("count(d) = %d, want 0", counts["d"])
	}
}

func TestCountOutgoingEdges_DuplicateMentionsCounted(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("a")
	reg.AddStep("b")
	reg.AddListener("c", flow.Or(flow.MethodRef("a"), flow.And(flow.MethodRef("a"), flow.MethodRef("b"))))

	counts := flow.CountOutgoingEdges(reg.Snapshot())
	if counts["a"] != 2 {
		t.Errorf("count(a) = %d, want 2 (duplicates preserved)", counts["a"])
	}
}
