package flow_test

import (
	"testing"

	"github.com/Jaleel-zhu/crewAI/pkg/flow"
)

func TestParseDOT_MinimalFlow(t *testing.T) {
	src := `digraph demo {
		a [start=true]
		b
		a -> b
	}`
	reg, err := flow.ParseDOT(src)
	if err != nil {
		t.Fatalf("ParseDOT: %v", err)
	}
	snap := reg.Snapshot()
	if len(snap.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(snap.Steps))
	}
	if !snap.Steps["a"].Start {
		t.Error("a must be a start step")
	}
	cond, err := flow.Normalize(snap.Listeners["b"])
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cond.String() != "a" {
		t.Errorf("condition(b) = %q, want a", cond)
	}
}

func TestParseDOT_AndJoin(t *testing.T) {
	src := `digraph demo {
		a [start=true]
		b [start=true]
		c [join=and]
		a -> c
		b -> c
	}`
	reg, err := flow.ParseDOT(src)
	if err != nil {
		t.Fatalf("ParseDOT: %v", err)
	}
	cond, err := flow.Normalize(reg.Snapshot().Listeners["c"])
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cond.String() != "AND(a, b)" {
		t.Errorf("condition(c) = %q, want AND(a, b)", cond)
	}
}

func TestParseDOT_RouterPaths(t *testing.T) {
	src := `digraph demo {
		r [start=true, router=true, paths="ok, fail"]
		d
		r -> d [label="ok"]
	}`
	reg, err := flow.ParseDOT(src)
	if err != nil {
		t.Fatalf("ParseDOT: %v", err)
	}
	snap := reg.Snapshot()
	if !snap.Steps["r"].Router {
		t.Error("r must be a router")
	}
	paths := snap.RouterPaths["r"]
	if len(paths) != 2 || paths[0] != "ok" || paths[1] != "fail" {
		t.Errorf("paths = %v, want [ok fail]", paths)
	}
	// The labeled edge makes d listen on the path label, not on r itself.
	cond, err := flow.Normalize(snap.Listeners["d"])
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cond.String() != "ok" {
		t.Errorf("condition(d) = %q, want ok", cond)
	}

	levels := flow.CalculateLevels(snap)
	if levels["d"] != 1 {
		t.Errorf("level(d) = %d, want 1", levels["d"])
	}
}

func TestParseDOT_ExpressionLabel(t *testing.T) {
	src := `digraph demo {
		a [start=true]
		b [start=true]
		c
		d
		a -> d [label="a && (b || c)"]
	}`
	reg, err := flow.ParseDOT(src)
	if err != nil {
		t.Fatalf("ParseDOT: %v", err)
	}
	cond, err := flow.Normalize(reg.Snapshot().Listeners["d"])
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cond.String() != "AND(a, OR(b, c))" {
		t.Errorf("condition(d) = %q, want AND(a, OR(b, c))", cond)
	}
}

func TestParseDOT_BadSource(t *testing.T) {
	if _, err := flow.ParseDOT("not a graph"); err == nil {
		t.Error("expected parse error")
	}
}
