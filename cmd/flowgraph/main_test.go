package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Jaleel-zhu/crewAI/pkg/flow"
)

// ─── loadFlow ─────────────────────────────────────────────────────────────────

func TestLoadFlow_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.yaml")
	src := `
steps:
  - name: a
    start: true
listeners:
  - step: b
    on: a
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reg, err := loadFlow(path)
	if err != nil {
		t.Fatalf("loadFlow: %v", err)
	}
	if len(reg.Snapshot().Steps) != 2 {
		t.Errorf("steps = %d, want 2", len(reg.Snapshot().Steps))
	}
}

func TestLoadFlow_DOT(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.dot")
	src := `digraph f {
		a [start=true]
		b
		a -> b
	}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reg, err := loadFlow(path)
	if err != nil {
		t.Fatalf("loadFlow: %v", err)
	}
	if !reg.Snapshot().Steps["a"].Start {
		t.Error("a must be a start step")
	}
}

func TestLoadFlow_UnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flow.toml")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadFlow(path); err == nil {
		t.Error("expected error for unknown extension")
	}
}

// ─── mergeInferredPaths ───────────────────────────────────────────────────────

func TestMergeInferredPaths(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "steps.go")
	src := `package steps

func route(status string) string {
	table := map[string]string{"ok": "x", "fail": "y"}
	return table[status]
}
`
	if err := os.WriteFile(srcPath, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reg := flow.NewRegistry()
	reg.AddStart("route")
	reg.AddRouter("route")
	reg.AddListener("next", "x")

	if err := mergeInferredPaths(reg, srcPath); err != nil {
		t.Fatalf("mergeInferredPaths: %v", err)
	}
	snap := reg.Snapshot()
	paths := snap.RouterPaths["route"]
	if len(paths) != 2 || paths[0] != "x" || paths[1] != "y" {
		t.Errorf("paths = %v, want [x y]", paths)
	}

	levels := flow.CalculateLevels(snap)
	if levels["next"] != 1 {
		t.Errorf("level(next) = %d, want 1 after merging inferred labels", levels["next"])
	}
}

func TestMergeInferredPaths_DeclaredPathsWin(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "steps.go")
	src := `package steps

func route() string { return "inferred" }
`
	if err := os.WriteFile(srcPath, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reg := flow.NewRegistry()
	reg.AddStart("route")
	reg.AddRouter("route", "declared")

	if err := mergeInferredPaths(reg, srcPath); err != nil {
		t.Fatalf("mergeInferredPaths: %v", err)
	}
	paths := reg.Snapshot().RouterPaths["route"]
	if len(paths) != 1 || paths[0] != "declared" {
		t.Errorf("paths = %v, want declared labels untouched", paths)
	}
}

// ─── renderText ───────────────────────────────────────────────────────────────

func TestRenderText(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("a")
	reg.AddListener("b", "a")

	snap := reg.Snapshot()
	out := renderText(flow.Analyze(snap), snap)
	for _, want := range []string{"Levels:", "Edges:", "L0", "L1", "start"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
