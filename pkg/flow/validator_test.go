package flow_test

import (
	"strings"
	"testing"

	"github.com/Jaleel-zhu/crewAI/pkg/flow"
)

func TestValidate_Valid(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("a")
	reg.AddRouter("r", "ok")
	reg.AddListener("r", "a")
	reg.AddListener("b", "ok")

	if err := flow.ValidateErr(reg.Snapshot()); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidate_NoStart(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStep("a")
	reg.AddListener("b", "a")

	if err := flow.ValidateErr(reg.Snapshot()); err == nil {
		t.Error("expected error for missing start step")
	}
}

func TestValidate_UnknownTrigger(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("a")
	reg.AddListener("b", "ghost")

	errs := flow.Validate(reg.Snapshot())
	if !containsLint(errs, "neither a registered step nor a declared router path") {
		t.Errorf("errs = %v, want unknown-trigger error", errs)
	}
}

func TestValidate_PathLabelIsNotUnknown(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("r")
	reg.AddRouter("r", "ok")
	reg.AddListener("b", "ok")

	errs := flow.Validate(reg.Snapshot())
	if containsLint(errs, "neither a registered step") {
		t.Errorf("errs = %v, declared path labels are valid triggers", errs)
	}
}

func TestValidate_RouterWithoutPaths(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("a")
	reg.AddRouter("r")
	reg.AddListener("r", "a")

	errs := flow.Validate(reg.Snapshot())
	if !containsLint(errs, "declares no path labels") {
		t.Errorf("errs = %v, want router-without-paths error", errs)
	}
}

func TestValidate_UnreachableStep(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("a")
	reg.AddListener("b", "a")
	reg.AddStep("island")

	errs := flow.Validate(reg.Snapshot())
	if !containsLint(errs, "not reachable from any start step") {
		t.Errorf("errs = %v, want unreachable-step error", errs)
	}
}

func TestValidate_MalformedCondition(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStart("a")
	reg.AddListener("b", 42)

	errs := flow.Validate(reg.Snapshot())
	if !containsLint(errs, "invalid trigger condition") {
		t.Errorf("errs = %v, want invalid-condition error", errs)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	reg := flow.NewRegistry()
	reg.AddStep("a")
	reg.AddListener("b", "ghost")
	reg.AddRouter("r")

	errs := flow.Validate(reg.Snapshot())
	if len(errs) < 3 {
		t.Errorf("errs = %v, want all problems reported at once", errs)
	}
}

func containsLint(errs []flow.LintError, fragment string) bool {
	for _, e := range errs {
		if strings.Contains(e.Error(), fragment) {
			return true
		}
	}
	return false
}
