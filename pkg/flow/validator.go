package flow

import (
	"fmt"
	"strings"
)

// LintError describes a structural problem in a flow definition.
type LintError struct {
	Step    string
	Message string
}

func (e LintError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("step %q: %s", e.Step, e.Message)
	}
	return e.Message
}

// Validate checks a snapshot for structural problems.
// Returns all discovered errors (not just the first).
func Validate(s *Snapshot) []LintError {
	var errs []LintError

	hasStart := false
	for _, name := range s.StepOrder {
		if s.Steps[name].Start {
			hasStart = true
			break
		}
	}
	if !hasStart {
		errs = append(errs, LintError{Message: "flow must have at least one start step"})
	}

	// Every router label any listener can mention.
	labels := make(map[string]bool)
	for _, router := range s.routers() {
		for _, path := range s.RouterPaths[router] {
			labels[path] = true
		}
	}

	for _, listener := range s.ListenerOrder {
		cond, err := Normalize(s.Listeners[listener])
		if err != nil {
			errs = append(errs, LintError{Step: listener, Message: fmt.Sprintf("invalid trigger condition: %v", err)})
			continue
		}
		for _, trigger := range ExtractAll(cond, nil) {
			if _, ok := s.Steps[trigger]; ok {
				continue
			}
			if labels[trigger] {
				continue
			}
			errs = append(errs, LintError{
				Step:    listener,
				Message: fmt.Sprintf("trigger %q is neither a registered step nor a declared router path", trigger),
			})
		}
	}

	for _, name := range s.StepOrder {
		if s.Steps[name].Router && len(s.RouterPaths[name]) == 0 {
			errs = append(errs, LintError{Step: name, Message: "router step declares no path labels"})
		}
	}

	// All non-start steps must be reachable from a start step.
	if hasStart {
		reachable := reachableFromStarts(s)
		for _, name := range s.StepOrder {
			if !s.Steps[name].Start && !reachable[name] {
				errs = append(errs, LintError{Step: name, Message: "step is not reachable from any start step"})
			}
		}
	}

	return errs
}

// reachableFromStarts returns the steps reachable from any start step via
// the structural adjacency (listener and router-path edges).
func reachableFromStarts(s *Snapshot) map[string]bool {
	children := BuildParentChildren(s)
	visited := make(map[string]bool)
	var queue []string
	for _, name := range s.StepOrder {
		if s.Steps[name].Start {
			queue = append(queue, name)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		queue = append(queue, children[current]...)
	}
	return visited
}

// ValidateErr calls Validate and returns nil if there are no errors, or a
// combined error message listing all lint errors.
func ValidateErr(s *Snapshot) error {
	errs := Validate(s)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("flow validation failed:\n  %s", strings.Join(msgs, "\n  "))
}
