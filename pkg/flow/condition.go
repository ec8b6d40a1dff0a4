// Package flow analyzes the structural relationships between workflow steps
// connected through trigger conditions: canonical condition trees,
// hierarchical level assignment, ancestor sets, and parent/child topology.
package flow

import (
	"errors"
	"fmt"
	"strings"
)

// ConditionKind identifies the join type of a condition branch.
type ConditionKind string

const (
	ConditionAnd ConditionKind = "AND"
	ConditionOr  ConditionKind = "OR"
)

// ErrInvalidConditionKind is returned when a raw trigger condition has a
// shape or kind tag the normalizer does not accept.
var ErrInvalidConditionKind = errors.New("invalid condition kind")

// Condition is the canonical form of a trigger condition: a finite tree of
// AND/OR branches over step-name leaves. A node is a leaf when Method is
// non-empty; otherwise Kind and Children describe the join.
type Condition struct {
	Method   string
	Kind     ConditionKind
	Children []*Condition
}

// MethodRef builds a leaf condition referencing a single step name.
func MethodRef(name string) *Condition {
	return &Condition{Method: name}
}

// And builds an AND-join over the given children.
func And(children ...*Condition) *Condition {
	return &Condition{Kind: ConditionAnd, Children: children}
}

// Or builds an OR-join over the given children.
func Or(children ...*Condition) *Condition {
	return &Condition{Kind: ConditionOr, Children: children}
}

// Leaf reports whether c references a single step name.
func (c *Condition) Leaf() bool { return c.Method != "" }

func (c *Condition) String() string {
	if c == nil {
		return "<nil>"
	}
	if c.Leaf() {
		return c.Method
	}
	parts := make([]string, len(c.Children))
	for i, child := range c.Children {
		parts[i] = child.String()
	}
	return fmt.Sprintf("%s(%s)", c.Kind, strings.Join(parts, ", "))
}

// Trigger is the ordered-pair raw shape: a join kind plus flat leaf names.
type Trigger struct {
	Kind    ConditionKind
	Methods []string
}

// Normalize canonicalizes a raw trigger condition. It is the sole entry
// point producing the canonical tree; every other function in this package
// consumes only the canonical form.
//
// Accepted raw shapes:
//   - string: a bare step name, becomes a leaf
//   - Trigger: an ordered (kind, names) pair of leaves
//   - map[string]any: a "kind" tag plus either a "conditions" list
//     (recursively normalized) or a flat "methods" list of leaf names
//   - []any or []string: an OR over the normalized elements
//   - *Condition: already canonical, passed through unchanged
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw any) (*Condition, error) {
	switch v := raw.(type) {
	case *Condition:
		return v, nil
	case string:
		return MethodRef(v), nil
	case Trigger:
		kind, err := normalizeKind(string(v.Kind))
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: kind, Children: leaves(v.Methods)}, nil
	case map[string]any:
		return normalizeTagged(v)
	case []any:
		children, err := normalizeList(v)
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: ConditionOr, Children: children}, nil
	case []string:
		return &Condition{Kind: ConditionOr, Children: leaves(v)}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported shape %T", ErrInvalidConditionKind, raw)
	}
}

func normalizeTagged(raw map[string]any) (*Condition, error) {
	tag, _ := raw["kind"].(string)
	kind, err := normalizeKind(tag)
	if err != nil {
		return nil, err
	}

	if conds, ok := raw["conditions"]; ok {
		list, ok := conds.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: conditions must be a list, got %T", ErrInvalidConditionKind, conds)
		}
		children, err := normalizeList(list)
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: kind, Children: children}, nil
	}

	if methods, ok := raw["methods"]; ok {
		names, err := stringList(methods)
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: kind, Children: leaves(names)}, nil
	}

	return nil, fmt.Errorf("%w: tagged condition needs a conditions or methods field", ErrInvalidConditionKind)
}

func normalizeList(items []any) ([]*Condition, error) {
	children := make([]*Condition, 0, len(items))
	for _, item := range items {
		child, err := Normalize(item)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func normalizeKind(tag string) (ConditionKind, error) {
	switch ConditionKind(tag) {
	case ConditionAnd:
		return ConditionAnd, nil
	case ConditionOr:
		return ConditionOr, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidConditionKind, tag)
	}
}

func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		names := make([]string, 0, len(list))
		for _, item := range list {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: method name must be a string, got %T", ErrInvalidConditionKind, item)
			}
			names = append(names, name)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("%w: methods must be a list, got %T", ErrInvalidConditionKind, v)
	}
}

func leaves(names []string) []*Condition {
	children := make([]*Condition, len(names))
	for i, name := range names {
		children[i] = MethodRef(name)
	}
	return children
}
