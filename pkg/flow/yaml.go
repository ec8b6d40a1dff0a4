package flow

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlFlow is the on-disk YAML shape of a flow definition.
type yamlFlow struct {
	Name  string `yaml:"name"`
	Steps []struct {
		Name   string   `yaml:"name"`
		Start  bool     `yaml:"start"`
		Router bool     `yaml:"router"`
		Paths  []string `yaml:"paths"`
	} `yaml:"steps"`
	Listeners []struct {
		Step string `yaml:"step"`
		On   any    `yaml:"on"`
	} `yaml:"listeners"`
}

// LoadYAML parses a YAML flow definition into a Registry. Listener
// conditions keep the raw shapes Normalize accepts: a bare step name, a
// {kind, methods} or {kind, conditions} mapping (nested to any depth), a
// plain list (an OR), or a boolean trigger expression string.
func LoadYAML(src []byte) (*Registry, error) {
	var def yamlFlow
	if err := yaml.Unmarshal(src, &def); err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}

	reg := NewRegistry()
	for _, step := range def.Steps {
		if step.Name == "" {
			return nil, fmt.Errorf("flow %q: step with empty name", def.Name)
		}
		if step.Start {
			reg.AddStart(step.Name)
		} else {
			reg.AddStep(step.Name)
		}
		if step.Router {
			reg.AddRouter(step.Name, step.Paths...)
		}
	}

	for _, listener := range def.Listeners {
		if listener.Step == "" {
			return nil, fmt.Errorf("flow %q: listener with empty step name", def.Name)
		}
		raw, err := canonicalizeRaw(listener.On)
		if err != nil {
			return nil, fmt.Errorf("listener %q: %w", listener.Step, err)
		}
		reg.AddListener(listener.Step, raw)
	}

	return reg, nil
}

// canonicalizeRaw prepares a YAML-decoded condition for Normalize: kind
// tags are upper-cased and strings carrying boolean operators are parsed
// into condition trees. Bare names and tagged mappings pass through so the
// normalizer still sees the raw shapes it owns.
func canonicalizeRaw(v any) (any, error) {
	switch raw := v.(type) {
	case string:
		if isExpression(raw) {
			return ParseCondition(raw)
		}
		return raw, nil
	case map[string]any:
		out := make(map[string]any, len(raw))
		for k, val := range raw {
			out[k] = val
		}
		if kind, ok := out["kind"].(string); ok {
			out["kind"] = strings.ToUpper(kind)
		}
		if conds, ok := out["conditions"].([]any); ok {
			canonical := make([]any, len(conds))
			for i, item := range conds {
				c, err := canonicalizeRaw(item)
				if err != nil {
					return nil, err
				}
				canonical[i] = c
			}
			out["conditions"] = canonical
		}
		return out, nil
	case []any:
		out := make([]any, len(raw))
		for i, item := range raw {
			c, err := canonicalizeRaw(item)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	default:
		return v, nil
	}
}
