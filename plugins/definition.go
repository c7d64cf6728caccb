package plugins

import (
	"fmt"
	"strings"

	"github.com/kingrea/switchscan/internal/classify"
	"github.com/kingrea/switchscan/internal/platform"
)

// RuleSetDefinition describes a classification plugin loaded from YAML or
// from a Go file.
//
// The struct mirrors the on-disk schema under .switchscan/rules/*.yaml and is
// kept narrow so rules can be validated before they reach the policy.
type RuleSetDefinition struct {
	ID          string           `json:"id" yaml:"id"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string           `json:"version" yaml:"version"`
	Rules       []RuleDefinition `json:"rules" yaml:"rules"`
}

// Normalized returns a trimmed copy of the definition.
func (def RuleSetDefinition) Normalized() RuleSetDefinition {
	clone := RuleSetDefinition{
		ID:          strings.TrimSpace(def.ID),
		Description: strings.TrimSpace(def.Description),
		Version:     strings.TrimSpace(def.Version),
	}
	if len(def.Rules) > 0 {
		clone.Rules = make([]RuleDefinition, len(def.Rules))
		for i, rule := range def.Rules {
			clone.Rules[i] = rule.normalized()
		}
	}
	return clone
}

// Validate ensures the rule set is well-formed and every rule resolves.
func (def RuleSetDefinition) Validate() error {
	normalized := def.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("plugin: id is required")
	}
	if normalized.Version == "" {
		return fmt.Errorf("plugin %s: version is required", normalized.ID)
	}
	if len(normalized.Rules) == 0 {
		return fmt.Errorf("plugin %s: at least one rule is required", normalized.ID)
	}
	seen := make(map[string]struct{}, len(normalized.Rules))
	for idx, rule := range normalized.Rules {
		if _, err := rule.Resolve(); err != nil {
			return fmt.Errorf("plugin %s: rules[%d]: %w", normalized.ID, idx, err)
		}
		if _, exists := seen[rule.Name]; exists {
			return fmt.Errorf("plugin %s: rules[%d]: duplicate rule %s", normalized.ID, idx, rule.Name)
		}
		seen[rule.Name] = struct{}{}
	}
	return nil
}

// Resolve converts every rule, prefixing rule names with the set ID.
func (def RuleSetDefinition) Resolve() ([]classify.Rule, error) {
	normalized := def.Normalized()
	rules := make([]classify.Rule, 0, len(normalized.Rules))
	for idx, rd := range normalized.Rules {
		rule, err := rd.Resolve()
		if err != nil {
			return nil, fmt.Errorf("plugin %s: rules[%d]: %w", normalized.ID, idx, err)
		}
		rule.Name = normalized.ID + "/" + rule.Name
		rules = append(rules, rule)
	}
	return rules, nil
}

// RuleDefinition is the on-disk form of classify.Rule.
type RuleDefinition struct {
	Name       string   `json:"name" yaml:"name"`
	Roles      []string `json:"roles,omitempty" yaml:"roles,omitempty"`
	States     []string `json:"states,omitempty" yaml:"states,omitempty"`
	NamePrefix string   `json:"name_prefix,omitempty" yaml:"name_prefix,omitempty"`
	Effect     string   `json:"effect" yaml:"effect"`
}

func (def RuleDefinition) normalized() RuleDefinition {
	clone := RuleDefinition{
		Name:       strings.TrimSpace(def.Name),
		NamePrefix: def.NamePrefix,
		Effect:     strings.TrimSpace(def.Effect),
	}
	for _, role := range def.Roles {
		if trimmed := strings.TrimSpace(role); trimmed != "" {
			clone.Roles = append(clone.Roles, trimmed)
		}
	}
	for _, state := range def.States {
		if trimmed := strings.TrimSpace(state); trimmed != "" {
			clone.States = append(clone.States, trimmed)
		}
	}
	return clone
}

// Resolve returns the classify rule declared by the definition.
func (def RuleDefinition) Resolve() (classify.Rule, error) {
	normalized := def.normalized()
	effect, err := classify.ParseEffect(normalized.Effect)
	if err != nil {
		return classify.Rule{}, err
	}
	rule := classify.Rule{
		Name:       normalized.Name,
		NamePrefix: normalized.NamePrefix,
		Effect:     effect,
	}
	for _, role := range normalized.Roles {
		rule.Roles = append(rule.Roles, platform.Role(role))
	}
	for _, name := range normalized.States {
		flag, ok := platform.ParseState(name)
		if !ok {
			return classify.Rule{}, fmt.Errorf("unknown state %q", name)
		}
		rule.State |= flag
	}
	if err := rule.Validate(); err != nil {
		return classify.Rule{}, err
	}
	return rule, nil
}
