package classify

import (
	"fmt"
	"strings"

	"github.com/kingrea/switchscan/internal/platform"
)

// Effect is what a rule does to the nodes it matches.
type Effect string

const (
	// EffectActionable makes a node scannable on its own.
	EffectActionable Effect = "actionable"
	// EffectGroup makes a node a group candidate.
	EffectGroup Effect = "group"
	// EffectSkip keeps the node out of scanning but still walks its subtree.
	EffectSkip Effect = "skip"
	// EffectIgnore prunes the node and its whole subtree.
	EffectIgnore Effect = "ignore"
)

func (e Effect) valid() bool {
	switch e {
	case EffectActionable, EffectGroup, EffectSkip, EffectIgnore:
		return true
	}
	return false
}

// Rule matches nodes by role, required state, or name prefix. Empty matchers
// match everything; a rule with no matcher at all is rejected.
type Rule struct {
	Name       string
	Roles      []platform.Role
	State      platform.State
	NamePrefix string
	Effect     Effect
}

// Validate reports malformed rules.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("classify: rule name is required")
	}
	if !r.Effect.valid() {
		return fmt.Errorf("classify: rule %s: unknown effect %q", r.Name, r.Effect)
	}
	if len(r.Roles) == 0 && r.State == 0 && r.NamePrefix == "" {
		return fmt.Errorf("classify: rule %s matches every node", r.Name)
	}
	return nil
}

// Matches reports whether n satisfies every matcher of the rule.
func (r Rule) Matches(n platform.Node) bool {
	if n == nil {
		return false
	}
	if len(r.Roles) > 0 {
		found := false
		for _, role := range r.Roles {
			if n.Role() == role {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if r.State != 0 && !n.State().Has(r.State) {
		return false
	}
	if r.NamePrefix != "" && !strings.HasPrefix(n.Name(), r.NamePrefix) {
		return false
	}
	return true
}

// ParseEffect converts a rule effect name.
func ParseEffect(name string) (Effect, error) {
	e := Effect(strings.ToLower(strings.TrimSpace(name)))
	if !e.valid() {
		return "", fmt.Errorf("classify: unknown effect %q", name)
	}
	return e, nil
}
