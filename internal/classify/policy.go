// Package classify decides which platform nodes are worth scanning. Policy
// answers from role tables plus optional rules, always reading live node
// state so no answer outlives a mutation.
package classify

import (
	"fmt"

	"github.com/kingrea/switchscan/internal/nodes"
	"github.com/kingrea/switchscan/internal/platform"
)

var defaultGroupRoles = []platform.Role{
	platform.RoleGroup,
	platform.RoleGenericContainer,
	platform.RolePane,
	platform.RoleToolbar,
	platform.RoleList,
	platform.RoleMenu,
	platform.RoleTabList,
	platform.RoleWindow,
	platform.RoleDialog,
	platform.RoleAlertDialog,
	platform.RoleRootWebArea,
	platform.RoleScrollView,
}

var defaultWidgetRoles = []platform.Role{
	platform.RoleButton,
	platform.RoleLink,
	platform.RoleCheckBox,
	platform.RoleTextField,
	platform.RoleSearchBox,
	platform.RoleSlider,
	platform.RoleComboBoxSelect,
	platform.RoleComboBoxGrouping,
	platform.RolePopUpButton,
	platform.RoleTab,
	platform.RoleMenuItem,
}

// The keyboard is scanned through its own root, never as desktop content.
var defaultIgnoredRoles = []platform.Role{
	platform.RoleKeyboard,
}

const defaultMinGroupChildren = 2

// Policy is the default classifier.
type Policy struct {
	groupRoles   map[platform.Role]bool
	widgetRoles  map[platform.Role]bool
	ignoredRoles map[platform.Role]bool
	rules        []Rule

	// MinGroupChildren is how many interesting descendants a container needs
	// before it is scanned as a group; smaller containers are flattened.
	MinGroupChildren int
}

// NewPolicy returns the default policy with rules applied in order. Later
// rules take precedence.
func NewPolicy(rules ...Rule) (*Policy, error) {
	p := &Policy{
		groupRoles:       roleSet(defaultGroupRoles),
		widgetRoles:      roleSet(defaultWidgetRoles),
		ignoredRoles:     roleSet(defaultIgnoredRoles),
		MinGroupChildren: defaultMinGroupChildren,
	}
	if err := p.AddRules(rules...); err != nil {
		return nil, err
	}
	return p, nil
}

func roleSet(roles []platform.Role) map[platform.Role]bool {
	out := make(map[platform.Role]bool, len(roles))
	for _, r := range roles {
		out[r] = true
	}
	return out
}

// AddRules validates and appends rules.
func (p *Policy) AddRules(rules ...Rule) error {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	p.rules = append(p.rules, rules...)
	return nil
}

// Rules returns a copy of the installed rules.
func (p *Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// effect returns the effect of the last matching rule.
func (p *Policy) effect(n platform.Node) (Effect, bool) {
	for i := len(p.rules) - 1; i >= 0; i-- {
		if p.rules[i].Matches(n) {
			return p.rules[i].Effect, true
		}
	}
	return "", false
}

func (p *Policy) ignored(n platform.Node) bool {
	if e, ok := p.effect(n); ok {
		return e == EffectIgnore
	}
	return p.ignoredRoles[n.Role()]
}

// IsVisible reports whether n is attached, not hidden, and has on-screen
// bounds.
func (p *Policy) IsVisible(n platform.Node) bool {
	if n == nil || !n.Attached() {
		return false
	}
	if n.State().Has(platform.StateInvisible) || n.State().Has(platform.StateOffscreen) {
		return false
	}
	r, ok := n.Location()
	return ok && !r.Empty()
}

// IsActionable reports whether selecting n does something.
func (p *Policy) IsActionable(n platform.Node) bool {
	if !p.IsVisible(n) || n.State().Has(platform.StateDisabled) {
		return false
	}
	if e, ok := p.effect(n); ok {
		return e == EffectActionable
	}
	if p.ignoredRoles[n.Role()] {
		return false
	}
	return n.State().Has(platform.StateClickable) || p.widgetRoles[n.Role()]
}

// IsGroup reports whether n is a container with enough interesting
// descendants to be scanned as a group. The scope's own node never counts.
func (p *Policy) IsGroup(n platform.Node, scope nodes.Group) bool {
	if !p.IsVisible(n) {
		return false
	}
	if scope != nil && platform.Same(scope.AutomationNode(), n) {
		return false
	}
	if !p.groupCandidate(n) {
		return false
	}
	return p.countInteresting(n, p.MinGroupChildren) >= p.MinGroupChildren
}

func (p *Policy) groupCandidate(n platform.Node) bool {
	if e, ok := p.effect(n); ok {
		return e == EffectGroup
	}
	return p.groupRoles[n.Role()]
}

// interesting is the visit predicate shared by Restrictions and the group
// child count.
func (p *Policy) interesting(n platform.Node) bool {
	if !p.IsVisible(n) || p.ignored(n) {
		return false
	}
	if e, ok := p.effect(n); ok && e == EffectSkip {
		return false
	}
	if p.IsActionable(n) {
		return true
	}
	return p.groupCandidate(n) && p.countInteresting(n, p.MinGroupChildren) >= p.MinGroupChildren
}

// countInteresting counts interesting descendants the way the tree walk
// would find them, stopping at limit.
func (p *Policy) countInteresting(n platform.Node, limit int) int {
	count := 0
	var walk func(platform.Node)
	walk = func(cur platform.Node) {
		for _, child := range cur.Children() {
			if count >= limit {
				return
			}
			if child == nil || !p.IsVisible(child) || p.ignored(child) {
				continue
			}
			if p.interesting(child) {
				count++
				continue
			}
			walk(child)
		}
	}
	walk(n)
	return count
}

// IsInterestingSubtree reports whether a mutation under n can change what
// is scanned.
func (p *Policy) IsInterestingSubtree(n platform.Node) bool {
	if n == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent() {
		if p.ignored(cur) {
			return false
		}
	}
	return true
}

// Restrictions returns the walk rules for building scope.
func (p *Policy) Restrictions(scope nodes.Group) nodes.Restrictions {
	return nodes.Restrictions{
		Leaf: func(n platform.Node) bool {
			return !p.IsVisible(n) || p.ignored(n)
		},
		Visit: func(n platform.Node) bool {
			if scope != nil && platform.Same(scope.AutomationNode(), n) {
				return false
			}
			return p.interesting(n)
		},
	}
}

// Describe summarizes how n classifies, for logs and the simulator.
func (p *Policy) Describe(n platform.Node) string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s visible=%t actionable=%t group=%t", n.ID(), p.IsVisible(n), p.IsActionable(n), p.IsGroup(n, nil))
}

var _ nodes.Classifier = (*Policy)(nil)
