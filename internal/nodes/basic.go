package nodes

import (
	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

// BasicLeaf wraps a single platform node. It is the default leaf variant.
type BasicLeaf struct {
	leafBase
}

// NewBasicLeaf wraps node as a child of parent.
func NewBasicLeaf(rt *Runtime, node platform.Node, parent Group) *BasicLeaf {
	l := &BasicLeaf{}
	l.init(rt, l, KindBasic, node, parent)
	return l
}

func (l *BasicLeaf) isActionable() bool {
	return l.node != nil && l.rt.Classifier != nil && l.rt.Classifier.IsActionable(l.node)
}

// IsGroup asks the classifier whether the wrapped node is a group in the
// context of the leaf's container.
func (l *BasicLeaf) IsGroup() bool {
	if l.node == nil || l.rt.Classifier == nil {
		return false
	}
	return l.rt.Classifier.IsGroup(l.node, l.group)
}

// Actions lists select, drill-down, the scroll directions the nearest
// scrollable ancestor allows, then any recognized standard actions.
func (l *BasicLeaf) Actions() []action.Kind {
	return l.actionSet().Slice()
}

func (l *BasicLeaf) actionSet() *action.Set {
	set := action.NewSet()
	if l.node == nil {
		return set
	}
	if l.isActionable() {
		set.Add(action.Select)
	}
	if l.self.IsGroup() {
		set.Add(action.DrillDown)
	}
	if ancestor := scrollableAncestor(l.node); ancestor != nil {
		scroll := ancestor.ScrollState()
		if scroll.CanScrollUp() {
			set.Add(action.ScrollUp)
		}
		if scroll.CanScrollDown() {
			set.Add(action.ScrollDown)
		}
		if scroll.CanScrollLeft() {
			set.Add(action.ScrollLeft)
		}
		if scroll.CanScrollRight() {
			set.Add(action.ScrollRight)
		}
	}
	for _, sa := range l.node.StandardActions() {
		if kind := action.Kind(sa); action.IsKnown(kind) {
			set.Add(kind)
		}
	}
	return set
}

// AsRootNode builds the group the wrapped node stands for.
func (l *BasicLeaf) AsRootNode() (Group, error) {
	if !l.self.IsGroup() {
		return nil, nil
	}
	return BuildTree(l.rt, l.node)
}

// PerformAction executes kind against the platform node.
func (l *BasicLeaf) PerformAction(kind action.Kind) action.Response {
	if l.node == nil {
		return action.NoActionTaken
	}
	switch {
	case kind == action.DrillDown:
		if !l.self.IsGroup() {
			return action.NoActionTaken
		}
		l.rt.Navigator.EnterGroup()
		return action.CloseMenu
	case kind == action.Select:
		l.node.DoDefault()
		return action.CloseMenu
	case kind.IsScroll():
		ancestor := scrollableAncestor(l.node)
		if ancestor == nil {
			return action.NoActionTaken
		}
		scroll(ancestor, kind)
		// Available scroll directions may have changed.
		return action.ReloadMenu
	case hasStandardAction(l.node, kind):
		l.node.PerformStandardAction(platform.StandardAction(kind))
		return action.CloseMenu
	}
	return action.NoActionTaken
}

func scrollableAncestor(n platform.Node) platform.Node {
	return platform.FindAncestor(n, func(c platform.Node) bool {
		return c.ScrollState().Scrollable
	})
}

func scroll(n platform.Node, kind action.Kind) {
	switch kind {
	case action.ScrollUp:
		n.ScrollUp()
	case action.ScrollDown:
		n.ScrollDown()
	case action.ScrollLeft:
		n.ScrollLeft()
	case action.ScrollRight:
		n.ScrollRight()
	}
}

func hasStandardAction(n platform.Node, kind action.Kind) bool {
	if !action.IsKnown(kind) {
		return false
	}
	for _, sa := range n.StandardActions() {
		if action.Kind(sa) == kind {
			return true
		}
	}
	return false
}
