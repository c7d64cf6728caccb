package nodes

import (
	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

func init() {
	registerCreator(10, Creator{
		Name: "tab",
		Match: func(_ *Runtime, node platform.Node, _ Group) bool {
			return node.Role() == platform.RoleTab && platform.IsTopLevel(node)
		},
		Create: func(rt *Runtime, node platform.Node, parent Group) Leaf {
			closeButton := findCloseButton(node)
			if closeButton == nil {
				return NewActionableTabLeaf(rt, node, parent, nil)
			}
			return NewTabLeaf(rt, node, parent, closeButton)
		},
	})
}

func findCloseButton(tab platform.Node) platform.Node {
	for _, child := range tab.Children() {
		if child.Role() == platform.RoleButton {
			return child
		}
		if found := findCloseButton(child); found != nil {
			return found
		}
	}
	return nil
}

// TabLeaf is a top-level tab with a close button. Drilling in offers the tab
// itself and its close button as separate targets.
type TabLeaf struct {
	leafBase
	root *Root
}

// NewTabLeaf wraps tab and precomputes its root.
func NewTabLeaf(rt *Runtime, tab platform.Node, parent Group, closeButton platform.Node) *TabLeaf {
	l := &TabLeaf{}
	l.init(rt, l, KindTab, tab, parent)
	root := NewRoot(rt, tab)
	root.SetChildren([]Leaf{
		NewActionableTabLeaf(rt, tab, root, closeButton),
		NewBasicLeaf(rt, closeButton, root),
		NewBackButtonLeaf(rt, root),
	})
	l.root = root
	return l
}

func (l *TabLeaf) Actions() []action.Kind { return []action.Kind{action.DrillDown} }

func (l *TabLeaf) IsGroup() bool { return true }

func (l *TabLeaf) AsRootNode() (Group, error) { return l.root, nil }

func (l *TabLeaf) PerformAction(kind action.Kind) action.Response {
	if kind != action.DrillDown {
		return action.NoActionTaken
	}
	l.rt.Navigator.EnterGroup()
	return action.CloseMenu
}

// ActionableTabLeaf selects a tab. Its bounds exclude the close button so the
// two targets do not overlap.
type ActionableTabLeaf struct {
	leafBase
	closeButton platform.Node
}

// NewActionableTabLeaf wraps tab; closeButton may be nil.
func NewActionableTabLeaf(rt *Runtime, tab platform.Node, parent Group, closeButton platform.Node) *ActionableTabLeaf {
	l := &ActionableTabLeaf{closeButton: closeButton}
	l.init(rt, l, KindActionableTab, tab, parent)
	return l
}

func (l *ActionableTabLeaf) Location() (platform.Rect, bool) {
	loc, ok := l.leafBase.Location()
	if !ok || l.closeButton == nil || !l.closeButton.Attached() {
		return loc, ok
	}
	cut, ok2 := l.closeButton.Location()
	if !ok2 {
		return loc, ok
	}
	return platform.Difference(loc, cut), true
}

func (l *ActionableTabLeaf) Actions() []action.Kind { return []action.Kind{action.Select} }

func (l *ActionableTabLeaf) IsGroup() bool { return false }

func (l *ActionableTabLeaf) AsRootNode() (Group, error) { return nil, nil }

func (l *ActionableTabLeaf) PerformAction(kind action.Kind) action.Response {
	if kind != action.Select {
		return action.NoActionTaken
	}
	l.node.DoDefault()
	return action.CloseMenu
}
