package nodes

import (
	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

func init() {
	registerCreator(20, Creator{
		Name: "combo-box",
		Match: func(_ *Runtime, node platform.Node, _ Group) bool {
			switch node.Role() {
			case platform.RoleComboBoxSelect, platform.RoleComboBoxGrouping, platform.RolePopUpButton:
				return true
			}
			return false
		},
		Create: func(rt *Runtime, node platform.Node, parent Group) Leaf {
			return NewComboBoxLeaf(rt, node, parent)
		},
	})
}

// ComboBoxLeaf moves through options with synthetic arrow keys because the
// platform offers no scroll command for the popup. While expanded with
// interesting popup content it is a group, and when the popup expands while
// focused it drills into it after a short delay.
type ComboBoxLeaf struct {
	BasicLeaf
	cancel   func()
	expanded bool
}

// NewComboBoxLeaf wraps a combo box node.
func NewComboBoxLeaf(rt *Runtime, node platform.Node, parent Group) *ComboBoxLeaf {
	l := &ComboBoxLeaf{}
	l.init(rt, l, KindComboBox, node, parent)
	l.expanded = node.State().Has(platform.StateExpanded)
	return l
}

// IsGroup reports whether the popup is open and has something to scan. A
// collapsed combo box defers to the classifier.
func (l *ComboBoxLeaf) IsGroup() bool {
	if l.node == nil || !l.node.State().Has(platform.StateExpanded) {
		return l.BasicLeaf.IsGroup()
	}
	return len(interestingUnder(l.rt, l.node, l.group, 1)) > 0
}

func (l *ComboBoxLeaf) Actions() []action.Kind {
	set := l.actionSet()
	set.Add(action.Increment, action.Decrement)
	return set.Slice()
}

func (l *ComboBoxLeaf) PerformAction(kind action.Kind) action.Response {
	switch kind {
	case action.Increment:
		l.rt.Host.SendKeyPress(platform.KeyUp, 0)
		return action.RemainOpen
	case action.Decrement:
		l.rt.Host.SendKeyPress(platform.KeyDown, 0)
		return action.RemainOpen
	}
	return l.BasicLeaf.PerformAction(kind)
}

func (l *ComboBoxLeaf) OnFocus() {
	l.BasicLeaf.OnFocus()
	if l.cancel != nil {
		return
	}
	l.cancel = l.node.Subscribe(l.handleChange)
}

func (l *ComboBoxLeaf) OnUnfocus() {
	l.BasicLeaf.OnUnfocus()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *ComboBoxLeaf) handleChange(c platform.Change) {
	if c.Kind != platform.StateChanged || !platform.Same(c.Target, l.node) {
		return
	}
	expanded := l.node.State().Has(platform.StateExpanded)
	if expanded == l.expanded {
		return
	}
	l.expanded = expanded
	if !expanded {
		return
	}
	l.rt.after(l.rt.ComboBoxExpandDelay, func() {
		if !l.focused || !l.IsValidAndVisible() || !l.IsGroup() {
			return
		}
		l.rt.Navigator.EnterGroup()
	})
}
