package nodes

import (
	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

func init() {
	registerCreator(40, Creator{
		Name: "editable-text",
		Match: func(_ *Runtime, node platform.Node, _ Group) bool {
			switch node.Role() {
			case platform.RoleTextField, platform.RoleSearchBox:
				return true
			}
			return node.State().Has(platform.StateEditable)
		},
		Create: func(rt *Runtime, node platform.Node, parent Group) Leaf {
			return NewEditableTextLeaf(rt, node, parent)
		},
	})
}

// EditableTextLeaf replaces select with the keyboard and dictation actions.
// With improved text input enabled it also offers caret, selection and
// clipboard actions, gated on the text navigator's state.
type EditableTextLeaf struct {
	BasicLeaf
}

// NewEditableTextLeaf wraps an editable text node.
func NewEditableTextLeaf(rt *Runtime, node platform.Node, parent Group) *EditableTextLeaf {
	l := &EditableTextLeaf{}
	l.init(rt, l, KindEditableText, node, parent)
	return l
}

func (l *EditableTextLeaf) Actions() []action.Kind {
	set := l.actionSet()
	set.Remove(action.Select)
	set.Prepend(action.Keyboard, action.Dictation)
	if !l.rt.ImprovedTextInput || l.rt.TextNav == nil {
		return set.Slice()
	}
	nav := l.rt.TextNav
	set.Add(action.MoveCursor, action.StartTextSelection)
	if nav.CurrentlySelecting() {
		set.Add(action.EndTextSelection)
	}
	if nav.SelectionExists(l.node) {
		set.Add(action.Cut, action.Copy)
	}
	if nav.ClipboardHasData() {
		set.Add(action.Paste)
	}
	return set.Slice()
}

func (l *EditableTextLeaf) PerformAction(kind action.Kind) action.Response {
	switch kind {
	case action.Select:
		return action.NoActionTaken
	case action.Keyboard:
		l.node.Focus()
		l.rt.Keyboard.Show(l.rt)
		return action.CloseMenu
	case action.Dictation:
		l.toggleDictation()
		return action.CloseMenu
	}
	nav := l.rt.TextNav
	if nav == nil {
		return l.BasicLeaf.PerformAction(kind)
	}
	switch {
	case kind == action.MoveCursor:
		return action.OpenTextNavigationMenu
	case kind == action.StartTextSelection:
		nav.SaveSelectStart(l.node)
		return action.OpenTextNavigationMenu
	case kind == action.EndTextSelection:
		nav.SaveSelectEnd(l.node)
		return action.ExitSubmenu
	case kind == action.Cut, kind == action.Copy, kind == action.Paste:
		nav.Clipboard(l.node, kind)
		return action.RemainOpen
	case kind.IsTextNavigation():
		nav.Move(l.node, kind)
		return action.RemainOpen
	}
	return l.BasicLeaf.PerformAction(kind)
}

// toggleDictation focuses the field first when needed, giving the platform a
// moment to settle before dictation starts.
func (l *EditableTextLeaf) toggleDictation() {
	if l.node.State().Has(platform.StateFocused) {
		l.rt.Host.ToggleDictation()
		return
	}
	l.node.Focus()
	host := l.rt.Host
	l.rt.after(l.rt.DictationDelay, host.ToggleDictation)
}
