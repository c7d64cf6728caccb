package nodes

import (
	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

// BackButtonState caches the host back affordance for every back button.
type BackButtonState struct {
	// Override pins the back button location; tests set it to avoid
	// depending on the host rendering.
	Override *platform.Rect

	node   platform.Node
	cancel func()
	active *BackButtonLeaf
}

// discover looks the host back affordance up until it is found, then keeps it
// and registers a click handler once.
func (s *BackButtonState) discover(rt *Runtime) platform.Node {
	if s.node != nil && s.node.Attached() {
		return s.node
	}
	s.release()
	if rt.Host == nil {
		return nil
	}
	node := rt.Host.BackButton()
	if node == nil {
		return nil
	}
	s.node = node
	s.cancel = node.Subscribe(func(c platform.Change) {
		if c.Kind != platform.Clicked || !platform.Same(c.Target, node) {
			return
		}
		if s.active != nil {
			s.active.PerformAction(action.Select)
		}
	})
	return node
}

func (s *BackButtonState) location(rt *Runtime) (platform.Rect, bool) {
	if s.Override != nil {
		return *s.Override, true
	}
	node := s.discover(rt)
	if node == nil {
		return platform.Rect{}, false
	}
	return node.Location()
}

func (s *BackButtonState) release() {
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
	s.node = nil
}

func (s *BackButtonState) reset() {
	s.release()
	s.active = nil
}

// BackButtonLeaf is the terminal child of every group. Selecting it closes
// the open submenu, or leaves the current group when no submenu is open.
type BackButtonLeaf struct {
	leafBase
}

// NewBackButtonLeaf returns a back button for group.
func NewBackButtonLeaf(rt *Runtime, group Group) *BackButtonLeaf {
	b := &BackButtonLeaf{}
	b.init(rt, b, KindBackButton, nil, group)
	return b
}

func (b *BackButtonLeaf) Role() platform.Role { return platform.RoleButton }

func (b *BackButtonLeaf) AutomationNode() platform.Node {
	return b.rt.BackButton.discover(b.rt)
}

func (b *BackButtonLeaf) Location() (platform.Rect, bool) {
	return b.rt.BackButton.location(b.rt)
}

// IgnoreWhenComputingUnionOfBoundingBoxes keeps the back button out of the
// group bounds and validity.
func (b *BackButtonLeaf) IgnoreWhenComputingUnionOfBoundingBoxes() bool { return true }

func (b *BackButtonLeaf) Actions() []action.Kind { return []action.Kind{action.Select} }

func (b *BackButtonLeaf) IsGroup() bool { return false }

func (b *BackButtonLeaf) AsRootNode() (Group, error) { return nil, nil }

func (b *BackButtonLeaf) OnFocus() {
	b.leafBase.OnFocus()
	b.rt.BackButton.active = b
}

func (b *BackButtonLeaf) OnUnfocus() {
	b.leafBase.OnUnfocus()
	if b.rt.BackButton.active == b {
		b.rt.BackButton.active = nil
	}
}

func (b *BackButtonLeaf) PerformAction(kind action.Kind) action.Response {
	if kind != action.Select {
		return action.NoActionTaken
	}
	if b.rt.Menu != nil && b.rt.Menu.InSubmenu() {
		b.rt.Menu.ExitSubmenu()
	} else {
		b.rt.Navigator.ExitGroupUnconditionally()
	}
	return action.CloseMenu
}

func (b *BackButtonLeaf) anchor() anchor {
	return anchor{kind: anchorBack, node: b.AutomationNode()}
}

func (b *BackButtonLeaf) String() string { return "back-button" }
