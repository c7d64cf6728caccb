package nodes

import (
	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

func init() {
	registerBuilder(10, Builder{
		Name: "keyboard",
		Match: func(_ *Runtime, node platform.Node) bool {
			return node.Role() == platform.RoleKeyboard
		},
		Build: func(rt *Runtime, node platform.Node) (Group, error) {
			g := NewKeyboardGroup(rt, node)
			if err := g.populate(); err != nil {
				return nil, err
			}
			return g, nil
		},
	})
}

// KeyboardState tracks the on-screen keyboard across rebuilds.
type KeyboardState struct {
	node    platform.Node
	cancel  func()
	visible bool

	// ignoreNextExit is set right before the keyboard is hidden from inside
	// the tree, so the resulting hidden notification does not exit twice.
	ignoreNextExit bool
}

// Node returns the keyboard platform node, looking it up again when the
// cached handle went stale.
func (s *KeyboardState) Node(rt *Runtime) platform.Node {
	if s.node != nil && s.node.Attached() {
		return s.node
	}
	s.release()
	if rt.Host == nil {
		return nil
	}
	s.node = rt.Host.VirtualKeyboard()
	return s.node
}

// Visible reports the last visibility the state observed.
func (s *KeyboardState) Visible() bool { return s.visible }

// StartWatching subscribes to visibility changes of the keyboard node.
func (s *KeyboardState) StartWatching(rt *Runtime) {
	node := s.Node(rt)
	if node == nil || s.cancel != nil {
		return
	}
	s.visible = keyboardVisible(node)
	s.cancel = node.Subscribe(func(c platform.Change) {
		if !platform.Same(c.Target, node) {
			return
		}
		if c.Kind != platform.StateChanged && c.Kind != platform.LocationChanged {
			return
		}
		s.HandleVisibilityChange(rt, keyboardVisible(node))
	})
}

// HandleVisibilityChange enters the keyboard when it appears and exits it
// when it disappears. Repeated notifications for the same visibility are
// dropped.
func (s *KeyboardState) HandleVisibilityChange(rt *Runtime, visible bool) {
	if visible == s.visible {
		return
	}
	s.visible = visible
	if visible {
		rt.logf("nodes: keyboard shown")
		rt.Navigator.EnterKeyboard()
		return
	}
	if s.ignoreNextExit {
		s.ignoreNextExit = false
		return
	}
	rt.logf("nodes: keyboard hidden")
	rt.Navigator.ExitKeyboard()
}

// Show asks the host for the keyboard. Entering the keyboard group happens
// when the visibility notification arrives.
func (s *KeyboardState) Show(rt *Runtime) {
	s.StartWatching(rt)
	if s.visible {
		rt.Navigator.EnterKeyboard()
		return
	}
	rt.Host.SetVirtualKeyboardVisible(true)
}

func (s *KeyboardState) hide(rt *Runtime) {
	if s.visible {
		s.ignoreNextExit = true
	}
	rt.Host.SetVirtualKeyboardVisible(false)
	// From here the keyboard counts as hidden, so a late notification is
	// dropped as a repeat.
	s.visible = false
	s.ignoreNextExit = false
}

func (s *KeyboardState) release() {
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
	s.node = nil
	s.visible = false
	s.ignoreNextExit = false
}

func (s *KeyboardState) reset() { s.release() }

func keyboardVisible(node platform.Node) bool {
	if !node.Attached() || node.State().Has(platform.StateInvisible) {
		return false
	}
	_, ok := node.Location()
	return ok
}

// KeyboardGroup scans the on-screen keyboard row by row.
type KeyboardGroup struct {
	BasicGroup
}

// NewKeyboardGroup returns an empty group around the keyboard node.
func NewKeyboardGroup(rt *Runtime, node platform.Node) *KeyboardGroup {
	g := &KeyboardGroup{}
	g.initBasic(rt, g, KindKeyboardGroup, node)
	g.populate = func() error {
		var keys []Leaf
		for _, n := range keyboardKeys(node) {
			key := NewKeyboardKeyLeaf(rt, n, g)
			if key.IsValidAndVisible() {
				keys = append(keys, key)
			}
		}
		if len(keys) == 0 {
			return newError(ErrNoChildren, true, "keyboard %s has no keys", node.ID())
		}
		rows := SeparateByRow(rt, keys, node, g)
		g.SetChildren(append(rows, NewBackButtonLeaf(rt, g)))
		return nil
	}
	return g
}

// BuildKeyboardTree builds the keyboard group for the host keyboard. A missing
// keyboard is fatal.
func BuildKeyboardTree(rt *Runtime) (Group, error) {
	node := rt.Keyboard.Node(rt)
	if node == nil {
		return nil, newError(ErrMissingKeyboard, false, "host has no virtual keyboard")
	}
	rt.Keyboard.StartWatching(rt)
	return BuildTree(rt, node)
}

func keyboardKeys(n platform.Node) []platform.Node {
	var keys []platform.Node
	for _, child := range n.Children() {
		if child == nil {
			continue
		}
		if child.Role() == platform.RoleButton {
			keys = append(keys, child)
			continue
		}
		keys = append(keys, keyboardKeys(child)...)
	}
	return keys
}

// IsValidGroup requires the keyboard to be on screen.
func (g *KeyboardGroup) IsValidGroup() bool {
	if !keyboardVisible(g.node) {
		return false
	}
	return g.BasicGroup.IsValidGroup()
}

// OnExit hides the keyboard.
func (g *KeyboardGroup) OnExit() {
	g.rt.Keyboard.hide(g.rt)
}

// KeyboardKeyLeaf is a single key of the on-screen keyboard.
type KeyboardKeyLeaf struct {
	leafBase
}

// NewKeyboardKeyLeaf wraps a key node.
func NewKeyboardKeyLeaf(rt *Runtime, node platform.Node, parent Group) *KeyboardKeyLeaf {
	l := &KeyboardKeyLeaf{}
	l.init(rt, l, KindKeyboardKey, node, parent)
	return l
}

func (l *KeyboardKeyLeaf) Actions() []action.Kind { return []action.Kind{action.Select} }

func (l *KeyboardKeyLeaf) IsGroup() bool { return false }

func (l *KeyboardKeyLeaf) AsRootNode() (Group, error) { return nil, nil }

func (l *KeyboardKeyLeaf) PerformAction(kind action.Kind) action.Response {
	if kind != action.Select {
		return action.NoActionTaken
	}
	l.node.DoDefault()
	return action.CloseMenu
}
