package nodes

import (
	"github.com/kingrea/switchscan/internal/platform"
)

// BasicGroup is the default group built from a platform node. While focused
// it listens for children-changed notifications in its subtree and rebuilds.
type BasicGroup struct {
	groupBase

	// populate recomputes the children; variants swap it out.
	populate func() error
	cancel   func()
}

// NewBasicGroup returns an empty group around node.
func NewBasicGroup(rt *Runtime, node platform.Node) *BasicGroup {
	g := &BasicGroup{}
	g.initBasic(rt, g, KindBasicGroup, node)
	return g
}

func (g *BasicGroup) initBasic(rt *Runtime, self Group, kind Kind, node platform.Node) {
	g.init(rt, self, kind, node)
	g.populate = func() error {
		return FindAndSetChildren(rt, self, g.defaultFactory())
	}
}

func (g *BasicGroup) defaultFactory() LeafFactory {
	return func(node platform.Node) Leaf {
		return CreateLeaf(g.rt, node, g.self)
	}
}

// IsValidGroup additionally requires the platform node to still be attached.
func (g *BasicGroup) IsValidGroup() bool {
	if g.node != nil && !g.node.Attached() {
		return false
	}
	return g.groupBase.IsValidGroup()
}

// OnFocus starts listening for subtree mutations.
func (g *BasicGroup) OnFocus() {
	if g.node == nil || g.cancel != nil {
		return
	}
	g.cancel = g.node.Subscribe(g.handleChange)
}

// OnUnfocus stops listening for subtree mutations.
func (g *BasicGroup) OnUnfocus() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// handleChange filters notifications down to children-changed events on an
// interesting subtree; nothing else reaches Refresh.
func (g *BasicGroup) handleChange(c platform.Change) {
	if c.Kind != platform.ChildrenChanged || c.Target == nil {
		return
	}
	if g.rt.Classifier == nil || !g.rt.Classifier.IsInterestingSubtree(c.Target) {
		return
	}
	g.self.Refresh()
}

// RefreshChildren rebuilds the child list from current platform state. A
// failure marks the group invalidated and stops its listeners.
func (g *BasicGroup) RefreshChildren() error {
	if err := g.populate(); err != nil {
		g.rt.logf("nodes: refresh %s: %v", g.self, err)
		g.self.OnUnfocus()
		g.invalidated = true
		return err
	}
	g.invalidated = false
	return nil
}

// Refresh rebuilds the children and moves focus to the new instance of the
// previously focused child. When no equivalent child survives, or the rebuild
// fails, the navigator is asked to recover to any valid node.
func (g *BasicGroup) Refresh() {
	var focused Leaf
	for _, child := range g.children {
		if child != nil && child.IsFocused() {
			focused = child
			break
		}
	}
	if err := g.self.RefreshChildren(); err != nil {
		g.self.OnUnfocus()
		g.rt.Navigator.MoveToValidNode()
		return
	}
	if focused != nil {
		if match := g.FindChild(TargetOf(focused)); match != nil {
			g.rt.Navigator.ForceFocusedNode(match)
			return
		}
	}
	g.rt.Navigator.MoveToValidNode()
}
