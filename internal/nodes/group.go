package nodes

import (
	"fmt"
	"strings"

	"github.com/kingrea/switchscan/internal/platform"
)

// groupBase carries the state shared by every group variant.
type groupBase struct {
	rt   *Runtime
	self Group
	kind Kind
	node platform.Node
	// composite groups have no platform node of their own; their identity is
	// their ordered members.
	composite bool

	children    []Leaf
	ring        *ring
	invalidated bool
}

func (g *groupBase) init(rt *Runtime, self Group, kind Kind, node platform.Node) {
	g.rt = rt
	g.self = self
	g.kind = kind
	g.node = node
}

func (g *groupBase) groupState() *groupBase { return g }

func (g *groupBase) Kind() Kind { return g.kind }

func (g *groupBase) Role() platform.Role {
	if g.node == nil {
		return platform.RoleGroup
	}
	return g.node.Role()
}

func (g *groupBase) AutomationNode() platform.Node { return g.node }

// Location is the union of the children that count toward the bounds.
func (g *groupBase) Location() (platform.Rect, bool) {
	var rects []platform.Rect
	for _, child := range g.children {
		if child == nil || child.IgnoreWhenComputingUnionOfBoundingBoxes() {
			continue
		}
		if r, ok := child.Location(); ok {
			rects = append(rects, r)
		}
	}
	return platform.UnionAll(rects)
}

func (g *groupBase) Children() []Leaf {
	out := make([]Leaf, len(g.children))
	copy(out, g.children)
	return out
}

// SetChildren replaces the children and rewires the ring. Fewer than one
// child is reported rather than rejected because some callers pass through
// intermediate states while building.
func (g *groupBase) SetChildren(children []Leaf) {
	old := g.ring
	g.children = make([]Leaf, len(children))
	copy(g.children, children)
	g.ring = nil
	if len(g.children) < 1 {
		g.rt.logf("%v", newError(ErrNoChildren, true, "root node must have at least 1 interesting child (%s)", g.self))
	} else {
		g.ring = wire(g.self, g.children)
	}
	unwire(old)
}

func (g *groupBase) FirstChild() Leaf {
	if len(g.children) == 0 {
		return nil
	}
	return g.children[0]
}

func (g *groupBase) LastChild() Leaf {
	if len(g.children) == 0 {
		return nil
	}
	return g.children[len(g.children)-1]
}

func (g *groupBase) FirstValidChild() Leaf {
	for _, child := range g.children {
		if child != nil && child.IsValidAndVisible() {
			return child
		}
	}
	return nil
}

// FindChild returns the first child equivalent to t.
func (g *groupBase) FindChild(t Target) Leaf {
	if t.IsZero() {
		return nil
	}
	for _, child := range g.children {
		if child != nil && child.IsEquivalentTo(t) {
			return child
		}
	}
	return nil
}

// IsValidGroup requires at least one valid, visible child that counts toward
// the bounds.
func (g *groupBase) IsValidGroup() bool {
	if g.invalidated {
		return false
	}
	for _, child := range g.children {
		if child == nil || child.IgnoreWhenComputingUnionOfBoundingBoxes() {
			continue
		}
		if child.IsValidAndVisible() {
			return true
		}
	}
	return false
}

func (g *groupBase) IsInvalidated() bool { return g.invalidated }

func (g *groupBase) IsValidAndVisible() bool {
	if !g.self.IsValidGroup() {
		return false
	}
	_, ok := g.self.Location()
	return ok
}

func (g *groupBase) OnFocus()   {}
func (g *groupBase) OnUnfocus() {}
func (g *groupBase) OnExit()    {}

func (g *groupBase) Refresh() {}

func (g *groupBase) RefreshChildren() error { return nil }

func (g *groupBase) anchor() anchor {
	if g.composite || g.node == nil {
		members := make([]Leaf, 0, len(g.children))
		for _, child := range g.children {
			if child == nil || child.Kind() == KindBackButton {
				continue
			}
			members = append(members, child)
		}
		return anchor{kind: anchorComposite, members: members}
	}
	return nodeAnchor(g.node)
}

func (g *groupBase) Equals(other Item) bool { return equalItems(g.self, other) }

func (g *groupBase) IsEquivalentTo(t Target) bool {
	return equivalent(g.self.anchor(), t.anchor())
}

func (g *groupBase) String() string {
	if g.node == nil {
		return fmt.Sprintf("%s[%d]", g.kind, len(g.children))
	}
	return fmt.Sprintf("%s(%s)[%d]", g.kind, g.node.ID(), len(g.children))
}

// Root is a plain group with no rebuild behavior of its own. Synthetic
// groupings and tabs materialize into a Root.
type Root struct {
	groupBase
}

// NewRoot returns an empty root around node. A nil node makes the root
// composite.
func NewRoot(rt *Runtime, node platform.Node) *Root {
	r := &Root{}
	r.init(rt, r, KindRoot, node)
	r.composite = node == nil
	return r
}

func newCompositeRoot(rt *Runtime, containing platform.Node) *Root {
	r := NewRoot(rt, containing)
	r.composite = true
	return r
}

// DebugString renders g and its children, one per line, marking the focused
// child with '>' and invalid children with '!'.
func DebugString(g Group) string {
	if g == nil {
		return "<nil group>"
	}
	var b strings.Builder
	b.WriteString(g.String())
	b.WriteString("\n")
	for _, child := range g.Children() {
		marker := " "
		switch {
		case child == nil:
			b.WriteString("  ? <nil>\n")
			continue
		case child.IsFocused():
			marker = ">"
		case !child.IsValidAndVisible():
			marker = "!"
		}
		fmt.Fprintf(&b, "  %s %s\n", marker, child)
	}
	return b.String()
}
