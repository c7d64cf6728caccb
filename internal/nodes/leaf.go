package nodes

import (
	"fmt"

	"github.com/kingrea/switchscan/internal/platform"
)

// leafBase carries the state shared by every leaf variant. Variants embed it
// and set self so that shared logic dispatches to their overrides.
type leafBase struct {
	rt    *Runtime
	self  Leaf
	kind  Kind
	node  platform.Node
	group Group

	ring  *ring
	index int

	focused bool
	valid   bool
}

func (b *leafBase) init(rt *Runtime, self Leaf, kind Kind, node platform.Node, group Group) {
	b.rt = rt
	b.self = self
	b.kind = kind
	b.node = node
	b.group = group
	b.index = -1
	b.valid = true
}

func (b *leafBase) base() *leafBase { return b }

func (b *leafBase) Kind() Kind { return b.kind }

func (b *leafBase) Role() platform.Role {
	if b.node == nil {
		return platform.RoleUnknown
	}
	return b.node.Role()
}

func (b *leafBase) Location() (platform.Rect, bool) {
	if b.node == nil || !b.node.Attached() {
		return platform.Rect{}, false
	}
	return b.node.Location()
}

func (b *leafBase) AutomationNode() platform.Node { return b.node }

func (b *leafBase) Group() Group { return b.group }

func (b *leafBase) IsFocused() bool { return b.focused }

func (b *leafBase) IsValid() bool { return b.valid }

func (b *leafBase) Invalidate() { b.valid = false }

func (b *leafBase) OnFocus() { b.focused = true }

func (b *leafBase) OnUnfocus() { b.focused = false }

func (b *leafBase) IgnoreWhenComputingUnionOfBoundingBoxes() bool { return false }

func (b *leafBase) IsValidAndVisible() bool {
	if !b.valid {
		return false
	}
	if n := b.self.AutomationNode(); n != nil && !n.Attached() {
		return false
	}
	_, ok := b.self.Location()
	return ok
}

func (b *leafBase) anchor() anchor { return nodeAnchor(b.node) }

func (b *leafBase) Equals(other Item) bool { return equalItems(b.self, other) }

func (b *leafBase) IsEquivalentTo(t Target) bool {
	return equivalent(b.self.anchor(), t.anchor())
}

// Next returns the next valid leaf in the ring.
func (b *leafBase) Next() (Leaf, error) { return b.walk(1) }

// Previous returns the previous valid leaf in the ring.
func (b *leafBase) Previous() (Leaf, error) { return b.walk(-1) }

func (b *leafBase) walk(step int) (Leaf, error) {
	undefinedKind, invalidKind, dir := ErrNextUndefined, ErrNextInvalid, "next"
	if step < 0 {
		undefinedKind, invalidKind, dir = ErrPreviousUndefined, ErrPreviousInvalid, "previous"
	}
	r := b.ring
	if r == nil || b.index < 0 || b.index >= len(r.members) || r.members[b.index] != b.self {
		b.valid = false
		return nil, newError(undefinedKind, true, "%s link not wired for %s", dir, b.self)
	}
	n := len(r.members)
	for i := 1; i <= n; i++ {
		candidate := r.at(b.index + step*i)
		if candidate == nil {
			b.valid = false
			return nil, newError(ErrNullChild, true, "nil %s of %s", dir, b.self)
		}
		if candidate == b.self {
			if n == 1 && b.self.IsValidAndVisible() {
				return candidate, nil
			}
			break
		}
		if candidate.IsValidAndVisible() {
			return candidate, nil
		}
	}
	b.valid = false
	return nil, newError(invalidKind, true, "no valid %s node from %s", dir, b.self)
}

func (b *leafBase) String() string {
	if b.node == nil {
		return string(b.kind)
	}
	if name := b.node.Name(); name != "" {
		return fmt.Sprintf("%s(%s %q)", b.kind, b.node.ID(), name)
	}
	return fmt.Sprintf("%s(%s)", b.kind, b.node.ID())
}
