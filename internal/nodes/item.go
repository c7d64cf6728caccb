package nodes

import (
	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

// Kind tags the concrete variant of an item. Equality requires equal kinds.
type Kind string

const (
	KindBasic          Kind = "basic"
	KindBackButton     Kind = "back-button"
	KindSyntheticGroup Kind = "synthetic-group"
	KindComboBox       Kind = "combo-box"
	KindEditableText   Kind = "editable-text"
	KindSlider         Kind = "slider"
	KindTab            Kind = "tab"
	KindActionableTab  Kind = "actionable-tab"
	KindKeyboardKey    Kind = "keyboard-key"

	KindRoot             Kind = "root"
	KindBasicGroup       Kind = "basic-group"
	KindKeyboardGroup    Kind = "keyboard-group"
	KindDesktopGroup     Kind = "desktop-group"
	KindWindowGroup      Kind = "window-group"
	KindModalDialogGroup Kind = "modal-dialog-group"
)

// Item is the surface shared by leaves and groups.
type Item interface {
	Kind() Kind
	Role() platform.Role
	// Location returns false once the item has nothing visible on screen.
	Location() (platform.Rect, bool)
	// AutomationNode returns the platform node that most closely contains
	// the item. It may be nil for synthetic items.
	AutomationNode() platform.Node
	IsValidAndVisible() bool
	// Equals compares two live instances structurally.
	Equals(other Item) bool
	// IsEquivalentTo reports whether t denotes the same conceptual item,
	// even across a rebuild.
	IsEquivalentTo(t Target) bool
	String() string

	anchor() anchor
}

// Leaf is a single scan target inside a group's ring.
type Leaf interface {
	Item

	// Actions is recomputed on every call from live platform state.
	Actions() []action.Kind
	PerformAction(kind action.Kind) action.Response
	IsGroup() bool
	// AsRootNode materializes the group this leaf stands for. It returns a
	// nil group and nil error when the leaf is not a group.
	AsRootNode() (Group, error)

	Next() (Leaf, error)
	Previous() (Leaf, error)
	// Group is the container back-reference; it does not own the group.
	Group() Group

	IsFocused() bool
	IsValid() bool
	Invalidate()
	OnFocus()
	OnUnfocus()
	// IgnoreWhenComputingUnionOfBoundingBoxes excludes the leaf from its
	// group's bounds and validity.
	IgnoreWhenComputingUnionOfBoundingBoxes() bool

	base() *leafBase
}

// Group is a traversal scope holding an ordered ring of leaves.
type Group interface {
	Item

	Children() []Leaf
	SetChildren(children []Leaf)
	FirstChild() Leaf
	LastChild() Leaf
	FirstValidChild() Leaf
	FindChild(t Target) Leaf
	IsValidGroup() bool
	IsInvalidated() bool

	OnFocus()
	OnUnfocus()
	OnExit()
	// Refresh rebuilds the children and carries focus to the equivalent
	// child, or asks the navigator to recover.
	Refresh()
	RefreshChildren() error

	groupState() *groupBase
}

// Target is whatever an item can be compared against for equivalence: a raw
// platform node, a leaf, or a group.
type Target struct {
	node platform.Node
	item Item
}

// TargetNode wraps a raw platform node.
func TargetNode(n platform.Node) Target { return Target{node: n} }

// TargetOf wraps a leaf or group.
func TargetOf(i Item) Target { return Target{item: i} }

// IsZero reports whether the target refers to nothing.
func (t Target) IsZero() bool { return t.node == nil && t.item == nil }

func (t Target) anchor() anchor {
	if t.item != nil {
		return t.item.anchor()
	}
	if t.node != nil {
		return anchor{kind: anchorNode, node: t.node}
	}
	return anchor{}
}

type anchorKind int

const (
	anchorNone anchorKind = iota
	anchorNode
	anchorComposite
	anchorBack
)

// anchor is the identity an item keeps across rebuilds: its platform node,
// the ordered members of a synthetic grouping, or the back affordance.
type anchor struct {
	kind    anchorKind
	node    platform.Node
	members []Leaf
}

func nodeAnchor(n platform.Node) anchor {
	if n == nil {
		return anchor{}
	}
	return anchor{kind: anchorNode, node: n}
}

// equivalent is the single symmetric comparison behind IsEquivalentTo. Every
// pair of anchor kinds is handled here, so equivalence stays symmetric no
// matter which side asks.
func equivalent(a, b anchor) bool {
	if a.kind > b.kind {
		a, b = b, a
	}
	switch {
	case a.kind == anchorNone || b.kind == anchorNone:
		return false
	case a.kind == anchorNode && b.kind == anchorNode:
		return platform.Same(a.node, b.node)
	case a.kind == anchorNode && b.kind == anchorBack:
		return b.node != nil && platform.Same(a.node, b.node)
	case a.kind == anchorComposite && b.kind == anchorComposite:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if !a.members[i].IsEquivalentTo(TargetOf(b.members[i])) {
				return false
			}
		}
		return true
	case a.kind == anchorBack && b.kind == anchorBack:
		return true
	}
	return false
}

// equalItems is the single symmetric comparison behind Equals.
func equalItems(a, b Item) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	ga, aIsGroup := a.(Group)
	gb, bIsGroup := b.(Group)
	if aIsGroup != bIsGroup {
		return false
	}
	if aIsGroup {
		if !platform.Same(ga.AutomationNode(), gb.AutomationNode()) {
			return false
		}
		return equalLeafLists(ga.Children(), gb.Children())
	}
	aa, ab := a.anchor(), b.anchor()
	if aa.kind != ab.kind {
		return false
	}
	switch aa.kind {
	case anchorComposite:
		return equalLeafLists(aa.members, ab.members)
	case anchorBack:
		return true
	}
	return platform.Same(a.AutomationNode(), b.AutomationNode())
}

func equalLeafLists(a, b []Leaf) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}
