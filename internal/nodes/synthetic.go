package nodes

import (
	"fmt"

	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

// SyntheticGroupLeaf groups leaves that have no single platform node of their
// own, such as one row of keys. The containing node only supplies a role and
// the orphan check; identity comes from the members.
type SyntheticGroupLeaf struct {
	leafBase
	members []Leaf
}

// NewSyntheticGroupLeaf groups members under containing.
func NewSyntheticGroupLeaf(rt *Runtime, members []Leaf, containing platform.Node, parent Group) *SyntheticGroupLeaf {
	l := &SyntheticGroupLeaf{members: append([]Leaf(nil), members...)}
	l.init(rt, l, KindSyntheticGroup, containing, parent)
	return l
}

// Members returns a copy of the grouped leaves.
func (l *SyntheticGroupLeaf) Members() []Leaf {
	return append([]Leaf(nil), l.members...)
}

func (l *SyntheticGroupLeaf) Role() platform.Role { return platform.RoleGroup }

// Location is the union of the members that are still visible.
func (l *SyntheticGroupLeaf) Location() (platform.Rect, bool) {
	var rects []platform.Rect
	for _, m := range l.members {
		if m == nil || !m.IsValidAndVisible() {
			continue
		}
		if r, ok := m.Location(); ok {
			rects = append(rects, r)
		}
	}
	return platform.UnionAll(rects)
}

func (l *SyntheticGroupLeaf) Actions() []action.Kind { return []action.Kind{action.DrillDown} }

func (l *SyntheticGroupLeaf) IsGroup() bool { return true }

// AsRootNode returns a throwaway group holding a copy of the members and a
// fresh back button.
func (l *SyntheticGroupLeaf) AsRootNode() (Group, error) {
	root := newCompositeRoot(l.rt, l.node)
	children := make([]Leaf, 0, len(l.members)+1)
	children = append(children, l.members...)
	children = append(children, NewBackButtonLeaf(l.rt, root))
	root.SetChildren(children)
	return root, nil
}

func (l *SyntheticGroupLeaf) PerformAction(kind action.Kind) action.Response {
	if kind != action.DrillDown {
		return action.NoActionTaken
	}
	l.rt.Navigator.EnterGroup()
	return action.CloseMenu
}

func (l *SyntheticGroupLeaf) anchor() anchor {
	return anchor{kind: anchorComposite, members: l.Members()}
}

func (l *SyntheticGroupLeaf) String() string {
	return fmt.Sprintf("%s[%d]", l.kind, len(l.members))
}

// SeparateByRow splits an ordered run of leaves into rows. A row continues
// while the next leaf sits on the same visual row as the row's first leaf.
func SeparateByRow(rt *Runtime, leaves []Leaf, containing platform.Node, parent Group) []Leaf {
	var rows []Leaf
	for i := 0; i < len(leaves); {
		row := []Leaf{leaves[i]}
		first, firstOK := leaves[i].Location()
		i++
		for i < len(leaves) {
			next, ok := leaves[i].Location()
			if !firstOK || !ok || !platform.SameRow(first, next) {
				break
			}
			row = append(row, leaves[i])
			i++
		}
		rows = append(rows, NewSyntheticGroupLeaf(rt, row, containing, parent))
	}
	return rows
}
