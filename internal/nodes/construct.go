package nodes

import (
	"github.com/kingrea/switchscan/internal/platform"
)

// LeafFactory wraps an interesting platform node into a leaf.
type LeafFactory func(node platform.Node) Leaf

// CreateLeaf wraps node using the first matching creator rule, defaulting to
// a BasicLeaf.
func CreateLeaf(rt *Runtime, node platform.Node, parent Group) Leaf {
	if node == nil {
		return nil
	}
	if c, ok := rt.Registry.creatorFor(rt, node, parent); ok {
		return c.Create(rt, node, parent)
	}
	return NewBasicLeaf(rt, node, parent)
}

// BuildTree materializes the group rooted at node. Builder rules get the first
// chance to intercept specialized roots.
func BuildTree(rt *Runtime, node platform.Node) (Group, error) {
	if b, ok := rt.Registry.builderFor(rt, node); ok {
		return b.Build(rt, node)
	}
	g := NewBasicGroup(rt, node)
	if err := FindAndSetChildren(rt, g, g.defaultFactory()); err != nil {
		return nil, err
	}
	return g, nil
}

// InterestingChildren walks the subtree under scope's platform node in
// pre-order and returns the nodes the classifier selects. The walk never
// descends into a selected node or below a node the restrictions mark as a
// leaf.
func InterestingChildren(rt *Runtime, scope Group) []platform.Node {
	return interestingUnder(rt, scope.AutomationNode(), scope, 0)
}

// interestingUnder runs the InterestingChildren walk from root, stopping once
// limit nodes are found. A limit of 0 collects everything.
func interestingUnder(rt *Runtime, root platform.Node, scope Group, limit int) []platform.Node {
	if root == nil || rt.Classifier == nil {
		return nil
	}
	restrictions := rt.Classifier.Restrictions(scope)
	var out []platform.Node
	var walk func(n platform.Node)
	walk = func(n platform.Node) {
		for _, child := range n.Children() {
			if limit > 0 && len(out) >= limit {
				return
			}
			if child == nil {
				continue
			}
			visit := restrictions.Visit != nil && restrictions.Visit(child)
			if visit {
				out = append(out, child)
				continue
			}
			if restrictions.Leaf != nil && restrictions.Leaf(child) {
				continue
			}
			walk(child)
		}
	}
	walk(root)
	return out
}

// FindAndSetChildren rebuilds g's children from its interesting descendants.
// Construction is all-or-nothing: on error g is left untouched.
func FindAndSetChildren(rt *Runtime, g Group, create LeafFactory) error {
	children, err := collectChildren(rt, g, create)
	if err != nil {
		return err
	}
	children = append(children, NewBackButtonLeaf(rt, g))
	g.SetChildren(children)
	return nil
}

func collectChildren(rt *Runtime, g Group, create LeafFactory) ([]Leaf, error) {
	var children []Leaf
	for _, node := range InterestingChildren(rt, g) {
		leaf := create(node)
		if leaf == nil {
			return nil, newError(ErrNullChild, true, "no leaf created for %s in %s", node.ID(), g)
		}
		if leaf.IsValidAndVisible() {
			children = append(children, leaf)
		}
	}
	if len(children) < 1 {
		return nil, newError(ErrNoChildren, true, "%s has no interesting children", g)
	}
	return children, nil
}
