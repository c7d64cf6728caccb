package platform

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixture is the on-disk description of a platform tree used by the
// simulator and by tests.
type Fixture struct {
	Keyboard   string      `yaml:"keyboard,omitempty"`
	BackButton string      `yaml:"back_button,omitempty"`
	Root       FixtureNode `yaml:"root"`
}

// FixtureNode mirrors NodeSpec with YAML-friendly field types.
type FixtureNode struct {
	ID       string        `yaml:"id"`
	Role     string        `yaml:"role"`
	Name     string        `yaml:"name,omitempty"`
	Location *Rect         `yaml:"location,omitempty"`
	State    []string      `yaml:"state,omitempty"`
	Scroll   *ScrollInfo   `yaml:"scroll,omitempty"`
	Actions  []string      `yaml:"actions,omitempty"`
	Children []FixtureNode `yaml:"children,omitempty"`
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(data []byte) (Fixture, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Fixture{}, fmt.Errorf("platform: fixture is empty")
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return Fixture{}, fmt.Errorf("platform: decode fixture: %w", err)
	}
	if strings.TrimSpace(fx.Root.ID) == "" {
		return Fixture{}, fmt.Errorf("platform: fixture root id is required")
	}
	return fx, nil
}

// LoadFixture reads and decodes a YAML fixture from path.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("platform: read fixture %s: %w", path, err)
	}
	fx, err := ParseFixture(data)
	if err != nil {
		return Fixture{}, fmt.Errorf("platform: %s: %w", path, err)
	}
	return fx, nil
}

// Spec converts the fixture node into a NodeSpec.
func (f FixtureNode) Spec() (NodeSpec, error) {
	spec := NodeSpec{
		ID:       strings.TrimSpace(f.ID),
		Role:     Role(strings.TrimSpace(f.Role)),
		Name:     f.Name,
		Location: copyRect(f.Location),
	}
	for _, name := range f.State {
		flag, ok := ParseState(strings.TrimSpace(name))
		if !ok {
			return NodeSpec{}, fmt.Errorf("platform: node %s: unknown state %q", spec.ID, name)
		}
		spec.State |= flag
	}
	if f.Scroll != nil {
		spec.Scroll = *f.Scroll
	}
	for _, a := range f.Actions {
		spec.Actions = append(spec.Actions, StandardAction(strings.TrimSpace(a)))
	}
	for _, child := range f.Children {
		cs, err := child.Spec()
		if err != nil {
			return NodeSpec{}, err
		}
		spec.Children = append(spec.Children, cs)
	}
	return spec, nil
}

// Tree builds a MemTree from the fixture.
func (fx Fixture) Tree() (*MemTree, error) {
	spec, err := fx.Root.Spec()
	if err != nil {
		return nil, err
	}
	tree, err := NewMemTree(spec)
	if err != nil {
		return nil, err
	}
	tree.SetVirtualKeyboard(fx.Keyboard)
	tree.SetBackButton(fx.BackButton)
	return tree, nil
}

// Sync reconciles the live tree with fx. Nodes are matched by ID so that
// surviving nodes keep their identity; nodes missing from fx are detached.
// Notifications fire for every node whose children, bounds, or state changed.
func (t *MemTree) Sync(fx Fixture) error {
	spec, err := fx.Root.Spec()
	if err != nil {
		return err
	}
	if spec.ID != t.root.id {
		return fmt.Errorf("platform: fixture root %s does not match live root %s", spec.ID, t.root.id)
	}
	seen := map[string]bool{}
	if err := collectIDs(spec, seen); err != nil {
		return err
	}
	for id, n := range t.byID {
		if !seen[id] {
			t.detach(n)
		}
	}
	var pending []pendingChange
	t.syncNode(t.root, spec, &pending)
	t.keyboardID = fx.Keyboard
	t.backButtonID = fx.BackButton
	for _, p := range pending {
		p.node.emit(p.kind)
	}
	return nil
}

type pendingChange struct {
	node *MemNode
	kind ChangeKind
}

func collectIDs(spec NodeSpec, seen map[string]bool) error {
	if spec.ID == "" {
		return fmt.Errorf("platform: node id is required (role %s)", spec.Role)
	}
	if seen[spec.ID] {
		return fmt.Errorf("platform: duplicate node id %s", spec.ID)
	}
	seen[spec.ID] = true
	for _, c := range spec.Children {
		if err := collectIDs(c, seen); err != nil {
			return err
		}
	}
	return nil
}

func (t *MemTree) syncNode(n *MemNode, spec NodeSpec, pending *[]pendingChange) {
	if !rectEqual(n.location, spec.Location) {
		*pending = append(*pending, pendingChange{n, LocationChanged})
	}
	if n.state != spec.State || n.scroll != spec.Scroll {
		*pending = append(*pending, pendingChange{n, StateChanged})
	}
	n.apply(spec)

	changed := len(n.children) != len(spec.Children)
	children := make([]*MemNode, 0, len(spec.Children))
	for i, cs := range spec.Children {
		child, ok := t.byID[cs.ID]
		if !ok || child.detached {
			child = &MemNode{tree: t, parent: n}
			child.apply(cs)
			t.byID[cs.ID] = child
			changed = true
		} else if child.parent != n {
			child.parent = n
			changed = true
		}
		if !changed && n.children[i] != child {
			changed = true
		}
		t.syncNode(child, cs, pending)
		children = append(children, child)
	}
	n.children = children
	if changed {
		*pending = append(*pending, pendingChange{n, ChildrenChanged})
	}
}

func rectEqual(a, b *Rect) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
