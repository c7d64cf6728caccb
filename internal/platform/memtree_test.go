package platform

import (
	"strings"
	"testing"
)

func rect(x, y, w, h int) *Rect { return &Rect{Left: x, Top: y, Width: w, Height: h} }

func sampleTree(t *testing.T) *MemTree {
	t.Helper()
	tree, err := NewMemTree(NodeSpec{
		ID: "desk", Role: RoleDesktop, Location: rect(0, 0, 800, 600),
		Children: []NodeSpec{
			{ID: "win", Role: RoleWindow, Location: rect(0, 0, 400, 300), Children: []NodeSpec{
				{ID: "ok", Role: RoleButton, Location: rect(10, 10, 40, 20)},
			}},
			{ID: "kbd", Role: RoleKeyboard, State: StateInvisible},
		},
	})
	if err != nil {
		t.Fatalf("new tree: %v", err)
	}
	tree.SetVirtualKeyboard("kbd")
	return tree
}

func TestNewMemTreeRejectsDuplicateIDs(t *testing.T) {
	_, err := NewMemTree(NodeSpec{ID: "a", Children: []NodeSpec{{ID: "a"}}})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestChangesBubbleToAncestors(t *testing.T) {
	tree := sampleTree(t)
	var seen []string
	unsubscribe := tree.Root().Subscribe(func(c Change) {
		seen = append(seen, c.Target.ID()+":"+string(c.Kind))
	})
	tree.SetLocation(tree.MustNode("ok"), rect(20, 10, 40, 20))
	if _, err := tree.AddChild(tree.MustNode("win"), NodeSpec{ID: "cancel", Role: RoleButton}); err != nil {
		t.Fatalf("add child: %v", err)
	}
	tree.Remove(tree.MustNode("ok"))
	want := []string{"ok:location-changed", "win:children-changed", "win:children-changed"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	unsubscribe()
	tree.SetState(tree.MustNode("win"), StateFocused)
	if len(seen) != len(want) || tree.Root().ListenerCount() != 0 {
		t.Fatalf("listener should be gone after unsubscribe")
	}
}

func TestRemoveDetachesSubtree(t *testing.T) {
	tree := sampleTree(t)
	ok := tree.MustNode("ok")
	tree.Remove(tree.MustNode("win"))
	if ok.Attached() {
		t.Fatalf("expected descendants to be detached")
	}
	if _, found := tree.Node("ok"); found {
		t.Fatalf("detached nodes should leave the index")
	}
	if _, has := ok.Location(); has {
		t.Fatalf("detached nodes report no location")
	}
}

func TestVirtualKeyboardVisibility(t *testing.T) {
	tree := sampleTree(t)
	kbd := tree.MustNode("kbd")
	tree.SetVirtualKeyboardVisible(true)
	if kbd.State().Has(StateInvisible) {
		t.Fatalf("expected keyboard to be shown")
	}
	tree.SetVirtualKeyboardVisible(false)
	if !kbd.State().Has(StateInvisible) {
		t.Fatalf("expected keyboard to be hidden")
	}
	cmds := tree.Commands()
	if len(cmds) != 2 || cmds[0].Name != "set-keyboard-visible" || cmds[1].Arg != "false" {
		t.Fatalf("unexpected host commands %+v", cmds)
	}
	if tree.VirtualKeyboard() == nil || tree.BackButton() != nil {
		t.Fatalf("unexpected host affordances")
	}
}

const syncBase = `
keyboard: kbd
root:
  id: desk
  role: desktop
  location: {x: 0, y: 0, width: 800, height: 600}
  children:
    - id: a
      role: button
      location: {x: 0, y: 0, width: 10, height: 10}
    - id: b
      role: button
      location: {x: 20, y: 0, width: 10, height: 10}
`

const syncNext = `
root:
  id: desk
  role: desktop
  location: {x: 0, y: 0, width: 800, height: 600}
  children:
    - id: b
      role: button
      location: {x: 40, y: 0, width: 10, height: 10}
      state: [focused]
    - id: c
      role: link
`

func TestSyncPreservesIdentityAndNotifies(t *testing.T) {
	fx, err := ParseFixture([]byte(syncBase))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree, err := fx.Tree()
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	a, b := tree.MustNode("a"), tree.MustNode("b")
	kinds := map[string]bool{}
	tree.Root().Subscribe(func(c Change) {
		kinds[c.Target.ID()+":"+string(c.Kind)] = true
	})

	next, err := ParseFixture([]byte(syncNext))
	if err != nil {
		t.Fatalf("parse next: %v", err)
	}
	if err := tree.Sync(next); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if a.Attached() {
		t.Fatalf("expected a to be detached")
	}
	if tree.MustNode("b") != b {
		t.Fatalf("expected b to keep its identity")
	}
	if r, _ := b.Location(); r.Left != 40 || !b.State().Has(StateFocused) {
		t.Fatalf("expected b to pick up new bounds and state, got %v %v", r, b.State().Names())
	}
	for _, k := range []string{"b:location-changed", "b:state-changed", "desk:children-changed"} {
		if !kinds[k] {
			t.Fatalf("missing notification %s in %v", k, kinds)
		}
	}
	if tree.VirtualKeyboard() != nil {
		t.Fatalf("expected the keyboard designation to follow the fixture")
	}
}

func TestSyncRejectsBadFixtures(t *testing.T) {
	fx, err := ParseFixture([]byte(syncBase))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := fx.Tree()
	if err != nil {
		t.Fatal(err)
	}
	otherRoot := Fixture{Root: FixtureNode{ID: "elsewhere", Role: "desktop"}}
	if err := tree.Sync(otherRoot); err == nil {
		t.Fatalf("expected root mismatch error")
	}
	dup := Fixture{Root: FixtureNode{ID: "desk", Children: []FixtureNode{{ID: "x"}, {ID: "x"}}}}
	if err := tree.Sync(dup); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if !tree.MustNode("a").Attached() {
		t.Fatalf("a failed sync must leave existing nodes attached")
	}
}

func TestParseFixtureErrors(t *testing.T) {
	cases := map[string]string{
		"empty":   "   ",
		"no root": "keyboard: kbd",
		"garbage": "root: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseFixture([]byte(body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
	fx, err := ParseFixture([]byte("root:\n  id: d\n  state: [shiny]\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := fx.Tree(); err == nil {
		t.Fatalf("expected unknown state error")
	}
}
