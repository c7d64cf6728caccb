package textnav

import (
	"testing"

	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

func newTree(t *testing.T) *platform.MemTree {
	t.Helper()
	tree, err := platform.NewMemTree(platform.NodeSpec{
		ID:   "root",
		Role: platform.RoleWindow,
		Children: []platform.NodeSpec{
			{ID: "field", Role: platform.RoleTextField, State: platform.StateEditable},
		},
	})
	if err != nil {
		t.Fatalf("NewMemTree: %v", err)
	}
	return tree
}

func TestMovesBecomeKeyPresses(t *testing.T) {
	tree := newTree(t)
	m := NewManager(tree, nil)
	field := tree.MustNode("field")

	m.Move(field, action.MoveForwardOneWordOfText)
	m.SaveSelectStart(field)
	m.Move(field, action.MoveDownOneLineOfText)
	m.SaveSelectEnd(field)
	m.Move(field, action.JumpToEndOfText)
	m.Move(field, action.Select)

	want := []platform.KeyPress{
		{Key: platform.KeyRight, Mods: platform.ModCtrl},
		{Key: platform.KeyDown, Mods: platform.ModShift},
		{Key: platform.KeyEnd, Mods: platform.ModCtrl},
	}
	got := tree.KeyPresses()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if m.CurrentlySelecting() {
		t.Fatalf("expected selection to have ended")
	}
	if m.LastAction() != action.JumpToEndOfText {
		t.Fatalf("unexpected last action %s", m.LastAction())
	}
}

func TestClipboardNeedsSelection(t *testing.T) {
	tree := newTree(t)
	m := NewManager(tree, nil)
	field := tree.MustNode("field")

	m.Clipboard(field, action.Copy)
	if m.ClipboardHasData() || len(tree.KeyPresses()) != 0 {
		t.Fatalf("expected copy without a selection to do nothing")
	}

	tree.SetTextSelection(field, 2, 6)
	if !m.SelectionExists(field) {
		t.Fatalf("expected a selection")
	}
	m.Clipboard(field, action.Cut)
	if !m.ClipboardHasData() {
		t.Fatalf("expected the clipboard to hold data")
	}
	m.Clipboard(field, action.Paste)

	got := tree.KeyPresses()
	if len(got) != 2 || got[0].Key != platform.KeyX || got[1].Key != platform.KeyV {
		t.Fatalf("unexpected key presses %+v", got)
	}
	if m.SelectionExists(nil) {
		t.Fatalf("expected nil to have no selection")
	}
}
