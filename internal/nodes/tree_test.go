package nodes

import (
	"errors"
	"strings"
	"testing"

	"github.com/kingrea/switchscan/internal/platform"
)

func TestBuildTreeAppendsBackButtonLast(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")

	if g.Kind() != KindWindowGroup {
		t.Fatalf("expected window group, got %s", g.Kind())
	}
	want := []string{"b1", "b2", "b3", "b4", "back"}
	if got := childIDs(g); !equalStrings(got, want) {
		t.Fatalf("unexpected children: %v", got)
	}
	if g.LastChild().Kind() != KindBackButton {
		t.Fatalf("expected back button last")
	}
	if g.FirstValidChild() != g.FirstChild() {
		t.Fatalf("expected first child to be the first valid child")
	}
}

func TestRingClosesInBothDirections(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")
	children := g.Children()

	next, err := children[3].Next()
	if err != nil || next != children[4] {
		t.Fatalf("expected b4 -> back, got %v (%v)", next, err)
	}
	next, err = children[4].Next()
	if err != nil || next != children[0] {
		t.Fatalf("expected back -> b1, got %v (%v)", next, err)
	}
	prev, err := children[0].Previous()
	if err != nil || prev != children[4] {
		t.Fatalf("expected b1 <- back, got %v (%v)", prev, err)
	}
	for _, child := range children {
		if child.Group() != g {
			t.Fatalf("%s is not bound to its group", child)
		}
	}
}

func TestFullCycleReturnsToStart(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")
	children := g.Children()
	n := len(children)

	for i, start := range children {
		cur := start
		for step := 1; step <= n; step++ {
			next, err := cur.Next()
			if err != nil {
				t.Fatalf("Next from %s: %v", cur, err)
			}
			if want := children[(i+step)%n]; next != want {
				t.Fatalf("step %d from %s: expected %s, got %s", step, start, want, next)
			}
			cur = next
		}
		if cur != start {
			t.Fatalf("expected %d nexts to return to %s, got %s", n, start, cur)
		}

		for step := 1; step <= n; step++ {
			prev, err := cur.Previous()
			if err != nil {
				t.Fatalf("Previous from %s: %v", cur, err)
			}
			if want := children[(i-step+n)%n]; prev != want {
				t.Fatalf("step %d back from %s: expected %s, got %s", step, start, want, prev)
			}
			cur = prev
		}
		if cur != start {
			t.Fatalf("expected %d previouses to return to %s, got %s", n, start, cur)
		}
	}
}

func TestNextSkipsDetachedNodes(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")
	children := g.Children()

	h.tree.Remove(h.tree.MustNode("b2"))

	next, err := children[0].Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next != children[2] {
		t.Fatalf("expected b3 after skipping b2, got %s", next)
	}
	prev, err := children[2].Previous()
	if err != nil || prev != children[0] {
		t.Fatalf("expected b1 before b3, got %v (%v)", prev, err)
	}
}

func TestSingleMemberRingReturnsItself(t *testing.T) {
	h := newHarness(t, windowSpec())
	root := NewRoot(h.rt, h.tree.MustNode("win"))
	leaf := NewBasicLeaf(h.rt, h.tree.MustNode("b1"), root)
	root.SetChildren([]Leaf{leaf})

	next, err := leaf.Next()
	if err != nil || next != leaf {
		t.Fatalf("expected leaf to be its own successor, got %v (%v)", next, err)
	}

	h.tree.Remove(h.tree.MustNode("b1"))
	_, err = leaf.Next()
	if KindOf(err) != ErrNextInvalid {
		t.Fatalf("expected next-invalid, got %v", err)
	}
	if !IsRecoverable(err) {
		t.Fatalf("expected next-invalid to be recoverable")
	}
	if leaf.IsValid() {
		t.Fatalf("expected a failed walk to invalidate the leaf")
	}
}

func TestPreviousReportsPreviousKinds(t *testing.T) {
	h := newHarness(t, windowSpec())
	root := NewRoot(h.rt, h.tree.MustNode("win"))
	a := NewBasicLeaf(h.rt, h.tree.MustNode("b1"), root)
	b := NewBasicLeaf(h.rt, h.tree.MustNode("b2"), root)
	root.SetChildren([]Leaf{a, b})

	h.tree.Remove(h.tree.MustNode("b2"))
	if _, err := a.Previous(); KindOf(err) != ErrPreviousInvalid {
		t.Fatalf("expected previous-invalid, got %v", err)
	}

	loose := NewBasicLeaf(h.rt, h.tree.MustNode("b3"), root)
	if _, err := loose.Previous(); KindOf(err) != ErrPreviousUndefined {
		t.Fatalf("expected previous-undefined for an unwired leaf, got %v", err)
	}
}

func TestNullChildInRing(t *testing.T) {
	h := newHarness(t, windowSpec())
	root := NewRoot(h.rt, h.tree.MustNode("win"))
	a := NewBasicLeaf(h.rt, h.tree.MustNode("b1"), root)
	root.SetChildren([]Leaf{a, nil})

	if _, err := a.Next(); KindOf(err) != ErrNullChild {
		t.Fatalf("expected null-child, got %v", err)
	}
}

func TestReplacedChildrenAreUnwired(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")
	stale := g.Children()[1]

	if err := g.RefreshChildren(); err != nil {
		t.Fatalf("RefreshChildren: %v", err)
	}
	_, err := stale.Next()
	if KindOf(err) != ErrNextUndefined {
		t.Fatalf("expected next-undefined from a superseded leaf, got %v", err)
	}
	if !errors.Is(err, &Error{Kind: ErrNextUndefined}) {
		t.Fatalf("expected errors.Is to match on kind")
	}
}

func TestNoInterestingChildren(t *testing.T) {
	h := newHarness(t, platform.NodeSpec{
		ID:       "win",
		Role:     platform.RoleWindow,
		Location: rect(0, 0, 100, 100),
		Children: []platform.NodeSpec{
			{ID: "label", Role: platform.RoleStaticText, Location: rect(0, 0, 50, 10)},
		},
	})
	_, err := BuildTree(h.rt, h.tree.MustNode("win"))
	if KindOf(err) != ErrNoChildren {
		t.Fatalf("expected no-children, got %v", err)
	}
	if !IsRecoverable(err) || IsFatal(err) {
		t.Fatalf("expected no-children to be recoverable")
	}
}

func TestEmptySetChildrenLeavesRingUnwired(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")
	old := g.FirstChild()

	g.SetChildren(nil)
	if len(g.Children()) != 0 || g.FirstChild() != nil || g.LastChild() != nil {
		t.Fatalf("expected no children")
	}
	if g.IsValidGroup() {
		t.Fatalf("expected an empty group to be invalid")
	}
	if _, err := old.Next(); KindOf(err) != ErrNextUndefined {
		t.Fatalf("expected old child to be unwired, got %v", err)
	}
}

func TestGroupLocationIgnoresBackButton(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")

	loc, ok := g.Location()
	if !ok {
		t.Fatalf("expected a location")
	}
	want := platform.Rect{Left: 10, Top: 10, Width: 190, Height: 20}
	if loc != want {
		t.Fatalf("expected %v, got %v", want, loc)
	}
}

func TestGroupLocationIndependentOfBackAffordance(t *testing.T) {
	spec := windowSpec()
	spec.Children = append(spec.Children, button("host-back", 900, 900))
	h := newHarness(t, spec)
	h.tree.SetBackButton("host-back")
	g := mustBuild(t, h, "win")
	back := g.LastChild()

	want, ok := g.Location()
	if !ok {
		t.Fatalf("expected a location")
	}
	check := func(stage string) {
		t.Helper()
		got, ok := g.Location()
		if !ok || got != want {
			t.Fatalf("%s: group location moved from %v to %v", stage, want, got)
		}
		if !g.IsValidGroup() {
			t.Fatalf("%s: group should stay valid", stage)
		}
	}

	h.rt.BackButton.Override = &platform.Rect{Left: 0, Top: 0, Width: 1000, Height: 1000}
	if loc, _ := back.Location(); loc != *h.rt.BackButton.Override {
		t.Fatalf("expected the back button at the override, got %v", loc)
	}
	check("override moved")

	h.rt.BackButton.Override = nil
	if loc, ok := back.Location(); !ok || loc != (platform.Rect{Left: 900, Top: 900, Width: 40, Height: 20}) {
		t.Fatalf("expected the back button at the host affordance, got %v", loc)
	}
	check("host affordance")

	h.tree.SetLocation(h.tree.MustNode("host-back"), rect(0, 0, 999, 999))
	check("host affordance moved")

	h.tree.Remove(h.tree.MustNode("host-back"))
	if _, ok := back.Location(); ok {
		t.Fatalf("expected no back button location once the affordance is gone")
	}
	check("host affordance removed")
}

func TestEquivalenceSurvivesRebuild(t *testing.T) {
	h := newHarness(t, windowSpec())
	first := mustBuild(t, h, "win")
	second := mustBuild(t, h, "win")

	for i, child := range first.Children() {
		other := second.Children()[i]
		if child == other {
			t.Fatalf("expected fresh leaf instances")
		}
		if !child.IsEquivalentTo(TargetOf(other)) || !other.IsEquivalentTo(TargetOf(child)) {
			t.Fatalf("expected %s and %s to be equivalent", child, other)
		}
		if !child.Equals(other) || !other.Equals(child) {
			t.Fatalf("expected %s and %s to be equal", child, other)
		}
	}
	if !first.Equals(second) || !second.Equals(first) {
		t.Fatalf("expected rebuilt groups to be equal")
	}
	if !first.IsEquivalentTo(TargetNode(h.tree.MustNode("win"))) {
		t.Fatalf("expected group to be equivalent to its node")
	}
	if found := second.FindChild(TargetOf(first.Children()[2])); found != second.Children()[2] {
		t.Fatalf("expected FindChild to locate the rebuilt b3, got %v", found)
	}
	if found := second.FindChild(TargetNode(h.tree.MustNode("b4"))); found != second.Children()[3] {
		t.Fatalf("expected FindChild by node to locate b4, got %v", found)
	}
}

func TestEqualsIsReflexiveAndSymmetric(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")
	children := g.Children()
	back := children[4]

	for _, c := range children {
		if !c.Equals(c) {
			t.Fatalf("expected %s to equal itself", c)
		}
	}
	if children[0].Equals(children[1]) || children[1].Equals(children[0]) {
		t.Fatalf("expected distinct buttons to differ")
	}
	if children[0].Equals(back) || back.Equals(children[0]) {
		t.Fatalf("expected a button and the back button to differ")
	}
	if children[0].Equals(g) || g.Equals(children[0]) {
		t.Fatalf("expected a leaf and a group to differ")
	}
	if children[0].IsEquivalentTo(Target{}) {
		t.Fatalf("expected nothing to be equivalent to an empty target")
	}
}

func TestRefreshAfterFocusedChildRemoved(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")
	g.OnFocus()
	g.Children()[2].OnFocus()

	h.tree.Remove(h.tree.MustNode("b3"))

	if h.nav.moveToValid != 1 {
		t.Fatalf("expected exactly one MoveToValidNode, got %d", h.nav.moveToValid)
	}
	if len(h.nav.forced) != 0 {
		t.Fatalf("expected no ForceFocusedNode, got %d", len(h.nav.forced))
	}
	want := []string{"b1", "b2", "b4", "back"}
	if got := childIDs(g); !equalStrings(got, want) {
		t.Fatalf("unexpected children after refresh: %v", got)
	}
}

func TestRefreshKeepsFocusOnSurvivingChild(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")
	g.OnFocus()
	focused := g.Children()[2]
	focused.OnFocus()

	h.tree.Remove(h.tree.MustNode("b1"))

	if len(h.nav.forced) != 1 {
		t.Fatalf("expected one ForceFocusedNode, got %d", len(h.nav.forced))
	}
	got := h.nav.forced[0]
	if got == focused || got.AutomationNode().ID() != "b3" {
		t.Fatalf("expected the rebuilt b3, got %s", got)
	}
	if h.nav.moveToValid != 0 {
		t.Fatalf("expected no MoveToValidNode, got %d", h.nav.moveToValid)
	}
}

func TestRefreshFailureInvalidatesGroup(t *testing.T) {
	h := newHarness(t, platform.NodeSpec{
		ID:       "win",
		Role:     platform.RoleWindow,
		Location: rect(0, 0, 100, 100),
		Children: []platform.NodeSpec{button("only", 0, 0)},
	})
	g := mustBuild(t, h, "win")
	g.OnFocus()

	h.tree.Remove(h.tree.MustNode("only"))

	if !g.IsInvalidated() || g.IsValidGroup() {
		t.Fatalf("expected the group to be invalidated")
	}
	if h.nav.moveToValid != 1 {
		t.Fatalf("expected recovery through MoveToValidNode, got %d", h.nav.moveToValid)
	}
	if n := h.tree.MustNode("win").ListenerCount(); n != 0 {
		t.Fatalf("expected listeners to be released, got %d", n)
	}
}

func TestUninterestingChangesDoNotRefresh(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")
	g.OnFocus()
	before := g.Children()

	h.tree.SetLocation(h.tree.MustNode("b2"), rect(70, 10, 40, 20))
	h.tree.SetState(h.tree.MustNode("b2"), platform.StateFocused)

	if h.nav.moveToValid != 0 || len(h.nav.forced) != 0 {
		t.Fatalf("expected no refresh for location or state changes")
	}
	if g.Children()[1] != before[1] {
		t.Fatalf("expected children to be untouched")
	}

	g.OnUnfocus()
	h.tree.Remove(h.tree.MustNode("b4"))
	if h.nav.moveToValid != 0 || len(h.nav.forced) != 0 {
		t.Fatalf("expected an unfocused group to ignore mutations")
	}
}

func TestDebugStringMarksFocus(t *testing.T) {
	h := newHarness(t, windowSpec())
	g := mustBuild(t, h, "win")
	g.Children()[0].OnFocus()

	out := DebugString(g)
	if want := "  > basic(b1 \"b1\")\n"; !strings.Contains(out, want) {
		t.Fatalf("expected %q in %q", want, out)
	}
	if DebugString(nil) != "<nil group>" {
		t.Fatalf("unexpected nil rendering")
	}
}

func TestNestedGroupScenario(t *testing.T) {
	spec := platform.NodeSpec{
		ID:       "desktop",
		Role:     platform.RoleDesktop,
		Location: rect(0, 0, 1000, 1000),
		Children: []platform.NodeSpec{{
			ID:       "root",
			Role:     platform.RoleGroup,
			Location: rect(0, 0, 500, 200),
			Children: []platform.NodeSpec{
				{ID: "slider", Role: platform.RoleSlider, Location: rect(10, 10, 100, 20)},
				button("button", 120, 10),
				{
					ID:       "group",
					Role:     platform.RoleGroup,
					Location: rect(10, 50, 200, 40),
					Children: []platform.NodeSpec{
						button("childA", 10, 50),
						button("childB", 60, 50),
					},
				},
			},
		}},
	}
	h := newHarness(t, spec)
	g := mustBuild(t, h, "root")
	if want := []string{"slider", "button", "group", "back"}; !equalStrings(childIDs(g), want) {
		t.Fatalf("expected %v, got %v", want, childIDs(g))
	}
	groupLeaf := g.Children()[2]
	if !groupLeaf.IsGroup() {
		t.Fatalf("expected the nested container to be a group leaf")
	}
	inner, err := groupLeaf.AsRootNode()
	if err != nil || inner == nil {
		t.Fatalf("AsRootNode: %v", err)
	}
	if want := []string{"childA", "childB", "back"}; !equalStrings(childIDs(inner), want) {
		t.Fatalf("expected %v, got %v", want, childIDs(inner))
	}
}
