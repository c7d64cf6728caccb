package classify

import (
	"testing"

	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/nodes"
	"github.com/kingrea/switchscan/internal/platform"
)

func rect(x, y, w, h int) *platform.Rect {
	return &platform.Rect{Left: x, Top: y, Width: w, Height: h}
}

func scenarioTree(t *testing.T) *platform.MemTree {
	t.Helper()
	tree, err := platform.NewMemTree(platform.NodeSpec{
		ID:       "root",
		Role:     platform.RoleWindow,
		Location: rect(0, 0, 500, 500),
		Children: []platform.NodeSpec{
			{ID: "slider", Role: platform.RoleSlider, Location: rect(0, 0, 100, 20)},
			{ID: "pane", Role: platform.RolePane, Location: rect(0, 30, 200, 40), Children: []platform.NodeSpec{
				{ID: "button", Role: platform.RoleButton, Location: rect(0, 30, 50, 20)},
			}},
			{ID: "group", Role: platform.RoleGroup, Location: rect(0, 100, 200, 40), Children: []platform.NodeSpec{
				{ID: "a", Role: platform.RoleButton, Location: rect(0, 100, 50, 20)},
				{ID: "label", Role: platform.RoleStaticText, Location: rect(60, 100, 50, 20)},
				{ID: "b", Role: platform.RoleLink, Location: rect(120, 100, 50, 20)},
			}},
			{ID: "hidden", Role: platform.RoleButton, Location: rect(0, 200, 50, 20), State: platform.StateInvisible},
			{ID: "kbd", Role: platform.RoleKeyboard, Location: rect(0, 400, 500, 100), Children: []platform.NodeSpec{
				{ID: "q", Role: platform.RoleButton, Location: rect(0, 400, 30, 30)},
			}},
		},
	})
	if err != nil {
		t.Fatalf("NewMemTree: %v", err)
	}
	return tree
}

type nopNavigator struct{ entered int }

func (n *nopNavigator) ForceFocusedNode(nodes.Leaf)          {}
func (n *nopNavigator) MoveToValidNode()                     {}
func (n *nopNavigator) EnterGroup()                          { n.entered++ }
func (n *nopNavigator) ExitGroupUnconditionally()            {}
func (n *nopNavigator) EnterKeyboard()                       {}
func (n *nopNavigator) ExitKeyboard()                        {}
func (n *nopNavigator) CurrentGroupHasChild(nodes.Leaf) bool { return false }

func ids(g nodes.Group) []string {
	var out []string
	for _, c := range g.Children() {
		if c.Kind() == nodes.KindBackButton {
			out = append(out, "back")
			continue
		}
		out = append(out, c.AutomationNode().ID())
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildsFourThenThreeChildGroups(t *testing.T) {
	tree := scenarioTree(t)
	policy, err := NewPolicy()
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	nav := &nopNavigator{}
	rt := nodes.NewRuntime(
		nodes.WithClassifier(policy),
		nodes.WithNavigator(nav),
		nodes.WithHost(tree),
		nodes.WithBackButtonOverride(platform.Rect{Left: 490, Top: 490, Width: 10, Height: 10}),
	)

	root, err := nodes.BuildTree(rt, tree.MustNode("root"))
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if got, want := ids(root), []string{"slider", "button", "group", "back"}; !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	groupLeaf := root.Children()[2]
	if !groupLeaf.IsGroup() {
		t.Fatalf("expected the group to classify as a group")
	}
	if got := groupLeaf.Actions(); len(got) != 1 || got[0] != action.DrillDown {
		t.Fatalf("expected drill-down only, got %v", got)
	}
	inner, err := groupLeaf.AsRootNode()
	if err != nil {
		t.Fatalf("AsRootNode: %v", err)
	}
	if got, want := ids(inner), []string{"a", "b", "back"}; !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestVisibilityAndActionability(t *testing.T) {
	tree := scenarioTree(t)
	policy, _ := NewPolicy()

	cases := []struct {
		id         string
		visible    bool
		actionable bool
	}{
		{"slider", true, true},
		{"label", true, false},
		{"hidden", false, false},
		{"q", true, true},
		{"kbd", true, false},
	}
	for _, tc := range cases {
		n := tree.MustNode(tc.id)
		if got := policy.IsVisible(n); got != tc.visible {
			t.Fatalf("%s: visible=%t, want %t", tc.id, got, tc.visible)
		}
		if got := policy.IsActionable(n); got != tc.actionable {
			t.Fatalf("%s: actionable=%t, want %t", tc.id, got, tc.actionable)
		}
	}

	tree.SetState(tree.MustNode("slider"), platform.StateDisabled)
	if policy.IsActionable(tree.MustNode("slider")) {
		t.Fatalf("expected a disabled slider to be inert")
	}
}

func TestSingleChildContainersFlatten(t *testing.T) {
	tree := scenarioTree(t)
	policy, _ := NewPolicy()

	if policy.IsGroup(tree.MustNode("pane"), nil) {
		t.Fatalf("expected a one-child pane not to be a group")
	}
	policy.MinGroupChildren = 1
	if !policy.IsGroup(tree.MustNode("pane"), nil) {
		t.Fatalf("expected the pane to be a group once the threshold drops")
	}
}

func TestInterestingSubtree(t *testing.T) {
	tree := scenarioTree(t)
	policy, _ := NewPolicy()

	if !policy.IsInterestingSubtree(tree.MustNode("group")) {
		t.Fatalf("expected the group subtree to be interesting")
	}
	if policy.IsInterestingSubtree(tree.MustNode("q")) {
		t.Fatalf("expected keyboard content to be filtered out")
	}
	if policy.IsInterestingSubtree(nil) {
		t.Fatalf("expected nil to be uninteresting")
	}
}

func TestRulesOverrideTables(t *testing.T) {
	tree := scenarioTree(t)
	policy, err := NewPolicy(
		Rule{Name: "labels", Roles: []platform.Role{platform.RoleStaticText}, Effect: EffectActionable},
		Rule{Name: "no-links", Roles: []platform.Role{platform.RoleLink}, Effect: EffectIgnore},
	)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	if !policy.IsActionable(tree.MustNode("label")) {
		t.Fatalf("expected the label rule to apply")
	}
	if policy.IsActionable(tree.MustNode("b")) {
		t.Fatalf("expected links to be ignored")
	}

	if err := policy.AddRules(Rule{Name: "everything", Effect: EffectIgnore}); err == nil {
		t.Fatalf("expected a rule without matchers to be rejected")
	}
	if err := policy.AddRules(Rule{Name: "bad", Roles: []platform.Role{platform.RoleButton}, Effect: "explode"}); err == nil {
		t.Fatalf("expected an unknown effect to be rejected")
	}
	if len(policy.Rules()) != 2 {
		t.Fatalf("expected rejected rules not to be installed")
	}
}

func TestParseEffect(t *testing.T) {
	if e, err := ParseEffect(" Group "); err != nil || e != EffectGroup {
		t.Fatalf("ParseEffect: %v %v", e, err)
	}
	if _, err := ParseEffect("nope"); err == nil {
		t.Fatalf("expected an error")
	}
}
