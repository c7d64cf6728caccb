package nodes

import (
	"testing"
	"time"

	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

// testClassifier treats clickable or editable nodes and the scannable widget
// roles as interesting, and containers with a group role as groups.
type testClassifier struct{}

var testGroupRoles = map[platform.Role]bool{
	platform.RoleGroup:   true,
	platform.RoleWindow:  true,
	platform.RoleList:    true,
	platform.RoleToolbar: true,
}

var testWidgetRoles = map[platform.Role]bool{
	platform.RoleButton:         true,
	platform.RoleTextField:      true,
	platform.RoleSearchBox:      true,
	platform.RoleSlider:         true,
	platform.RoleComboBoxSelect: true,
	platform.RoleTab:            true,
}

func (testClassifier) IsGroup(node platform.Node, _ Group) bool {
	return testGroupRoles[node.Role()]
}

func (testClassifier) IsVisible(node platform.Node) bool {
	if node.State().Has(platform.StateInvisible) {
		return false
	}
	_, ok := node.Location()
	return ok
}

func (testClassifier) IsActionable(node platform.Node) bool {
	return node.State().Has(platform.StateClickable) || node.Role() == platform.RoleButton
}

func (testClassifier) IsInterestingSubtree(platform.Node) bool { return true }

func (c testClassifier) Restrictions(scope Group) Restrictions {
	return Restrictions{
		Leaf: func(n platform.Node) bool {
			return n.Role() == platform.RoleKeyboard || !c.IsVisible(n)
		},
		Visit: func(n platform.Node) bool {
			if !c.IsVisible(n) {
				return false
			}
			return testWidgetRoles[n.Role()] || c.IsGroup(n, scope) || c.IsActionable(n)
		},
	}
}

type recordingNavigator struct {
	forced        []Leaf
	moveToValid   int
	enterGroup    int
	exitGroup     int
	enterKeyboard int
	exitKeyboard  int
}

func (n *recordingNavigator) ForceFocusedNode(leaf Leaf)          { n.forced = append(n.forced, leaf) }
func (n *recordingNavigator) MoveToValidNode()                    { n.moveToValid++ }
func (n *recordingNavigator) EnterGroup()                         { n.enterGroup++ }
func (n *recordingNavigator) ExitGroupUnconditionally()           { n.exitGroup++ }
func (n *recordingNavigator) EnterKeyboard()                      { n.enterKeyboard++ }
func (n *recordingNavigator) ExitKeyboard()                       { n.exitKeyboard++ }
func (n *recordingNavigator) CurrentGroupHasChild(leaf Leaf) bool { return false }

type fakeMenu struct {
	inSubmenu bool
	exits     int
}

func (m *fakeMenu) InSubmenu() bool { return m.inSubmenu }
func (m *fakeMenu) ExitSubmenu()    { m.exits++; m.inSubmenu = false }

type fakeTextNav struct {
	selecting bool
	selection bool
	clipboard bool
	calls     []action.Kind
}

func (f *fakeTextNav) CurrentlySelecting() bool                 { return f.selecting }
func (f *fakeTextNav) SelectionExists(platform.Node) bool       { return f.selection }
func (f *fakeTextNav) ClipboardHasData() bool                   { return f.clipboard }
func (f *fakeTextNav) SaveSelectStart(platform.Node)            { f.selecting = true }
func (f *fakeTextNav) SaveSelectEnd(platform.Node)              { f.selecting = false }
func (f *fakeTextNav) Move(_ platform.Node, kind action.Kind)   { f.calls = append(f.calls, kind) }
func (f *fakeTextNav) Clipboard(_ platform.Node, k action.Kind) { f.calls = append(f.calls, k) }

type queuedTask struct {
	delay time.Duration
	fn    func()
}

type fakeScheduler struct {
	tasks []queuedTask
}

func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.tasks = append(s.tasks, queuedTask{delay: d, fn: fn})
}

func (s *fakeScheduler) runAll() {
	tasks := s.tasks
	s.tasks = nil
	for _, task := range tasks {
		task.fn()
	}
}

type harness struct {
	tree  *platform.MemTree
	rt    *Runtime
	nav   *recordingNavigator
	menu  *fakeMenu
	text  *fakeTextNav
	sched *fakeScheduler
}

func rect(x, y, w, h int) *platform.Rect {
	return &platform.Rect{Left: x, Top: y, Width: w, Height: h}
}

func button(id string, x, y int) platform.NodeSpec {
	return platform.NodeSpec{ID: id, Role: platform.RoleButton, Name: id, Location: rect(x, y, 40, 20)}
}

func newHarness(t *testing.T, spec platform.NodeSpec, opts ...Option) *harness {
	t.Helper()
	tree, err := platform.NewMemTree(spec)
	if err != nil {
		t.Fatalf("NewMemTree: %v", err)
	}
	h := &harness{
		tree:  tree,
		nav:   &recordingNavigator{},
		menu:  &fakeMenu{},
		text:  &fakeTextNav{},
		sched: &fakeScheduler{},
	}
	base := []Option{
		WithClassifier(testClassifier{}),
		WithNavigator(h.nav),
		WithMenu(h.menu),
		WithTextNavigator(h.text),
		WithHost(tree),
		WithScheduler(h.sched),
		WithBackButtonOverride(platform.Rect{Left: 900, Top: 900, Width: 30, Height: 30}),
	}
	h.rt = NewRuntime(append(base, opts...)...)
	return h
}

// windowSpec is a window holding four buttons on one row.
func windowSpec() platform.NodeSpec {
	return platform.NodeSpec{
		ID:       "desktop",
		Role:     platform.RoleDesktop,
		Location: rect(0, 0, 1000, 1000),
		Children: []platform.NodeSpec{{
			ID:       "win",
			Role:     platform.RoleWindow,
			Location: rect(0, 0, 400, 300),
			Children: []platform.NodeSpec{
				button("b1", 10, 10),
				button("b2", 60, 10),
				button("b3", 110, 10),
				button("b4", 160, 10),
			},
		}},
	}
}

func mustBuild(t *testing.T, h *harness, id string) Group {
	t.Helper()
	g, err := BuildTree(h.rt, h.tree.MustNode(id))
	if err != nil {
		t.Fatalf("BuildTree(%s): %v", id, err)
	}
	return g
}

func childIDs(g Group) []string {
	var ids []string
	for _, c := range g.Children() {
		if c.Kind() == KindBackButton {
			ids = append(ids, "back")
			continue
		}
		if n := c.AutomationNode(); n != nil {
			ids = append(ids, n.ID())
			continue
		}
		ids = append(ids, c.String())
	}
	return ids
}

func equalStrings(a, b []string) bool {
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

func hasAction(kinds []action.Kind, want action.Kind) bool {
	for _, k := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
