// Package navigator owns the scanning focus: the current group, the focused
// leaf inside it, and the stack of groups the user drilled through.
package navigator

import (
	"fmt"

	"github.com/kingrea/switchscan/internal/nodes"
	"github.com/kingrea/switchscan/internal/platform"
)

// Journal receives user-visible navigation history.
type Journal interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopJournal struct{}

func (nopJournal) Info(string, ...any)  {}
func (nopJournal) Warn(string, ...any)  {}
func (nopJournal) Error(string, ...any) {}

type frame struct {
	group   nodes.Group
	focused nodes.Leaf
}

// Navigator drives scanning over a tree built by the nodes package.
type Navigator struct {
	rt      *nodes.Runtime
	root    func() platform.Node
	journal Journal

	group   nodes.Group
	focused nodes.Leaf
	history []frame

	waiting bool
	lastErr error
}

// Option customizes a Navigator.
type Option func(*Navigator)

// WithJournal records focus moves and recoveries.
func WithJournal(j Journal) Option {
	return func(n *Navigator) {
		if j != nil {
			n.journal = j
		}
	}
}

// New returns a navigator for the desktop that root yields and installs it
// on rt.
func New(rt *nodes.Runtime, root func() platform.Node, opts ...Option) *Navigator {
	n := &Navigator{rt: rt, root: root, journal: nopJournal{}}
	for _, opt := range opts {
		opt(n)
	}
	rt.AttachNavigator(n)
	return n
}

func (n *Navigator) logf(format string, args ...any) {
	if n.rt.Logger != nil {
		n.rt.Logger.Printf("navigator: "+format, args...)
	}
}

// Start builds the desktop from scratch and focuses its first valid child.
// A fatal error leaves the navigator waiting for the next input.
func (n *Navigator) Start() error {
	n.teardown()
	n.rt.Reset()
	var desktop platform.Node
	if n.root != nil {
		desktop = n.root()
	}
	if desktop == nil {
		err := fmt.Errorf("navigator: no desktop node")
		n.enterWaiting(err)
		return err
	}
	g, err := nodes.BuildTree(n.rt, desktop)
	if err != nil {
		n.enterWaiting(err)
		return err
	}
	n.waiting = false
	n.lastErr = nil
	n.group = g
	g.OnFocus()
	n.rt.Keyboard.StartWatching(n.rt)
	n.journal.Info("desktop built: %s", g)
	first := g.FirstValidChild()
	if first == nil {
		err := fmt.Errorf("navigator: desktop has no valid child")
		n.enterWaiting(err)
		return err
	}
	n.focus(first)
	return nil
}

func (n *Navigator) teardown() {
	if n.focused != nil {
		n.focused.OnUnfocus()
	}
	if n.group != nil {
		n.group.OnUnfocus()
	}
	n.focused = nil
	n.group = nil
	n.history = nil
}

func (n *Navigator) enterWaiting(err error) {
	n.teardown()
	n.waiting = true
	n.lastErr = err
	n.logf("waiting after fatal error: %v", err)
	n.journal.Error("waiting for input: %v", err)
}

// Waiting reports whether a fatal error left nothing to scan. The next
// Next, Previous or Retry rebuilds the desktop.
func (n *Navigator) Waiting() bool { return n.waiting }

// LastError returns the error that caused the waiting state.
func (n *Navigator) LastError() error { return n.lastErr }

// Group returns the current group.
func (n *Navigator) Group() nodes.Group { return n.group }

// Focused returns the focused leaf.
func (n *Navigator) Focused() nodes.Leaf { return n.focused }

// Depth returns how many groups sit above the current one.
func (n *Navigator) Depth() int { return len(n.history) }

// Path returns the groups from the desktop down to the current group.
func (n *Navigator) Path() []nodes.Group {
	out := make([]nodes.Group, 0, len(n.history)+1)
	for _, f := range n.history {
		out = append(out, f.group)
	}
	if n.group != nil {
		out = append(out, n.group)
	}
	return out
}

// Retry rebuilds the desktop when waiting.
func (n *Navigator) Retry() error {
	if !n.waiting {
		return nil
	}
	return n.Start()
}

// Next moves focus to the next valid leaf.
func (n *Navigator) Next() {
	n.step(func(l nodes.Leaf) (nodes.Leaf, error) { return l.Next() })
}

// Previous moves focus to the previous valid leaf.
func (n *Navigator) Previous() {
	n.step(func(l nodes.Leaf) (nodes.Leaf, error) { return l.Previous() })
}

func (n *Navigator) step(move func(nodes.Leaf) (nodes.Leaf, error)) {
	if n.waiting {
		_ = n.Retry()
		return
	}
	if n.focused == nil {
		n.MoveToValidNode()
		return
	}
	leaf, err := move(n.focused)
	if err != nil {
		n.recover(err)
		return
	}
	n.focus(leaf)
}

func (n *Navigator) recover(err error) {
	if nodes.IsFatal(err) {
		n.enterWaiting(err)
		return
	}
	n.logf("recovering from %v", err)
	n.journal.Warn("recovered: %v", err)
	n.MoveToValidNode()
}

func (n *Navigator) focus(leaf nodes.Leaf) {
	if n.focused != nil && n.focused != leaf {
		n.focused.OnUnfocus()
	}
	n.focused = leaf
	leaf.OnFocus()
	n.journal.Info("focus %s", leaf)
}

// ForceFocusedNode focuses leaf, typically the rebuilt instance of the
// previously focused leaf.
func (n *Navigator) ForceFocusedNode(leaf nodes.Leaf) {
	if leaf == nil || n.waiting {
		return
	}
	n.focus(leaf)
}

// MoveToValidNode focuses the first valid leaf of the current group,
// climbing out of groups that are no longer valid. With nothing valid left
// the desktop is rebuilt.
func (n *Navigator) MoveToValidNode() {
	if n.waiting {
		return
	}
	for {
		if n.group != nil && n.group.IsValidGroup() {
			if c := n.group.FirstValidChild(); c != nil {
				n.focus(c)
				return
			}
		}
		if len(n.history) == 0 {
			n.journal.Warn("nothing valid left, rebuilding desktop")
			_ = n.Start()
			return
		}
		n.popFrame(false)
		if err := n.group.RefreshChildren(); err != nil && nodes.IsFatal(err) {
			n.enterWaiting(err)
			return
		}
	}
}

// EnterGroup drills into the focused leaf.
func (n *Navigator) EnterGroup() {
	if n.focused == nil || n.waiting {
		return
	}
	child, err := n.focused.AsRootNode()
	if err != nil {
		n.recover(err)
		return
	}
	if child == nil {
		n.logf("%s is not a group", n.focused)
		return
	}
	n.push(child)
}

func (n *Navigator) push(child nodes.Group) {
	n.history = append(n.history, frame{group: n.group, focused: n.focused})
	if n.focused != nil {
		n.focused.OnUnfocus()
		n.focused = nil
	}
	if n.group != nil {
		n.group.OnUnfocus()
	}
	n.group = child
	child.OnFocus()
	n.journal.Info("enter %s", child)
	n.MoveToValidNode()
}

// popFrame leaves the current group and returns the leaf that was focused in
// the restored parent.
func (n *Navigator) popFrame(callExit bool) nodes.Leaf {
	cur := n.group
	if callExit {
		cur.OnExit()
	}
	if n.focused != nil {
		n.focused.OnUnfocus()
		n.focused = nil
	}
	cur.OnUnfocus()
	last := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.group = last.group
	n.group.OnFocus()
	n.journal.Info("exit %s", cur)
	return last.focused
}

// restore refreshes the restored parent, which was not listening while a
// child group was focused, and refocuses the leaf the user drilled through.
func (n *Navigator) restore(saved nodes.Leaf) {
	if err := n.group.RefreshChildren(); err != nil {
		if nodes.IsFatal(err) {
			n.enterWaiting(err)
			return
		}
		n.MoveToValidNode()
		return
	}
	if saved != nil {
		if c := n.group.FindChild(nodes.TargetOf(saved)); c != nil && c.IsValidAndVisible() {
			n.focus(c)
			return
		}
	}
	n.MoveToValidNode()
}

// ExitGroupUnconditionally leaves the current group for its parent. At the
// desktop there is nothing to leave.
func (n *Navigator) ExitGroupUnconditionally() {
	if n.waiting || n.group == nil {
		return
	}
	if len(n.history) == 0 {
		n.logf("already at the top level")
		return
	}
	saved := n.popFrame(true)
	n.restore(saved)
}

// EnterKeyboard pushes the on-screen keyboard group.
func (n *Navigator) EnterKeyboard() {
	if n.waiting || n.keyboardPops() > 0 {
		return
	}
	kb, err := nodes.BuildKeyboardTree(n.rt)
	if err != nil {
		n.recover(err)
		return
	}
	n.push(kb)
}

// ExitKeyboard pops the keyboard group and everything entered from it. The
// keyboard is already hidden, so no exit hook runs.
func (n *Navigator) ExitKeyboard() {
	pops := n.keyboardPops()
	if pops <= 0 {
		return
	}
	var saved nodes.Leaf
	for i := 0; i < pops; i++ {
		saved = n.popFrame(false)
	}
	n.restore(saved)
}

// keyboardPops returns how many pops bring the keyboard group off the
// stack, or 0 when it is not on the stack.
func (n *Navigator) keyboardPops() int {
	chain := n.Path()
	for i := len(chain) - 1; i >= 1; i-- {
		if chain[i].Kind() == nodes.KindKeyboardGroup {
			return len(chain) - i
		}
	}
	return 0
}

// CurrentGroupHasChild reports whether leaf belongs to the current group.
func (n *Navigator) CurrentGroupHasChild(leaf nodes.Leaf) bool {
	if n.group == nil || leaf == nil {
		return false
	}
	for _, c := range n.group.Children() {
		if c == leaf || c.Equals(leaf) {
			return true
		}
	}
	return false
}

var _ nodes.Navigator = (*Navigator)(nil)
