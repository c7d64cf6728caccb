package platform

import (
	"fmt"
	"sort"
)

// Command records a command issued against a MemNode or the MemTree host.
type Command struct {
	NodeID string
	Name   string
	Arg    string
}

// KeyPress records a synthetic key press sent through the host.
type KeyPress struct {
	Key  Key
	Mods Modifier
}

// MemTree is an in-memory platform tree. Mutations deliver notifications
// synchronously on the calling goroutine, which keeps callers single-threaded
// the same way a real accessibility event loop does.
type MemTree struct {
	root     *MemNode
	byID     map[string]*MemNode
	commands []Command
	keys     []KeyPress

	dictationToggles int
	keyboardID       string
	backButtonID     string
	scrollStep       int
}

// NodeSpec describes a node to insert into a MemTree.
type NodeSpec struct {
	ID       string
	Role     Role
	Name     string
	Location *Rect
	State    State
	Scroll   ScrollInfo
	Actions  []StandardAction
	Children []NodeSpec
}

// NewMemTree builds a tree from spec. Node IDs must be unique.
func NewMemTree(spec NodeSpec) (*MemTree, error) {
	t := &MemTree{byID: map[string]*MemNode{}, scrollStep: 100}
	root, err := t.build(spec, nil)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func (t *MemTree) build(spec NodeSpec, parent *MemNode) (*MemNode, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("platform: node id is required (role %s)", spec.Role)
	}
	if _, exists := t.byID[spec.ID]; exists {
		return nil, fmt.Errorf("platform: duplicate node id %s", spec.ID)
	}
	n := &MemNode{tree: t, parent: parent}
	n.apply(spec)
	t.byID[spec.ID] = n
	for _, child := range spec.Children {
		c, err := t.build(child, n)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, c)
	}
	return n, nil
}

// Root returns the tree root.
func (t *MemTree) Root() *MemNode { return t.root }

// Node looks up a node by ID.
func (t *MemTree) Node(id string) (*MemNode, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// MustNode looks up a node by ID and panics if it is missing. Intended for
// tests and fixtures.
func (t *MemTree) MustNode(id string) *MemNode {
	n, ok := t.byID[id]
	if !ok {
		panic(fmt.Sprintf("platform: unknown node %s", id))
	}
	return n
}

// IDs returns every attached node ID, sorted.
func (t *MemTree) IDs() []string {
	ids := make([]string, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Commands returns the commands issued so far.
func (t *MemTree) Commands() []Command {
	out := make([]Command, len(t.commands))
	copy(out, t.commands)
	return out
}

// KeyPresses returns the synthetic key presses sent so far.
func (t *MemTree) KeyPresses() []KeyPress {
	out := make([]KeyPress, len(t.keys))
	copy(out, t.keys)
	return out
}

// DictationToggles returns how many times dictation was toggled.
func (t *MemTree) DictationToggles() int { return t.dictationToggles }

// SetVirtualKeyboard designates the node that acts as the on-screen keyboard.
func (t *MemTree) SetVirtualKeyboard(id string) { t.keyboardID = id }

// SetBackButton designates the node rendered as the host back affordance.
func (t *MemTree) SetBackButton(id string) { t.backButtonID = id }

func (t *MemTree) record(n *MemNode, name, arg string) {
	id := ""
	if n != nil {
		id = n.id
	}
	t.commands = append(t.commands, Command{NodeID: id, Name: name, Arg: arg})
}

// SendKeyPress implements Host.
func (t *MemTree) SendKeyPress(key Key, mods Modifier) {
	t.keys = append(t.keys, KeyPress{Key: key, Mods: mods})
}

// ToggleDictation implements Host.
func (t *MemTree) ToggleDictation() {
	t.dictationToggles++
	t.record(nil, "toggle-dictation", "")
}

// SetVirtualKeyboardVisible implements Host by flipping the invisible flag of
// the designated keyboard node.
func (t *MemTree) SetVirtualKeyboardVisible(visible bool) {
	t.record(nil, "set-keyboard-visible", fmt.Sprint(visible))
	kb, ok := t.byID[t.keyboardID]
	if !ok {
		return
	}
	state := kb.state
	if visible {
		state &^= StateInvisible
	} else {
		state |= StateInvisible
	}
	t.SetState(kb, state)
}

// VirtualKeyboard implements Host.
func (t *MemTree) VirtualKeyboard() Node {
	if kb, ok := t.byID[t.keyboardID]; ok {
		return kb
	}
	return nil
}

// BackButton implements Host.
func (t *MemTree) BackButton() Node {
	if bb, ok := t.byID[t.backButtonID]; ok {
		return bb
	}
	return nil
}

// AddChild inserts spec as the last child of parent and notifies listeners.
func (t *MemTree) AddChild(parent *MemNode, spec NodeSpec) (*MemNode, error) {
	n, err := t.build(spec, parent)
	if err != nil {
		return nil, err
	}
	parent.children = append(parent.children, n)
	parent.emit(ChildrenChanged)
	return n, nil
}

// Remove detaches n and its subtree from the tree and notifies listeners of
// the former parent.
func (t *MemTree) Remove(n *MemNode) {
	parent := n.parent
	if parent == nil {
		return
	}
	for i, c := range parent.children {
		if c == n {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	t.detach(n)
	parent.emit(ChildrenChanged)
}

func (t *MemTree) detach(n *MemNode) {
	n.detached = true
	delete(t.byID, n.id)
	for _, c := range n.children {
		t.detach(c)
	}
}

// SetLocation moves n. A nil rect removes the node's bounds.
func (t *MemTree) SetLocation(n *MemNode, r *Rect) {
	n.location = copyRect(r)
	n.emit(LocationChanged)
}

// SetState replaces the state flags of n.
func (t *MemTree) SetState(n *MemNode, s State) {
	if n.state == s {
		return
	}
	n.state = s
	n.emit(StateChanged)
}

// SetScroll replaces the scroll extents of n.
func (t *MemTree) SetScroll(n *MemNode, s ScrollInfo) {
	n.scroll = s
	n.emit(StateChanged)
}

// SetTextSelection sets the selection offsets reported for editable text.
func (t *MemTree) SetTextSelection(n *MemNode, start, end int) {
	n.selStart, n.selEnd, n.hasSel = start, end, true
	n.emit(StateChanged)
}

// MemNode is a node of a MemTree.
type MemNode struct {
	tree     *MemTree
	id       string
	role     Role
	name     string
	location *Rect
	state    State
	scroll   ScrollInfo
	actions  []StandardAction
	parent   *MemNode
	children []*MemNode
	detached bool

	selStart, selEnd int
	hasSel           bool

	listeners    map[int]Listener
	nextListener int
}

func (n *MemNode) apply(spec NodeSpec) {
	n.id = spec.ID
	n.role = spec.Role
	if n.role == "" {
		n.role = RoleUnknown
	}
	n.name = spec.Name
	n.location = copyRect(spec.Location)
	n.state = spec.State
	n.scroll = spec.Scroll
	n.actions = append([]StandardAction(nil), spec.Actions...)
}

func copyRect(r *Rect) *Rect {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func (n *MemNode) ID() string   { return n.id }
func (n *MemNode) Role() Role   { return n.role }
func (n *MemNode) Name() string { return n.name }

func (n *MemNode) Location() (Rect, bool) {
	if n.location == nil || n.detached {
		return Rect{}, false
	}
	return *n.location, true
}

func (n *MemNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *MemNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *MemNode) State() State            { return n.state }
func (n *MemNode) ScrollState() ScrollInfo { return n.scroll }
func (n *MemNode) Attached() bool          { return !n.detached }

func (n *MemNode) StandardActions() []StandardAction {
	return append([]StandardAction(nil), n.actions...)
}

func (n *MemNode) TextSelection() (int, int, bool) {
	return n.selStart, n.selEnd, n.hasSel
}

func (n *MemNode) Focus() {
	n.tree.record(n, "focus", "")
	if n.state.Has(StateFocused) {
		return
	}
	n.state |= StateFocused
	n.emit(StateChanged)
}

// DoDefault records the command and emits a click notification.
func (n *MemNode) DoDefault() {
	n.tree.record(n, "do-default", "")
	n.emit(Clicked)
}

func (n *MemNode) ScrollUp() {
	n.tree.record(n, "scroll-up", "")
	n.scroll.Y = max(n.scroll.YMin, n.scroll.Y-n.tree.scrollStep)
	n.emit(StateChanged)
}

func (n *MemNode) ScrollDown() {
	n.tree.record(n, "scroll-down", "")
	n.scroll.Y = min(n.scroll.YMax, n.scroll.Y+n.tree.scrollStep)
	n.emit(StateChanged)
}

func (n *MemNode) ScrollLeft() {
	n.tree.record(n, "scroll-left", "")
	n.scroll.X = max(n.scroll.XMin, n.scroll.X-n.tree.scrollStep)
	n.emit(StateChanged)
}

func (n *MemNode) ScrollRight() {
	n.tree.record(n, "scroll-right", "")
	n.scroll.X = min(n.scroll.XMax, n.scroll.X+n.tree.scrollStep)
	n.emit(StateChanged)
}

func (n *MemNode) PerformStandardAction(a StandardAction) {
	n.tree.record(n, "standard-action", string(a))
}

func (n *MemNode) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	if n.listeners == nil {
		n.listeners = map[int]Listener{}
	}
	id := n.nextListener
	n.nextListener++
	n.listeners[id] = fn
	return func() { delete(n.listeners, id) }
}

// ListenerCount returns how many listeners are registered directly on n.
func (n *MemNode) ListenerCount() int { return len(n.listeners) }

// emit delivers a change to n and every ancestor, nearest first.
func (n *MemNode) emit(kind ChangeKind) {
	change := Change{Target: n, Kind: kind}
	for cur := n; cur != nil; cur = cur.parent {
		if len(cur.listeners) == 0 {
			continue
		}
		ids := make([]int, 0, len(cur.listeners))
		for id := range cur.listeners {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			if fn, ok := cur.listeners[id]; ok {
				fn(change)
			}
		}
	}
}

func (n *MemNode) String() string {
	return fmt.Sprintf("%s#%s", n.role, n.id)
}
