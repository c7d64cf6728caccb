// Package platform describes the live accessibility tree this module reads
// from. The tree is owned by the host UI: nodes mutate out-of-band and report
// those mutations through change notifications. Scanning code only reads node
// attributes and issues the small set of commands declared on Node.
package platform

// Role is the accessibility role of a node.
type Role string

const (
	RoleUnknown          Role = "unknown"
	RoleDesktop          Role = "desktop"
	RoleWindow           Role = "window"
	RoleDialog           Role = "dialog"
	RoleAlertDialog      Role = "alert-dialog"
	RoleRootWebArea      Role = "root-web-area"
	RoleGroup            Role = "group"
	RoleGenericContainer Role = "generic-container"
	RolePane             Role = "pane"
	RoleToolbar          Role = "toolbar"
	RoleList             Role = "list"
	RoleListItem         Role = "list-item"
	RoleMenu             Role = "menu"
	RoleMenuItem         Role = "menu-item"
	RoleButton           Role = "button"
	RoleLink             Role = "link"
	RoleCheckBox         Role = "check-box"
	RoleTextField        Role = "text-field"
	RoleSearchBox        Role = "search-box"
	RoleSlider           Role = "slider"
	RoleComboBoxSelect   Role = "combo-box-select"
	RoleComboBoxGrouping Role = "combo-box-grouping"
	RolePopUpButton      Role = "pop-up-button"
	RoleTab              Role = "tab"
	RoleTabList          Role = "tab-list"
	RoleKeyboard         Role = "keyboard"
	RoleScrollView       Role = "scroll-view"
	RoleStaticText       Role = "static-text"
	RoleImage            Role = "image"
)

// State is a bit set of node state flags.
type State uint32

const (
	StateInvisible State = 1 << iota
	StateOffscreen
	StateFocusable
	StateFocused
	StateClickable
	StateEditable
	StateExpanded
	StateCollapsed
	StateModal
	StateDisabled
)

var stateNames = []struct {
	flag State
	name string
}{
	{StateInvisible, "invisible"},
	{StateOffscreen, "offscreen"},
	{StateFocusable, "focusable"},
	{StateFocused, "focused"},
	{StateClickable, "clickable"},
	{StateEditable, "editable"},
	{StateExpanded, "expanded"},
	{StateCollapsed, "collapsed"},
	{StateModal, "modal"},
	{StateDisabled, "disabled"},
}

// Has reports whether every flag in f is set.
func (s State) Has(f State) bool { return s&f == f }

// Names returns the state flags as strings in a stable order.
func (s State) Names() []string {
	var names []string
	for _, entry := range stateNames {
		if s.Has(entry.flag) {
			names = append(names, entry.name)
		}
	}
	return names
}

// ParseState maps a flag name to its State bit.
func ParseState(name string) (State, bool) {
	for _, entry := range stateNames {
		if entry.name == name {
			return entry.flag, true
		}
	}
	return 0, false
}

// ScrollInfo carries the scroll extents of a scrollable node.
type ScrollInfo struct {
	Scrollable bool `yaml:"scrollable"`
	X          int  `yaml:"x"`
	XMin       int  `yaml:"x_min"`
	XMax       int  `yaml:"x_max"`
	Y          int  `yaml:"y"`
	YMin       int  `yaml:"y_min"`
	YMax       int  `yaml:"y_max"`
}

// CanScrollUp and friends report whether scrolling in a direction would move
// the content.
func (s ScrollInfo) CanScrollUp() bool    { return s.Scrollable && s.Y > s.YMin }
func (s ScrollInfo) CanScrollDown() bool  { return s.Scrollable && s.Y < s.YMax }
func (s ScrollInfo) CanScrollLeft() bool  { return s.Scrollable && s.X > s.XMin }
func (s ScrollInfo) CanScrollRight() bool { return s.Scrollable && s.X < s.XMax }

// StandardAction is an action advertised by the platform for a node.
type StandardAction string

// ChangeKind names a mutation notification.
type ChangeKind string

const (
	ChildrenChanged ChangeKind = "children-changed"
	LocationChanged ChangeKind = "location-changed"
	StateChanged    ChangeKind = "state-changed"
	Clicked         ChangeKind = "clicked"
)

// Change is delivered to listeners of the target node and of every ancestor.
type Change struct {
	Target Node
	Kind   ChangeKind
}

// Listener receives change notifications.
type Listener func(Change)

// Node is a read-mostly handle on a platform accessibility node.
type Node interface {
	ID() string
	Role() Role
	Name() string
	// Location returns false when the node has no on-screen bounds.
	Location() (Rect, bool)
	// Parent returns nil for the tree root.
	Parent() Node
	Children() []Node
	State() State
	ScrollState() ScrollInfo
	StandardActions() []StandardAction
	// Attached reports whether the node is still part of the live tree.
	Attached() bool
	// TextSelection returns the caret/selection offsets of editable text.
	TextSelection() (start, end int, ok bool)

	Focus()
	DoDefault()
	ScrollUp()
	ScrollDown()
	ScrollLeft()
	ScrollRight()
	PerformStandardAction(StandardAction)

	// Subscribe registers fn for changes on this node or its descendants.
	Subscribe(fn Listener) (cancel func())
}

// Same reports whether a and b denote the same platform node.
func Same(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	idA, idB := a.ID(), b.ID()
	return idA != "" && idA == idB
}

// IsAncestor reports whether ancestor is a strict ancestor of n.
func IsAncestor(ancestor, n Node) bool {
	if ancestor == nil || n == nil {
		return false
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if Same(p, ancestor) {
			return true
		}
	}
	return false
}

// FindAncestor walks up from n (inclusive) and returns the first node for
// which match reports true.
func FindAncestor(n Node, match func(Node) bool) Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if match(cur) {
			return cur
		}
	}
	return nil
}

// IsTopLevel reports whether n belongs to the host's own UI rather than to
// web content.
func IsTopLevel(n Node) bool {
	return FindAncestor(n, func(c Node) bool { return c.Role() == RoleRootWebArea }) == nil
}

// Key identifies a synthetic key press sent through the Host.
type Key string

const (
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
	KeyHome   Key = "home"
	KeyEnd    Key = "end"
	KeyEscape Key = "escape"
	KeyX      Key = "x"
	KeyC      Key = "c"
	KeyV      Key = "v"
)

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
)

// Host exposes the system services that are not attached to a single node.
type Host interface {
	SendKeyPress(key Key, mods Modifier)
	ToggleDictation()
	SetVirtualKeyboardVisible(visible bool)
	// VirtualKeyboard returns nil when the keyboard is not in the tree.
	VirtualKeyboard() Node
	// BackButton returns nil until the host renders its back affordance.
	BackButton() Node
}
