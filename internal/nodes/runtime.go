package nodes

import (
	"fmt"
	"time"

	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/platform"
)

const (
	defaultComboBoxExpandDelay = 250 * time.Millisecond
	defaultDictationDelay      = time.Second
)

// Restrictions prune the walk that collects a group's interesting children.
type Restrictions struct {
	// Leaf stops the walk from descending below a node.
	Leaf func(platform.Node) bool
	// Visit selects a node as an interesting child. Selected nodes are never
	// descended into.
	Visit func(platform.Node) bool
}

// Classifier decides which platform nodes are worth scanning. Results are
// never cached across a mutation.
type Classifier interface {
	IsGroup(node platform.Node, scope Group) bool
	IsVisible(node platform.Node) bool
	IsActionable(node platform.Node) bool
	IsInterestingSubtree(node platform.Node) bool
	Restrictions(scope Group) Restrictions
}

// Navigator owns the current focus and group. Items call into it to move focus
// after actions or rebuilds.
type Navigator interface {
	ForceFocusedNode(leaf Leaf)
	MoveToValidNode()
	EnterGroup()
	ExitGroupUnconditionally()
	EnterKeyboard()
	ExitKeyboard()
	CurrentGroupHasChild(leaf Leaf) bool
}

// MenuManager is the slice of the action menu the back button needs.
type MenuManager interface {
	InSubmenu() bool
	ExitSubmenu()
}

// TextNavigator tracks caret and selection state for editable text.
type TextNavigator interface {
	CurrentlySelecting() bool
	SelectionExists(node platform.Node) bool
	ClipboardHasData() bool
	SaveSelectStart(node platform.Node)
	SaveSelectEnd(node platform.Node)
	Move(node platform.Node, kind action.Kind)
	Clipboard(node platform.Node, kind action.Kind)
}

// Scheduler runs fn after d on the same goroutine that drives navigation.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Logger matches logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Runtime carries the collaborators and shared state used by every item.
type Runtime struct {
	Classifier Classifier
	Navigator  Navigator
	Menu       MenuManager
	TextNav    TextNavigator
	Host       platform.Host
	Scheduler  Scheduler
	Logger     Logger
	Registry   *Registry

	// ImprovedTextInput offers caret, selection and clipboard actions on
	// editable text.
	ImprovedTextInput   bool
	ComboBoxExpandDelay time.Duration
	DictationDelay      time.Duration

	BackButton BackButtonState
	Keyboard   KeyboardState
}

// Option customizes Runtime construction.
type Option func(*Runtime)

// WithClassifier sets the classification oracle.
func WithClassifier(c Classifier) Option {
	return func(rt *Runtime) { rt.Classifier = c }
}

// WithNavigator sets the navigator. Navigators usually attach themselves with
// AttachNavigator instead because they need the runtime to be built first.
func WithNavigator(n Navigator) Option {
	return func(rt *Runtime) { rt.Navigator = n }
}

// WithMenu sets the action menu manager.
func WithMenu(m MenuManager) Option {
	return func(rt *Runtime) { rt.Menu = m }
}

// WithTextNavigator sets the text navigation manager.
func WithTextNavigator(t TextNavigator) Option {
	return func(rt *Runtime) { rt.TextNav = t }
}

// WithHost sets the host services.
func WithHost(h platform.Host) Option {
	return func(rt *Runtime) { rt.Host = h }
}

// WithScheduler sets the deferred-task scheduler.
func WithScheduler(s Scheduler) Option {
	return func(rt *Runtime) { rt.Scheduler = s }
}

// WithLogger injects a logger for diagnostics.
func WithLogger(l Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.Logger = l
		}
	}
}

// WithRegistry replaces the default creator/builder registry.
func WithRegistry(r *Registry) Option {
	return func(rt *Runtime) {
		if r != nil {
			rt.Registry = r
		}
	}
}

// WithImprovedTextInput toggles the extended editable text actions.
func WithImprovedTextInput(enabled bool) Option {
	return func(rt *Runtime) { rt.ImprovedTextInput = enabled }
}

// WithComboBoxExpandDelay overrides the delay before drilling into an
// expanded combo box.
func WithComboBoxExpandDelay(d time.Duration) Option {
	return func(rt *Runtime) {
		if d >= 0 {
			rt.ComboBoxExpandDelay = d
		}
	}
}

// WithBackButtonOverride pins the back button location, bypassing discovery.
func WithBackButtonOverride(r platform.Rect) Option {
	return func(rt *Runtime) {
		rect := r
		rt.BackButton.Override = &rect
	}
}

// NewRuntime builds a runtime with the default registry and a no-op logger.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		Logger:              nopLogger{},
		Registry:            DefaultRegistry(),
		ComboBoxExpandDelay: defaultComboBoxExpandDelay,
		DictationDelay:      defaultDictationDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(rt)
		}
	}
	return rt
}

// AttachNavigator installs n as the runtime navigator.
func (rt *Runtime) AttachNavigator(n Navigator) {
	rt.Navigator = n
}

// Validate ensures the collaborators every item relies on are present.
func (rt *Runtime) Validate() error {
	if rt == nil {
		return fmt.Errorf("nodes: runtime is nil")
	}
	if rt.Classifier == nil {
		return fmt.Errorf("nodes: classifier is required")
	}
	if rt.Host == nil {
		return fmt.Errorf("nodes: host is required")
	}
	if rt.Scheduler == nil {
		return fmt.Errorf("nodes: scheduler is required")
	}
	if rt.Registry == nil {
		return fmt.Errorf("nodes: registry is required")
	}
	return nil
}

// Reset clears cached platform handles ahead of a full rebuild.
func (rt *Runtime) Reset() {
	rt.BackButton.reset()
	rt.Keyboard.reset()
}

func (rt *Runtime) logf(format string, args ...any) {
	if rt == nil || rt.Logger == nil {
		return
	}
	rt.Logger.Printf(format, args...)
}

func (rt *Runtime) after(d time.Duration, fn func()) {
	if rt.Scheduler == nil {
		fn()
		return
	}
	rt.Scheduler.After(d, fn)
}
