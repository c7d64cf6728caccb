// internal/tui/app.go
//
// The switch-scanning simulator. It scans a fixture tree the way a switch
// user would: one switch moves focus, another opens the action menu for the
// focused item and performs the highlighted action. It uses bubbletea, which
// follows The Elm Architecture:
//
// 1. Model: the navigator, the menu, and the live platform tree
// 2. Update: switch presses, timer ticks and tree mutations
// 3. View: the current group with the focus ring, the menu, and the journal

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/classify"
	"github.com/kingrea/switchscan/internal/config"
	"github.com/kingrea/switchscan/internal/logbook"
	"github.com/kingrea/switchscan/internal/menu"
	"github.com/kingrea/switchscan/internal/navigator"
	"github.com/kingrea/switchscan/internal/nodes"
	"github.com/kingrea/switchscan/internal/platform"
	"github.com/kingrea/switchscan/internal/schedule"
	"github.com/kingrea/switchscan/internal/switchbridge"
	"github.com/kingrea/switchscan/internal/textnav"
	"github.com/kingrea/switchscan/plugins"
)

const tickInterval = 50 * time.Millisecond

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger routes core diagnostics to logger.
func WithLogger(logger nodes.Logger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithClock overrides the clock behind deferred actions.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}

// WithJournal replaces the on-disk navigation journal.
func WithJournal(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		if lb != nil {
			a.logbook = lb
		}
	}
}

type tickMsg time.Time

type autoScanMsg struct {
	generation int
}

// SwitchMsg carries a press from external switch hardware.
type SwitchMsg struct {
	Switch switchbridge.Switch
}

// actionItem implements list.Item for menu entries.
type actionItem struct {
	kind action.Kind
}

func (i actionItem) Title() string       { return humanizeAction(i.kind) }
func (i actionItem) Description() string { return string(i.kind) }
func (i actionItem) FilterValue() string { return string(i.kind) }

// App is the simulator model.
type App struct {
	config  *config.Config
	tree    *platform.MemTree
	rt      *nodes.Runtime
	nav     *navigator.Navigator
	menu    *menu.Manager
	queue   *schedule.Queue
	logbook *logbook.Logbook
	logger  nodes.Logger
	now     func() time.Time
	rules   int

	keys       keyMap
	help       help.Model
	actionList list.Model

	autoScan   bool
	generation int

	// menuLeaf and menuDepth detect a new menu page so the highlight resets.
	menuLeaf  nodes.Leaf
	menuDepth int

	statusMsg string
	err       error

	width  int
	height int
}

// NewApp loads the project's config, fixture and rule plugins and starts
// scanning the fixture's desktop.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	fx, err := platform.LoadFixture(cfg.FixturePath())
	if err != nil {
		return nil, err
	}
	tree, err := fx.Tree()
	if err != nil {
		return nil, err
	}

	actionList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	actionList.Title = "Actions"
	actionList.SetShowStatusBar(false)
	actionList.SetFilteringEnabled(false)
	actionList.SetShowHelp(false)

	app := &App{
		config:     cfg,
		tree:       tree,
		now:        time.Now,
		keys:       defaultKeyMap(),
		help:       help.New(),
		actionList: actionList,
		autoScan:   cfg.Project.Scan.AutoScan,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.logbook == nil {
		lb, err := logbook.New(filepath.Join(cfg.LogsDir(), "navigation.log"))
		if err != nil {
			return nil, err
		}
		app.logbook = lb
	}

	policy, err := classify.NewPolicy()
	if err != nil {
		return nil, err
	}
	if app.rules, err = plugins.RegisterClassificationRules(policy, cfg); err != nil {
		return nil, err
	}

	app.queue = schedule.NewQueue(schedule.WithClock(app.now))
	textNav := textnav.NewManager(tree, app.logger)
	app.menu = menu.NewManager(menu.WithTextNavigator(textNav), menu.WithJournal(app.logbook))
	runtimeOpts := []nodes.Option{
		nodes.WithClassifier(policy),
		nodes.WithHost(tree),
		nodes.WithMenu(app.menu),
		nodes.WithTextNavigator(textNav),
		nodes.WithScheduler(app.queue),
		nodes.WithImprovedTextInput(cfg.Project.TextInput.Improved),
		nodes.WithComboBoxExpandDelay(cfg.ComboBoxExpandDelay()),
	}
	if app.logger != nil {
		runtimeOpts = append(runtimeOpts, nodes.WithLogger(app.logger))
	}
	if r := cfg.Project.BackButton.Override; r != nil {
		runtimeOpts = append(runtimeOpts, nodes.WithBackButtonOverride(platform.Rect{Left: r.X, Top: r.Y, Width: r.Width, Height: r.Height}))
	}
	app.rt = nodes.NewRuntime(runtimeOpts...)
	app.nav = navigator.New(app.rt, func() platform.Node { return tree.Root() }, navigator.WithJournal(app.logbook))

	app.logInfo("Session opened · %d classification rules", app.rules)
	if err := app.nav.Start(); err != nil {
		app.err = err
	}
	return app, nil
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.scheduleTick()}
	if a.autoScan {
		cmds = append(cmds, a.scheduleAutoScan())
	}
	return tea.Batch(cmds...)
}

func (a *App) scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) scheduleAutoScan() tea.Cmd {
	gen := a.generation
	return tea.Tick(a.config.ScanInterval(), func(time.Time) tea.Msg {
		return autoScanMsg{generation: gen}
	})
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.actionList.SetSize(max(20, msg.Width/3), max(5, msg.Height-12))
		return a, nil

	case tickMsg:
		if ran := a.queue.RunDue(); ran > 0 {
			a.syncMenu()
		}
		return a, a.scheduleTick()

	case autoScanMsg:
		if !a.autoScan || msg.generation != a.generation {
			return a, nil
		}
		if !a.menu.IsOpen() {
			a.nav.Next()
		}
		return a, a.scheduleAutoScan()

	case SwitchMsg:
		a.err = nil
		a.press(msg.Switch)
		a.syncMenu()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

// press applies one scanning switch.
func (a *App) press(sw switchbridge.Switch) {
	switch sw {
	case switchbridge.SwitchNext:
		a.menu.Close()
		a.nav.Next()
	case switchbridge.SwitchPrevious:
		a.menu.Close()
		a.nav.Previous()
	case switchbridge.SwitchSelect:
		a.selectPressed()
	case switchbridge.SwitchBack:
		a.backPressed()
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.err = nil
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.Next):
		a.press(switchbridge.SwitchNext)
	case key.Matches(msg, a.keys.Previous):
		a.press(switchbridge.SwitchPrevious)
	case key.Matches(msg, a.keys.Select):
		a.press(switchbridge.SwitchSelect)
	case key.Matches(msg, a.keys.Back):
		a.press(switchbridge.SwitchBack)
	case key.Matches(msg, a.keys.Up), key.Matches(msg, a.keys.Down):
		if a.menu.IsOpen() {
			var cmd tea.Cmd
			a.actionList, cmd = a.actionList.Update(msg)
			return a, cmd
		}
	case key.Matches(msg, a.keys.AutoScan):
		return a, a.toggleAutoScan()
	case key.Matches(msg, a.keys.Keyboard):
		a.toggleHostKeyboard()
	case key.Matches(msg, a.keys.Reload):
		a.reloadFixture()
	case key.Matches(msg, a.keys.Delete):
		a.deleteFocused()
	}
	a.syncMenu()
	return a, nil
}

// selectPressed opens the menu for the focused item, or performs the
// highlighted action when the menu is already open.
func (a *App) selectPressed() {
	if a.nav.Waiting() {
		if err := a.nav.Retry(); err != nil {
			a.err = err
		}
		return
	}
	if !a.menu.IsOpen() {
		if !a.menu.Open(a.nav.Focused()) {
			a.statusMsg = "Nothing to do here"
		}
		return
	}
	item, ok := a.actionList.SelectedItem().(actionItem)
	if !ok {
		return
	}
	resp := a.menu.Perform(item.kind)
	a.statusMsg = fmt.Sprintf("%s → %s", humanizeAction(item.kind), resp)
}

// backPressed behaves like the back button: leave a submenu, then the menu,
// then the current group.
func (a *App) backPressed() {
	switch {
	case a.menu.InSubmenu():
		a.menu.ExitSubmenu()
	case a.menu.IsOpen():
		a.menu.Close()
	default:
		a.nav.ExitGroupUnconditionally()
	}
}

func (a *App) toggleAutoScan() tea.Cmd {
	a.autoScan = !a.autoScan
	a.generation++
	if err := a.config.SetAutoScan(a.autoScan); err != nil {
		a.err = err
		a.logWarn("Auto-scan setting not saved: %v", err)
	}
	if !a.autoScan {
		a.statusMsg = "Auto-scan off"
		return nil
	}
	a.statusMsg = fmt.Sprintf("Auto-scan every %s", a.config.ScanInterval())
	return a.scheduleAutoScan()
}

// toggleHostKeyboard shows or hides the on-screen keyboard from the host's
// side, as if the platform did it on its own.
func (a *App) toggleHostKeyboard() {
	kb := a.tree.VirtualKeyboard()
	if kb == nil {
		a.statusMsg = "Fixture has no keyboard"
		return
	}
	show := kb.State().Has(platform.StateInvisible)
	a.tree.SetVirtualKeyboardVisible(show)
}

func (a *App) reloadFixture() {
	fx, err := platform.LoadFixture(a.config.FixturePath())
	if err != nil {
		a.err = err
		return
	}
	if err := a.tree.Sync(fx); err != nil {
		a.err = err
		return
	}
	a.statusMsg = "Tree reloaded"
	a.logInfo("Fixture reloaded from %s", a.config.FixturePath())
}

func (a *App) deleteFocused() {
	focused := a.nav.Focused()
	if focused == nil {
		return
	}
	node := focused.AutomationNode()
	if node == nil || focused.Kind() == nodes.KindBackButton {
		a.statusMsg = "Focused item has no node to delete"
		return
	}
	mem, ok := a.tree.Node(node.ID())
	if !ok || mem == a.tree.Root() {
		return
	}
	a.menu.Close()
	a.tree.Remove(mem)
	a.statusMsg = fmt.Sprintf("Deleted %s", node.ID())
}

// syncMenu mirrors the menu manager's visible page into the list.
func (a *App) syncMenu() {
	if !a.menu.IsOpen() {
		a.actionList.SetItems(nil)
		a.menuLeaf, a.menuDepth = nil, 0
		return
	}
	kinds := a.menu.Items()
	items := make([]list.Item, len(kinds))
	for i, k := range kinds {
		items[i] = actionItem{kind: k}
	}
	selected := a.actionList.Index()
	depth := 1
	if a.menu.InSubmenu() {
		depth = 2
	}
	if a.menu.Leaf() != a.menuLeaf || depth != a.menuDepth {
		a.menuLeaf, a.menuDepth = a.menu.Leaf(), depth
		selected = 0
	}
	a.actionList.SetItems(items)
	if selected >= len(items) {
		selected = 0
	}
	a.actionList.Select(selected)
	if page, ok := a.menu.Page(); ok && page.Kind == menu.PageTextNavigation {
		a.actionList.Title = "Text navigation"
	} else {
		a.actionList.Title = "Actions"
	}
}

// View renders the simulator.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(32, width/3)
	leftWidth := max(20, width-rightWidth-4)

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ SWITCHSCAN")

	left := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(leftWidth).
		Render(a.renderGroup())

	var right []string
	if a.menu.IsOpen() {
		right = append(right, a.actionList.View())
	}
	if panel := a.renderLogPanel(); panel != "" {
		right = append(right, panel)
	}
	body := left
	if len(right) > 0 {
		rightBox := lipgloss.NewStyle().Width(rightWidth).Render(lipgloss.JoinVertical(lipgloss.Left, right...))
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, rightBox)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, a.renderStatusLine(), a.help.View(a.keys))
}

var (
	focusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#5B8DEF"))
	itemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#DDDDDD"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

func (a *App) renderGroup() string {
	if a.nav.Waiting() {
		return errorStyle.Render(fmt.Sprintf("Waiting: %v\nPress enter to retry.", a.nav.LastError()))
	}
	group := a.nav.Group()
	if group == nil {
		return dimStyle.Render("Nothing to scan")
	}
	var crumbs []string
	for _, g := range a.nav.Path() {
		crumbs = append(crumbs, itemLabel(g))
	}
	lines := []string{dimStyle.Render(strings.Join(crumbs, " › ")), ""}
	focused := a.nav.Focused()
	for _, child := range group.Children() {
		if child == nil {
			continue
		}
		line := fmt.Sprintf("%s  %s", itemLabel(child), dimStyle.Render(describeItem(child)))
		if child == focused {
			lines = append(lines, focusStyle.Render("▸ "+itemLabel(child))+"  "+dimStyle.Render(describeItem(child)))
			continue
		}
		lines = append(lines, itemStyle.Render("  "+line))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, _ := a.logbook.Tail(8)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "journal"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderStatusLine() string {
	scan := "manual"
	if a.autoScan {
		scan = "auto " + a.config.ScanInterval().String()
	}
	status := fmt.Sprintf("depth %d · scan %s · pending %d", a.nav.Depth(), scan, a.queue.Pending())
	if a.statusMsg != "" {
		status += " · " + a.statusMsg
	}
	if a.err != nil {
		return errorStyle.Render(status + " · " + a.err.Error())
	}
	return dimStyle.Render(status)
}

// itemLabel names an item for display.
func itemLabel(i nodes.Item) string {
	if i.Kind() == nodes.KindBackButton {
		return "← Back"
	}
	if s, ok := i.(*nodes.SyntheticGroupLeaf); ok {
		var names []string
		for _, m := range s.Members() {
			names = append(names, itemLabel(m))
		}
		return "Row: " + strings.Join(names, " ")
	}
	if n := i.AutomationNode(); n != nil {
		if name := strings.TrimSpace(n.Name()); name != "" {
			return name
		}
		return n.ID()
	}
	return i.String()
}

func describeItem(i nodes.Item) string {
	parts := []string{string(i.Kind())}
	if r, ok := i.Location(); ok {
		parts = append(parts, r.String())
	}
	if l, ok := i.(nodes.Leaf); ok && l.IsGroup() {
		parts = append(parts, "group")
	}
	return strings.Join(parts, " · ")
}

func humanizeAction(k action.Kind) string {
	words := strings.Split(string(k), "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		if i == 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// DebugTree dumps the current group, or the waiting error.
func (a *App) DebugTree() string {
	if a.nav.Waiting() {
		return fmt.Sprintf("waiting: %v\n", a.nav.LastError())
	}
	if g := a.nav.Group(); g != nil {
		return nodes.DebugString(g)
	}
	return ""
}

// Config returns the loaded project configuration.
func (a *App) Config() *config.Config {
	return a.config
}
