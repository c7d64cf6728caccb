// Package menu is the action menu shown for the focused leaf. It turns the
// response an item gives after performing an action into the next menu
// state: close, stay, reload, leave a submenu or open text navigation.
package menu

import (
	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/nodes"
)

// PageKind names a menu page.
type PageKind string

const (
	PageMain           PageKind = "main"
	PageTextNavigation PageKind = "text-navigation"
)

// Page is one level of the menu stack.
type Page struct {
	Kind  PageKind
	Items []action.Kind
}

// Journal receives menu transitions.
type Journal interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

type nopJournal struct{}

func (nopJournal) Info(string, ...any) {}
func (nopJournal) Warn(string, ...any) {}

// Manager holds the open menu, if any, for a single leaf.
type Manager struct {
	textNav nodes.TextNavigator
	journal Journal

	leaf  nodes.Leaf
	pages []Page
	last  action.Response
}

// Option customizes a Manager.
type Option func(*Manager)

// WithJournal records menu transitions.
func WithJournal(j Journal) Option {
	return func(m *Manager) {
		if j != nil {
			m.journal = j
		}
	}
}

// WithTextNavigator supplies the selection state the text navigation page
// reads.
func WithTextNavigator(t nodes.TextNavigator) Option {
	return func(m *Manager) { m.textNav = t }
}

// NewManager returns a closed menu.
func NewManager(opts ...Option) *Manager {
	m := &Manager{journal: nopJournal{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open shows the main page for leaf. An item with no actions opens nothing.
func (m *Manager) Open(leaf nodes.Leaf) bool {
	m.Close()
	if leaf == nil {
		return false
	}
	items := leaf.Actions()
	if len(items) == 0 {
		return false
	}
	m.leaf = leaf
	m.pages = []Page{{Kind: PageMain, Items: items}}
	m.journal.Info("menu opened for %s", leaf)
	return true
}

// Close dismisses every page.
func (m *Manager) Close() {
	if m.leaf != nil {
		m.journal.Info("menu closed")
	}
	m.leaf = nil
	m.pages = nil
}

// IsOpen reports whether a menu is showing.
func (m *Manager) IsOpen() bool { return len(m.pages) > 0 }

// Leaf returns the leaf the menu acts on.
func (m *Manager) Leaf() nodes.Leaf { return m.leaf }

// Page returns the visible page.
func (m *Manager) Page() (Page, bool) {
	if len(m.pages) == 0 {
		return Page{}, false
	}
	return m.pages[len(m.pages)-1], true
}

// Items returns the actions on the visible page.
func (m *Manager) Items() []action.Kind {
	p, ok := m.Page()
	if !ok {
		return nil
	}
	return append([]action.Kind(nil), p.Items...)
}

// LastResponse returns the response of the most recent Perform.
func (m *Manager) LastResponse() action.Response { return m.last }

// InSubmenu reports whether a page sits above the main page.
func (m *Manager) InSubmenu() bool { return len(m.pages) > 1 }

// ExitSubmenu returns to the page below the visible one.
func (m *Manager) ExitSubmenu() {
	if !m.InSubmenu() {
		return
	}
	m.pages = m.pages[:len(m.pages)-1]
	m.reload()
	m.journal.Info("submenu closed")
}

// Perform runs kind against the menu's leaf and applies the response. Only
// actions on the visible page are accepted.
func (m *Manager) Perform(kind action.Kind) action.Response {
	if m.leaf == nil || !m.offers(kind) {
		m.last = action.NoActionTaken
		return m.last
	}
	leaf := m.leaf
	resp := leaf.PerformAction(kind)
	m.last = resp
	if m.leaf != leaf {
		// The action reopened or closed the menu through the back button.
		return resp
	}
	switch resp {
	case action.CloseMenu:
		m.Close()
	case action.ReloadMenu, action.RemainOpen:
		m.reload()
	case action.ExitSubmenu:
		m.ExitSubmenu()
	case action.OpenTextNavigationMenu:
		m.pages = append(m.pages, Page{Kind: PageTextNavigation, Items: m.textNavigationItems()})
		m.journal.Info("text navigation opened")
	case action.NoActionTaken:
		m.journal.Warn("%s did nothing for %s", leaf, kind)
	}
	return resp
}

func (m *Manager) offers(kind action.Kind) bool {
	for _, k := range m.Items() {
		if k == kind {
			return true
		}
	}
	return false
}

// reload recomputes the visible page, since the leaf's actions depend on
// live node and selection state. A main page left empty closes the menu.
func (m *Manager) reload() {
	if len(m.pages) == 0 || m.leaf == nil {
		return
	}
	top := &m.pages[len(m.pages)-1]
	switch top.Kind {
	case PageMain:
		top.Items = m.leaf.Actions()
		if len(top.Items) == 0 {
			m.Close()
		}
	case PageTextNavigation:
		top.Items = m.textNavigationItems()
	}
}

func (m *Manager) textNavigationItems() []action.Kind {
	set := action.NewSet(action.TextNavigation()...)
	if m.textNav != nil && m.textNav.CurrentlySelecting() {
		set.Add(action.EndTextSelection)
	}
	return set.Slice()
}

var _ nodes.MenuManager = (*Manager)(nil)
