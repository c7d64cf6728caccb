// Package textnav tracks caret, selection and clipboard state for editable
// text and turns caret actions into synthetic key presses.
package textnav

import (
	"fmt"

	"github.com/kingrea/switchscan/internal/action"
	"github.com/kingrea/switchscan/internal/nodes"
	"github.com/kingrea/switchscan/internal/platform"
)

type keyStroke struct {
	key  platform.Key
	mods platform.Modifier
}

var moves = map[action.Kind]keyStroke{
	action.JumpToBeginningOfText:     {platform.KeyHome, platform.ModCtrl},
	action.JumpToEndOfText:           {platform.KeyEnd, platform.ModCtrl},
	action.MoveBackwardOneCharOfText: {platform.KeyLeft, 0},
	action.MoveForwardOneCharOfText:  {platform.KeyRight, 0},
	action.MoveBackwardOneWordOfText: {platform.KeyLeft, platform.ModCtrl},
	action.MoveForwardOneWordOfText:  {platform.KeyRight, platform.ModCtrl},
	action.MoveUpOneLineOfText:       {platform.KeyUp, 0},
	action.MoveDownOneLineOfText:     {platform.KeyDown, 0},
}

var clipboardKeys = map[action.Kind]platform.Key{
	action.Cut:   platform.KeyX,
	action.Copy:  platform.KeyC,
	action.Paste: platform.KeyV,
}

// Manager implements the text navigator consumed by editable text leaves.
type Manager struct {
	host   platform.Host
	logger nodes.Logger

	selecting  bool
	anchor     platform.Node
	clipboard  bool
	lastAction action.Kind
}

// NewManager returns a manager that sends key presses through host.
func NewManager(host platform.Host, logger nodes.Logger) *Manager {
	return &Manager{host: host, logger: logger}
}

func (m *Manager) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}

// CurrentlySelecting reports whether a selection was started and not ended.
func (m *Manager) CurrentlySelecting() bool { return m.selecting }

// SelectionExists reports whether node has a non-empty selection.
func (m *Manager) SelectionExists(node platform.Node) bool {
	if node == nil {
		return false
	}
	start, end, ok := node.TextSelection()
	return ok && start != end
}

// ClipboardHasData reports whether something was cut or copied.
func (m *Manager) ClipboardHasData() bool { return m.clipboard }

// SaveSelectStart starts extending a selection from the caret in node.
func (m *Manager) SaveSelectStart(node platform.Node) {
	m.selecting = true
	m.anchor = node
	m.logf("textnav: selection started in %s", describe(node))
}

// SaveSelectEnd stops extending the selection.
func (m *Manager) SaveSelectEnd(node platform.Node) {
	if m.selecting && m.anchor != nil && !platform.Same(m.anchor, node) {
		m.logf("textnav: selection ended in %s but started in %s", describe(node), describe(m.anchor))
	}
	m.selecting = false
	m.anchor = nil
}

// Move moves the caret in node; while selecting the selection grows with it.
func (m *Manager) Move(node platform.Node, kind action.Kind) {
	stroke, ok := moves[kind]
	if !ok {
		m.logf("textnav: %s is not a caret move", kind)
		return
	}
	mods := stroke.mods
	if m.selecting {
		mods |= platform.ModShift
	}
	m.lastAction = kind
	m.host.SendKeyPress(stroke.key, mods)
}

// Clipboard runs cut, copy or paste against node.
func (m *Manager) Clipboard(node platform.Node, kind action.Kind) {
	key, ok := clipboardKeys[kind]
	if !ok {
		m.logf("textnav: %s is not a clipboard action", kind)
		return
	}
	if kind != action.Paste && !m.SelectionExists(node) {
		m.logf("textnav: %s with nothing selected in %s", kind, describe(node))
		return
	}
	m.lastAction = kind
	m.host.SendKeyPress(key, platform.ModCtrl)
	if kind != action.Paste {
		m.clipboard = true
	}
}

// LastAction returns the most recent caret or clipboard action sent.
func (m *Manager) LastAction() action.Kind { return m.lastAction }

// Reset forgets selection state; the clipboard survives.
func (m *Manager) Reset() {
	m.selecting = false
	m.anchor = nil
}

func describe(n platform.Node) string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", n.Role(), n.ID())
}

var _ nodes.TextNavigator = (*Manager)(nil)
