// Package action defines the closed vocabularies exchanged between scannable
// items and the menu that drives them: the actions an item can perform and the
// responses an item gives back after performing one.
package action

// Kind identifies an action a scannable item can perform.
type Kind string

const (
	Select      Kind = "select"
	DrillDown   Kind = "drill-down"
	ScrollUp    Kind = "scroll-up"
	ScrollDown  Kind = "scroll-down"
	ScrollLeft  Kind = "scroll-left"
	ScrollRight Kind = "scroll-right"
	Increment   Kind = "increment"
	Decrement   Kind = "decrement"
	Keyboard    Kind = "keyboard"
	Dictation   Kind = "dictation"

	Cut   Kind = "cut"
	Copy  Kind = "copy"
	Paste Kind = "paste"

	StartTextSelection Kind = "start-text-selection"
	EndTextSelection   Kind = "end-text-selection"
	MoveCursor         Kind = "move-cursor"

	JumpToBeginningOfText     Kind = "jump-to-beginning-of-text"
	JumpToEndOfText           Kind = "jump-to-end-of-text"
	MoveBackwardOneCharOfText Kind = "move-backward-one-char-of-text"
	MoveForwardOneCharOfText  Kind = "move-forward-one-char-of-text"
	MoveBackwardOneWordOfText Kind = "move-backward-one-word-of-text"
	MoveForwardOneWordOfText  Kind = "move-forward-one-word-of-text"
	MoveUpOneLineOfText       Kind = "move-up-one-line-of-text"
	MoveDownOneLineOfText     Kind = "move-down-one-line-of-text"

	// Platform standard actions that are forwarded verbatim.
	ShowContextMenu Kind = "show-context-menu"
	LongClick       Kind = "long-click"
)

var known = map[Kind]struct{}{}

// All returns every recognized action in declaration order.
func All() []Kind {
	return []Kind{
		Select, DrillDown,
		ScrollUp, ScrollDown, ScrollLeft, ScrollRight,
		Increment, Decrement,
		Keyboard, Dictation,
		Cut, Copy, Paste,
		StartTextSelection, EndTextSelection, MoveCursor,
		JumpToBeginningOfText, JumpToEndOfText,
		MoveBackwardOneCharOfText, MoveForwardOneCharOfText,
		MoveBackwardOneWordOfText, MoveForwardOneWordOfText,
		MoveUpOneLineOfText, MoveDownOneLineOfText,
		ShowContextMenu, LongClick,
	}
}

func init() {
	for _, k := range All() {
		known[k] = struct{}{}
	}
}

// IsKnown reports whether k is part of the recognized action vocabulary.
func IsKnown(k Kind) bool {
	_, ok := known[k]
	return ok
}

// IsScroll reports whether k is one of the four scroll directions.
func (k Kind) IsScroll() bool {
	switch k {
	case ScrollUp, ScrollDown, ScrollLeft, ScrollRight:
		return true
	}
	return false
}

// IsTextNavigation reports whether k moves the caret inside editable text.
func (k Kind) IsTextNavigation() bool {
	switch k {
	case JumpToBeginningOfText, JumpToEndOfText,
		MoveBackwardOneCharOfText, MoveForwardOneCharOfText,
		MoveBackwardOneWordOfText, MoveForwardOneWordOfText,
		MoveUpOneLineOfText, MoveDownOneLineOfText:
		return true
	}
	return false
}

// TextNavigation lists the caret movement actions offered by the text
// navigation submenu, in menu order.
func TextNavigation() []Kind {
	return []Kind{
		JumpToBeginningOfText, JumpToEndOfText,
		MoveBackwardOneCharOfText, MoveForwardOneCharOfText,
		MoveBackwardOneWordOfText, MoveForwardOneWordOfText,
		MoveUpOneLineOfText, MoveDownOneLineOfText,
	}
}

// Response tells the menu what to do after an item performed an action.
type Response string

const (
	CloseMenu              Response = "close-menu"
	RemainOpen             Response = "remain-open"
	ReloadMenu             Response = "reload-menu"
	ExitSubmenu            Response = "exit-submenu"
	OpenTextNavigationMenu Response = "open-text-navigation-menu"
	NoActionTaken          Response = "no-action-taken"
)
