package tui

import (
	"time"

	"upkeep/internal/config"
)

// MenuItem is one entry of the tray menu.
type MenuItem int

const (
	ItemCheck MenuItem = iota
	ItemInstall
	ItemConsole
	ItemExit
)

// Label returns the text shown for the item.
func (i MenuItem) Label() string {
	switch i {
	case ItemCheck:
		return "Check for Upgrades Now"
	case ItemInstall:
		return "Install Upgrades"
	case ItemConsole:
		return "Open WinGet Console"
	case ItemExit:
		return "Exit"
	}
	return ""
}

// MenuItems returns the menu for cfg. The console and exit entries are
// optional.
func MenuItems(cfg *config.Config) []MenuItem {
	items := []MenuItem{ItemCheck, ItemInstall}
	if cfg.ShowConsoleOption {
		items = append(items, ItemConsole)
	}
	if cfg.ShowExitOption {
		items = append(items, ItemExit)
	}
	return items
}

// Model holds the tray state.
type Model struct {
	ready    bool
	quitting bool

	width  int
	height int

	items  []MenuItem
	cursor int

	// Status line
	loading    bool
	loadingMsg string
	errorMsg   string
	successMsg string

	// Last check
	result      string
	summary     string
	lastChecked time.Time

	showHelp bool

	// Confirmation dialog
	showConfirm   bool
	confirmTitle  string
	confirmAction func()

	styles *Styles
	keys   KeyMap
}

// NewModel creates a tray model for cfg.
func NewModel(cfg *config.Config) *Model {
	return &Model{
		items:  MenuItems(cfg),
		styles: DefaultStyles(),
		keys:   DefaultKeyMap(cfg.ShowExitOption),
	}
}

// SetSize sets the terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Items returns the visible menu items.
func (m *Model) Items() []MenuItem {
	return m.items
}

// Cursor returns the index of the highlighted item.
func (m *Model) Cursor() int {
	return m.cursor
}

// Selected returns the highlighted item.
func (m *Model) Selected() MenuItem {
	return m.items[m.cursor]
}

// Has reports whether item is part of the menu.
func (m *Model) Has(item MenuItem) bool {
	for _, i := range m.items {
		if i == item {
			return true
		}
	}
	return false
}

// MoveCursor moves the highlight by delta, wrapping around.
func (m *Model) MoveCursor(delta int) {
	n := len(m.items)
	m.cursor = ((m.cursor+delta)%n + n) % n
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool, msg string) {
	m.loading = loading
	m.loadingMsg = msg
	if loading {
		m.ClearMessages()
	}
}

// SetError sets an error message.
func (m *Model) SetError(msg string) {
	m.errorMsg = msg
	m.successMsg = ""
}

// SetSuccess sets a success message.
func (m *Model) SetSuccess(msg string) {
	m.successMsg = msg
	m.errorMsg = ""
}

// ClearMessages clears the status line.
func (m *Model) ClearMessages() {
	m.errorMsg = ""
	m.successMsg = ""
}

// SetResult stores the text of the latest check.
func (m *Model) SetResult(display, summary string, at time.Time) {
	m.result = display
	m.summary = summary
	m.lastChecked = at
}

// Result returns the text of the latest check.
func (m *Model) Result() string {
	return m.result
}

// ShowConfirm shows a confirmation dialog that runs action on yes.
func (m *Model) ShowConfirm(title string, action func()) {
	m.showConfirm = true
	m.confirmTitle = title
	m.confirmAction = action
}

// ConfirmYes runs the pending action and closes the dialog.
func (m *Model) ConfirmYes() {
	action := m.confirmAction
	m.ConfirmNo()
	if action != nil {
		action()
	}
}

// ConfirmNo closes the dialog without running the action.
func (m *Model) ConfirmNo() {
	m.showConfirm = false
	m.confirmTitle = ""
	m.confirmAction = nil
}
