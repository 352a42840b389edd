package tui

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"upkeep/internal/checker"
	"upkeep/internal/config"
	"upkeep/internal/history"
)

// Operations are the actions behind the menu items.
type Operations interface {
	CheckReport(ctx context.Context, trigger history.Trigger) checker.Report
	InstallAll(ctx context.Context) string
	OpenConsole(ctx context.Context) string
}

// CheckResultMsg delivers a finished check to the tray. The daemon sends it
// for startup and scheduled checks; manual checks produce it internally.
type CheckResultMsg struct {
	Report checker.Report
}

// opDoneMsg reports the end of an install or console run.
type opDoneMsg struct {
	item   MenuItem
	result string
	err    error
}

// fixed rows: header, blank, menu padding, last-check line, blank, footer
const chromeHeight = 6

// App wraps the Model with bubbletea components.
type App struct {
	*Model
	ops     Operations
	ctx     context.Context
	spinner spinner.Model
	result  viewport.Model
	help    help.Model

	// pending counts checks still running; overlapping checks are allowed.
	pending int

	// deferred holds the command produced by a confirmed dialog action.
	deferred tea.Cmd

	// ownConsole means install and console runs open their own window, so
	// the tray keeps the terminal and stays responsive while they run.
	ownConsole bool
}

// AppOption configures an App.
type AppOption func(*App)

// WithOwnConsole overrides whether interactive runs get their own console
// window. The default is true on Windows only.
func WithOwnConsole(own bool) AppOption {
	return func(a *App) {
		a.ownConsole = own
	}
}

// NewApp creates the tray for cfg. Operations run with ctx.
func NewApp(ctx context.Context, cfg *config.Config, ops Operations, opts ...AppOption) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	vp := viewport.New(80, 10)
	vp.SetContent("No check has run yet.")

	a := &App{
		Model:      NewModel(cfg),
		ops:        ops,
		ctx:        ctx,
		spinner:    sp,
		result:     vp,
		help:       help.New(),
		ownConsole: runtime.GOOS == "windows",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		a.resize()
		a.ready = true

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			a.quitting = true
			return a, tea.Quit
		}

		if a.showConfirm {
			switch msg.String() {
			case "y", "Y", "enter":
				a.ConfirmYes()
			case "n", "N", "esc", "q":
				a.ConfirmNo()
			}
			return a, a.takeDeferred()
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit

		case key.Matches(msg, a.keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			a.resize()

		case key.Matches(msg, a.keys.Up):
			a.MoveCursor(-1)
		case key.Matches(msg, a.keys.Down):
			a.MoveCursor(1)

		case key.Matches(msg, a.keys.Enter):
			cmds = append(cmds, a.activate(a.Selected()))

		case key.Matches(msg, a.keys.Check):
			cmds = append(cmds, a.activate(ItemCheck))
		case key.Matches(msg, a.keys.Install):
			cmds = append(cmds, a.activate(ItemInstall))
		case key.Matches(msg, a.keys.Console):
			if a.Has(ItemConsole) {
				cmds = append(cmds, a.activate(ItemConsole))
			}

		default:
			var cmd tea.Cmd
			a.result, cmd = a.result.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.result, cmd = a.result.Update(msg)
		cmds = append(cmds, cmd)

	case CheckResultMsg:
		a.showReport(msg.Report)

	case opDoneMsg:
		a.SetLoading(false, "")
		switch {
		case msg.err != nil:
			a.SetError(msg.err.Error())
		case checker.IsSentinel(msg.result):
			a.SetError(msg.result)
		default:
			a.SetSuccess(fmt.Sprintf("%s finished", msg.item.Label()))
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) takeDeferred() tea.Cmd {
	cmd := a.deferred
	a.deferred = nil
	return cmd
}

// activate runs a menu item.
func (a *App) activate(item MenuItem) tea.Cmd {
	switch item {
	case ItemCheck:
		a.pending++
		a.SetLoading(true, "Checking for upgrades...")
		return a.checkUpgrades()

	case ItemInstall:
		a.ShowConfirm("Install all available upgrades?", func() {
			a.deferred = a.runInteractive(ItemInstall, a.ops.InstallAll)
		})
		return nil

	case ItemConsole:
		return a.runInteractive(ItemConsole, a.ops.OpenConsole)

	case ItemExit:
		a.quitting = true
		return tea.Quit
	}
	return nil
}

func (a *App) showReport(report checker.Report) {
	if report.Trigger == history.TriggerManual && a.pending > 0 {
		a.pending--
	}
	if a.pending == 0 {
		a.SetLoading(false, "")
	}

	a.SetResult(report.Display, report.Summary(), report.CheckedAt)
	a.result.SetContent(report.Display)
	a.result.GotoTop()

	if report.LaunchFailed {
		a.SetError(report.Summary())
	} else {
		a.SetSuccess(report.Summary())
	}
}

func (a *App) resize() {
	helpHeight := lipgloss.Height(a.help.View(a.keys))
	height := a.height - chromeHeight - len(a.items) - helpHeight - 2 // result border
	if height < 3 {
		height = 3
	}
	a.result.Width = a.width - 4
	a.result.Height = height
	a.help.Width = a.width
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.quitting {
		return ""
	}

	if a.showConfirm {
		return a.renderDialog()
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(a.renderMenu())
	b.WriteString("\n")
	b.WriteString(a.renderLastCheck())
	b.WriteString("\n")
	b.WriteString(a.styles.Result.Render(a.result.View()))
	b.WriteString("\n")
	b.WriteString(a.styles.Footer.Render(a.help.View(a.keys)))

	return b.String()
}

func (a *App) renderHeader() string {
	title := a.styles.Header.Render(" upkeep - WinGet Upgrade Checker ")

	var right string
	if a.loading {
		right = a.spinner.View() + " " + a.loadingMsg
	} else if a.errorMsg != "" {
		right = a.styles.Error.Render(a.errorMsg)
	} else if a.successMsg != "" {
		right = a.styles.Success.Render(a.successMsg)
	}

	padding := a.width - lipgloss.Width(title) - lipgloss.Width(right) - 1
	if padding < 1 {
		padding = 1
	}

	return title + strings.Repeat(" ", padding) + right
}

func (a *App) renderMenu() string {
	var b strings.Builder
	for i, item := range a.items {
		if i == a.cursor {
			b.WriteString(a.styles.MenuItemSelected.Render("> " + item.Label()))
		} else {
			b.WriteString(a.styles.MenuItem.Render(item.Label()))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderLastCheck() string {
	if a.lastChecked.IsZero() {
		return a.styles.Description.Render("Available Upgrades? Not checked yet")
	}
	return a.styles.Title.Render("Available Upgrades? ") +
		a.styles.Description.Render(fmt.Sprintf("%s (checked %s)", a.summary, a.lastChecked.Format("15:04")))
}

func (a *App) renderDialog() string {
	dialog := a.styles.Dialog.Render(
		a.styles.DialogTitle.Render(a.confirmTitle) + "\n\n" +
			a.styles.DialogButton.Render("[Y]es") + " " +
			lipgloss.NewStyle().Foreground(ColorMuted).Render("[N]o"),
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialog)
}

// Async commands

func (a *App) checkUpgrades() tea.Cmd {
	return func() tea.Msg {
		return CheckResultMsg{Report: a.ops.CheckReport(a.ctx, history.TriggerManual)}
	}
}

// opCommand adapts an interactive operation to tea.ExecCommand so the
// program releases the terminal while it runs.
type opCommand struct {
	run    func() string
	result string
}

func (c *opCommand) Run() error {
	c.result = c.run()
	return nil
}

func (c *opCommand) SetStdin(io.Reader)  {}
func (c *opCommand) SetStdout(io.Writer) {}
func (c *opCommand) SetStderr(io.Writer) {}

// runInteractive starts an install or console run. With its own console
// window the run is an ordinary async command; otherwise the shell shares
// the terminal and the program suspends through tea.Exec until it exits.
func (a *App) runInteractive(item MenuItem, op func(context.Context) string) tea.Cmd {
	a.SetLoading(true, item.Label()+"...")
	if a.ownConsole {
		return func() tea.Msg {
			return opDoneMsg{item: item, result: op(a.ctx)}
		}
	}

	c := &opCommand{run: func() string { return op(a.ctx) }}
	return tea.Exec(c, func(err error) tea.Msg {
		return opDoneMsg{item: item, result: c.result, err: err}
	})
}

// NewProgram creates the bubbletea program for app. The program stops when
// ctx is cancelled.
func NewProgram(ctx context.Context, app *App, opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx)}, opts...)
	return tea.NewProgram(app, opts...)
}
