package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	browsedto "playfin/internal/modules/browse/dto"
	playbackdto "playfin/internal/modules/playback/dto"
	apperrors "playfin/internal/platform/errors"
	"playfin/internal/ui/components"
	"playfin/internal/ui/theme"
	"playfin/internal/ui/views/menu"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type browsePort interface {
	Start(ctx context.Context) (browsedto.View, error)
	View() browsedto.View
	Move(delta int) browsedto.MoveOutput
	Confirm(ctx context.Context) (browsedto.ConfirmOutput, error)
	Escape() (browsedto.View, bool)
	Cancel() browsedto.View
	SetFilter(query string) browsedto.View
	ResolveIndicators(ctx context.Context) (browsedto.View, error)
	Refresh(ctx context.Context) (browsedto.View, error)
}

type playerPort interface {
	Play(ctx context.Context, itemID string, stdin io.Reader, stdout, stderr io.Writer) (playbackdto.PlayOutput, error)
}

// ─── async messages ───────────────────────────────────────────────────────────

type startedMsg struct {
	view browsedto.View
	err  error
}

type confirmedMsg struct {
	out browsedto.ConfirmOutput
	err error
}

type resolvedMsg struct {
	view browsedto.View
	err  error
}

type refreshedMsg struct {
	view browsedto.View
	err  error
}

type playedMsg struct {
	out playbackdto.PlayOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	PgUp   key.Binding
	PgDown key.Binding
	Enter  key.Binding
	Back   key.Binding
	Search key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PgUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PgDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/play")),
		Back:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Back, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PgUp, k.PgDown},
		{k.Enter, k.Back, k.Search},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Navigation state lives in the browse
// usecase; the model only renders its views and turns keys into calls.
type Model struct {
	browse  browsePort
	player  playerPort
	timeout time.Duration

	view     browsedto.View
	keys     keyMap
	help     help.Model
	showHelp bool
	search   components.Search
	spinner  spinner.Model
	busy     bool
	status   string
	failed   bool
	width    int
	height   int
}

func NewModel(browse browsePort, player playerPort, timeout time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return Model{
		browse:  browse,
		player:  player,
		timeout: timeout,
		keys:    defaultKeys(),
		help:    help.New(),
		search:  components.NewSearch(),
		spinner: sp,
		busy:    true,
		status:  "connecting…",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCmd())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.SetWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError("start", msg.err)
			return m, nil
		}
		m.view = msg.view
		m.setStatus("ready")
		return m, nil

	case confirmedMsg:
		return m.onConfirmed(msg)

	case resolvedMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.setError("watch status", msg.err)
		}
		m.view = msg.view
		return m, nil

	case refreshedMsg:
		m.view = msg.view
		if msg.err != nil {
			m.setError("refresh", msg.err)
			return m, nil
		}
		return m, m.resolveCmd()

	case playedMsg:
		m.busy = false
		m.view = m.browse.View()
		if msg.err != nil {
			m.setError("playback", msg.err)
		} else {
			m.setStatus(summary(msg.out))
		}
		return m, m.refreshCmd()

	case components.SearchChangedMsg:
		m.view = m.browse.SetFilter(msg.Query)
		return m, nil

	case components.SearchSubmitMsg:
		m.view = m.browse.SetFilter(msg.Query)
		return m, nil

	case components.SearchCancelMsg:
		m.view = m.browse.SetFilter("")
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && (msg.String() == "ctrl+c" || !m.search.Visible()) {
		m.view = m.browse.Cancel()
		return m, tea.Quit
	}
	if m.search.Visible() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.showHelp = false
		}
		return m, nil
	}
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Up):
		m.view = m.browse.Move(-1).View
	case key.Matches(msg, m.keys.Down):
		m.view = m.browse.Move(1).View
	case key.Matches(msg, m.keys.PgUp):
		m.view = m.browse.Move(-m.pageSize()).View
	case key.Matches(msg, m.keys.PgDown):
		m.view = m.browse.Move(m.pageSize()).View
	case key.Matches(msg, m.keys.Search):
		return m, m.search.Open(m.view.Filter)
	case key.Matches(msg, m.keys.Back):
		if m.view.Filter != "" {
			m.view = m.browse.SetFilter("")
			return m, nil
		}
		view, popped := m.browse.Escape()
		m.view = view
		if popped {
			m.setStatus("")
		}
	case key.Matches(msg, m.keys.Enter):
		if len(m.view.Entries) == 0 {
			return m, nil
		}
		m.busy = true
		m.setStatus("loading…")
		return m, tea.Batch(m.spinner.Tick, m.confirmCmd())
	}
	return m, nil
}

func (m Model) onConfirmed(msg confirmedMsg) (tea.Model, tea.Cmd) {
	m.view = msg.out.View
	if msg.err != nil {
		m.busy = false
		m.setError(msg.out.Entry.Label, msg.err)
		return m, nil
	}
	switch msg.out.Action {
	case browsedto.ActionOpen:
		m.busy = false
		m.setStatus("")
		return m, m.resolveCmd()
	case browsedto.ActionPlay:
		m.setStatus("playing " + msg.out.Entry.Label)
		return m, m.playCmd(msg.out.Entry.ID)
	default:
		m.busy = false
		return m, nil
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) setError(what string, err error) {
	m.status = fmt.Sprintf("%s: %v", what, err)
	m.failed = true
}

func (m Model) pageSize() int {
	if n := m.height - 6; n > 1 {
		return n
	}
	return 10
}

func summary(out playbackdto.PlayOutput) string {
	if out.Aborted {
		return fmt.Sprintf("%s: aborted", out.Name)
	}
	s := fmt.Sprintf("%s: stopped at %s", out.Name, clockTime(out.FinalSeconds))
	if out.ReportsFailed > 0 {
		s += fmt.Sprintf(", %d progress reports failed", out.ReportsFailed)
	}
	if out.DurationUnavailable {
		s += ", progress not reported (unknown duration)"
	}
	if !out.StopReported {
		s += ", server not updated"
	}
	return s
}

func clockTime(seconds float64) string {
	total := int64(seconds)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total/60%60, total%60)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderStatusBar()
	if m.search.Visible() {
		footer = m.search.View() + "\n" + footer
	}
	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.view.Depth == 0:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.status)
	default:
		content = menu.Render(m.view, m.width, contentH)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m Model) renderHeader() string {
	bar := theme.Hot.Render(" playfin ")
	if m.view.Depth > 1 {
		bar += theme.Muted.Render(strings.Repeat("›", m.view.Depth-1))
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	switch {
	case m.failed:
		left = theme.Error.Render(left)
	case m.busy:
		left = m.spinner.View() + " " + left
	}
	right := theme.Muted.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		view, err := m.browse.Start(ctx)
		return startedMsg{view: view, err: err}
	}
}

func (m Model) confirmCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		out, err := m.browse.Confirm(ctx)
		return confirmedMsg{out: out, err: err}
	}
}

func (m Model) resolveCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		view, err := m.browse.ResolveIndicators(ctx)
		return resolvedMsg{view: view, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		view, err := m.browse.Refresh(ctx)
		return refreshedMsg{view: view, err: err}
	}
}

// playCmd hands the terminal to the player for the whole session.
func (m Model) playCmd(itemID string) tea.Cmd {
	if m.player == nil {
		return func() tea.Msg { return playedMsg{err: apperrors.ErrNoPlayer} }
	}
	pc := &playCommand{player: m.player, itemID: itemID}
	return tea.Exec(pc, func(err error) tea.Msg {
		return playedMsg{out: pc.out, err: err}
	})
}

// playCommand adapts a playback session to tea.ExecCommand.
type playCommand struct {
	player playerPort
	itemID string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	out playbackdto.PlayOutput
}

func (c *playCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *playCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *playCommand) SetStderr(w io.Writer) { c.stderr = w }

func (c *playCommand) Run() error {
	out, err := c.player.Play(context.Background(), c.itemID, c.stdin, c.stdout, c.stderr)
	c.out = out
	return err
}
