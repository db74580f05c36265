package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"playfin/internal/ui/theme"
)

// SearchChangedMsg is emitted after every edit of the query.
type SearchChangedMsg struct{ Query string }

// SearchSubmitMsg is emitted when the user keeps the current query.
type SearchSubmitMsg struct{ Query string }

// SearchCancelMsg is emitted when the user presses esc.
type SearchCancelMsg struct{}

var searchStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderTop(true).
	BorderForeground(theme.Peach).
	Foreground(theme.Text)

// Search is an incremental filter prompt backed by bubbles/textinput.
type Search struct {
	input   textinput.Model
	visible bool
	width   int
}

func NewSearch() Search {
	ti := textinput.New()
	ti.Placeholder = "filter…"
	ti.Prompt = "/"
	ti.CharLimit = 128
	return Search{input: ti}
}

func (s Search) Visible() bool { return s.visible }
func (s Search) Query() string { return s.input.Value() }

// Open shows the prompt seeded with query and returns the focus command.
func (s *Search) Open(query string) tea.Cmd {
	s.visible = true
	s.input.SetValue(query)
	s.input.CursorEnd()
	return s.input.Focus()
}

func (s *Search) SetWidth(w int) { s.width = w }

func (s Search) Update(msg tea.Msg) (Search, tea.Cmd) {
	if !s.visible {
		return s, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			s.visible = false
			s.input.Blur()
			return s, func() tea.Msg { return SearchCancelMsg{} }
		case "enter":
			q := s.input.Value()
			s.visible = false
			s.input.Blur()
			return s, func() tea.Msg { return SearchSubmitMsg{Query: q} }
		}
	}
	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if after := s.input.Value(); after != before {
		changed := func() tea.Msg { return SearchChangedMsg{Query: after} }
		return s, tea.Batch(cmd, changed)
	}
	return s, cmd
}

func (s Search) View() string {
	if !s.visible {
		return ""
	}
	w := s.width
	if w < 20 {
		w = 64
	}
	return searchStyle.Width(w).Render(s.input.View())
}
