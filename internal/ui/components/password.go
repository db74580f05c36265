package components

import (
	"errors"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"playfin/internal/ui/theme"
)

// ErrPromptCancelled is returned when the user leaves a prompt with esc or ctrl+c.
var ErrPromptCancelled = errors.New("prompt cancelled")

// PasswordPrompt reads one secret line. Typed characters are drawn as '*'.
type PasswordPrompt struct {
	label     string
	input     textinput.Model
	done      bool
	cancelled bool
}

func NewPasswordPrompt(label string) PasswordPrompt {
	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.Focus()
	return PasswordPrompt{label: label, input: ti}
}

func (p PasswordPrompt) Init() tea.Cmd { return textinput.Blink }

func (p PasswordPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			p.done = true
			return p, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p PasswordPrompt) View() string {
	if p.done || p.cancelled {
		return ""
	}
	return theme.Title.Render(p.label) + " " + p.input.View() + "\n"
}

// Value returns the entered secret, or ErrPromptCancelled.
func (p PasswordPrompt) Value() (string, error) {
	if p.cancelled || !p.done {
		return "", ErrPromptCancelled
	}
	return p.input.Value(), nil
}

// ReadPassword runs a PasswordPrompt on the given terminal streams.
func ReadPassword(in io.Reader, out io.Writer, label string) (string, error) {
	final, err := tea.NewProgram(NewPasswordPrompt(label), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", err
	}
	return final.(PasswordPrompt).Value()
}
