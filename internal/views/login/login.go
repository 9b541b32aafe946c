// Package login renders the sign-in screen.
package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eventhub/tui/internal/api"
	"github.com/eventhub/tui/internal/session"
	"github.com/eventhub/tui/internal/theme"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// ResultMsg is returned after a login attempt resolves.
type ResultMsg struct{ Err error }

// GoToSignupMsg asks the parent app to switch to the signup screen.
type GoToSignupMsg struct{}

var (
	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(1, 3)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorAccent)

	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)
)

// Model is the login screen model.
type Model struct {
	session *session.Manager

	inputs     [fieldCount]textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

// New creates a login model with the email field focused.
func New(sess *session.Manager) Model {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 64
	email.Width = 36
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.Width = 36
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return Model{
		session: sess,
		inputs:  [fieldCount]textinput.Model{email, password},
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the login screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = describe(msg.Err)
		} else {
			m.errMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m.setFocus((m.focus + 1) % fieldCount)

	case "shift+tab", "up":
		return m.setFocus((m.focus - 1 + fieldCount) % fieldCount)

	case "enter":
		if m.focus < fieldCount-1 {
			return m.setFocus(m.focus + 1)
		}
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		return m, doLogin(m.session, m.inputs[fieldEmail].Value(), m.inputs[fieldPassword].Value())

	case "ctrl+n":
		return m, func() tea.Msg { return GoToSignupMsg{} }
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, fieldCount)
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) setFocus(idx int) (Model, tea.Cmd) {
	m.focus = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == idx {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, cmd
}

// View renders the login panel.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("EventHub") + "  " + theme.StyleDimmed.Render("sign in") + "\n\n")
	b.WriteString(styleLabel.Render("Email") + "\n")
	b.WriteString(m.inputs[fieldEmail].View() + "\n\n")
	b.WriteString(styleLabel.Render("Password") + "\n")
	b.WriteString(m.inputs[fieldPassword].View() + "\n")

	if m.errMsg != "" {
		b.WriteString("\n" + theme.StyleError.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		b.WriteString("\n" + theme.StyleDimmed.Render("Signing in...") + "\n")
	}

	b.WriteString("\n" + theme.StyleDimmed.Render("enter: sign in  ctrl+n: create account  ctrl+c: quit"))

	return stylePanel.Render(b.String())
}

func doLogin(sess *session.Manager, email, password string) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Err: sess.Login(email, password)}
	}
}

func describe(err error) string {
	switch api.KindOf(err) {
	case api.KindUnauthorized:
		return "Invalid email or password."
	case api.KindNetwork:
		return "Could not reach the server. Is it running?"
	default:
		return "Login failed. Please try again."
	}
}
