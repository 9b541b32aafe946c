// Package signup renders the account creation screen.
package signup

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eventhub/tui/internal/api"
	"github.com/eventhub/tui/internal/session"
	"github.com/eventhub/tui/internal/theme"
)

const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// ResultMsg is returned after a signup attempt resolves. A nil Err means
// the account was created and the session is now authenticated.
type ResultMsg struct{ Err error }

// GoToLoginMsg asks the parent app to switch back to the login screen.
type GoToLoginMsg struct{}

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

// Model is the signup screen model.
type Model struct {
	session *session.Manager

	inputs     [fieldCount]textinput.Model
	focus      int
	role       api.Role
	submitting bool
	errMsg     string
}

// New creates a signup model with the name field focused.
func New(sess *session.Manager) Model {
	name := textinput.New()
	name.Placeholder = "Jane Doe"
	name.CharLimit = 64
	name.Width = 36
	name.Focus()

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 64
	email.Width = 36

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 64
	password.Width = 36
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return Model{
		session: sess,
		inputs:  [fieldCount]textinput.Model{name, email, password},
		role:    api.RoleNormal,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the signup screen.
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

	case "ctrl+r":
		if m.role == api.RoleNormal {
			m.role = api.RoleAdmin
		} else {
			m.role = api.RoleNormal
		}
		return m, nil

	case "enter":
		if m.focus < fieldCount-1 {
			return m.setFocus(m.focus + 1)
		}
		if m.submitting {
			return m, nil
		}
		if err := m.validate(); err != "" {
			m.errMsg = err
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		return m, doSignup(m.session,
			m.inputs[fieldName].Value(),
			m.inputs[fieldEmail].Value(),
			m.inputs[fieldPassword].Value(),
			m.role)

	case "esc":
		return m, func() tea.Msg { return GoToLoginMsg{} }
	}

	return m.updateInputs(msg)
}

func (m Model) validate() string {
	if strings.TrimSpace(m.inputs[fieldName].Value()) == "" {
		return "Name is required."
	}
	if strings.TrimSpace(m.inputs[fieldEmail].Value()) == "" {
		return "Email is required."
	}
	if m.inputs[fieldPassword].Value() == "" {
		return "Password is required."
	}
	return ""
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

// View renders the signup panel.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("EventHub") + "  " + theme.StyleDimmed.Render("create account") + "\n\n")
	b.WriteString(styleLabel.Render("Name") + "\n")
	b.WriteString(m.inputs[fieldName].View() + "\n\n")
	b.WriteString(styleLabel.Render("Email") + "\n")
	b.WriteString(m.inputs[fieldEmail].View() + "\n\n")
	b.WriteString(styleLabel.Render("Password") + "\n")
	b.WriteString(m.inputs[fieldPassword].View() + "\n\n")
	b.WriteString(styleLabel.Render("Role") + "  " + theme.RoleBadge(string(m.role)) + " " + string(m.role) + "\n")

	if m.errMsg != "" {
		b.WriteString("\n" + theme.StyleError.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		b.WriteString("\n" + theme.StyleDimmed.Render("Creating account...") + "\n")
	}

	b.WriteString("\n" + theme.StyleDimmed.Render("enter: sign up  ctrl+r: toggle role  esc: back to login"))

	return stylePanel.Render(b.String())
}

func doSignup(sess *session.Manager, name, email, password string, role api.Role) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Err: sess.Signup(name, email, password, role)}
	}
}

func describe(err error) string {
	switch api.KindOf(err) {
	case api.KindNetwork:
		return "Could not reach the server. Is it running?"
	case api.KindRejected:
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			return apiErr.Detail
		}
		return "Signup was rejected. Is the email already registered?"
	default:
		return "Signup failed. Please try again."
	}
}
