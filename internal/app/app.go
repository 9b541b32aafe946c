// Package app wires the screens, overlays and shared state into the
// root Bubble Tea model.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eventhub/tui/internal/api"
	"github.com/eventhub/tui/internal/session"
	"github.com/eventhub/tui/internal/store"
	"github.com/eventhub/tui/internal/theme"
	"github.com/eventhub/tui/internal/views/detail"
	"github.com/eventhub/tui/internal/views/events"
	"github.com/eventhub/tui/internal/views/form"
	"github.com/eventhub/tui/internal/views/login"
	"github.com/eventhub/tui/internal/views/signup"
	"github.com/eventhub/tui/internal/views/statusbar"
)

// Screen selects which top-level view fills the terminal.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSignup
	ScreenEvents
)

// Overlay selects the panel drawn over the events screen.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDetail
	OverlayForm
	OverlayConfirmDelete
)

type sessionRestoredMsg struct{ err error }

type deleteDoneMsg struct{ err error }

// Model is the root application model.
type Model struct {
	session *session.Manager
	store   *store.Store
	keys    KeyMap

	width  int
	height int

	screen  Screen
	overlay Overlay

	login  login.Model
	signup signup.Model
	events events.Model
	form   form.Model
	detail detail.Model
	status statusbar.Model

	confirmID    string
	confirmTitle string
	flash        string
}

// New builds the root model over an established session manager and
// event store.
func New(sess *session.Manager, st *store.Store) Model {
	return Model{
		session: sess,
		store:   st,
		keys:    DefaultKeyMap(),
		screen:  ScreenLogin,
		login:   login.New(sess),
		signup:  signup.New(sess),
		events:  events.New(st),
		form:    form.New(st),
		detail:  detail.New(),
		status:  statusbar.New(sess, st),
	}
}

// Init restores any persisted session and loads the public event list,
// both off the update loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.login.Init(),
		m.status.Init(),
		restoreSession(m.session),
		m.events.Refresh(),
	)
}

func restoreSession(sess *session.Manager) tea.Cmd {
	return func() tea.Msg {
		return sessionRestoredMsg{err: sess.Restore()}
	}
}

// Update routes messages to the active screen and overlay.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.events.SetHeight(msg.Height - 2)
		m.status.SetWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.status, cmd = m.status.Update(msg)
		return m, cmd

	case sessionRestoredMsg:
		// A failed restore leaves the session anonymous; the login
		// screen is already showing, so there is nothing to report.
		if m.session.Snapshot().State == session.Authenticated {
			m.screen = ScreenEvents
		}
		return m, nil

	case login.ResultMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		if msg.Err == nil {
			m.screen = ScreenEvents
		}
		return m, cmd

	case login.GoToSignupMsg:
		m.signup = signup.New(m.session)
		m.screen = ScreenSignup
		return m, m.signup.Init()

	case signup.ResultMsg:
		var cmd tea.Cmd
		m.signup, cmd = m.signup.Update(msg)
		if msg.Err == nil {
			m.screen = ScreenEvents
		}
		return m, cmd

	case signup.GoToLoginMsg:
		m.login = login.New(m.session)
		m.screen = ScreenLogin
		return m, m.login.Init()

	case events.RefreshedMsg:
		var cmd tea.Cmd
		m.events, cmd = m.events.Update(msg)
		return m, cmd

	case form.ResultMsg:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		if msg.Err == nil {
			m.overlay = OverlayNone
		}
		return m, cmd

	case form.CancelMsg:
		m.overlay = OverlayNone
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.flash = describeDelete(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.flash = ""

	switch m.overlay {
	case OverlayForm:
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case OverlayDetail:
		if key.Matches(msg, m.keys.Close) || key.Matches(msg, m.keys.Detail) || msg.String() == "q" {
			m.overlay = OverlayNone
		}
		return m, nil

	case OverlayConfirmDelete:
		switch msg.String() {
		case "y":
			m.overlay = OverlayNone
			return m, doDelete(m.store, m.confirmID)
		case "n", "esc":
			m.overlay = OverlayNone
		}
		return m, nil
	}

	switch m.screen {
	case ScreenLogin:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd

	case ScreenSignup:
		var cmd tea.Cmd
		m.signup, cmd = m.signup.Update(msg)
		return m, cmd
	}

	// Events screen. While the search input owns the keyboard every
	// key belongs to the list.
	if m.events.Searching() {
		var cmd tea.Cmd
		m.events, cmd = m.events.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Logout):
		m.session.Logout()
		m.login = login.New(m.session)
		m.screen = ScreenLogin
		return m, m.login.Init()

	case key.Matches(msg, m.keys.Detail):
		if e, ok := m.events.Selected(); ok {
			m.detail.SetEvent(e)
			m.overlay = OverlayDetail
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		if m.isAdmin() {
			m.form.Reset()
			m.overlay = OverlayForm
			return m, m.form.Init()
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if e, ok := m.events.Selected(); ok && m.isAdmin() {
			m.form.Load(e)
			m.overlay = OverlayForm
			return m, m.form.Init()
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if e, ok := m.events.Selected(); ok && m.isAdmin() {
			m.confirmID = e.ID
			m.confirmTitle = e.Title
			m.overlay = OverlayConfirmDelete
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.events, cmd = m.events.Update(msg)
	return m, cmd
}

func (m Model) isAdmin() bool {
	snap := m.session.Snapshot()
	return snap.State == session.Authenticated && snap.User.Role == api.RoleAdmin
}

func doDelete(st *store.Store, id string) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{err: st.Delete(id)}
	}
}

func describeDelete(err error) string {
	switch api.KindOf(err) {
	case api.KindUnauthorized:
		return "Your session has expired. Sign in again."
	case api.KindNetwork:
		return "Could not reach the server. The event was not deleted."
	default:
		return "The server refused to delete the event."
	}
}

// View renders the active screen, then any overlay on top of it.
func (m Model) View() string {
	switch m.screen {
	case ScreenLogin:
		return m.center(m.login.View())
	case ScreenSignup:
		return m.center(m.signup.View())
	}

	switch m.overlay {
	case OverlayDetail:
		return m.center(m.detail.View())
	case OverlayForm:
		return m.center(m.form.View())
	case OverlayConfirmDelete:
		return m.center(m.confirmView())
	}

	var b strings.Builder
	b.WriteString(m.events.View())
	if m.flash != "" {
		b.WriteString("\n" + theme.StyleError.Render(m.flash))
	}
	b.WriteString("\n" + theme.StyleDimmed.Render(m.helpLine()))
	b.WriteString("\n" + m.status.View())
	return b.String()
}

func (m Model) helpLine() string {
	line := "enter: details  /: search  f: filter  r: refresh"
	if m.isAdmin() {
		line += "  n: new  e: edit  d: delete"
	}
	if m.session.Snapshot().State == session.Authenticated {
		line += "  L: log out"
	}
	return line + "  q: quit"
}

func (m Model) confirmView() string {
	body := fmt.Sprintf("Delete %q?\n\n", m.confirmTitle) +
		theme.StyleDimmed.Render("y: delete  n: keep")
	return theme.StyleBorder.Padding(1, 2).Render(body)
}

func (m Model) center(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
