// Package statusbar renders the one-line footer: who is signed in, how
// many events are loaded, and a spinner while anything is in flight.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eventhub/tui/internal/session"
	"github.com/eventhub/tui/internal/store"
	"github.com/eventhub/tui/internal/theme"
)

var (
	styleBar = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)

	styleIdentity = lipgloss.NewStyle().
			Foreground(theme.ColorBright)
)

// Model is the status bar model.
type Model struct {
	session *session.Manager
	store   *store.Store
	spin    spinner.Model
	width   int
}

// New creates a status bar over the session and store.
func New(sess *session.Manager, st *store.Store) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorAccent)
	return Model{session: sess, store: st, spin: sp}
}

// Init starts the spinner ticking.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// SetWidth tells the bar how wide the terminal is.
func (m *Model) SetWidth(w int) { m.width = w }

// Update advances the spinner.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

// View renders the status line.
func (m Model) View() string {
	var parts []string

	snap := m.session.Snapshot()
	switch snap.State {
	case session.Authenticated:
		parts = append(parts,
			theme.RoleBadge(string(snap.User.Role))+" "+styleIdentity.Render(snap.User.Name))
	case session.Restoring:
		parts = append(parts, "restoring session")
	default:
		parts = append(parts, "browsing as guest")
	}

	parts = append(parts, fmt.Sprintf("%d events", len(m.store.Events())))

	if snap.Loading || m.store.Loading() {
		parts = append(parts, m.spin.View()+"working")
	}

	line := strings.Join(parts, styleBar.Render("  │  "))
	if m.width > 0 {
		return lipgloss.NewStyle().Width(m.width).Render(line)
	}
	return line
}
