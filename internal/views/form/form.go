// Package form renders the create/edit event overlay. The same panel
// serves both modes; edits always submit the complete draft.
package form

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eventhub/tui/internal/api"
	"github.com/eventhub/tui/internal/store"
	"github.com/eventhub/tui/internal/theme"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDate
	fieldTime
	fieldImageURL
	fieldCount
)

// ResultMsg is returned after a submit resolves. A nil Err means the
// backend acknowledged the mutation.
type ResultMsg struct{ Err error }

// CancelMsg asks the parent app to close the form without saving.
type CancelMsg struct{}

var (
	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(1, 2)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorAccent)

	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)
)

var timePattern = regexp.MustCompile(`^(\d{2}:\d{2})(:\d{2})?$`)

// Model is the event form overlay.
type Model struct {
	store *store.Store

	inputs     [fieldCount]textinput.Model
	focus      int
	editID     string // empty means create
	submitting bool
	errMsg     string
}

// New creates an empty form bound to the store.
func New(st *store.Store) Model {
	labels := [fieldCount]string{"Summer concert", "What to expect...", "2025-07-01", "19:00", "https://..."}
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 256
		in.Width = 48
		inputs[i] = in
	}
	return Model{store: st, inputs: inputs}
}

// Reset prepares the form for creating a new event.
func (m *Model) Reset() {
	m.editID = ""
	m.errMsg = ""
	m.submitting = false
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.setFocus(fieldTitle)
}

// Load prepares the form for editing an existing event.
func (m *Model) Load(e api.Event) {
	m.Reset()
	m.editID = e.ID
	m.inputs[fieldTitle].SetValue(e.Title)
	m.inputs[fieldDescription].SetValue(e.Description)
	m.inputs[fieldDate].SetValue(e.Date)
	m.inputs[fieldTime].SetValue(NormalizeTime(e.Time))
	m.inputs[fieldImageURL].SetValue(e.ImageURL)
}

// Editing reports whether the form targets an existing event.
func (m Model) Editing() bool { return m.editID != "" }

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResultMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = describe(msg.Err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return CancelMsg{} }

	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
		return m, textinput.Blink

	case "enter":
		if m.focus < fieldCount-1 {
			m.setFocus(m.focus + 1)
			return m, textinput.Blink
		}
		if m.submitting {
			return m, nil
		}
		draft := m.draft()
		if err := Validate(draft); err != "" {
			m.errMsg = err
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		return m, m.submit(draft)
	}
	return m.updateInputs(msg)
}

func (m Model) draft() api.EventDraft {
	return api.EventDraft{
		Title:       strings.TrimSpace(m.inputs[fieldTitle].Value()),
		Description: strings.TrimSpace(m.inputs[fieldDescription].Value()),
		Date:        strings.TrimSpace(m.inputs[fieldDate].Value()),
		Time:        NormalizeTime(strings.TrimSpace(m.inputs[fieldTime].Value())),
		ImageURL:    strings.TrimSpace(m.inputs[fieldImageURL].Value()),
	}
}

func (m Model) submit(draft api.EventDraft) tea.Cmd {
	st, id := m.store, m.editID
	return func() tea.Msg {
		if id == "" {
			return ResultMsg{Err: st.Add(draft)}
		}
		return ResultMsg{Err: st.Update(id, draft)}
	}
}

// Validate checks a draft against the submission rules and returns a
// user-facing message, empty when the draft is acceptable.
func Validate(d api.EventDraft) string {
	switch {
	case len(d.Title) < 3:
		return "Title must be at least 3 characters."
	case len(d.Description) < 10:
		return "Description must be at least 10 characters."
	case d.Date == "":
		return "Date is required (yyyy-mm-dd)."
	case d.Time == "":
		return "Time is required (hh:mm)."
	case d.ImageURL == "":
		return "Image URL is required."
	}
	return ""
}

// NormalizeTime trims a trailing seconds component, so "19:00:00"
// becomes "19:00". Anything else passes through unchanged.
func NormalizeTime(t string) string {
	if m := timePattern.FindStringSubmatch(t); m != nil {
		return m[1]
	}
	return t
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, fieldCount)
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// View renders the form panel.
func (m Model) View() string {
	var b strings.Builder

	heading := "New event"
	if m.Editing() {
		heading = "Edit event"
	}
	b.WriteString(styleTitle.Render(heading) + "\n\n")

	labels := [fieldCount]string{"Title", "Description", "Date", "Time", "Image URL"}
	for i := range m.inputs {
		b.WriteString(styleLabel.Render(labels[i]) + "\n")
		b.WriteString(m.inputs[i].View() + "\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(theme.StyleError.Render(m.errMsg) + "\n\n")
	}
	if m.submitting {
		b.WriteString(theme.StyleDimmed.Render("Saving...") + "\n\n")
	}

	b.WriteString(theme.StyleDimmed.Render("enter: next/save  esc: cancel"))

	return stylePanel.Render(b.String())
}

func describe(err error) string {
	switch api.KindOf(err) {
	case api.KindUnauthorized:
		return "Your session has expired. Sign in again."
	case api.KindNetwork:
		return "Could not reach the server. Nothing was saved."
	default:
		return "The server rejected the event."
	}
}
