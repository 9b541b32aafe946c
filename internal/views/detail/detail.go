// Package detail renders a single event as a full overlay panel. The
// description is passed through a markdown renderer so authors can use
// lists and emphasis.
package detail

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/eventhub/tui/internal/api"
	"github.com/eventhub/tui/internal/theme"
)

const descriptionWidth = 64

var (
	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(1, 2)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)

	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed).
			Width(10)
)

// Model is the event detail overlay.
type Model struct {
	event    api.Event
	rendered string
}

// New creates an empty detail model.
func New() Model {
	return Model{}
}

// SetEvent loads an event into the overlay and renders its description.
func (m *Model) SetEvent(e api.Event) {
	m.event = e
	m.rendered = renderDescription(e.Description)
}

func renderDescription(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(descriptionWidth),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// View renders the detail panel.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(m.event.Title) + "\n\n")

	writeRow(&b, "Date", m.event.Date)
	writeRow(&b, "Time", m.event.Time)
	if m.event.CreatedBy != "" {
		writeRow(&b, "Host", m.event.CreatedBy)
	}
	if m.event.ImageURL != "" {
		writeRow(&b, "Image", m.event.ImageURL)
	}

	if m.rendered != "" {
		b.WriteString("\n" + m.rendered + "\n")
	}

	b.WriteString("\n" + theme.StyleDimmed.Render("esc: close"))

	return stylePanel.Render(b.String())
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(styleLabel.Render(label) + value + "\n")
}
