// Package events renders the event list: a scrollable, searchable,
// filterable view over the store snapshot with a stats footer.
package events

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eventhub/tui/internal/api"
	"github.com/eventhub/tui/internal/store"
	"github.com/eventhub/tui/internal/theme"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// RefreshedMsg is returned after a refresh command resolves.
type RefreshedMsg struct{ Err error }

// Filter narrows the list by event timing.
type Filter int

const (
	FilterAll Filter = iota
	FilterUpcoming
	FilterToday
	FilterPast
	filterCount
)

func (f Filter) String() string {
	switch f {
	case FilterUpcoming:
		return "upcoming"
	case FilterToday:
		return "today"
	case FilterPast:
		return "past"
	default:
		return "all"
	}
}

// timing classifies an event date relative to now.
type timing int

const (
	timingPast timing = iota
	timingToday
	timingUpcoming
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorAccent)

	styleCursor = lipgloss.NewStyle().
			Foreground(theme.ColorAccent)

	styleFooter = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)
)

// Model is the event list model.
type Model struct {
	store *store.Store

	search    textinput.Model
	searching bool
	filter    Filter
	cursor    int
	height    int

	refreshing bool
	errMsg     string
}

// New creates an event list over the given store.
func New(st *store.Store) Model {
	search := textinput.New()
	search.Placeholder = "search title or description"
	search.Prompt = "/ "
	search.CharLimit = 64
	search.Width = 40

	return Model{
		store:  st,
		search: search,
		height: 24,
	}
}

// Searching reports whether the search input currently owns the
// keyboard. The parent app must not claim keys while this is true.
func (m Model) Searching() bool { return m.searching }

// Selected returns the event under the cursor, if any.
func (m Model) Selected() (api.Event, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return api.Event{}, false
	}
	return visible[m.cursor], true
}

// SetHeight tells the list how many terminal rows it may use.
func (m *Model) SetHeight(h int) { m.height = h }

// Refresh returns a command that reloads the store from the backend.
func (m Model) Refresh() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		return RefreshedMsg{Err: st.Refresh()}
	}
}

// Update handles messages for the event list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshedMsg:
		m.refreshing = false
		if msg.Err != nil {
			m.errMsg = describe(msg.Err)
		} else {
			m.errMsg = ""
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.search.SetValue("")
			m.search.Blur()
			m.clampCursor()
			return m, nil
		case "enter":
			m.searching = false
			m.search.Blur()
			m.clampCursor()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.clampCursor()
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.visible()) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "f":
		m.filter = (m.filter + 1) % filterCount
		m.clampCursor()
	case "r":
		if !m.refreshing {
			m.refreshing = true
			return m, m.Refresh()
		}
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.visible())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// visible returns the events that pass the search query and timing
// filter, sorted by date then title.
func (m Model) visible() []api.Event {
	all := m.store.Events()
	now := timeNow()

	out := make([]api.Event, 0, len(all))
	for _, e := range all {
		if !matchesQuery(e, m.search.Value()) {
			continue
		}
		if !matchesFilter(e, m.filter, now) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func matchesQuery(e api.Event, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

func matchesFilter(e api.Event, f Filter, now time.Time) bool {
	if f == FilterAll {
		return true
	}
	switch classify(e.Date, now) {
	case timingUpcoming:
		return f == FilterUpcoming
	case timingToday:
		return f == FilterToday
	default:
		return f == FilterPast
	}
}

// classify buckets a yyyy-mm-dd date against now. Unparseable dates
// count as upcoming so they stay visible rather than silently dropped.
func classify(date string, now time.Time) timing {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return timingUpcoming
	}
	today := now.Format("2006-01-02")
	switch {
	case date == today:
		return timingToday
	case d.After(now):
		return timingUpcoming
	default:
		return timingPast
	}
}

func timingColor(t timing) lipgloss.Color {
	switch t {
	case timingUpcoming:
		return theme.ColorUpcoming
	case timingToday:
		return theme.ColorToday
	default:
		return theme.ColorPast
	}
}

// stats summarizes the full snapshot, unaffected by search or filter.
type stats struct {
	total    int
	upcoming int
	days     int
}

func computeStats(events []api.Event, now time.Time) stats {
	s := stats{total: len(events)}
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		if classify(e.Date, now) == timingUpcoming {
			s.upcoming++
		}
		seen[e.Date] = struct{}{}
	}
	s.days = len(seen)
	return s
}

// View renders the event list.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Events"))
	if m.filter != FilterAll {
		b.WriteString("  " + theme.StyleDimmed.Render("filter: "+m.filter.String()))
	}
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View() + "\n")
	}
	b.WriteString("\n")

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(theme.StyleDimmed.Render("No events match.") + "\n")
	} else {
		start, end := m.window(len(visible))
		for i := start; i < end; i++ {
			b.WriteString(m.renderRow(visible[i], i == m.cursor) + "\n")
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n" + theme.StyleError.Render(m.errMsg) + "\n")
	}

	st := computeStats(m.store.Events(), timeNow())
	b.WriteString("\n" + styleFooter.Render(fmt.Sprintf(
		"%d events · %d upcoming · %d days", st.total, st.upcoming, st.days)))

	return b.String()
}

// window returns the half-open row range kept on screen so the cursor
// stays visible.
func (m Model) window(n int) (int, int) {
	rows := m.height - 8
	if rows < 3 {
		rows = 3
	}
	if n <= rows {
		return 0, n
	}
	start := m.cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

func (m Model) renderRow(e api.Event, selected bool) string {
	date := lipgloss.NewStyle().
		Foreground(timingColor(classify(e.Date, timeNow()))).
		Render(e.Date)

	title := e.Title
	if selected {
		title = theme.StyleSelected.Render(title)
	}

	line := fmt.Sprintf("%s %s  %s", date, e.Time, title)
	if e.CreatedBy != "" {
		line += "  " + theme.StyleDimmed.Render("by "+e.CreatedBy)
	}

	if selected {
		return styleCursor.Render("> ") + line
	}
	return "  " + line
}

func describe(err error) string {
	if api.KindOf(err) == api.KindNetwork {
		return "Could not load events. Check the server and press r to retry."
	}
	return "Loading events failed. Press r to retry."
}
