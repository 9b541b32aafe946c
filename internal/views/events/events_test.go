package events

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eventhub/tui/internal/api"
	"github.com/eventhub/tui/internal/session"
	"github.com/eventhub/tui/internal/store"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// newTestModel returns an events model whose store holds the given
// events, served from a throwaway backend.
func newTestModel(t *testing.T, events []map[string]any) Model {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(events)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, time.Second)
	sess := session.NewManager(client, session.NewTokenFile(t.TempDir()))
	st := store.New(client, sess)
	if err := st.Refresh(); err != nil {
		t.Fatal(err)
	}
	return New(st)
}

func seedEvents() []map[string]any {
	return []map[string]any{
		{"id": "1", "title": "Garden party", "description": "Snacks in the park", "date": "2030-06-01", "time": "15:00"},
		{"id": "2", "title": "Retro night", "description": "Old games and pizza", "date": "2020-01-01", "time": "20:00"},
		{"id": "3", "title": "Go meetup", "description": "Talks about generics", "date": "2030-07-01", "time": "18:30"},
	}
}

func TestMatchesQuery(t *testing.T) {
	e := api.Event{Title: "Garden Party", Description: "Snacks in the park"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"garden", true},
		{"PARTY", true},
		{"snacks", true},
		{"  park  ", true},
		{"pizza", false},
	}
	for _, tt := range tests {
		if got := matchesQuery(e, tt.query); got != tt.want {
			t.Errorf("matchesQuery(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		date string
		want timing
	}{
		{"2025-06-15", timingToday},
		{"2025-06-16", timingUpcoming},
		{"2025-06-14", timingPast},
		{"2030-01-01", timingUpcoming},
		{"not-a-date", timingUpcoming},
	}
	for _, tt := range tests {
		if got := classify(tt.date, now); got != tt.want {
			t.Errorf("classify(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	events := []api.Event{
		{Date: "2030-01-01"},
		{Date: "2030-01-01"},
		{Date: "2020-01-01"},
		{Date: "2025-06-15"},
	}

	got := computeStats(events, now)
	if got.total != 4 {
		t.Errorf("total = %d, want 4", got.total)
	}
	if got.upcoming != 2 {
		t.Errorf("upcoming = %d, want 2", got.upcoming)
	}
	if got.days != 3 {
		t.Errorf("days = %d, want 3", got.days)
	}
}

func TestSearchNarrowsSelection(t *testing.T) {
	m := newTestModel(t, seedEvents())

	m, _ = m.Update(keyRune('/'))
	if !m.Searching() {
		t.Fatal("Searching() = false after /")
	}
	for _, r := range "pizza" {
		m, _ = m.Update(keyRune(r))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.Searching() {
		t.Error("Searching() = true after enter")
	}
	e, ok := m.Selected()
	if !ok {
		t.Fatal("no selection after narrowing search")
	}
	if e.Title != "Retro night" {
		t.Errorf("Selected().Title = %q, want Retro night", e.Title)
	}
}

func TestEscClearsSearch(t *testing.T) {
	m := newTestModel(t, seedEvents())

	m, _ = m.Update(keyRune('/'))
	for _, r := range "pizza" {
		m, _ = m.Update(keyRune(r))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if got := len(m.visible()); got != 3 {
		t.Errorf("visible after esc = %d, want 3 (query cleared)", got)
	}
}

func TestFilterCyclesAndClamps(t *testing.T) {
	old := timeNow
	timeNow = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	defer func() { timeNow = old }()

	m := newTestModel(t, seedEvents())
	m, _ = m.Update(keyRune('G')) // jump to last row

	m, _ = m.Update(keyRune('f')) // upcoming
	if m.filter != FilterUpcoming {
		t.Fatalf("filter = %v, want upcoming", m.filter)
	}
	if got := len(m.visible()); got != 2 {
		t.Errorf("visible upcoming = %d, want 2", got)
	}
	if _, ok := m.Selected(); !ok {
		t.Error("cursor not clamped into the filtered list")
	}

	m, _ = m.Update(keyRune('f')) // today: none seeded
	if got := len(m.visible()); got != 0 {
		t.Errorf("visible today = %d, want 0", got)
	}
	if _, ok := m.Selected(); ok {
		t.Error("Selected() = ok on empty filtered list")
	}

	m, _ = m.Update(keyRune('f')) // past
	m, _ = m.Update(keyRune('f')) // back to all
	if m.filter != FilterAll {
		t.Errorf("filter = %v, want all after full cycle", m.filter)
	}
}

func TestVisibleSortedByDate(t *testing.T) {
	m := newTestModel(t, seedEvents())

	visible := m.visible()
	if len(visible) != 3 {
		t.Fatalf("visible = %d, want 3", len(visible))
	}
	for i := 1; i < len(visible); i++ {
		if visible[i-1].Date > visible[i].Date {
			t.Fatalf("visible not sorted by date: %q before %q", visible[i-1].Date, visible[i].Date)
		}
	}
}

func TestCursorNavigation(t *testing.T) {
	m := newTestModel(t, seedEvents())

	m, _ = m.Update(keyRune('k')) // already at top
	if m.cursor != 0 {
		t.Errorf("cursor = %d after k at top, want 0", m.cursor)
	}

	m, _ = m.Update(keyRune('j'))
	m, _ = m.Update(keyRune('j'))
	m, _ = m.Update(keyRune('j')) // past the end
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped at last row)", m.cursor)
	}

	m, _ = m.Update(keyRune('g'))
	if m.cursor != 0 {
		t.Errorf("cursor = %d after g, want 0", m.cursor)
	}
}

func TestRefreshedMsgReportsError(t *testing.T) {
	m := newTestModel(t, seedEvents())

	m, _ = m.Update(RefreshedMsg{Err: &api.Error{Kind: api.KindNetwork, Op: "list events"}})
	if m.errMsg == "" {
		t.Error("errMsg empty after failed refresh")
	}

	m, _ = m.Update(RefreshedMsg{})
	if m.errMsg != "" {
		t.Errorf("errMsg = %q after successful refresh, want cleared", m.errMsg)
	}
}
