package app

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
	"github.com/eventhub/tui/internal/views/form"
	"github.com/eventhub/tui/internal/views/login"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

type fixture struct {
	model Model
	sess  *session.Manager
	store *store.Store
}

// newFixture builds an app over a fake backend with one seeded event.
// role selects the user returned by /users/me; empty means no session.
func newFixture(t *testing.T, role api.Role) *fixture {
	t.Helper()

	events := []map[string]any{
		{"id": "1", "title": "Garden party", "description": "Snacks in the park", "date": "2030-06-01", "time": "15:00", "image_url": "https://i/1.png"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "7", "name": "Sam", "email": "sam@eventhub.com", "role": string(role),
		})
	})
	mux.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(events)
	})
	mux.HandleFunc("DELETE /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		for i, e := range events {
			if e["id"] == id {
				events = append(events[:i], events[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, time.Second)
	tokens := session.NewTokenFile(t.TempDir())
	sess := session.NewManager(client, tokens)
	if role != "" {
		if err := tokens.Save("tok1"); err != nil {
			t.Fatal(err)
		}
		if err := sess.Restore(); err != nil {
			t.Fatal(err)
		}
	}

	st := store.New(client, sess)
	if err := st.Refresh(); err != nil {
		t.Fatal(err)
	}

	m := New(sess, st)
	if role != "" {
		m.screen = ScreenEvents
	}
	return &fixture{model: m, sess: sess, store: st}
}

// send pushes a message through Update and keeps the concrete model.
func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	m, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want app.Model", next)
	}
	f.model = m
	return cmd
}

func TestInitialScreenIsLogin(t *testing.T) {
	f := newFixture(t, "")
	if f.model.screen != ScreenLogin {
		t.Errorf("screen = %v, want login", f.model.screen)
	}
}

func TestRestoredSessionLandsOnEvents(t *testing.T) {
	f := newFixture(t, api.RoleNormal)
	f.model.screen = ScreenLogin

	f.send(t, sessionRestoredMsg{})
	if f.model.screen != ScreenEvents {
		t.Errorf("screen = %v, want events after restored session", f.model.screen)
	}
}

func TestRestoreWithoutTokenStaysOnLogin(t *testing.T) {
	f := newFixture(t, "")
	f.send(t, sessionRestoredMsg{})
	if f.model.screen != ScreenLogin {
		t.Errorf("screen = %v, want login when restore found nothing", f.model.screen)
	}
}

func TestLoginSuccessSwitchesToEvents(t *testing.T) {
	f := newFixture(t, "")
	f.send(t, login.ResultMsg{})
	if f.model.screen != ScreenEvents {
		t.Errorf("screen = %v, want events after successful login", f.model.screen)
	}
}

func TestLoginFailureStays(t *testing.T) {
	f := newFixture(t, "")
	f.send(t, login.ResultMsg{Err: &api.Error{Kind: api.KindUnauthorized, Op: "login"}})
	if f.model.screen != ScreenLogin {
		t.Errorf("screen = %v, want login after failed login", f.model.screen)
	}
}

func TestSignupNavigation(t *testing.T) {
	f := newFixture(t, "")
	f.send(t, login.GoToSignupMsg{})
	if f.model.screen != ScreenSignup {
		t.Fatalf("screen = %v, want signup", f.model.screen)
	}
}

func TestAdminOpensForm(t *testing.T) {
	f := newFixture(t, api.RoleAdmin)
	f.send(t, keyRune('n'))
	if f.model.overlay != OverlayForm {
		t.Errorf("overlay = %v, want form", f.model.overlay)
	}
	if f.model.form.Editing() {
		t.Error("form in edit mode after n, want create mode")
	}
}

func TestNormalUserCannotOpenForm(t *testing.T) {
	f := newFixture(t, api.RoleNormal)
	f.send(t, keyRune('n'))
	if f.model.overlay != OverlayNone {
		t.Errorf("overlay = %v, want none for non-admin", f.model.overlay)
	}
}

func TestEditLoadsSelectedEvent(t *testing.T) {
	f := newFixture(t, api.RoleAdmin)
	f.send(t, keyRune('e'))
	if f.model.overlay != OverlayForm {
		t.Fatalf("overlay = %v, want form", f.model.overlay)
	}
	if !f.model.form.Editing() {
		t.Error("form not in edit mode after e on a selected event")
	}
}

func TestFormCancelClosesOverlay(t *testing.T) {
	f := newFixture(t, api.RoleAdmin)
	f.send(t, keyRune('n'))
	f.send(t, form.CancelMsg{})
	if f.model.overlay != OverlayNone {
		t.Errorf("overlay = %v, want none after cancel", f.model.overlay)
	}
}

func TestFormSuccessClosesOverlay(t *testing.T) {
	f := newFixture(t, api.RoleAdmin)
	f.send(t, keyRune('n'))
	f.send(t, form.ResultMsg{})
	if f.model.overlay != OverlayNone {
		t.Errorf("overlay = %v, want none after successful save", f.model.overlay)
	}
}

func TestFormErrorKeepsOverlay(t *testing.T) {
	f := newFixture(t, api.RoleAdmin)
	f.send(t, keyRune('n'))
	f.send(t, form.ResultMsg{Err: &api.Error{Kind: api.KindRejected, Op: "create event"}})
	if f.model.overlay != OverlayForm {
		t.Errorf("overlay = %v, want form kept open on error", f.model.overlay)
	}
}

func TestDetailOverlay(t *testing.T) {
	f := newFixture(t, api.RoleNormal)
	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	if f.model.overlay != OverlayDetail {
		t.Fatalf("overlay = %v, want detail", f.model.overlay)
	}
	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	if f.model.overlay != OverlayNone {
		t.Errorf("overlay = %v, want none after esc", f.model.overlay)
	}
}

func TestConfirmDeleteFlow(t *testing.T) {
	f := newFixture(t, api.RoleAdmin)
	f.send(t, keyRune('d'))
	if f.model.overlay != OverlayConfirmDelete {
		t.Fatalf("overlay = %v, want confirm", f.model.overlay)
	}
	if f.model.confirmTitle != "Garden party" {
		t.Errorf("confirmTitle = %q", f.model.confirmTitle)
	}

	cmd := f.send(t, keyRune('y'))
	if cmd == nil {
		t.Fatal("y produced no delete command")
	}
	f.send(t, cmd())

	if _, ok := f.store.Get("1"); ok {
		t.Error("event still in store after confirmed delete")
	}
}

func TestConfirmDeleteDeclined(t *testing.T) {
	f := newFixture(t, api.RoleAdmin)
	f.send(t, keyRune('d'))
	f.send(t, keyRune('n'))
	if f.model.overlay != OverlayNone {
		t.Errorf("overlay = %v, want none after declining", f.model.overlay)
	}
	if _, ok := f.store.Get("1"); !ok {
		t.Error("event deleted despite declining the confirmation")
	}
}

func TestLogoutReturnsToLogin(t *testing.T) {
	f := newFixture(t, api.RoleAdmin)
	f.send(t, keyRune('L'))
	if f.model.screen != ScreenLogin {
		t.Errorf("screen = %v, want login after logout", f.model.screen)
	}
	if f.sess.Snapshot().State != session.Anonymous {
		t.Error("session still authenticated after logout")
	}
}

func TestQuitKey(t *testing.T) {
	f := newFixture(t, api.RoleNormal)
	cmd := f.send(t, keyRune('q'))
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command = %T, want tea.QuitMsg", cmd())
	}
}
