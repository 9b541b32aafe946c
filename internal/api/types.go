// Package api provides the HTTP client for the EventHub backend.
// Types mirror the backend wire protocol; the in-memory field names
// differ from the wire names where noted.
package api

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Role is the closed set of user roles known to the backend.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleNormal Role = "normal"
)

// User is the profile returned by GET /users/me.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UnmarshalJSON coerces the id field to a string. The backend stores ids
// as integers and serves them as JSON numbers.
func (u *User) UnmarshalJSON(data []byte) error {
	type Alias User
	aux := &struct {
		ID json.RawMessage `json:"id"`
		*Alias
	}{Alias: (*Alias)(u)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	id, err := coerceID(aux.ID)
	if err != nil {
		return fmt.Errorf("cannot parse user id: %w", err)
	}
	u.ID = id
	return nil
}

// Event is an event record as held in memory. The wire representation
// uses image_url for the image field; ImageURL is renamed on both encode
// and decode.
type Event struct {
	ID          string
	Title       string
	Description string
	Date        string // ISO 8601 calendar date, no time component
	Time        string // wall-clock time of day
	ImageURL    string
	CreatedBy   string
}

// wireEvent is the JSON shape served by GET /events.
type wireEvent struct {
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	ImageURL    string          `json:"image_url"`
	CreatedBy   string          `json:"created_by,omitempty"`
}

// UnmarshalJSON decodes the wire form, coercing id to a string and
// renaming image_url.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id, err := coerceID(w.ID)
	if err != nil {
		return fmt.Errorf("cannot parse event id: %w", err)
	}
	*e = Event{
		ID:          id,
		Title:       w.Title,
		Description: w.Description,
		Date:        w.Date,
		Time:        w.Time,
		ImageURL:    w.ImageURL,
		CreatedBy:   w.CreatedBy,
	}
	return nil
}

// MarshalJSON encodes the wire form. The key for the image field is
// image_url, never imageUrl.
func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		ImageURL:    e.ImageURL,
		CreatedBy:   e.CreatedBy,
	}
	if e.ID != "" {
		w.ID = json.RawMessage(strconv.Quote(e.ID))
	}
	return json.Marshal(w)
}

// EventDraft carries the caller-writable fields of an event. Updates are
// replace-style: the backend receives every field on both create and
// update, so a draft must always be complete.
type EventDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ImageURL    string `json:"image_url"`
}

// DraftOf returns a complete draft carrying all writable fields of an
// existing event.
func DraftOf(e Event) EventDraft {
	return EventDraft{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		ImageURL:    e.ImageURL,
	}
}

// coerceID accepts a JSON string or number and returns it as a string.
func coerceID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("unsupported id form: %s", string(raw))
}
