package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client makes REST calls to the EventHub backend. It holds no session
// state; operations that need authentication take the token explicitly.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client targeting the given base URL
// (e.g. "http://127.0.0.1:8000"). A non-positive timeout falls back to
// the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a bearer token via POST /login. The
// backend expects an OAuth2 password-grant style form where the username
// field carries the email.
func (c *Client) Login(email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	const op = "POST /login"
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(req, op, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Me resolves a token to the current user via GET /users/me.
func (c *Client) Me(token string) (User, error) {
	const op = "GET /users/me"
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return User{}, &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	setAuth(req, token)

	var u User
	if err := c.do(req, op, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Register creates a new account via POST /register. The response body is
// ignored on success; on failure it is folded into the error detail.
func (c *Client) Register(name, email, password string, role Role) error {
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     string(role),
	}
	return c.postJSON("POST /register", "/register", "", body)
}

// ListEvents fetches the full event collection via GET /events. No
// authentication is required.
func (c *Client) ListEvents() ([]Event, error) {
	const op = "GET /events"
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/events", nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	var out []Event
	if err := c.do(req, op, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvent sends POST /events with the draft's fields.
func (c *Client) CreateEvent(token string, d EventDraft) error {
	return c.postJSON("POST /events", "/events", token, d)
}

// UpdateEvent sends PATCH /events/{id}. The draft is a complete
// replacement record; every field the backend expects is present.
func (c *Client) UpdateEvent(token, id string, d EventDraft) error {
	op := "PATCH /events/" + id
	data, err := json.Marshal(d)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	req, err := http.NewRequest(http.MethodPatch, c.baseURL+"/events/"+url.PathEscape(id), bytes.NewReader(data))
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	setAuth(req, token)
	return c.do(req, op, nil)
}

// DeleteEvent sends DELETE /events/{id}.
func (c *Client) DeleteEvent(token, id string) error {
	op := "DELETE /events/" + id
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/events/"+url.PathEscape(id), nil)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	setAuth(req, token)
	return c.do(req, op, nil)
}

func (c *Client) postJSON(op, path, token string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	setAuth(req, token)
	return c.do(req, op, nil)
}

// do executes the request and decodes a 2xx body into out (when non-nil).
// Any failure comes back as an *Error with a classified kind.
func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		kind := KindRejected
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			kind = KindUnauthorized
		}
		return &Error{Kind: kind, Op: op, Status: resp.StatusCode, Detail: errorDetail(body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	return nil
}

func setAuth(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// errorDetail extracts the FastAPI-style {"detail": ...} message from an
// error body, falling back to the raw text.
func errorDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return strings.TrimSpace(string(body))
}
