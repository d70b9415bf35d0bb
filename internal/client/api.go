package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// User is the API's public user shape.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Contact mirrors the API's contact shape.
type Contact struct {
	ID    string `json:"id"`
	User  int64  `json:"user"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Type  string `json:"type"`
	Date  string `json:"date"`
}

// Snapshot is one stored contact export on the server side.
type Snapshot struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
}

// ContactFields is the mutable subset of a contact sent on create/update.
type ContactFields struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Type  string `json:"type,omitempty"`
}

// APIError is a non-2xx response decoded into a Go error.
type APIError struct {
	Status int
	Msg    string
	Fields []FieldMessage
}

type FieldMessage struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		msgs := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			msgs[i] = f.Msg
		}
		return strings.Join(msgs, "; ")
	}
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// API is an HTTP client for the contact-keeper REST API. The held token is
// sent as the x-auth-token header on every request.
type API struct {
	base string
	hc   *http.Client

	mu    sync.Mutex
	token string
}

func NewAPI(baseURL string) *API {
	return &API{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *API) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

func (a *API) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

func (a *API) Register(ctx context.Context, name, email, password string) (string, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/users", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (a *API) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/auth", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (a *API) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := a.do(ctx, http.MethodGet, "/api/auth", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *API) ListContacts(ctx context.Context) ([]Contact, error) {
	var contacts []Contact
	if err := a.do(ctx, http.MethodGet, "/api/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (a *API) CreateContact(ctx context.Context, fields ContactFields) (*Contact, error) {
	var contact Contact
	if err := a.do(ctx, http.MethodPost, "/api/contacts", fields, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (a *API) UpdateContact(ctx context.Context, id string, fields ContactFields) (*Contact, error) {
	var contact Contact
	if err := a.do(ctx, http.MethodPut, "/api/contacts/"+id, fields, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (a *API) DeleteContact(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/contacts/"+id, nil, nil)
}

func (a *API) ExportContacts(ctx context.Context) (string, error) {
	var resp struct {
		Location string `json:"location"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/contacts/export", nil, &resp); err != nil {
		return "", err
	}
	return resp.Location, nil
}

func (a *API) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	var snapshots []Snapshot
	if err := a.do(ctx, http.MethodGet, "/api/contacts/snapshots", nil, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (a *API) DeleteSnapshots(ctx context.Context) error {
	return a.do(ctx, http.MethodDelete, "/api/contacts/snapshots", nil, nil)
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := a.Token(); token != "" {
		req.Header.Set("x-auth-token", token)
	}

	resp, err := a.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp.StatusCode, resp.Body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, body io.Reader) error {
	apiErr := &APIError{Status: status}

	var payload struct {
		Msg    string         `json:"msg"`
		Errors []FieldMessage `json:"errors"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil {
		apiErr.Msg = payload.Msg
		apiErr.Fields = payload.Errors
	}
	return apiErr
}
