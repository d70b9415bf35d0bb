package client

import (
	"context"
	"sync"
)

// Status is the lifecycle of a state container: idle until the first request,
// loading while one is in flight, then loaded or errored. Re-entrant.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusError
)

// SessionState is a point-in-time copy of the auth container.
type SessionState struct {
	Token         string
	Authenticated bool
	User          *User
	Status        Status
	Err           error
}

// Session holds the authenticated session: the token, the resolved user and
// the request lifecycle. It mirrors its state into a TokenStore so a later
// run can resume the session.
type Session struct {
	api   *API
	store *TokenStore

	mu            sync.Mutex
	token         string
	authenticated bool
	user          *User
	status        Status
	err           error
}

// NewSession seeds the container from the persisted token, if any. Call
// LoadUser to find out whether that token is still good.
func NewSession(api *API, store *TokenStore) (*Session, error) {
	s := &Session{api: api, store: store}
	if store != nil {
		token, err := store.Load()
		if err != nil {
			return nil, err
		}
		s.token = token
		api.SetToken(token)
	}
	return s, nil
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionState{
		Token:         s.token,
		Authenticated: s.authenticated,
		User:          s.user,
		Status:        s.status,
		Err:           s.err,
	}
}

// LoadUser resolves the held token into a user. On failure the token is
// cleared, both in memory and in the store.
func (s *Session) LoadUser(ctx context.Context) error {
	s.setLoading()

	user, err := s.api.CurrentUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.clearLocked()
		s.status = StatusError
		s.err = err
		return err
	}
	s.user = user
	s.authenticated = true
	s.status = StatusLoaded
	s.err = nil
	return nil
}

func (s *Session) Register(ctx context.Context, name, email, password string) error {
	s.setLoading()
	token, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.fail(err)
		return err
	}
	s.acceptToken(token)
	return s.LoadUser(ctx)
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setLoading()
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.fail(err)
		return err
	}
	s.acceptToken(token)
	return s.LoadUser(ctx)
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.status = StatusIdle
	s.err = nil
}

func (s *Session) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusLoading
	s.err = nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusError
	s.err = err
}

func (s *Session) acceptToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.api.SetToken(token)
	if s.store != nil {
		_ = s.store.Save(token)
	}
}

// clearLocked drops the token and identity; callers hold s.mu.
func (s *Session) clearLocked() {
	s.token = ""
	s.authenticated = false
	s.user = nil
	s.api.SetToken("")
	if s.store != nil {
		_ = s.store.Clear()
	}
}
