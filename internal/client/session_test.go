package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *TokenStore {
	t.Helper()
	store, err := NewTokenStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func fakeAuthServer(t *testing.T, validToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/auth":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": validToken})
		case r.Method == http.MethodPost && r.URL.Path == "/api/users":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": validToken})
		case r.Method == http.MethodGet && r.URL.Path == "/api/auth":
			if r.Header.Get("x-auth-token") != validToken {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"msg": "token is not valid"})
				return
			}
			_ = json.NewEncoder(w).Encode(User{ID: 1, Name: "John", Email: "john@example.com"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginPersistsTokenAndLoadsUser(t *testing.T) {
	srv := fakeAuthServer(t, "good-token")
	store := tempStore(t)

	session, err := NewSession(NewAPI(srv.URL), store)
	require.NoError(t, err)

	require.NoError(t, session.Login(context.Background(), "john@example.com", "secret123"))

	state := session.State()
	require.True(t, state.Authenticated)
	require.Equal(t, StatusLoaded, state.Status)
	require.Equal(t, "John", state.User.Name)

	persisted, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "good-token", persisted)
}

func TestSessionResumesFromPersistedToken(t *testing.T) {
	srv := fakeAuthServer(t, "good-token")
	store := tempStore(t)
	require.NoError(t, store.Save("good-token"))

	session, err := NewSession(NewAPI(srv.URL), store)
	require.NoError(t, err)
	require.Equal(t, "good-token", session.State().Token)

	require.NoError(t, session.LoadUser(context.Background()))
	require.True(t, session.State().Authenticated)
}

func TestLoadUserFailureClearsToken(t *testing.T) {
	srv := fakeAuthServer(t, "good-token")
	store := tempStore(t)
	require.NoError(t, store.Save("stale-token"))

	session, err := NewSession(NewAPI(srv.URL), store)
	require.NoError(t, err)

	require.Error(t, session.LoadUser(context.Background()))

	state := session.State()
	require.False(t, state.Authenticated)
	require.Empty(t, state.Token)
	require.Nil(t, state.User)
	require.Equal(t, StatusError, state.Status)

	// the persisted copy is gone too
	persisted, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, persisted)
}

func TestLoginFailureLeavesSessionSignedOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid credentials"})
	}))
	t.Cleanup(srv.Close)

	session, err := NewSession(NewAPI(srv.URL), tempStore(t))
	require.NoError(t, err)

	err = session.Login(context.Background(), "john@example.com", "wrong")
	require.Error(t, err)
	require.EqualError(t, err, "invalid credentials")

	state := session.State()
	require.False(t, state.Authenticated)
	require.Equal(t, StatusError, state.Status)
}

func TestTokenStoreClear(t *testing.T) {
	dir := t.TempDir()
	store, err := NewTokenStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("a-token"))
	_, err = os.Stat(filepath.Join(dir, "token"))
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	token, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, token)

	// clearing twice is fine
	require.NoError(t, store.Clear())
}
