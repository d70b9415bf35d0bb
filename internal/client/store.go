package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the session token in a file named "token" under the
// user config dir, the terminal analog of browser local storage.
type TokenStore struct {
	path string
}

// NewTokenStore uses dir when given, otherwise the OS user config dir.
func NewTokenStore(dir string) (*TokenStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "contact-keeper")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create token dir: %w", err)
	}
	return &TokenStore{path: filepath.Join(dir, "token")}, nil
}

// Load returns the persisted token, or empty when none was saved.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *TokenStore) Save(token string) error {
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
