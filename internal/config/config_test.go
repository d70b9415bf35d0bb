package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	require.Equal(t, "data/contacts.db", cfg.Database.Path)
	require.Equal(t, 360000, cfg.Auth.TokenTTLSeconds)
	require.Empty(t, cfg.Auth.JWTSecret)
	require.Equal(t, "contact-snapshots", cfg.Storage.KeyPrefix)
	require.Zero(t, cfg.Backup.IntervalMinutes)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONTACTS_SERVER_ADDR", "127.0.0.1:9999")
	t.Setenv("CONTACTS_AUTH_JWTSECRET", "hush")
	t.Setenv("CONTACTS_AUTH_TOKENTTLSECONDS", "3600")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	require.Equal(t, "hush", cfg.Auth.JWTSecret)
	require.Equal(t, 3600, cfg.Auth.TokenTTLSeconds)
}
