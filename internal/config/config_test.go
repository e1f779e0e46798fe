package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dserrors "github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/internal/connections"
	"github.com/systmms/vaulthook/pkg/connection"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg := &Config{Path: filepath.Join(t.TempDir(), "vaulthook.yaml")}
	require.NoError(t, cfg.Load())

	assert.Empty(t, cfg.EffectiveConnID())
	assert.True(t, cfg.TLSEnabled())

	lookup, closeFn, err := cfg.BuildLookup()
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	kt, ok := lookup.(*connections.KeyringTokens)
	require.True(t, ok, "keyring is on by default")
	assert.NotNil(t, kt)
}

func TestLoad_FileSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	connFile := write(t, dir, "connections.yaml", `
connections:
  vault_test:
    host: vault
    port: 8200
    password: airflow
`)
	cfgPath := write(t, dir, "vaulthook.yaml", `
version: 0
conn_id: vault_test
tls: false
sources:
  env:
    enabled: false
  file: `+connFile+`
  keyring: false
`)

	cfg := &Config{Path: cfgPath}
	require.NoError(t, cfg.Load())

	assert.Equal(t, "vault_test", cfg.EffectiveConnID())
	assert.False(t, cfg.TLSEnabled())

	lookup, closeFn, err := cfg.BuildLookup()
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	chain, ok := lookup.(connections.Chain)
	require.True(t, ok)
	assert.Len(t, chain, 1)

	rec, err := lookup.Lookup(context.Background(), "vault_test")
	require.NoError(t, err)
	assert.Equal(t, "airflow", rec.Password)

	_, err = lookup.Lookup(context.Background(), "vault_default")
	assert.ErrorIs(t, err, connection.ErrNotFound)
}

func TestFlagOverrides(t *testing.T) {
	t.Parallel()

	tlsOn := true
	cfg := &Config{
		ConnID:     "vault_flag",
		DisableTLS: true,
		Definition: &Definition{ConnID: "vault_file", TLS: &tlsOn},
	}

	assert.Equal(t, "vault_flag", cfg.EffectiveConnID())
	assert.False(t, cfg.TLSEnabled())
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "bad yaml", content: "sources: [", field: ""},
		{name: "bad version", content: "version: 2\n", field: "version"},
		{name: "incomplete database", content: "sources:\n  database:\n    type: postgres\n", field: "sources.database"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{Path: write(t, t.TempDir(), "vaulthook.yaml", tc.content)}
			err := cfg.Load()

			var cfgErr dserrors.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestBuildLookup_Errors(t *testing.T) {
	t.Parallel()

	disabled := false

	_, _, err := (&Config{}).BuildLookup()
	assert.ErrorContains(t, err, "Configuration not loaded")

	cfg := &Config{Definition: &Definition{Sources: Sources{Env: &EnvSource{Enabled: &disabled}}}}
	_, _, err = cfg.BuildLookup()
	var cfgErr dserrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "sources", cfgErr.Field)

	cfg = &Config{Definition: &Definition{Sources: Sources{Database: &DatabaseSource{Type: "oracle", DSN: "x"}}}}
	_, _, err = cfg.BuildLookup()
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "sources.database.type", cfgErr.Field)

	cfg = &Config{Definition: &Definition{Sources: Sources{Database: &DatabaseSource{
		Type:      "postgres",
		DSN:       "postgres://airflow@localhost:5432/airflow?sslmode=disable",
		FernetKey: "not-a-fernet-key",
	}}}}
	_, _, err = cfg.BuildLookup()
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "sources.database.fernet_key", cfgErr.Field)
}

func TestBuildLookup_Database(t *testing.T) {
	t.Parallel()

	keyringOff := false
	cfg := &Config{Definition: &Definition{Sources: Sources{
		Database: &DatabaseSource{
			Type:      "postgres",
			DSN:       "postgres://airflow@localhost:5432/airflow?sslmode=disable",
			FernetKey: "cw_0x689RpI-jtRR7oE8h_eQsKImvJapLeSbXpwF4e4=",
		},
		Keyring: &keyringOff,
	}}}

	lookup, closeFn, err := cfg.BuildLookup()
	require.NoError(t, err)
	assert.NoError(t, closeFn())

	chain, ok := lookup.(connections.Chain)
	require.True(t, ok)
	assert.Len(t, chain, 2)
}
