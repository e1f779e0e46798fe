package connection

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("resolving: %w", NotFoundError{ID: "vault_test", Source: "file"})

	assert.True(t, errors.Is(err, ErrNotFound))

	var nf NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "vault_test", nf.ID)
	assert.Equal(t, "connection not found: vault_test in file", nf.Error())
	assert.Equal(t, "connection not found: x", NotFoundError{ID: "x"}.Error())
}

func TestRecord_Extras(t *testing.T) {
	t.Parallel()

	r := Record{
		ID:       "vault_test",
		Password: "s.token",
		Extra: map[string]string{
			"certfile": "/etc/vault/client.pem",
			"keyfile":  "/etc/vault/client-key.pem",
		},
	}

	assert.Equal(t, "/etc/vault/client.pem", r.CertFile())
	assert.Equal(t, "/etc/vault/client-key.pem", r.KeyFile())
	assert.Empty(t, Record{}.CertFile())
}

func TestRecord_Redacted(t *testing.T) {
	t.Parallel()

	r := Record{ID: "vault_test", Password: "s.token", Extra: map[string]string{"certfile": "a"}}
	red := r.Redacted()

	assert.Equal(t, "[REDACTED]", red.Password)
	assert.Equal(t, "s.token", r.Password)

	red.Extra["certfile"] = "b"
	assert.Equal(t, "a", r.Extra["certfile"], "redacted copy must not share extras")

	assert.Empty(t, Record{ID: "x"}.Redacted().Password)
}

func TestMemoryRegistry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := NewMemoryRegistry(Record{ID: "b", Host: "vault-b"})
	reg.Put(Record{ID: "a", Host: "vault-a", Port: "8200"})

	rec, err := reg.Lookup(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "vault-a", rec.Host)

	_, err = reg.Lookup(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestLookupFunc(t *testing.T) {
	t.Parallel()

	var called string
	l := LookupFunc(func(ctx context.Context, id string) (Record, error) {
		called = id
		return Record{ID: id}, nil
	})

	rec, err := l.Lookup(context.Background(), "vault_default")
	require.NoError(t, err)
	assert.Equal(t, "vault_default", rec.ID)
	assert.Equal(t, "vault_default", called)
}
