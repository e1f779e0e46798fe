package connections

import (
	"context"
	"net/url"
	"os"
	"strings"

	dserrors "github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/pkg/connection"
)

// DefaultEnvPrefix is prepended to the upper-cased connection id.
const DefaultEnvPrefix = "VAULTHOOK_CONN_"

// EnvRegistry resolves connections from environment variables holding a
// connection URI:
//
//	VAULTHOOK_CONN_VAULT_DEFAULT=vault://:s.token@vault.internal:8200?certfile=/etc/c.pem&keyfile=/etc/k.pem
//
// The scheme is used as the connection type. The token may be given as
// the URI password (or user, when no password is present).
type EnvRegistry struct {
	prefix string
	getenv func(string) string
}

// NewEnvRegistry creates a registry reading variables with prefix. An empty
// prefix means DefaultEnvPrefix.
func NewEnvRegistry(prefix string) *EnvRegistry {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return &EnvRegistry{prefix: prefix, getenv: os.Getenv}
}

// Lookup implements connection.Lookup.
func (e *EnvRegistry) Lookup(ctx context.Context, id string) (connection.Record, error) {
	name := e.prefix + strings.ToUpper(id)
	raw := e.getenv(name)
	if raw == "" {
		return connection.Record{}, connection.NotFoundError{ID: id, Source: "environment"}
	}

	rec, err := ParseURI(id, raw)
	if err != nil {
		return connection.Record{}, dserrors.ConfigError{
			Field:      name,
			Message:    err.Error(),
			Suggestion: "Use the form vault://:token@host:port?certfile=...&keyfile=...",
		}
	}
	return rec, nil
}

// ParseURI decodes a connection URI into a record with the given id.
func ParseURI(id, raw string) (connection.Record, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return connection.Record{}, err
	}

	rec := connection.Record{
		ID:   id,
		Type: u.Scheme,
		Host: u.Hostname(),
		Port: u.Port(),
	}

	if u.User != nil {
		if pw, ok := u.User.Password(); ok {
			rec.Password = pw
		} else {
			rec.Password = u.User.Username()
		}
	}

	query := u.Query()
	if len(query) > 0 {
		rec.Extra = make(map[string]string, len(query))
		for k := range query {
			rec.Extra[k] = query.Get(k)
		}
	}

	return rec, nil
}
