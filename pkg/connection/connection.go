package connection

import (
	"context"
	"errors"
)

// Extra keys understood by the hook.
const (
	ExtraCertFile = "certfile"
	ExtraKeyFile  = "keyfile"
)

// ErrNotFound is matched by NotFoundError through errors.Is.
var ErrNotFound = errors.New("connection not found")

// Record is a connection entry as stored by a registry.
type Record struct {
	// ID is the connection identifier, e.g. "vault_default".
	ID string `yaml:"-" json:"conn_id"`

	// Type is the connection type. Informational only.
	Type string `yaml:"type,omitempty" json:"conn_type,omitempty"`

	Host string `yaml:"host" json:"host"`

	// Port is kept as the registry stores it. Consumers parse it.
	Port string `yaml:"port" json:"port"`

	// Password holds the token. Empty means no token.
	Password string `yaml:"password,omitempty" json:"password,omitempty"`

	Extra map[string]string `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// CertFile returns the client certificate path from the extras, if any.
func (r Record) CertFile() string {
	return r.Extra[ExtraCertFile]
}

// KeyFile returns the client key path from the extras, if any.
func (r Record) KeyFile() string {
	return r.Extra[ExtraKeyFile]
}

// Redacted returns a copy of the record that is safe to print.
func (r Record) Redacted() Record {
	out := r
	if out.Password != "" {
		out.Password = "[REDACTED]"
	}
	if r.Extra != nil {
		out.Extra = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Lookup resolves a connection identifier to its record.
//
// Implementations return NotFoundError when the identifier is unknown.
// Any other error means the registry itself failed.
type Lookup interface {
	Lookup(ctx context.Context, id string) (Record, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, id string) (Record, error)

// Lookup calls f(ctx, id).
func (f LookupFunc) Lookup(ctx context.Context, id string) (Record, error) {
	return f(ctx, id)
}

// Lister is implemented by registries that can enumerate their records.
type Lister interface {
	List(ctx context.Context) ([]Record, error)
}

// NotFoundError indicates that a registry has no record for an identifier.
type NotFoundError struct {
	// ID is the identifier that could not be resolved.
	ID string

	// Source names the registry that was asked, if known.
	Source string
}

func (e NotFoundError) Error() string {
	msg := "connection not found: " + e.ID
	if e.Source != "" {
		msg += " in " + e.Source
	}
	return msg
}

// Is reports whether target is ErrNotFound.
func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
