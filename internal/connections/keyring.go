package connections

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"

	"github.com/systmms/vaulthook/pkg/connection"
)

// KeyringService is the keyring service name tokens are stored under. The
// account is the connection id.
const KeyringService = "vaulthook"

// KeyringTokens fills in missing tokens from the OS keyring.
type KeyringTokens struct {
	next    connection.Lookup
	service string
	get     func(service, account string) (string, error)
}

// WithKeyringTokens wraps next so that records without a password get one
// from the keyring, when an entry exists.
func WithKeyringTokens(next connection.Lookup) *KeyringTokens {
	return &KeyringTokens{
		next:    next,
		service: KeyringService,
		get:     keyring.Get,
	}
}

// Lookup implements connection.Lookup.
func (k *KeyringTokens) Lookup(ctx context.Context, id string) (connection.Record, error) {
	rec, err := k.next.Lookup(ctx, id)
	if err != nil || rec.Password != "" {
		return rec, err
	}

	token, err := k.get(k.service, id)
	switch {
	case err == nil:
		rec.Password = token
		return rec, nil
	case errors.Is(err, keyring.ErrNotFound):
		return rec, nil
	default:
		return connection.Record{}, err
	}
}

// StoreToken saves a token for id in the OS keyring.
func StoreToken(id, token string) error {
	return keyring.Set(KeyringService, id, token)
}

// List delegates to the wrapped registry when it can list. Tokens are not
// filled in.
func (k *KeyringTokens) List(ctx context.Context) ([]connection.Record, error) {
	if l, ok := k.next.(connection.Lister); ok {
		return l.List(ctx)
	}
	return nil, nil
}
