package vaulthook

import (
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	vaultapi "github.com/hashicorp/vault/api"

	dserrors "github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/internal/logging"
	"github.com/systmms/vaulthook/internal/metrics"
	"github.com/systmms/vaulthook/internal/secure"
	"github.com/systmms/vaulthook/pkg/connection"
)

// DefaultConnID is used when New is given an empty connection identifier.
const DefaultConnID = "vault_default"

// Hook talks to a Vault server described by a connection record.
//
// The Vault client is built on first use and cached for the lifetime of the
// Hook. A failed build is not cached; the next call tries again.
type Hook struct {
	connID   string
	tls      bool
	host     string
	port     int
	token    *secure.SecureBuffer
	certFile string
	keyFile  string

	logger  *logging.Logger
	factory ClientFactory
	metrics *metrics.HookMetrics

	mu     sync.Mutex
	client Client
}

// Option configures a Hook.
type Option func(*Hook)

// WithTLS selects https (the default) or plain http.
func WithTLS(tls bool) Option {
	return func(h *Hook) {
		h.tls = tls
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *logging.Logger) Option {
	return func(h *Hook) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithClientFactory replaces NewVaultClient.
func WithClientFactory(factory ClientFactory) Option {
	return func(h *Hook) {
		if factory != nil {
			h.factory = factory
		}
	}
}

// WithMetrics records operation metrics.
func WithMetrics(m *metrics.HookMetrics) Option {
	return func(h *Hook) {
		h.metrics = m
	}
}

// New resolves connID through lookup and prepares a Hook. It does not
// contact Vault. A lookup failure is returned unchanged, so an unknown
// identifier yields connection.NotFoundError.
func New(ctx context.Context, lookup connection.Lookup, connID string, opts ...Option) (*Hook, error) {
	if connID == "" {
		connID = DefaultConnID
	}

	rec, err := lookup.Lookup(ctx, connID)
	if err != nil {
		return nil, err
	}

	port, err := strconv.Atoi(strings.TrimSpace(rec.Port))
	if err != nil {
		return nil, dserrors.ConfigError{
			Field:      "port",
			Value:      rec.Port,
			Message:    "port of connection '" + connID + "' is not an integer",
			Suggestion: "Set the connection's port to a number such as 8200",
		}
	}

	h := &Hook{
		connID:   connID,
		tls:      true,
		host:     rec.Host,
		port:     port,
		token:    secure.NewSecureString(rec.Password),
		certFile: rec.CertFile(),
		keyFile:  rec.KeyFile(),
		logger:   logging.Discard(),
		factory:  NewVaultClient,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

// ConnID returns the connection identifier the hook was built from.
func (h *Hook) ConnID() string {
	return h.connID
}

// Address returns the base URL the client is, or will be, bound to.
func (h *Hook) Address() string {
	scheme := "https"
	if !h.tls {
		scheme = "http"
	}
	return scheme + "://" + net.JoinHostPort(h.host, strconv.Itoa(h.port))
}

// GetConn returns the Vault client, building it on first use. Build
// failures are returned as *ClientConstructionError.
func (h *Hook) GetConn() (Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		return h.client, nil
	}

	addr := h.Address()
	h.logger.Debug("generating Vault client for conn id %q on %s:%d", h.connID, h.host, h.port)

	token, err := h.token.Reveal()
	if err != nil {
		h.metrics.ObserveClientConstruction(err)
		return nil, &ClientConstructionError{ConnID: h.connID, Address: addr, Err: err}
	}

	client, err := h.factory(ClientConfig{
		Address:  addr,
		Token:    token,
		CertFile: h.certFile,
		KeyFile:  h.keyFile,
	})
	if err == nil && client == nil {
		err = errNilClient
	}
	h.metrics.ObserveClientConstruction(err)
	if err != nil {
		return nil, &ClientConstructionError{ConnID: h.connID, Address: addr, Err: err}
	}

	h.client = client
	// The client owns the token from here on.
	h.token.Destroy()

	return client, nil
}

// Read returns the secret at key. A missing key yields a nil secret and no
// error. Errors from Vault are returned unchanged.
func (h *Hook) Read(ctx context.Context, key string) (secret *vaultapi.Secret, err error) {
	defer func(started time.Time) { h.metrics.ObserveOperation("read", started, err) }(time.Now())

	client, err := h.GetConn()
	if err != nil {
		return nil, err
	}
	return client.Read(ctx, key)
}

// Write stores fields at key and returns Vault's success indicator.
func (h *Hook) Write(ctx context.Context, key string, fields map[string]interface{}) (ok bool, err error) {
	defer func(started time.Time) { h.metrics.ObserveOperation("write", started, err) }(time.Now())

	client, err := h.GetConn()
	if err != nil {
		return false, err
	}
	return client.Write(ctx, key, fields)
}

// Delete removes the secret at key.
func (h *Hook) Delete(ctx context.Context, key string) (err error) {
	defer func(started time.Time) { h.metrics.ObserveOperation("delete", started, err) }(time.Now())

	client, err := h.GetConn()
	if err != nil {
		return err
	}
	return client.Delete(ctx, key)
}

// IsAuthenticated reports whether Vault accepts the connection's token.
func (h *Hook) IsAuthenticated(ctx context.Context) (ok bool, err error) {
	defer func(started time.Time) { h.metrics.ObserveOperation("is_authenticated", started, err) }(time.Now())

	client, err := h.GetConn()
	if err != nil {
		return false, err
	}
	return client.IsAuthenticated(ctx)
}
