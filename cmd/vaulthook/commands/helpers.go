package commands

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/systmms/vaulthook/internal/config"
	dserrors "github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/internal/logging"
	"github.com/systmms/vaulthook/internal/metrics"
	"github.com/systmms/vaulthook/pkg/connection"
	"github.com/systmms/vaulthook/pkg/vaulthook"
)

// metricsRegisterer is where command hooks record their metrics.
var metricsRegisterer prometheus.Registerer = prometheus.DefaultRegisterer

// loadLookup loads the configuration and builds its connection lookup.
func loadLookup(cfg *config.Config) (connection.Lookup, func() error, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if err := cfg.Load(); err != nil {
		return nil, nil, err
	}
	return cfg.BuildLookup()
}

// newHook builds a hook for the configured connection. The returned close
// function must be called when the command is done.
func newHook(ctx context.Context, cfg *config.Config) (*vaulthook.Hook, func() error, error) {
	lookup, closeFn, err := loadLookup(cfg)
	if err != nil {
		return nil, nil, err
	}

	m, err := metrics.NewHookMetrics(metricsRegisterer)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}

	hook, err := vaulthook.New(ctx, lookup, cfg.EffectiveConnID(),
		vaulthook.WithTLS(cfg.TLSEnabled()),
		vaulthook.WithLogger(cfg.Logger),
		vaulthook.WithMetrics(m),
	)
	if err != nil {
		_ = closeFn()
		if errors.Is(err, connection.ErrNotFound) {
			return nil, nil, dserrors.VaultError("connection lookup", err)
		}
		return nil, nil, err
	}

	if !cfg.TLSEnabled() {
		cfg.Logger.Warn("TLS is disabled, the token is sent in clear text to %s", hook.Address())
	}
	cfg.Logger.Debug("using conn id %q at %s", hook.ConnID(), hook.Address())
	return hook, closeFn, nil
}

// vaultFailure turns an operation error into a user-facing one. With
// --debug the raw error is logged first.
func vaultFailure(cfg *config.Config, operation string, err error) error {
	if cfg.Logger.DebugEnabled() {
		cfg.Logger.Debug("vault %s: %T: %v", operation, err, err)
	}
	return dserrors.VaultError(operation, err)
}
