package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/internal/logging"
)

func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.UserError{
		Message:    "Operation failed",
		Details:    "Connection timeout",
		Suggestion: "Check network connectivity",
	}

	assert.Equal(t,
		"Operation failed\n  Details: Connection timeout\n  💡 Try: Check network connectivity",
		err.Error())
}

func TestUserErrorFallsBackToCause(t *testing.T) {
	t.Parallel()

	err := errors.UserError{Err: fmt.Errorf("base error")}
	assert.Equal(t, "base error", err.Error())
}

func TestConfigErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigError{
		Field:      "port",
		Value:      "eighty",
		Message:    "port must be an integer",
		Suggestion: "Use a numeric port such as 8200",
	}

	msg := err.Error()
	assert.Contains(t, msg, "in field 'port'")
	assert.Contains(t, msg, "(value: eighty)")
	assert.Contains(t, msg, "port must be an integer")
	assert.Contains(t, msg, "8200")
}

func TestVaultErrorSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		errorMsg   string
		suggestion string
	}{
		{"connection_refused", "dial tcp 127.0.0.1:8200: connect: connection refused", "reachable"},
		{"permission_denied", "Code: 403. Errors:\n\n* permission denied", "policy"},
		{"plain_http", "http: server gave HTTP response to HTTPS client", "--no-tls"},
		{"certificate", "open /etc/vault/client.pem: no such file or directory: certificate", "certfile"},
		{"timeout", "context deadline exceeded", "timed out"},
		{"unknown_conn", "connection not found: vault_test", "VAULTHOOK_CONN_"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := errors.VaultError("read", fmt.Errorf("%s", tt.errorMsg))
			assert.Contains(t, err.Error(), "vault read failed")
			assert.Contains(t, err.Error(), tt.suggestion)
		})
	}
}

func TestVaultErrorKeepsCause(t *testing.T) {
	t.Parallel()

	base := stderrors.New("boom")
	err := errors.VaultError("write", base)

	assert.ErrorIs(t, err, base)
	assert.Nil(t, errors.VaultError("write", nil))
}

func TestVaultErrorWithRedactedSecret(t *testing.T) {
	t.Parallel()

	token := "s.context-secret-token"
	base := fmt.Errorf("login failed for token %s", logging.Secret(token))

	msg := errors.VaultError("auth", base).Error()
	assert.Contains(t, msg, "[REDACTED]")
	assert.NotContains(t, msg, token)
}

func TestSimplifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		inputError   error
		expectedType string
		expectedMsg  string
	}{
		{"yaml_error", fmt.Errorf("yaml: line 5: mapping values are not allowed"), "ConfigError", "Invalid YAML"},
		{"json_error", fmt.Errorf("decoding extra: %w", fmt.Errorf("json: invalid character")), "ConfigError", "Invalid JSON"},
		{"permission_denied", fmt.Errorf("open vaulthook.yaml: permission denied"), "UserError", "Permission denied"},
		{"file_not_found", fmt.Errorf("no such file or directory"), "UserError", "not found"},
		{"yaml_path_not_found", fmt.Errorf("open /etc/vaulthook.yaml: no such file or directory"), "UserError", "not found"},
		{"json_path_permission", fmt.Errorf("read: %w", fmt.Errorf("open conn.json: permission denied")), "UserError", "Permission denied"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			simplified := errors.SimplifyError(tt.inputError)
			assert.Contains(t, simplified.Error(), tt.expectedMsg)

			switch tt.expectedType {
			case "ConfigError":
				_, ok := simplified.(errors.ConfigError)
				assert.True(t, ok, "should be ConfigError")
			case "UserError":
				_, ok := simplified.(errors.UserError)
				assert.True(t, ok, "should be UserError")
			}
		})
	}
}

func TestSimplifyErrorPassthrough(t *testing.T) {
	t.Parallel()

	assert.Nil(t, errors.SimplifyError(nil))

	userErr := fmt.Errorf("wrapped: %w", errors.UserError{Message: "already friendly"})
	assert.Equal(t, userErr, errors.SimplifyError(userErr))

	other := fmt.Errorf("something odd")
	assert.Equal(t, other, errors.SimplifyError(other))
}

func TestUserErrorUnwrap(t *testing.T) {
	t.Parallel()

	base := fmt.Errorf("base error")
	userErr := errors.UserError{Message: "wrapped error", Err: base}

	require.Equal(t, base, userErr.Unwrap())
}
