package errors

import (
	"errors"
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// VaultError decorates an error returned during a Vault operation with a
// suggestion for the user. The original error stays reachable via Unwrap.
func VaultError(operation string, err error) error {
	if err == nil {
		return nil
	}

	return UserError{
		Message:    fmt.Sprintf("vault %s failed", operation),
		Details:    err.Error(),
		Suggestion: vaultSuggestion(err),
		Err:        err,
	}
}

func vaultSuggestion(err error) string {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "connection not found"):
		return "Define the connection in your connections file or export VAULTHOOK_CONN_<ID>"
	case strings.Contains(errStr, "connection refused"), strings.Contains(errStr, "no such host"):
		return "Check that Vault is running and reachable at the connection's host and port"
	case strings.Contains(errStr, "permission denied"), strings.Contains(errStr, "code: 403"):
		return "Check that the connection's token has a policy granting access to this path"
	case strings.Contains(errStr, "http response to https client"), strings.Contains(errStr, "server gave http response"):
		return "The server does not speak TLS. Retry with --no-tls"
	case strings.Contains(errStr, "certificate"), strings.Contains(errStr, "tls"):
		return "Check the certfile and keyfile extras of the connection"
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return "The request timed out. Check your network connection and try again"
	default:
		return ""
	}
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Already user-friendly
	var userErr UserError
	if errors.As(err, &userErr) {
		return err
	}
	var cfgErr ConfigError
	if errors.As(err, &cfgErr) {
		return err
	}

	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}

	errStr := rootErr.Error()

	// Parser errors start with their package name; file paths may contain
	// "yaml:" too (open vaulthook.yaml: ...).
	if strings.HasPrefix(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.HasPrefix(errStr, "json:") {
		return ConfigError{
			Message:    "Invalid JSON format",
			Suggestion: "Check the connection's extra field is a JSON object",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or the token's Vault policy",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	return err
}
