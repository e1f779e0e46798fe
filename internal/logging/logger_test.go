package logging

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"my-secret-password", "", "s.hvs-token!@#"} {
		s := Secret(input)
		assert.Equal(t, "[REDACTED]", s.String())
		assert.Equal(t, "[REDACTED]", s.GoString())
		assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
		assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", s))
	}
}

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, true)

	logger.Info("info %s", "message")
	logger.Warn("warn message")
	logger.Error("error message")
	logger.Debug("debug message")

	out := buf.String()
	assert.Contains(t, out, "✓ info message\n")
	assert.Contains(t, out, "⚠ warn message\n")
	assert.Contains(t, out, "✗ error message\n")
	assert.Contains(t, out, "[DEBUG] debug message\n")
	assert.NotContains(t, out, "\033[")
}

func TestLoggerDebugDisabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, true)

	assert.False(t, logger.DebugEnabled())
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestLoggerColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter(&buf, false, false).Error("boom")

	assert.Equal(t, "\033[31m✗\033[0m boom\n", buf.String())
}

func TestLoggerSecretArgs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, true)

	token := "s.super-secret-token"
	logger.Debug("token=%s other=%v", Secret(token), Secret(token))

	assert.NotContains(t, buf.String(), token)
	assert.Contains(t, buf.String(), "token=[REDACTED] other=[REDACTED]")
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := Discard()
	logger.Info("dropped")
	logger.Debug("dropped")
	assert.False(t, logger.DebugEnabled())
}

func TestRedact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		secrets  []string
		expected string
	}{
		{
			name:     "single secret redacted",
			input:    "token is s.abc123",
			secrets:  []string{"s.abc123"},
			expected: "token is [REDACTED]",
		},
		{
			name:     "multiple secrets redacted",
			input:    "vault admin with token s.abc123",
			secrets:  []string{"admin", "s.abc123"},
			expected: "vault [REDACTED] with token [REDACTED]",
		},
		{
			name:     "empty secret ignored",
			input:    "nothing here",
			secrets:  []string{""},
			expected: "nothing here",
		},
		{
			name:     "short secret ignored",
			input:    "short: ab",
			secrets:  []string{"ab"},
			expected: "short: ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Redact(tt.input, tt.secrets))
		})
	}
}
