package config

import (
	"os"

	dserrors "github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/internal/connections"
	"github.com/systmms/vaulthook/internal/logging"
	"github.com/systmms/vaulthook/pkg/connection"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration
type Config struct {
	Path   string
	Logger *logging.Logger

	// Flag overrides. Empty/nil means "use the file".
	ConnID     string
	DisableTLS bool

	Definition *Definition
}

// Definition represents the vaulthook.yaml structure
type Definition struct {
	Version int     `yaml:"version"`
	ConnID  string  `yaml:"conn_id,omitempty"`
	TLS     *bool   `yaml:"tls,omitempty"`
	Sources Sources `yaml:"sources"`
}

// Sources selects the connection registries, consulted in the order
// env, file, database. Keyring fills in missing tokens for all of them.
type Sources struct {
	Env      *EnvSource      `yaml:"env,omitempty"`
	File     string          `yaml:"file,omitempty"`
	Database *DatabaseSource `yaml:"database,omitempty"`
	Keyring  *bool           `yaml:"keyring,omitempty"`
}

// EnvSource configures environment variable lookup
type EnvSource struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Prefix  string `yaml:"prefix,omitempty"`
}

// DatabaseSource points at the orchestrator metadata database. FernetKey
// is the orchestrator's key for encrypted passwords and extras.
type DatabaseSource struct {
	Type      string `yaml:"type"`
	DSN       string `yaml:"dsn"`
	FernetKey string `yaml:"fernet_key,omitempty"`
}

// Load reads and parses the configuration file. A missing file at the
// default path leaves the defaults in place.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			if c.Logger != nil {
				c.Logger.Debug("config file %s not found, using defaults", c.Path)
			}
			c.Definition = &Definition{}
			return nil
		}
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	if def.Version != 0 {
		return dserrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your vaulthook.yaml file",
		}
	}

	if db := def.Sources.Database; db != nil && (db.Type == "" || db.DSN == "") {
		return dserrors.ConfigError{
			Field:      "sources.database",
			Message:    "both 'type' and 'dsn' are required",
			Suggestion: "Example: {type: postgres, dsn: postgres://airflow@localhost/airflow}",
		}
	}

	c.Definition = &def
	return nil
}

// EffectiveConnID returns the connection id from the flag, then the file.
// Empty means the hook's default.
func (c *Config) EffectiveConnID() string {
	if c.ConnID != "" {
		return c.ConnID
	}
	if c.Definition != nil {
		return c.Definition.ConnID
	}
	return ""
}

// TLSEnabled reports whether the hook should use https.
func (c *Config) TLSEnabled() bool {
	if c.DisableTLS {
		return false
	}
	if c.Definition != nil && c.Definition.TLS != nil {
		return *c.Definition.TLS
	}
	return true
}

// BuildLookup assembles the configured registries. The returned close
// function releases the database, if one was opened.
func (c *Config) BuildLookup() (connection.Lookup, func() error, error) {
	noop := func() error { return nil }

	if c.Definition == nil {
		return nil, noop, dserrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}
	src := c.Definition.Sources

	var chain connections.Chain
	closer := noop

	if src.Env == nil || src.Env.Enabled == nil || *src.Env.Enabled {
		prefix := ""
		if src.Env != nil {
			prefix = src.Env.Prefix
		}
		chain = append(chain, connections.NewEnvRegistry(prefix))
	}

	if src.File != "" {
		reg, err := connections.LoadFile(src.File)
		if err != nil {
			return nil, noop, err
		}
		chain = append(chain, reg)
	}

	if src.Database != nil {
		reg, err := connections.OpenSQL(src.Database.Type, src.Database.DSN)
		if err != nil {
			return nil, noop, dserrors.ConfigError{
				Field:      "sources.database.type",
				Value:      src.Database.Type,
				Message:    err.Error(),
				Suggestion: "Supported types: postgres, mysql",
			}
		}
		if err := reg.SetFernetKey(src.Database.FernetKey); err != nil {
			_ = reg.Close()
			return nil, noop, dserrors.ConfigError{
				Field:      "sources.database.fernet_key",
				Message:    err.Error(),
				Suggestion: "Use the orchestrator's fernet key, a 32-byte url-safe base64 value",
			}
		}
		chain = append(chain, reg)
		closer = reg.Close
	}

	if len(chain) == 0 {
		return nil, noop, dserrors.ConfigError{
			Field:      "sources",
			Message:    "no connection sources enabled",
			Suggestion: "Enable env lookup or set 'sources.file' or 'sources.database'",
		}
	}

	var lookup connection.Lookup = chain
	if src.Keyring == nil || *src.Keyring {
		lookup = connections.WithKeyringTokens(chain)
	}

	return lookup, closer, nil
}
