package connections

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	dserrors "github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/pkg/connection"
)

//go:embed connections.schema.json
var connectionsSchema []byte

// fileDocument is the on-disk layout of a connections file.
type fileDocument struct {
	Connections map[string]fileEntry `yaml:"connections" json:"connections"`
}

// fileEntry keeps port loose so both `port: 8200` and `port: "8200"` work.
type fileEntry struct {
	Type     string            `yaml:"type,omitempty" json:"type,omitempty"`
	Host     string            `yaml:"host" json:"host"`
	Port     interface{}       `yaml:"port" json:"port"`
	Password string            `yaml:"password,omitempty" json:"password,omitempty"`
	Extra    map[string]string `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// FileRegistry serves connections from a YAML file:
//
//	connections:
//	  vault_default:
//	    type: vault
//	    host: vault.internal
//	    port: 8200
//	    password: s.xxxxx
//	    extra:
//	      certfile: /etc/vault/client.pem
//	      keyfile: /etc/vault/client-key.pem
type FileRegistry struct {
	path    string
	records map[string]connection.Record
}

// LoadFile reads, validates and decodes a connections file.
func LoadFile(path string) (*FileRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dserrors.ConfigError{
				Field:      "sources.file",
				Value:      path,
				Message:    "connections file not found",
				Suggestion: "Create the file or remove 'sources.file' from vaulthook.yaml",
			}
		}
		return nil, dserrors.UserError{
			Message:    "Failed to read connections file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	records, err := parseFile(data)
	if err != nil {
		return nil, err
	}

	return &FileRegistry{path: path, records: records}, nil
}

func parseFile(data []byte) (map[string]connection.Record, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "invalid YAML syntax in connections file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "connections file does not match the expected layout",
			Suggestion: err.Error(),
		}
	}

	records := make(map[string]connection.Record, len(doc.Connections))
	for id, e := range doc.Connections {
		records[id] = connection.Record{
			ID:       id,
			Type:     e.Type,
			Host:     e.Host,
			Port:     fmt.Sprint(e.Port),
			Password: e.Password,
			Extra:    e.Extra,
		}
	}
	return records, nil
}

func validateDocument(raw interface{}) error {
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal connections for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(connectionsSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return dserrors.ConfigError{
			Message:    "connections file failed validation:\n  - " + strings.Join(msgs, "\n  - "),
			Suggestion: "Every connection needs a host and a port",
		}
	}

	return nil
}

// Lookup implements connection.Lookup.
func (f *FileRegistry) Lookup(ctx context.Context, id string) (connection.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return connection.Record{}, connection.NotFoundError{ID: id, Source: f.path}
	}
	return r, nil
}

// List returns all records sorted by ID.
func (f *FileRegistry) List(ctx context.Context) ([]connection.Record, error) {
	out := make([]connection.Record, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
