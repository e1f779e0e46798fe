package connections

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fernet/fernet-go"

	// Drivers for the orchestrator metadata database
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	dserrors "github.com/systmms/vaulthook/internal/errors"
	"github.com/systmms/vaulthook/pkg/connection"
)

// SQLRegistry reads connections from the orchestrator's metadata database.
// It expects a table
//
//	connection (conn_id, conn_type, host, port, password, extra,
//	            is_encrypted, is_extra_encrypted)
//
// where extra is a JSON object (or NULL). Rows flagged as encrypted hold
// Fernet tokens and need the orchestrator's Fernet key, see SetFernetKey.
type SQLRegistry struct {
	db     *sql.DB
	driver string
	keys   []*fernet.Key
}

// driverMap normalizes configured database types to driver names.
var driverMap = map[string]string{
	"postgres":   "postgres",
	"postgresql": "postgres",
	"mysql":      "mysql",
	"mariadb":    "mysql",
}

// OpenSQL opens the metadata database. The connection is verified lazily on
// first lookup.
func OpenSQL(dbType, dsn string) (*SQLRegistry, error) {
	driver, ok := driverMap[strings.ToLower(dbType)]
	if !ok {
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	return NewSQLRegistry(db, driver), nil
}

// NewSQLRegistry wraps an open database. driver selects the placeholder
// style and must be "postgres" or "mysql".
func NewSQLRegistry(db *sql.DB, driver string) *SQLRegistry {
	return &SQLRegistry{db: db, driver: driver}
}

// SetFernetKey configures decryption of encrypted columns. key may list
// several comma-separated keys, newest first, as the orchestrator allows
// during key rotation.
func (s *SQLRegistry) SetFernetKey(key string) error {
	var parts []string
	for _, k := range strings.Split(key, ",") {
		if k = strings.TrimSpace(k); k != "" {
			parts = append(parts, k)
		}
	}
	if len(parts) == 0 {
		s.keys = nil
		return nil
	}

	keys, err := fernet.DecodeKeys(parts...)
	if err != nil {
		return fmt.Errorf("invalid fernet key: %w", err)
	}
	s.keys = keys
	return nil
}

const selectColumns = "SELECT conn_id, conn_type, host, port, password, extra, is_encrypted, is_extra_encrypted FROM connection"

func (s *SQLRegistry) placeholder() string {
	if s.driver == "postgres" {
		return "$1"
	}
	return "?"
}

// Lookup implements connection.Lookup.
func (s *SQLRegistry) Lookup(ctx context.Context, id string) (connection.Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE conn_id = "+s.placeholder(), id)

	rec, err := s.scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return connection.Record{}, connection.NotFoundError{ID: id, Source: "database"}
	}
	if err != nil {
		return connection.Record{}, fmt.Errorf("failed to look up connection %s: %w", id, err)
	}
	return rec, nil
}

// List returns all connections ordered by conn_id.
func (s *SQLRegistry) List(ctx context.Context) ([]connection.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY conn_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []connection.Record
	for rows.Next() {
		rec, err := s.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to list connections: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *SQLRegistry) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLRegistry) scanRecord(sc scanner) (connection.Record, error) {
	var (
		id                              string
		connType, host, port, pw, extra sql.NullString
		pwEncrypted, extraEncrypted     sql.NullBool
	)
	if err := sc.Scan(&id, &connType, &host, &port, &pw, &extra, &pwEncrypted, &extraEncrypted); err != nil {
		return connection.Record{}, err
	}

	password, err := s.decrypt(id, "password", pw.String, pwEncrypted.Bool)
	if err != nil {
		return connection.Record{}, err
	}
	extraJSON, err := s.decrypt(id, "extra", extra.String, extraEncrypted.Bool)
	if err != nil {
		return connection.Record{}, err
	}

	rec := connection.Record{
		ID:       id,
		Type:     connType.String,
		Host:     host.String,
		Port:     port.String,
		Password: password,
	}

	if strings.TrimSpace(extraJSON) != "" {
		fields := map[string]interface{}{}
		if err := json.Unmarshal([]byte(extraJSON), &fields); err != nil {
			return connection.Record{}, fmt.Errorf("extra of connection %s: %w", id, err)
		}
		rec.Extra = make(map[string]string, len(fields))
		for k, v := range fields {
			if str, ok := v.(string); ok {
				rec.Extra[k] = str
			} else {
				rec.Extra[k] = fmt.Sprint(v)
			}
		}
	}

	return rec, nil
}

// decrypt returns value as is unless encrypted is set. Stored tokens have
// no TTL.
func (s *SQLRegistry) decrypt(id, column, value string, encrypted bool) (string, error) {
	if !encrypted || value == "" {
		return value, nil
	}

	if len(s.keys) == 0 {
		return "", dserrors.ConfigError{
			Field:      "sources.database.fernet_key",
			Message:    fmt.Sprintf("%s of connection '%s' is encrypted but no fernet key is configured", column, id),
			Suggestion: "Set 'sources.database.fernet_key' to the orchestrator's fernet key",
		}
	}

	plain := fernet.VerifyAndDecrypt([]byte(value), -1, s.keys)
	if plain == nil {
		return "", dserrors.ConfigError{
			Field:      "sources.database.fernet_key",
			Message:    fmt.Sprintf("cannot decrypt %s of connection '%s'", column, id),
			Suggestion: "Check that the fernet key matches the one the orchestrator uses",
		}
	}
	return string(plain), nil
}
