package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3" // cgo driver, registered as "sqlite3"
	_ "modernc.org/sqlite"          // pure-Go driver, registered as "sqlite"
)

// Schema creates the audit table and its query indexes.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    timestamp TIMESTAMP NOT NULL,

    principal TEXT NOT NULL,
    action TEXT NOT NULL,
    resource TEXT NOT NULL,
    context TEXT,

    effect TEXT NOT NULL,
    reason_code INTEGER NOT NULL,

    rules_checked INTEGER NOT NULL,
    condition_evals INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL,

    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_records(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_principal ON audit_records(principal);
CREATE INDEX IF NOT EXISTS idx_audit_effect ON audit_records(effect);
`

// SQLiteConfig configures the SQLite audit backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the registered database/sql driver: "sqlite3" for the
	// cgo build, "sqlite" for the pure-Go build. Default: "sqlite3".
	Driver string

	// MaxOpenConns is the connection pool cap. Default: 10.
	MaxOpenConns int

	// MaxIdleConns is the idle connection cap. Default: 5.
	MaxIdleConns int

	// WALMode enables write-ahead logging for better concurrency.
	// Default: true.
	WALMode bool

	// BusyTimeout is how long a locked database blocks a writer.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path:         "data/audit.db",
		Driver:       "sqlite3",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage is a durable Storage backend over database/sql.
type SQLiteStorage struct {
	db     *sql.DB
	config SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (or creates) the database and applies the schema.
func NewSQLiteStorage(config SQLiteConfig) (*SQLiteStorage, error) {
	if config.Path == "" {
		config.Path = DefaultSQLiteConfig().Path
	}
	if config.Driver == "" {
		config.Driver = DefaultSQLiteConfig().Driver
	}
	if config.Driver != "sqlite3" && config.Driver != "sqlite" {
		return nil, NewStorageError("sqlite", "open",
			fmt.Errorf("unknown driver %q, want sqlite3 or sqlite", config.Driver))
	}
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = DefaultSQLiteConfig().MaxOpenConns
	}
	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = DefaultSQLiteConfig().MaxIdleConns
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = DefaultSQLiteConfig().BusyTimeout
	}

	logger := slog.Default().With("component", "audit.storage.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite audit storage initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	return nil
}

// Store persists one record.
func (s *SQLiteStorage) Store(ctx context.Context, record *Record) error {
	var contextJSON []byte
	if len(record.Context) > 0 {
		data, err := json.Marshal(record.Context)
		if err != nil {
			return NewStorageError("sqlite", "marshal_context", err)
		}
		contextJSON = data
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_records (
			id, timestamp, principal, action, resource, context,
			effect, reason_code, rules_checked, condition_evals, duration_ns, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Timestamp, record.Principal, record.Action, record.Resource,
		nullableString(string(contextJSON)),
		record.Effect, record.ReasonCode, record.RulesChecked, record.ConditionEvals,
		record.Duration.Nanoseconds(), nullableString(record.Error),
	)
	if err != nil {
		return NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+" FROM audit_records WHERE id = ?", id)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "get", err)
	}
	return record, nil
}

// List returns matching records, newest first.
func (s *SQLiteStorage) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	query := selectColumns + " FROM audit_records WHERE 1=1"
	var args []any

	if filter.Principal != "" {
		query += " AND principal = ?"
		args = append(args, filter.Principal)
	}
	if filter.Effect != "" {
		query += " AND effect = ?"
		args = append(args, filter.Effect)
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since)
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "list", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "list_scan", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "list_rows", err)
	}
	return out, nil
}

// Count returns the total number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_records").Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// DeleteOlderThan removes records older than cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM audit_records WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_older_than", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_older_than", err)
	}
	return deleted, nil
}

// DeleteOldest trims the store down to keep records.
func (s *SQLiteStorage) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM audit_records WHERE id IN (
			SELECT id FROM audit_records
			ORDER BY timestamp DESC
			LIMIT -1 OFFSET ?
		)`, keep)
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_oldest", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "delete_oldest", err)
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	return nil
}

const selectColumns = `SELECT id, timestamp, principal, action, resource, context,
	effect, reason_code, rules_checked, condition_evals, duration_ns, error`

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var record Record
	var contextJSON, errMsg sql.NullString
	var durationNS int64

	err := row.Scan(
		&record.ID, &record.Timestamp, &record.Principal, &record.Action, &record.Resource,
		&contextJSON, &record.Effect, &record.ReasonCode,
		&record.RulesChecked, &record.ConditionEvals, &durationNS, &errMsg,
	)
	if err != nil {
		return nil, err
	}

	record.Duration = time.Duration(durationNS)
	record.Error = errMsg.String
	if contextJSON.Valid && contextJSON.String != "" {
		if err := json.Unmarshal([]byte(contextJSON.String), &record.Context); err != nil {
			return nil, fmt.Errorf("unmarshal context: %w", err)
		}
	}
	return &record, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
