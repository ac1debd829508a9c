package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/me/narabid/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if dbPath == ":memory:" {
		// Every connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// RecordCall inserts one fetch log entry, assigning an ID and timestamp
// when missing.
func (s *SQLiteStore) RecordCall(ctx context.Context, e *model.FetchLogEntry) error {
	if e.ID == "" {
		e.ID = "fetch_" + uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.logger.Debug("sql", "op", "insert", "table", "fetch_log", "id", e.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fetch_log (id, kind, page_no, url, status, items, duration_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.PageNo, e.URL, e.Status, e.Items, e.DurationMs, e.Error,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert fetch log %s: %w", e.ID, err)
	}
	return nil
}

// ListFetches returns recent fetch log entries, newest first.
func (s *SQLiteStore) ListFetches(ctx context.Context, opts model.ListOptions) ([]*model.FetchLogEntry, int, error) {
	opts.Clamp()
	s.logger.Debug("sql", "op", "select", "table", "fetch_log", "limit", opts.Limit)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fetch_log`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count fetch log: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, page_no, url, status, items, duration_ms, error, created_at
		 FROM fetch_log ORDER BY created_at DESC, id DESC LIMIT ?`, opts.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list fetch log: %w", err)
	}
	defer rows.Close()

	var out []*model.FetchLogEntry
	for rows.Next() {
		var e model.FetchLogEntry
		var kind, createdAt string
		if err := rows.Scan(&e.ID, &kind, &e.PageNo, &e.URL, &e.Status, &e.Items, &e.DurationMs, &e.Error, &createdAt); err != nil {
			return nil, 0, fmt.Errorf("scan fetch log: %w", err)
		}
		e.Kind = model.Kind(kind)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate fetch log: %w", err)
	}
	return out, total, nil
}
