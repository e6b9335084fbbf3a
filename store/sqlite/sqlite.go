/*
Package sqlite provides a SQLite-backed store for calendar configurations.

PURPOSE:
  Persists user-defined calendars (as JSON definitions) and remembers which
  one is active, so a restarted server comes back with the same calendar.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  calendars: Named calendar definitions, JSON config per row, with a
             single-row active flag

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/calendars.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - factory/calendar.go: Produces/consumes the stored JSON form
  - api/handlers.go:     The HTTP surface over this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists calendar definitions using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// CalendarRecord is one stored calendar definition.
type CalendarRecord struct {
	ID          string
	DisplayName string
	ConfigJSON  string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Calendar definitions (JSON config per row)
	CREATE TABLE IF NOT EXISTS calendars (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		config_json TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- At most one calendar is active; partial index keeps the lookup cheap
	CREATE INDEX IF NOT EXISTS idx_calendars_active
		ON calendars(active) WHERE active;
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CALENDAR CRUD
// =============================================================================

// SaveCalendar inserts or updates a calendar definition.
func (s *Store) SaveCalendar(ctx context.Context, rec CalendarRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO calendars (id, display_name, config_json, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.DisplayName, rec.ConfigJSON, rec.Active, now, now,
	)
	return err
}

// GetCalendar retrieves a calendar by ID. Returns (nil, nil) when absent.
func (s *Store) GetCalendar(ctx context.Context, id string) (*CalendarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanOne(s.db.QueryRowContext(ctx,
		"SELECT id, display_name, config_json, active, created_at, updated_at FROM calendars WHERE id = ?",
		id,
	))
}

// ListCalendars returns all stored calendars ordered by ID.
func (s *Store) ListCalendars(ctx context.Context) ([]CalendarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, display_name, config_json, active, created_at, updated_at FROM calendars ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CalendarRecord
	for rows.Next() {
		var rec CalendarRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&rec.ID, &rec.DisplayName, &rec.ConfigJSON, &rec.Active, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SetActiveCalendar marks one stored calendar active and clears the flag
// everywhere else, atomically.
func (s *Store) SetActiveCalendar(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE calendars SET active = TRUE WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("calendar %q not found", id)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE calendars SET active = FALSE WHERE id != ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// GetActiveCalendar returns the stored calendar marked active, or (nil, nil)
// when none is.
func (s *Store) GetActiveCalendar(ctx context.Context) (*CalendarRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanOne(s.db.QueryRowContext(ctx,
		"SELECT id, display_name, config_json, active, created_at, updated_at FROM calendars WHERE active LIMIT 1",
	))
}

// DeleteCalendar removes a stored calendar definition.
func (s *Store) DeleteCalendar(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM calendars WHERE id = ?", id)
	return err
}

func scanOne(row *sql.Row) (*CalendarRecord, error) {
	var rec CalendarRecord
	var createdAt, updatedAt string

	err := row.Scan(&rec.ID, &rec.DisplayName, &rec.ConfigJSON, &rec.Active, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}
