// Package store persists custom catalogue bodies and the computation history in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
)

const Codespace = "store"

var (
	ErrNotFound      = errorsmod.Register(Codespace, 2, "record not found")
	ErrInvalidRecord = errorsmod.Register(Codespace, 3, "invalid record")
)

// DefaultHistoryLimit bounds ListHistory when no limit is given.
const DefaultHistoryLimit = 20

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS custom_bodies (
		name TEXT PRIMARY KEY COLLATE NOCASE,
		kind TEXT NOT NULL,
		mass_kg REAL NOT NULL,
		radius_km REAL NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		input_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type bodyRow struct {
	Name      string  `db:"name"`
	Kind      string  `db:"kind"`
	Mass      float64 `db:"mass_kg"`
	Radius    float64 `db:"radius_km"`
	CreatedAt int64   `db:"created_at"`
}

// SaveBody inserts or replaces a custom body.
func (db *DB) SaveBody(b catalog.Body) error {
	if err := b.Validate(); err != nil {
		return ErrInvalidRecord.Wrap(err.Error())
	}

	_, err := db.conn.NamedExec(`INSERT OR REPLACE INTO custom_bodies
		(name, kind, mass_kg, radius_km, created_at)
		VALUES (:name, :kind, :mass_kg, :radius_km, :created_at)`,
		bodyRow{
			Name:      b.Name,
			Kind:      string(b.Kind),
			Mass:      b.Mass,
			Radius:    b.Radius,
			CreatedAt: time.Now().UnixMilli(),
		},
	)
	if err != nil {
		return fmt.Errorf("insert body %q: %w", b.Name, err)
	}
	return nil
}

// LoadBodies returns every custom body in insertion order.
func (db *DB) LoadBodies() ([]catalog.Body, error) {
	var rows []bodyRow
	err := db.conn.Select(&rows,
		"SELECT name, kind, mass_kg, radius_km, created_at FROM custom_bodies ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, err
	}

	bodies := make([]catalog.Body, 0, len(rows))
	for _, r := range rows {
		bodies = append(bodies, catalog.Body{
			Name:   r.Name,
			Kind:   catalog.Kind(r.Kind),
			Mass:   r.Mass,
			Radius: r.Radius,
			Custom: true,
		})
	}
	return bodies, nil
}

// DeleteBody removes a custom body by name, ignoring case.
func (db *DB) DeleteBody(name string) error {
	res, err := db.conn.Exec("DELETE FROM custom_bodies WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound.Wrapf("body %q", name)
	}
	return nil
}

type historyRow struct {
	ID        string `db:"id"`
	Kind      string `db:"kind"`
	Input     string `db:"input_json"`
	Result    string `db:"result_json"`
	CreatedAt int64  `db:"created_at"`
}

func (r historyRow) entry() types.HistoryEntry {
	return types.HistoryEntry{
		ID:        r.ID,
		Kind:      types.AnalysisType(r.Kind),
		Input:     json.RawMessage(r.Input),
		Result:    json.RawMessage(r.Result),
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
	}
}

// RecordHistory stores a finished analysis and returns its id. An id is
// generated when the result has none.
func (db *DB) RecordHistory(result *types.AnalysisResult) (string, error) {
	if result == nil || result.Type == "" {
		return "", ErrInvalidRecord.Wrap("missing analysis type")
	}

	id := result.ID
	if id == "" {
		id = uuid.NewString()
	}
	ts := result.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	input, err := json.Marshal(result.Parameters)
	if err != nil {
		return "", fmt.Errorf("encode parameters: %w", err)
	}
	output, err := json.Marshal(result.Results)
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}

	_, err = db.conn.Exec(
		"INSERT INTO history (id, kind, input_json, result_json, created_at) VALUES (?, ?, ?, ?, ?)",
		id, string(result.Type), string(input), string(output), ts.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("insert history: %w", err)
	}
	return id, nil
}

// ListHistory returns the most recent entries, newest first.
func (db *DB) ListHistory(limit int) ([]types.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var rows []historyRow
	err := db.conn.Select(&rows,
		"SELECT id, kind, input_json, result_json, created_at FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}

	entries := make([]types.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

// GetHistory returns one entry by id.
func (db *DB) GetHistory(id string) (types.HistoryEntry, error) {
	var r historyRow
	err := db.conn.Get(&r, "SELECT id, kind, input_json, result_json, created_at FROM history WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return types.HistoryEntry{}, ErrNotFound.Wrapf("history %q", id)
	}
	if err != nil {
		return types.HistoryEntry{}, err
	}
	return r.entry(), nil
}

// ClearHistory deletes every history entry and returns how many were removed.
func (db *DB) ClearHistory() (int64, error) {
	res, err := db.conn.Exec("DELETE FROM history")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
