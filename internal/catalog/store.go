package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"hedgegraph/pkg/sqlite"
)

// Model is one catalog row. Source records where the row came from so a
// provider refresh can replace its own rows without touching the rest.
type Model struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	ModelName   string `json:"model_name"`
	Provider    string `json:"provider"`
	JSONMode    bool   `json:"json_mode"`
	Source      string `json:"source"`
	SortOrder   int    `json:"sort_order"`
	Enabled     bool   `json:"enabled"`
}

const schema = `
CREATE TABLE IF NOT EXISTS language_models (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	display_name TEXT    NOT NULL,
	model_name   TEXT    NOT NULL,
	provider     TEXT    NOT NULL,
	json_mode    INTEGER NOT NULL DEFAULT 0,
	source       TEXT    NOT NULL DEFAULT 'static',
	sort_order   INTEGER NOT NULL DEFAULT 0,
	enabled      INTEGER NOT NULL DEFAULT 1,
	created_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(model_name, provider)
);`

// Store is the sqlite-backed model catalog. A fresh database is seeded from
// the embedded static list so the API serves a useful catalog immediately.
type Store struct {
	db *sql.DB
}

// OpenStore opens the catalog at dbPath, creating and seeding it if needed.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.seedIfEmpty(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// seedIfEmpty inserts the embedded static catalog into an empty database.
// An already-populated database is left alone, including rows the operator
// disabled by hand.
func (s *Store) seedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM language_models`).Scan(&count); err != nil {
		return fmt.Errorf("count catalog rows: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, m := range StaticModels() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO language_models (display_name, model_name, provider, json_mode, source, sort_order) VALUES (?, ?, ?, ?, 'static', ?)`,
			m.DisplayName, m.ModelName, m.Provider, m.JSONMode, i)
		if err != nil {
			return fmt.Errorf("seed %s: %w", m.ModelName, err)
		}
	}
	return tx.Commit()
}

// List returns every enabled model ordered for display.
func (s *Store) List(ctx context.Context) ([]Model, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, display_name, model_name, provider, json_mode, source, sort_order, enabled
		 FROM language_models WHERE enabled = 1 ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []Model
	for rows.Next() {
		var m Model
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.ModelName, &m.Provider, &m.JSONMode, &m.Source, &m.SortOrder, &m.Enabled); err != nil {
			return nil, fmt.Errorf("scan model row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListByProvider groups the enabled catalog by provider, preserving the
// display order within each group.
func (s *Store) ListByProvider(ctx context.Context) (map[string][]Model, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Model)
	for _, m := range all {
		out[m.Provider] = append(out[m.Provider], m)
	}
	return out, nil
}

// ReplaceProvider atomically swaps one provider's rows for the given set.
// It returns how many rows the swap deleted and inserted; on error the
// previous rows survive untouched.
func (s *Store) ReplaceProvider(ctx context.Context, provider, source string, models []Model) (deleted, inserted int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin provider swap: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM language_models WHERE provider = ?`, provider)
	if err != nil {
		return 0, 0, fmt.Errorf("delete %s rows: %w", provider, err)
	}
	n, _ := res.RowsAffected()
	deleted = int(n)

	for i, m := range models {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO language_models (display_name, model_name, provider, json_mode, source, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
			m.DisplayName, m.ModelName, provider, m.JSONMode, source, i)
		if err != nil {
			return 0, 0, fmt.Errorf("insert %s: %w", m.ModelName, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit provider swap: %w", err)
	}
	return deleted, inserted, nil
}
