// Package storage persists completed runs: a sqlite history plus markdown
// result files.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hedgegraph/internal/models"
	"hedgegraph/pkg/sqlite"
)

// RunRecord is one completed run as stored in history.
type RunRecord struct {
	ID            int64                                     `json:"id"`
	CreatedAt     time.Time                                 `json:"created_at"`
	Tickers       []string                                  `json:"tickers"`
	ModelName     string                                    `json:"model_name"`
	ModelProvider string                                    `json:"model_provider"`
	Decisions     map[string]models.Decision                `json:"decisions"`
	Signals       map[string]map[string]models.SignalRecord `json:"signals"`
	Report        string                                    `json:"report"`
}

const runsSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	tickers        TEXT NOT NULL,
	model_name     TEXT NOT NULL,
	model_provider TEXT NOT NULL,
	decisions      TEXT NOT NULL,
	signals        TEXT NOT NULL,
	report         TEXT NOT NULL
);`

// RunStore is the sqlite-backed run history.
type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens the history database at dbPath, creating it if needed.
func OpenRunStore(dbPath string) (*RunStore, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(runsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create runs schema: %w", err)
	}
	return &RunStore{db: db}, nil
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

// SaveRun appends one run to history and returns its id.
func (s *RunStore) SaveRun(ctx context.Context, rec RunRecord) (int64, error) {
	decisions, err := json.Marshal(rec.Decisions)
	if err != nil {
		return 0, fmt.Errorf("encode decisions: %w", err)
	}
	signals, err := json.Marshal(rec.Signals)
	if err != nil {
		return 0, fmt.Errorf("encode signals: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (tickers, model_name, model_provider, decisions, signals, report) VALUES (?, ?, ?, ?, ?, ?)`,
		strings.Join(rec.Tickers, ","), rec.ModelName, rec.ModelProvider, string(decisions), string(signals), rec.Report)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, tickers, model_name, model_provider, decisions, signals, report
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec               RunRecord
			tickers           string
			decisions, sigStr string
		)
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &tickers, &rec.ModelName, &rec.ModelProvider, &decisions, &sigStr, &rec.Report); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		if tickers != "" {
			rec.Tickers = strings.Split(tickers, ",")
		}
		if err := json.Unmarshal([]byte(decisions), &rec.Decisions); err != nil {
			return nil, fmt.Errorf("decode decisions for run %d: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(sigStr), &rec.Signals); err != nil {
			return nil, fmt.Errorf("decode signals for run %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
