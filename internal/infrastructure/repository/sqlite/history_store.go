// Package sqlite is the local fallback history store. Records land here when
// the remote scan store rejects a write, and reads fall back here when the
// remote query fails.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/scansafe/scansafe/internal/core/domain"
)

type HistoryStore struct {
	db *sql.DB
}

func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	if dbPath == "" {
		dbPath = "./data/history.db"
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable wal mode: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &HistoryStore{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	const query = `
CREATE TABLE IF NOT EXISTS local_scans (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	payload TEXT NOT NULL,
	scan_date INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_local_scans_user ON local_scans(user_id, scan_date DESC);
`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("initialize sqlite schema: %w", err)
	}
	return nil
}

// Append adds one record to the user's local list. The list is append-only:
// existing rows are never rewritten.
func (s *HistoryStore) Append(ctx context.Context, userID string, details *domain.ProductDetails) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal scan payload: %w", err)
	}

	// scan_date is stored as unix nanoseconds so the index order matches
	// chronological order; textual timestamps sort wrong once fraction
	// digits vary.
	_, err = s.db.ExecContext(ctx, `
INSERT INTO local_scans (id, user_id, payload, scan_date) VALUES (?, ?, ?, ?)
`, details.ID, userID, string(payload), details.ScanDate.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("insert local scan: %w", err)
	}
	return nil
}

func (s *HistoryStore) ListByUser(ctx context.Context, userID string) ([]domain.ProductDetails, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT payload FROM local_scans WHERE user_id = ? ORDER BY scan_date DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("select local scans: %w", err)
	}
	defer rows.Close()

	var out []domain.ProductDetails
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan payload row: %w", err)
		}
		var details domain.ProductDetails
		if err := json.Unmarshal([]byte(payload), &details); err != nil {
			return nil, fmt.Errorf("unmarshal scan payload: %w", err)
		}
		out = append(out, details)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate local scans: %w", err)
	}
	return out, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}
