package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/scansafe/scansafe/internal/core/domain"
)

// ScanRepository is the remote structured-document store for scan records.
type ScanRepository struct {
	db *sql.DB
}

func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ScanRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS scans (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	recall_info JSONB NOT NULL,
	nutrition JSONB,
	description TEXT,
	image_uri TEXT,
	scan_date TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scans_user_id ON scans(user_id);
CREATE INDEX IF NOT EXISTS idx_scans_scan_date ON scans(scan_date DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ScanRepository) Create(ctx context.Context, details *domain.ProductDetails) error {
	recallJSON, err := json.Marshal(details.RecallInfo)
	if err != nil {
		return fmt.Errorf("marshal recall info: %w", err)
	}
	nutritionJSON, err := marshalNutrition(details.Nutrition)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO scans (
	id, user_id, recall_info, nutrition, description, image_uri, scan_date, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		details.ID, details.UserID, recallJSON, nutritionJSON,
		details.Description, details.ImageURI, details.ScanDate, details.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

func (r *ScanRepository) GetByID(ctx context.Context, id string) (*domain.ProductDetails, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, recall_info, nutrition, description, image_uri, scan_date, created_at
FROM scans
WHERE id = $1
`, id)

	details, err := scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrScanNotFound, "get scan", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("select scan: %w", err)
	}
	return details, nil
}

func (r *ScanRepository) ListByUser(ctx context.Context, userID string) ([]domain.ProductDetails, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, recall_info, nutrition, description, image_uri, scan_date, created_at
FROM scans
WHERE user_id = $1
ORDER BY scan_date DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("select scans by user: %w", err)
	}
	defer rows.Close()

	var out []domain.ProductDetails
	for rows.Next() {
		details, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, *details)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return out, nil
}

func (r *ScanRepository) UpdateRecallInfo(ctx context.Context, id string, info domain.RecallInfo) error {
	recallJSON, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal recall info: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE scans SET recall_info = $2 WHERE id = $1
`, id, recallJSON)
	if err != nil {
		return fmt.Errorf("update recall info: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrScanNotFound, "update recall info", fmt.Errorf("id %s", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*domain.ProductDetails, error) {
	var details domain.ProductDetails
	var recallRaw []byte
	var nutritionRaw []byte
	var description, imageURI sql.NullString

	err := row.Scan(
		&details.ID, &details.UserID, &recallRaw, &nutritionRaw,
		&description, &imageURI, &details.ScanDate, &details.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(recallRaw, &details.RecallInfo); err != nil {
		return nil, fmt.Errorf("unmarshal recall info: %w", err)
	}
	if len(nutritionRaw) > 0 {
		var nutrition domain.NutritionalInfo
		if err := json.Unmarshal(nutritionRaw, &nutrition); err != nil {
			return nil, fmt.Errorf("unmarshal nutrition: %w", err)
		}
		details.Nutrition = &nutrition
	}
	details.Description = description.String
	details.ImageURI = imageURI.String
	return &details, nil
}

func marshalNutrition(nutrition *domain.NutritionalInfo) ([]byte, error) {
	if nutrition == nil {
		return nil, nil
	}
	raw, err := json.Marshal(nutrition)
	if err != nil {
		return nil, fmt.Errorf("marshal nutrition: %w", err)
	}
	return raw, nil
}
