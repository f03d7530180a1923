package repository

import (
	"context"
	"errors"
	"fmt"

	"pdf-compare/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createComparisonsTable = `
CREATE TABLE IF NOT EXISTS comparisons (
	id                    TEXT PRIMARY KEY,
	mode                  TEXT NOT NULL,
	document1_id          TEXT NOT NULL,
	document2_id          TEXT NOT NULL,
	similarity_percentage DOUBLE PRECISION NOT NULL,
	has_differences       BOOLEAN NOT NULL,
	report                JSONB NOT NULL,
	created_at            TIMESTAMPTZ NOT NULL
)`

const upsertComparison = `
INSERT INTO comparisons (id, mode, document1_id, document2_id, similarity_percentage, has_differences, report, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
	similarity_percentage = EXCLUDED.similarity_percentage,
	has_differences = EXCLUDED.has_differences,
	report = EXCLUDED.report`

const selectComparison = `SELECT report FROM comparisons WHERE id = $1`

const listComparisonsByDocument = `
SELECT coalesce(json_agg(t.report ORDER BY t.created_at DESC), '[]'::json)
FROM (
	SELECT report, created_at FROM comparisons
	WHERE document1_id = $1 OR document2_id = $1
	ORDER BY created_at DESC
	LIMIT $2
) t`

// pgQuerier is the subset of *pgxpool.Pool the repository uses.
type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresReportRepository stores comparison reports directly in Postgres
type PostgresReportRepository struct {
	db     pgQuerier
	pool   *pgxpool.Pool
	logger domain.Logger
}

// NewPostgresReportRepository connects to databaseURL and ensures the table exists
func NewPostgresReportRepository(ctx context.Context, databaseURL string, logger domain.Logger) (*PostgresReportRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	r := &PostgresReportRepository{db: pool, pool: pool, logger: logger}
	if err := r.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("Postgres report repository ready")
	return r, nil
}

// EnsureSchema creates the comparisons table when missing
func (r *PostgresReportRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createComparisonsTable); err != nil {
		return fmt.Errorf("failed to create comparisons table: %w", err)
	}
	return nil
}

// Save upserts a report. The token is unused; access is governed by the connection role.
func (r *PostgresReportRepository) Save(ctx context.Context, report *domain.ComparisonReport, token string) error {
	row, err := newReportRow(report)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, upsertComparison,
		row.ID, row.Mode, row.Document1ID, row.Document2ID,
		row.SimilarityPercentage, row.HasDifferences, []byte(row.Report), row.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to save comparison report", err, "report_id", report.ID)
		return fmt.Errorf("failed to save report %s: %w", report.ID, err)
	}
	return nil
}

// GetByID loads a stored report
func (r *PostgresReportRepository) GetByID(ctx context.Context, id string, token string) (*domain.ComparisonReport, error) {
	var body []byte
	if err := r.db.QueryRow(ctx, selectComparison, id).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id)
		}
		return nil, fmt.Errorf("failed to query report %s: %w", id, err)
	}
	return decodeReport(body)
}

// ListByDocument returns the newest reports involving documentID
func (r *PostgresReportRepository) ListByDocument(ctx context.Context, documentID string, limit int, token string) ([]*domain.ComparisonReport, error) {
	var body []byte
	if err := r.db.QueryRow(ctx, listComparisonsByDocument, documentID, limit).Scan(&body); err != nil {
		return nil, fmt.Errorf("failed to list reports for %s: %w", documentID, err)
	}
	return decodeReports(body)
}

// Close releases the connection pool
func (r *PostgresReportRepository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}
