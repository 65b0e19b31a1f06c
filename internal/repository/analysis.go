package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/eliotalders0n/chatlens/pkg/model"
)

// AnalysisRepository persists completed analysis runs
type AnalysisRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewAnalysisRepository creates a new AnalysisRepository
func NewAnalysisRepository(db *pgxpool.Pool, logger *zap.Logger) *AnalysisRepository {
	return &AnalysisRepository{
		db:     db,
		logger: logger,
	}
}

// CreateRun stores a completed analysis run with its full bundle as JSONB
func (r *AnalysisRepository) CreateRun(ctx context.Context, run *model.AnalysisRun) error {
	bundleJSON, err := json.Marshal(run.Bundle)
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}

	query := `
		INSERT INTO analysis_runs (id, filename, format, bundle, raw_blob_path, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	_, err = r.db.Exec(ctx, query,
		run.ID,
		run.Filename,
		string(run.Format),
		bundleJSON,
		run.RawBlobPath,
	)

	if err != nil {
		r.logger.Error("failed to create analysis run", zap.Error(err), zap.String("run_id", run.ID))
		return fmt.Errorf("failed to create analysis run: %w", err)
	}

	return nil
}

// GetRun retrieves an analysis run by ID, including its bundle
func (r *AnalysisRepository) GetRun(ctx context.Context, runID string) (*model.AnalysisRun, error) {
	query := `
		SELECT id, filename, format, bundle, raw_blob_path, created_at
		FROM analysis_runs
		WHERE id = $1
	`

	var run model.AnalysisRun
	var format string
	var bundleJSON []byte
	err := r.db.QueryRow(ctx, query, runID).Scan(
		&run.ID,
		&run.Filename,
		&format,
		&bundleJSON,
		&run.RawBlobPath,
		&run.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("analysis run not found: %s", runID)
		}
		r.logger.Error("failed to get analysis run", zap.Error(err), zap.String("run_id", runID))
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	run.Format = model.ChatFormat(format)
	if len(bundleJSON) > 0 {
		var bundle model.AnalysisBundle
		if err := json.Unmarshal(bundleJSON, &bundle); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bundle: %w", err)
		}
		run.Bundle = &bundle
	}

	return &run, nil
}

// ListRuns returns the most recent runs without their bundles
func (r *AnalysisRepository) ListRuns(ctx context.Context, limit int) ([]model.AnalysisRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, filename, format, raw_blob_path, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error("failed to list analysis runs", zap.Error(err))
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	defer rows.Close()

	runs := make([]model.AnalysisRun, 0, limit)
	for rows.Next() {
		var run model.AnalysisRun
		var format string
		if err := rows.Scan(&run.ID, &run.Filename, &format, &run.RawBlobPath, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		run.Format = model.ChatFormat(format)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analysis runs: %w", err)
	}

	return runs, nil
}

// CreateReport records a generated report's blob location
func (r *AnalysisRepository) CreateReport(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (id, run_id, blob_path, generated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		report.ID,
		report.RunID,
		report.BlobPath,
		report.GeneratedAt,
	)

	if err != nil {
		r.logger.Error("failed to create report", zap.Error(err), zap.String("run_id", report.RunID))
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}
