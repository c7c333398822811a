package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"thinkink-backend/internal/models"
)

type HistoryRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

func (r *HistoryRepo) Create(ctx context.Context, rec *models.HistoryRecord) error {
	query := `
		INSERT INTO history (id, user_id, feature_type, input_data, output_data, processing_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	rec.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		rec.ID, rec.UserID, rec.FeatureType, rec.InputData, rec.OutputData,
		rec.ProcessingTime, rec.Status,
	).Scan(&rec.CreatedAt)
}

func (r *HistoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.HistoryRecord, error) {
	rec := &models.HistoryRecord{}
	query := `SELECT id, user_id, feature_type, input_data, output_data, processing_time, status, created_at
		FROM history WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.UserID, &rec.FeatureType, &rec.InputData, &rec.OutputData,
		&rec.ProcessingTime, &rec.Status, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByUser returns the newest records first, optionally filtered by
// feature type.
func (r *HistoryRepo) ListByUser(ctx context.Context, userID uuid.UUID, featureType string, limit int) ([]models.HistoryRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT id, user_id, feature_type, input_data, output_data, processing_time, status, created_at
		FROM history WHERE user_id = $1`
	args := []interface{}{userID}
	argIdx := 2

	if featureType != "" {
		query += fmt.Sprintf(" AND feature_type = $%d", argIdx)
		args = append(args, featureType)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.HistoryRecord{}
	for rows.Next() {
		var rec models.HistoryRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.FeatureType, &rec.InputData, &rec.OutputData,
			&rec.ProcessingTime, &rec.Status, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *HistoryRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM history WHERE id = $1", id)
	return err
}

// DeleteByUser clears a user's records, optionally only one feature's.
func (r *HistoryRepo) DeleteByUser(ctx context.Context, userID uuid.UUID, featureType string) (int64, error) {
	if featureType != "" {
		tag, err := r.pool.Exec(ctx,
			"DELETE FROM history WHERE user_id = $1 AND feature_type = $2", userID, featureType)
		return tag.RowsAffected(), err
	}
	tag, err := r.pool.Exec(ctx, "DELETE FROM history WHERE user_id = $1", userID)
	return tag.RowsAffected(), err
}

// FeatureStats aggregates one feature's records for one user.
func (r *HistoryRepo) FeatureStats(ctx context.Context, userID uuid.UUID, featureType string) (*models.FeatureStats, error) {
	stats := &models.FeatureStats{FeatureType: featureType}

	query := `
		SELECT COUNT(*),
		       COALESCE(AVG(processing_time), 0),
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(COALESCE((output_data->>'word_count')::bigint, 0)), 0),
		       MAX(created_at)
		FROM history
		WHERE user_id = $1 AND feature_type = $2`

	var completed int64
	var last *time.Time
	err := r.pool.QueryRow(ctx, query, userID, featureType).Scan(
		&stats.TotalProcessed, &stats.AvgProcessingTime, &completed, &stats.TotalWords, &last,
	)
	if err != nil {
		return nil, err
	}

	if stats.TotalProcessed > 0 {
		stats.SuccessRate = float64(completed) / float64(stats.TotalProcessed)
	}
	stats.LastProcessed = last

	// Per-method breakdown, present only for features that tag methods.
	rows, err := r.pool.Query(ctx, `
		SELECT output_data->>'extraction_method', COUNT(*)
		FROM history
		WHERE user_id = $1 AND feature_type = $2 AND output_data ? 'extraction_method'
		GROUP BY 1`, userID, featureType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breakdown := map[string]int64{}
	for rows.Next() {
		var method string
		var count int64
		if err := rows.Scan(&method, &count); err != nil {
			return nil, err
		}
		breakdown[method] = count
	}
	if len(breakdown) > 0 {
		stats.MethodBreakdown = breakdown
	}

	return stats, rows.Err()
}

// Summary rolls up all features over the last N days.
func (r *HistoryRepo) Summary(ctx context.Context, userID uuid.UUID, days int) (*models.HistorySummary, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	summary := &models.HistorySummary{Days: days, FeatureBreakdown: map[string]int64{}}

	var completed int64
	var last *time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
		       MAX(created_at)
		FROM history
		WHERE user_id = $1 AND created_at >= $2`, userID, since).Scan(
		&summary.TotalProcessed, &completed, &last,
	)
	if err != nil {
		return nil, err
	}

	if summary.TotalProcessed > 0 {
		summary.SuccessRate = float64(completed) / float64(summary.TotalProcessed)
	}
	summary.LastProcessed = last

	rows, err := r.pool.Query(ctx, `
		SELECT feature_type, COUNT(*)
		FROM history
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY feature_type`, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var feature string
		var count int64
		if err := rows.Scan(&feature, &count); err != nil {
			return nil, err
		}
		summary.FeatureBreakdown[feature] = count
	}

	return summary, rows.Err()
}
