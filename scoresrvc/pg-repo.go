package scoresrvc

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgAdjustmentRepo struct {
	pool *pgxpool.Pool
}

func NewPgAdjustmentRepo(pool *pgxpool.Pool) *PgAdjustmentRepo {
	return &PgAdjustmentRepo{pool: pool}
}

func (r *PgAdjustmentRepo) StoreAdjustment(ctx context.Context, adjustment ScoreAdjustment) (ScoreAdjustment, error) {
	var reason *string
	if adjustment.Reason != "" {
		reason = &adjustment.Reason
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO score_adjustments
		 (target_team_id, adjusted_by_team_id, adjusted_by_user_id, points, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		adjustment.TargetTeamID, adjustment.AdjustedByTeamID, adjustment.AdjustedByUserID,
		adjustment.Points, reason, adjustment.CreatedAt,
	).Scan(&adjustment.ID)
	if err != nil {
		return ScoreAdjustment{}, fmt.Errorf("failed to insert score adjustment: %w", err)
	}
	return adjustment, nil
}

func (r *PgAdjustmentRepo) SumAdjustmentPoints(ctx context.Context, targetTeamID int) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM score_adjustments WHERE target_team_id = $1`,
		targetTeamID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum adjustment points: %w", err)
	}
	return total, nil
}
