package roundsrvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type PgRepo struct {
	pool *pgxpool.Pool
}

func NewPgRepo(pool *pgxpool.Pool) *PgRepo {
	return &PgRepo{pool: pool}
}

func (r *PgRepo) LastRoundNumber(ctx context.Context) (int, error) {
	var number int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM rounds`).Scan(&number)
	if err != nil {
		return 0, fmt.Errorf("failed to query last round number: %w", err)
	}
	return number, nil
}

func (r *PgRepo) CreateRound(ctx context.Context, round Round) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO rounds (number, started_at) VALUES ($1, $2)`,
		round.Number, round.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}
	return nil
}

func (r *PgRepo) CompleteRound(ctx context.Context, number int, completedAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE rounds SET completed_at = $2 WHERE number = $1`,
		number, completedAt)
	if err != nil {
		return fmt.Errorf("failed to complete round: %w", err)
	}
	return nil
}

func (r *PgRepo) StoreResult(ctx context.Context, result CheckResult) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO check_results (service_id, round_number, status, output, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		result.ServiceID, result.RoundNumber, result.Status, result.Output, result.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicateResult(result.ServiceID, result.RoundNumber)
		}
		return fmt.Errorf("failed to insert check result: %w", err)
	}
	return nil
}

func (r *PgRepo) ListResults(ctx context.Context, roundNumber int) ([]CheckResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT service_id, round_number, status, output, created_at
		 FROM check_results WHERE round_number = $1 ORDER BY service_id`,
		roundNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query check results: %w", err)
	}
	defer rows.Close()

	var results []CheckResult
	for rows.Next() {
		var result CheckResult
		err := rows.Scan(&result.ServiceID, &result.RoundNumber,
			&result.Status, &result.Output, &result.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (r *PgRepo) SumPassedPoints(ctx context.Context, teamID int) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(s.points), 0)
		 FROM check_results cr
		 JOIN services s ON s.id = cr.service_id
		 WHERE cr.status = 'pass' AND s.team_id = $1`,
		teamID).Scan(&total)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to sum passed points: %w", err)
	}
	return total, nil
}
