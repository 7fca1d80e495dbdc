package flagsrvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

func (r *PgRepo) StoreFlag(ctx context.Context, flag Flag) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO flags (id, type, platform, perm, data, start_time, end_time, dummy)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		flag.ID, flag.Type, flag.Platform, flag.Perm, flag.Data,
		flag.StartTime, flag.EndTime, flag.Dummy)
	if err != nil {
		return fmt.Errorf("failed to insert flag: %w", err)
	}
	return nil
}

const flagColumns = `id, type, platform, perm, data, start_time, end_time, dummy`

func (r *PgRepo) GetFlag(ctx context.Context, id uuid.UUID) (Flag, error) {
	var flag Flag
	err := r.pool.QueryRow(ctx,
		`SELECT `+flagColumns+` FROM flags WHERE id = $1`, id,
	).Scan(&flag.ID, &flag.Type, &flag.Platform, &flag.Perm, &flag.Data,
		&flag.StartTime, &flag.EndTime, &flag.Dummy)
	if errors.Is(err, pgx.ErrNoRows) {
		return Flag{}, ErrFlagNotFound()
	}
	if err != nil {
		return Flag{}, fmt.Errorf("failed to query flag: %w", err)
	}
	flag.StartTime = flag.StartTime.UTC()
	flag.EndTime = flag.EndTime.UTC()
	return flag, nil
}

func (r *PgRepo) ListFlags(ctx context.Context) ([]Flag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+flagColumns+` FROM flags ORDER BY start_time`)
	if err != nil {
		return nil, fmt.Errorf("failed to query flags: %w", err)
	}
	defer rows.Close()

	var flags []Flag
	for rows.Next() {
		var flag Flag
		err := rows.Scan(&flag.ID, &flag.Type, &flag.Platform, &flag.Perm,
			&flag.Data, &flag.StartTime, &flag.EndTime, &flag.Dummy)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flag: %w", err)
		}
		flag.StartTime = flag.StartTime.UTC()
		flag.EndTime = flag.EndTime.UTC()
		flags = append(flags, flag)
	}
	return flags, rows.Err()
}

func (r *PgRepo) StoreSolve(ctx context.Context, solve Solve) (Solve, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO solves (flag_id, team_id, host, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		solve.FlagID, solve.TeamID, solve.Host, solve.CreatedAt,
	).Scan(&solve.ID)
	if err != nil {
		return Solve{}, fmt.Errorf("failed to insert solve: %w", err)
	}
	return solve, nil
}

func (r *PgRepo) ListSolves(ctx context.Context) ([]Solve, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, flag_id, team_id, host, created_at FROM solves ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query solves: %w", err)
	}
	defer rows.Close()

	var solves []Solve
	for rows.Next() {
		var solve Solve
		err := rows.Scan(&solve.ID, &solve.FlagID, &solve.TeamID,
			&solve.Host, &solve.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan solve: %w", err)
		}
		solves = append(solves, solve)
	}
	return solves, rows.Err()
}

// StoreSubmission inserts inside a transaction; the unique constraint on
// (flag_id, target_team_id) is the sole concurrency guard against double
// submission, enforced atomically at commit.
func (r *PgRepo) StoreSubmission(ctx context.Context, submission Submission) (Submission, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Submission{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	err = tx.QueryRow(ctx,
		`INSERT INTO red_flag_submissions
		 (flag_id, target_team_id, submitted_by_team_id, submitted_by_user_id, points, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		submission.FlagID, submission.TargetTeamID, submission.SubmittedByTeamID,
		submission.SubmittedByUserID, submission.Points, submission.SubmittedAt,
	).Scan(&submission.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Submission{}, ErrFlagAlreadySubmitted()
		}
		return Submission{}, fmt.Errorf("failed to insert submission: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Submission{}, ErrFlagAlreadySubmitted()
		}
		return Submission{}, fmt.Errorf("failed to commit submission: %w", err)
	}
	return submission, nil
}

func (r *PgRepo) ListSubmissionsByTeam(ctx context.Context, submittedByTeamID int) ([]Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, flag_id, target_team_id, submitted_by_team_id, submitted_by_user_id, points, submitted_at
		 FROM red_flag_submissions WHERE submitted_by_team_id = $1 ORDER BY id`,
		submittedByTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		var s Submission
		err := rows.Scan(&s.ID, &s.FlagID, &s.TargetTeamID,
			&s.SubmittedByTeamID, &s.SubmittedByUserID, &s.Points, &s.SubmittedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

func (r *PgRepo) SumSubmissionPoints(ctx context.Context, targetTeamID int) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(points), 0) FROM red_flag_submissions WHERE target_team_id = $1`,
		targetTeamID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum submission points: %w", err)
	}
	return total, nil
}
