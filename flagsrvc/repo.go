package flagsrvc

import (
	"context"

	"github.com/google/uuid"
)

// Repo persists flags, solves and red-team submissions. StoreSubmission must
// enforce the (flag, target team) uniqueness invariant atomically at commit
// time and return ErrFlagAlreadySubmitted on violation; no application-level
// locking exists above it.
type Repo interface {
	StoreFlag(ctx context.Context, flag Flag) error
	GetFlag(ctx context.Context, id uuid.UUID) (Flag, error)
	ListFlags(ctx context.Context) ([]Flag, error)

	StoreSolve(ctx context.Context, solve Solve) (Solve, error)
	ListSolves(ctx context.Context) ([]Solve, error)

	StoreSubmission(ctx context.Context, submission Submission) (Submission, error)
	ListSubmissionsByTeam(ctx context.Context, submittedByTeamID int) ([]Submission, error)
	// SumSubmissionPoints totals the penalty points of every submission
	// targeting one blue team.
	SumSubmissionPoints(ctx context.Context, targetTeamID int) (int, error)
}
