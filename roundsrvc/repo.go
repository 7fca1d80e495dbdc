package roundsrvc

import (
	"context"
	"time"
)

// Repo persists rounds and their check results. StoreResult must reject a
// second result for the same (service, round) pair; that constraint is what
// keeps concurrent writers from colliding.
type Repo interface {
	LastRoundNumber(ctx context.Context) (int, error)
	CreateRound(ctx context.Context, round Round) error
	CompleteRound(ctx context.Context, number int, completedAt time.Time) error
	StoreResult(ctx context.Context, result CheckResult) error
	ListResults(ctx context.Context, roundNumber int) ([]CheckResult, error)
	// SumPassedPoints totals the service point weights of every passed
	// check result for one blue team.
	SumPassedPoints(ctx context.Context, teamID int) (int, error)
}
