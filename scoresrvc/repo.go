package scoresrvc

import (
	"context"

	"github.com/defendnet/backend/flagsrvc"
)

// AdjustmentRepo persists manual score adjustments.
type AdjustmentRepo interface {
	StoreAdjustment(ctx context.Context, adjustment ScoreAdjustment) (ScoreAdjustment, error)
	// SumAdjustmentPoints totals the signed adjustment points targeting
	// one blue team.
	SumAdjustmentPoints(ctx context.Context, targetTeamID int) (int, error)
}

// AvailabilitySource supplies the availability term: the summed point
// weights of passed checks per team. Implemented by the round result repos.
type AvailabilitySource interface {
	SumPassedPoints(ctx context.Context, teamID int) (int, error)
}

// FlagSource supplies the red-penalty term and the solve evidence for
// attacker scoring. Implemented by the flag repos.
type FlagSource interface {
	SumSubmissionPoints(ctx context.Context, targetTeamID int) (int, error)
	ListSolves(ctx context.Context) ([]flagsrvc.Solve, error)
	ListFlags(ctx context.Context) ([]flagsrvc.Flag, error)
}
