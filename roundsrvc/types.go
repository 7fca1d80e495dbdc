package roundsrvc

import (
	"time"

	"github.com/defendnet/backend/checksrvc"
)

// Round is one discrete cycle in which every enabled service is checked
// exactly once. Numbers increase monotonically and are never reused.
type Round struct {
	Number      int
	StartedAt   time.Time
	CompletedAt time.Time // zero while the round is running
}

// CheckResult is the append-only record of one service's outcome in one
// round. The (ServiceID, RoundNumber) pair is unique; rows are never mutated
// or deleted.
type CheckResult struct {
	ServiceID   int
	RoundNumber int
	Status      checksrvc.Status
	Output      string
	CreatedAt   time.Time
}
