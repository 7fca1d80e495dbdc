package scoresrvc

import "time"

// ScoreAdjustment is a manual, audited point change applied by white team.
// Append-only.
type ScoreAdjustment struct {
	ID               int
	TargetTeamID     int
	AdjustedByTeamID int
	AdjustedByUserID int
	Points           int // sign-significant
	Reason           string
	CreatedAt        time.Time
}

// TeamScore is one blue team's score broken into its three additive terms.
// Total = Availability - RedPenalty + Adjustment.
type TeamScore struct {
	TeamID       int
	TeamName     string
	Availability int
	RedPenalty   int
	Adjustment   int
	Total        int
}

// AttackerTotal is the per-platform attacker score derived from solve
// evidence for one blue team. Ranking direction is a presentation concern.
type AttackerTotal struct {
	TeamID     int
	TeamName   string
	WinScore   float64
	NixScore   float64
	TotalScore float64
}

// SolvesMatrix is the team x agent-service grid of solve indicators.
type SolvesMatrix struct {
	Columns []string
	Rows    []SolvesRow
}

// SolvesRow holds one team's cells, aligned with Columns[1:]. Each cell is
// [user-solved, root-solved] as 0/1.
type SolvesRow struct {
	TeamName string
	Cells    [][2]int
}
