package scoresrvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/defendnet/backend/flagsrvc"
	"github.com/defendnet/backend/teamsrvc"
)

// agentCheckName is the check type whose services carry planted flags.
const agentCheckName = "agent"

const (
	rootGroupWeight = 1.0
	userGroupWeight = 0.5
)

type solveGroupKey struct {
	teamID int
	host   string
	start  int64 // flag start_time, unix seconds
}

// AttackerTotals derives per-platform attacker scores from solve evidence.
// Solves are grouped by (team, host, flag start window); a group counts as
// Root when any root-perm flag was solved in it, else User. Root groups
// weigh 1.0, user groups 0.5; a team's per-platform score sums its groups.
func (s *Srvc) AttackerTotals(ctx context.Context, role teamsrvc.Color) ([]AttackerTotal, error) {
	if role != teamsrvc.ColorWhite && role != teamsrvc.ColorRed {
		return nil, ErrIncorrectPerms()
	}

	blueTeams, err := s.teams.ListBlueTeams(ctx)
	if err != nil {
		return nil, err
	}
	solves, err := s.flags.ListSolves(ctx)
	if err != nil {
		return nil, err
	}
	flags, err := s.flags.ListFlags(ctx)
	if err != nil {
		return nil, err
	}
	flagsByID := make(map[uuid.UUID]flagsrvc.Flag, len(flags))
	for _, flag := range flags {
		flagsByID[flag.ID] = flag
	}

	totals := make(map[int]*AttackerTotal, len(blueTeams))
	for _, team := range blueTeams {
		totals[team.ID] = &AttackerTotal{TeamID: team.ID, TeamName: team.Name}
	}

	for _, platform := range []flagsrvc.Platform{flagsrvc.PlatformWindows, flagsrvc.PlatformNix} {
		// group level: true when any root-perm flag was solved
		groups := make(map[solveGroupKey]bool)
		for _, solve := range solves {
			flag, ok := flagsByID[solve.FlagID]
			if !ok || flag.Platform != platform {
				continue
			}
			key := solveGroupKey{solve.TeamID, solve.Host, flag.StartTime.Unix()}
			if flag.Perm == flagsrvc.PermRoot {
				groups[key] = true
			} else if _, seen := groups[key]; !seen {
				groups[key] = false
			}
		}

		score := make(map[int]float64)
		for key, isRoot := range groups {
			if isRoot {
				score[key.teamID] += rootGroupWeight
			} else {
				score[key.teamID] += userGroupWeight
			}
		}
		for teamID, amount := range score {
			total, ok := totals[teamID]
			if !ok {
				continue
			}
			switch platform {
			case flagsrvc.PlatformWindows:
				total.WinScore = amount
			case flagsrvc.PlatformNix:
				total.NixScore = amount
			}
		}
	}

	result := make([]AttackerTotal, 0, len(blueTeams))
	for _, team := range blueTeams {
		total := totals[team.ID]
		total.TotalScore = total.WinScore + total.NixScore
		result = append(result, *total)
	}
	return result, nil
}

// SolvesMatrix builds the team x agent-service grid of solve indicators over
// the flags active at now.
func (s *Srvc) SolvesMatrix(ctx context.Context, role teamsrvc.Color, now time.Time) (SolvesMatrix, error) {
	if role != teamsrvc.ColorWhite && role != teamsrvc.ColorRed {
		return SolvesMatrix{}, ErrIncorrectPerms()
	}
	now = now.UTC()

	services, err := s.teams.ListServicesByCheck(ctx, agentCheckName)
	if err != nil {
		return SolvesMatrix{}, err
	}
	teams, err := s.teams.ListTeams(ctx)
	if err != nil {
		return SolvesMatrix{}, err
	}
	teamNames := make(map[int]string, len(teams))
	for _, team := range teams {
		teamNames[team.ID] = team.Name
	}

	flags, err := s.flags.ListFlags(ctx)
	if err != nil {
		return SolvesMatrix{}, err
	}
	activeFlags := make(map[uuid.UUID]flagsrvc.Flag)
	for _, flag := range flags {
		if !flag.Dummy && now.After(flag.StartTime) && now.Before(flag.EndTime) {
			activeFlags[flag.ID] = flag
		}
	}
	solves, err := s.flags.ListSolves(ctx)
	if err != nil {
		return SolvesMatrix{}, err
	}

	matrix := SolvesMatrix{Columns: []string{"Team"}}
	columnIndex := make(map[string]int)
	var teamOrder []int
	cells := make(map[int]map[string][2]int) // team id -> service name -> [user, root]

	for _, svc := range services {
		if _, ok := columnIndex[svc.Name]; !ok {
			columnIndex[svc.Name] = len(matrix.Columns) - 1
			matrix.Columns = append(matrix.Columns, svc.Name)
		}
		if _, ok := cells[svc.TeamID]; !ok {
			cells[svc.TeamID] = make(map[string][2]int)
			teamOrder = append(teamOrder, svc.TeamID)
		}
		cell := cells[svc.TeamID][svc.Name]
		for _, solve := range solves {
			if solve.TeamID != svc.TeamID || solve.Host != svc.Host {
				continue
			}
			flag, ok := activeFlags[solve.FlagID]
			if !ok {
				continue
			}
			if flag.Perm == flagsrvc.PermUser {
				cell[0] = 1
			} else {
				cell[1] = 1
			}
		}
		cells[svc.TeamID][svc.Name] = cell
	}

	for _, teamID := range teamOrder {
		row := SolvesRow{TeamName: teamNames[teamID]}
		row.Cells = make([][2]int, len(matrix.Columns)-1)
		for name, cell := range cells[teamID] {
			row.Cells[columnIndex[name]] = cell
		}
		matrix.Rows = append(matrix.Rows, row)
	}
	return matrix, nil
}
