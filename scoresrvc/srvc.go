package scoresrvc

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/defendnet/backend/scorecache"
	"github.com/defendnet/backend/teamsrvc"
)

// Srvc folds check results, red-team submissions and manual adjustments into
// one consistent score per blue team. Persisted state is the only source of
// truth; the in-memory snapshot is a recomputed projection.
type Srvc struct {
	logger      *slog.Logger
	teams       teamsrvc.Repo
	avail       AvailabilitySource
	flags       FlagSource
	adjustments AdjustmentRepo
	cache       scorecache.Invalidator

	lock     sync.Mutex
	snapshot map[int]TeamScore
}

func NewSrvc(teams teamsrvc.Repo, avail AvailabilitySource, flags FlagSource, adjustments AdjustmentRepo, cache scorecache.Invalidator) *Srvc {
	if cache == nil {
		cache = scorecache.Noop{}
	}
	return &Srvc{
		logger:      slog.Default().With("module", "scores"),
		teams:       teams,
		avail:       avail,
		flags:       flags,
		adjustments: adjustments,
		cache:       cache,
		snapshot:    make(map[int]TeamScore),
	}
}

// RecomputeTeam refreshes one team's snapshot entry from persisted state.
// All three queries are filtered by team id, so a recompute for one team
// never contends with writes targeting another.
func (s *Srvc) RecomputeTeam(ctx context.Context, teamID int) error {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if !team.IsBlue() {
		return ErrTargetNotBlue()
	}
	score, err := s.computeTeam(ctx, team)
	if err != nil {
		return err
	}
	s.lock.Lock()
	s.snapshot[teamID] = score
	s.lock.Unlock()
	return nil
}

// RecomputeAll rebuilds every blue team's entry, for initialization and
// repair.
func (s *Srvc) RecomputeAll(ctx context.Context) error {
	teams, err := s.teams.ListBlueTeams(ctx)
	if err != nil {
		return err
	}
	fresh := make(map[int]TeamScore, len(teams))
	for _, team := range teams {
		score, err := s.computeTeam(ctx, team)
		if err != nil {
			return err
		}
		fresh[team.ID] = score
	}
	s.lock.Lock()
	s.snapshot = fresh
	s.lock.Unlock()
	return nil
}

func (s *Srvc) computeTeam(ctx context.Context, team teamsrvc.Team) (TeamScore, error) {
	availability, err := s.avail.SumPassedPoints(ctx, team.ID)
	if err != nil {
		return TeamScore{}, err
	}
	penalty, err := s.flags.SumSubmissionPoints(ctx, team.ID)
	if err != nil {
		return TeamScore{}, err
	}
	adjustment, err := s.adjustments.SumAdjustmentPoints(ctx, team.ID)
	if err != nil {
		return TeamScore{}, err
	}
	return TeamScore{
		TeamID:       team.ID,
		TeamName:     team.Name,
		Availability: availability,
		RedPenalty:   penalty,
		Adjustment:   adjustment,
		Total:        availability - penalty + adjustment,
	}, nil
}

// Scoreboard returns every blue team's score, ordered by team id. Teams
// without a snapshot entry yet are computed lazily.
func (s *Srvc) Scoreboard(ctx context.Context) ([]TeamScore, error) {
	teams, err := s.teams.ListBlueTeams(ctx)
	if err != nil {
		return nil, err
	}

	scores := make([]TeamScore, 0, len(teams))
	for _, team := range teams {
		s.lock.Lock()
		score, ok := s.snapshot[team.ID]
		s.lock.Unlock()
		if !ok {
			score, err = s.computeTeam(ctx, team)
			if err != nil {
				return nil, err
			}
			s.lock.Lock()
			s.snapshot[team.ID] = score
			s.lock.Unlock()
		}
		scores = append(scores, score)
	}
	return scores, nil
}

type AdjustParams struct {
	TargetTeamID int
	ByTeamID     int
	ByUserID     int
	Points       int
	Reason       string
}

// AdjustScore applies a manual white-team point delta to a blue team and
// recomputes that team's score.
func (s *Srvc) AdjustScore(ctx context.Context, params AdjustParams, role teamsrvc.Color, now time.Time) (ScoreAdjustment, error) {
	if role != teamsrvc.ColorWhite {
		return ScoreAdjustment{}, ErrIncorrectPerms()
	}
	target, err := s.teams.GetTeam(ctx, params.TargetTeamID)
	if err != nil {
		return ScoreAdjustment{}, err
	}
	if !target.IsBlue() {
		return ScoreAdjustment{}, ErrTargetNotBlue()
	}

	adjustment, err := s.adjustments.StoreAdjustment(ctx, ScoreAdjustment{
		TargetTeamID:     target.ID,
		AdjustedByTeamID: params.ByTeamID,
		AdjustedByUserID: params.ByUserID,
		Points:           params.Points,
		Reason:           params.Reason,
		CreatedAt:        now.UTC(),
	})
	if err != nil {
		return ScoreAdjustment{}, err
	}

	s.logger.Info("score adjusted",
		"team", target.ID, "points", params.Points, "by_team", params.ByTeamID)

	if err := s.RecomputeTeam(ctx, target.ID); err != nil {
		s.logger.Error("failed to recompute score after adjustment",
			"team", target.ID, "error", err)
	}
	if err := s.cache.Invalidate(ctx,
		scorecache.ScopeScoreboard,
		scorecache.ScopeTeamStats(target.ID)); err != nil {
		s.logger.Warn("cache invalidation failed", "error", err)
	}
	return adjustment, nil
}
