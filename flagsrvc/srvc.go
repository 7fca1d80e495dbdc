package flagsrvc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/defendnet/backend/scorecache"
	"github.com/defendnet/backend/settings"
	"github.com/defendnet/backend/teamsrvc"
)

// ScoreRecomputer refreshes one team's score entry after a committed
// submission. Implemented by the scoring aggregator; kept as an interface
// here so the flag lifecycle does not depend on the aggregator package.
type ScoreRecomputer interface {
	RecomputeTeam(ctx context.Context, teamID int) error
}

// Srvc owns flag time windows, token resolution and idempotent red-team
// submissions.
type Srvc struct {
	logger   *slog.Logger
	repo     Repo
	teams    teamsrvc.Repo
	settings settings.Repo
	scores   ScoreRecomputer // optional
	cache    scorecache.Invalidator
}

func NewSrvc(repo Repo, teams teamsrvc.Repo, settingsRepo settings.Repo, scores ScoreRecomputer, cache scorecache.Invalidator) *Srvc {
	if cache == nil {
		cache = scorecache.Noop{}
	}
	return &Srvc{
		logger:   slog.Default().With("module", "flags"),
		repo:     repo,
		teams:    teams,
		settings: settingsRepo,
		scores:   scores,
		cache:    cache,
	}
}

// ListActive returns the non-dummy flags visible to the caller at now,
// ordered by start time. A flag is visible from lookahead minutes before its
// start until its end. White sees every matching flag; red sees only flags
// its own team has already submitted, so unsubmitted flags cannot be
// browsed.
func (s *Srvc) ListActive(ctx context.Context, now time.Time, role teamsrvc.Color, teamID int) ([]Flag, error) {
	if role != teamsrvc.ColorWhite && role != teamsrvc.ColorRed {
		return nil, ErrIncorrectPerms()
	}
	snap, err := settings.Load(ctx, s.settings)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	early := now.Add(snap.FlagLookahead())

	flags, err := s.repo.ListFlags(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]Flag, 0, len(flags))
	for _, flag := range flags {
		if flag.Dummy {
			continue
		}
		if !early.After(flag.StartTime) || !now.Before(flag.EndTime) {
			continue
		}
		visible = append(visible, flag)
	}

	if role == teamsrvc.ColorRed {
		submitted, err := s.repo.ListSubmissionsByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		submittedIDs := make(map[uuid.UUID]bool, len(submitted))
		for _, submission := range submitted {
			submittedIDs[submission.FlagID] = true
		}
		filtered := visible[:0]
		for _, flag := range visible {
			if submittedIDs[flag.ID] {
				filtered = append(filtered, flag)
			}
		}
		visible = filtered
	}
	return visible, nil
}

// FlagRef identifies a flag either directly by id or by a raw token string.
type FlagRef struct {
	ID    *uuid.UUID
	Token string
}

func RefByID(id uuid.UUID) FlagRef    { return FlagRef{ID: &id} }
func RefByToken(token string) FlagRef { return FlagRef{Token: token} }

// Resolve finds the flag a reference points at. Token resolution scans
// currently active non-dummy flags for an exact match: no match on any
// non-dummy flag is NotFound, a match only outside its window is NotActive,
// and two active flags sharing a token is a configuration error.
func (s *Srvc) Resolve(ctx context.Context, ref FlagRef, now time.Time) (Flag, error) {
	if ref.ID != nil {
		return s.repo.GetFlag(ctx, *ref.ID)
	}
	token := strings.TrimSpace(ref.Token)
	if token == "" {
		return Flag{}, ErrFlagRefRequired()
	}

	flags, err := s.repo.ListFlags(ctx)
	if err != nil {
		return Flag{}, err
	}
	now = now.UTC()

	var active []Flag
	inactiveMatch := false
	for _, flag := range flags {
		if flag.Dummy || flag.Data.CanonicalToken() != token {
			continue
		}
		if flag.ActiveAt(now) {
			active = append(active, flag)
		} else {
			inactiveMatch = true
		}
	}
	switch len(active) {
	case 0:
		if inactiveMatch {
			return Flag{}, ErrFlagNotActive()
		}
		return Flag{}, ErrFlagNotFound()
	case 1:
		return active[0], nil
	default:
		s.logger.Error("multiple active flags share a token", "count", len(active))
		return Flag{}, ErrAmbiguousToken()
	}
}

type CreateParams struct {
	Content   string
	StartTime *time.Time // default: now
	EndTime   *time.Time // default: start + 3h
	Dummy     bool
	Platform  Platform // default: nix
	Perm      Perm     // default: user
}

const defaultFlagWindow = 3 * time.Hour

// Create stores a new flag. Only white team creates flags.
func (s *Srvc) Create(ctx context.Context, params CreateParams, role teamsrvc.Color, now time.Time) (Flag, error) {
	if role != teamsrvc.ColorWhite {
		return Flag{}, ErrIncorrectPerms()
	}
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return Flag{}, ErrContentRequired()
	}

	now = now.UTC()
	start := now
	if params.StartTime != nil {
		start = params.StartTime.UTC()
	}
	end := start.Add(defaultFlagWindow)
	if params.EndTime != nil {
		end = params.EndTime.UTC()
	}
	if !end.After(start) {
		return Flag{}, ErrBadTimeWindow()
	}

	platform := params.Platform
	if platform == "" {
		platform = PlatformNix
	}
	perm := params.Perm
	if perm == "" {
		perm = PermUser
	}

	flag := Flag{
		ID:        uuid.New(),
		Type:      FlagTypeFile,
		Platform:  platform,
		Perm:      perm,
		Data:      FlagData{Content: content},
		StartTime: start,
		EndTime:   end,
		Dummy:     params.Dummy,
	}
	if err := s.repo.StoreFlag(ctx, flag); err != nil {
		return Flag{}, err
	}

	s.invalidate(ctx, scorecache.ScopeFlags)
	return flag, nil
}

type SubmitParams struct {
	Ref          FlagRef
	TargetTeamID int
	ByTeamID     int
	ByUserID     int
}

// Submit records a red-team flag capture against one blue team. The
// operation is idempotent in the rejecting sense: a duplicate submission for
// the same (flag, target team) fails with Conflict and leaves no side
// effects, so a team is never penalized twice for one flag.
func (s *Srvc) Submit(ctx context.Context, params SubmitParams, role teamsrvc.Color, now time.Time) (Submission, error) {
	if role != teamsrvc.ColorRed {
		return Submission{}, ErrIncorrectPerms()
	}

	target, err := s.teams.GetTeam(ctx, params.TargetTeamID)
	if err != nil {
		return Submission{}, err
	}
	if !target.IsBlue() {
		return Submission{}, ErrTargetNotBlue()
	}

	now = now.UTC()
	flag, err := s.Resolve(ctx, params.Ref, now)
	if err != nil {
		return Submission{}, err
	}
	if flag.Dummy || !flag.ActiveAt(now) {
		return Submission{}, ErrFlagNotActive()
	}

	snap, err := settings.Load(ctx, s.settings)
	if err != nil {
		return Submission{}, err
	}

	submission, err := s.repo.StoreSubmission(ctx, Submission{
		FlagID:            flag.ID,
		TargetTeamID:      target.ID,
		SubmittedByTeamID: params.ByTeamID,
		SubmittedByUserID: params.ByUserID,
		Points:            snap.RedFlagSubmissionPenalty,
		SubmittedAt:       now,
	})
	if err != nil {
		return Submission{}, err
	}

	s.logger.Info("flag submitted",
		"flag", flag.ID, "target_team", target.ID,
		"by_team", params.ByTeamID, "points", submission.Points)

	if s.scores != nil {
		if err := s.scores.RecomputeTeam(ctx, target.ID); err != nil {
			s.logger.Error("failed to recompute score after submission",
				"team", target.ID, "error", err)
		}
	}
	s.invalidate(ctx,
		scorecache.ScopeFlags,
		scorecache.ScopeScoreboard,
		scorecache.ScopeTeamStats(target.ID))
	return submission, nil
}

// RecordSolve appends agent evidence that a flag's token was observed on a
// (team, host). Dummy flags leave no evidence.
func (s *Srvc) RecordSolve(ctx context.Context, flagID uuid.UUID, teamID int, host string, now time.Time) (Solve, error) {
	flag, err := s.repo.GetFlag(ctx, flagID)
	if err != nil {
		return Solve{}, err
	}
	if flag.Dummy {
		return Solve{}, ErrFlagNotActive()
	}
	if _, err := s.teams.GetTeam(ctx, teamID); err != nil {
		return Solve{}, err
	}
	solve, err := s.repo.StoreSolve(ctx, Solve{
		FlagID:    flagID,
		TeamID:    teamID,
		Host:      host,
		CreatedAt: now.UTC(),
	})
	if err != nil {
		return Solve{}, err
	}
	s.invalidate(ctx, scorecache.ScopeFlags, scorecache.ScopeTeamStats(teamID))
	return solve, nil
}

func (s *Srvc) invalidate(ctx context.Context, scopes ...scorecache.Scope) {
	if err := s.cache.Invalidate(ctx, scopes...); err != nil {
		s.logger.Warn("cache invalidation failed", "error", err)
	}
}
