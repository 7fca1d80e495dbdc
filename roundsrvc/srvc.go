package roundsrvc

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/defendnet/backend/checksrvc"
	"github.com/defendnet/backend/logger"
	"github.com/defendnet/backend/scorecache"
	"github.com/defendnet/backend/teamsrvc"
)

// CheckRunner executes one service's check and classifies the outcome. It
// must honor ctx cancellation and never panic across the call boundary.
type CheckRunner interface {
	RunCheck(ctx context.Context, svc teamsrvc.Service) checksrvc.Outcome
}

// ScoreRecomputer refreshes the scoreboard after a completed round.
type ScoreRecomputer interface {
	RecomputeAll(ctx context.Context) error
}

type Config struct {
	// Interval between round starts.
	Interval time.Duration
	// RoundDuration is the hard deadline after which the round is
	// force-completed and unresolved services are recorded as errors.
	RoundDuration time.Duration
	// Workers bounds concurrent check executions within a round.
	Workers int
}

// Scheduler drives discrete, strictly sequential rounds. Within a round,
// service checks are unordered, independent and isolated: one check's
// timeout or failure never delays or aborts its siblings.
type Scheduler struct {
	logger *slog.Logger
	teams  teamsrvc.Repo
	repo   Repo
	runner CheckRunner
	scores ScoreRecomputer // optional
	cache  scorecache.Invalidator
	cfg    Config
	now    func() time.Time
}

func NewScheduler(teams teamsrvc.Repo, repo Repo, runner CheckRunner, scores ScoreRecomputer, cache scorecache.Invalidator, cfg Config) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = 10
	}
	if cache == nil {
		cache = scorecache.Noop{}
	}
	return &Scheduler{
		logger: slog.Default().With("module", "round-scheduler"),
		teams:  teams,
		repo:   repo,
		runner: runner,
		scores: scores,
		cache:  cache,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run executes rounds on the configured interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		round, err := s.RunRound(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("round failed", "error", err)
		} else {
			s.logger.Info("round completed", "round", round.Number)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunRound executes exactly one round: it enumerates enabled services, fans
// their checks out across the worker pool, and guarantees one CheckResult
// per service even when the round deadline cuts execution short.
func (s *Scheduler) RunRound(ctx context.Context) (Round, error) {
	last, err := s.repo.LastRoundNumber(ctx)
	if err != nil {
		return Round{}, fmt.Errorf("failed to determine next round: %w", err)
	}
	round := Round{Number: last + 1, StartedAt: s.now()}
	if err := s.repo.CreateRound(ctx, round); err != nil {
		return Round{}, fmt.Errorf("failed to create round %d: %w", round.Number, err)
	}
	ctx = logger.WithRound(logger.WithLogger(ctx, s.logger), round.Number)
	log := logger.FromContext(ctx)

	services, err := s.teams.ListEnabledServices(ctx)
	if err != nil {
		return Round{}, fmt.Errorf("failed to list enabled services: %w", err)
	}
	log.Info("round started", "services", len(services))

	// Checks run against roundCtx so the round deadline force-cancels
	// stragglers; results are persisted against the parent ctx so a
	// deadline never loses an already-finished outcome.
	roundCtx, cancel := context.WithTimeout(ctx, s.cfg.RoundDuration)
	defer cancel()

	var mu sync.Mutex
	recorded := make(map[int]bool, len(services))

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for _, svc := range services {
		svc := svc
		g.Go(func() error {
			outcome := s.runCheckSafe(roundCtx, svc)
			result := CheckResult{
				ServiceID:   svc.ID,
				RoundNumber: round.Number,
				Status:      outcome.Status,
				Output:      outcome.Output,
				CreatedAt:   s.now(),
			}
			if err := s.repo.StoreResult(ctx, result); err != nil {
				log.Error("failed to store check result",
					"service", svc.Name, "error", err)
				return nil
			}
			mu.Lock()
			recorded[svc.ID] = true
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; outcomes are recorded per service

	// Force-complete: any service still without a result gets an error
	// row so the round history has no gaps.
	for _, svc := range services {
		if recorded[svc.ID] {
			continue
		}
		result := CheckResult{
			ServiceID:   svc.ID,
			RoundNumber: round.Number,
			Status:      checksrvc.StatusError,
			Output:      "round deadline exceeded",
			CreatedAt:   s.now(),
		}
		if err := s.repo.StoreResult(ctx, result); err != nil {
			log.Error("failed to store deadline result",
				"service", svc.Name, "error", err)
		}
	}

	round.CompletedAt = s.now()
	if err := s.repo.CompleteRound(ctx, round.Number, round.CompletedAt); err != nil {
		return Round{}, fmt.Errorf("failed to complete round %d: %w", round.Number, err)
	}

	if s.scores != nil {
		if err := s.scores.RecomputeAll(ctx); err != nil {
			log.Error("failed to recompute scores after round", "error", err)
		}
	}
	if err := s.cache.Invalidate(ctx, scorecache.ScopeScoreboard); err != nil {
		log.Warn("failed to invalidate scoreboard cache", "error", err)
	}

	return round, nil
}

// runCheckSafe isolates a panicking check runner to its own service.
func (s *Scheduler) runCheckSafe(ctx context.Context, svc teamsrvc.Service) (outcome checksrvc.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("check runner panicked", "service", svc.Name, "panic", r)
			outcome = checksrvc.Outcome{
				Status: checksrvc.StatusError,
				Output: fmt.Sprintf("check panicked: %v", r),
			}
		}
	}()
	return s.runner.RunCheck(ctx, svc)
}
