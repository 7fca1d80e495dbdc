// Package scorecache is the invalidation port for the read-side response
// cache. The cache is never a source of truth: writers call Invalidate after
// a committed mutation and the engine behaves correctly (just slower) when
// no cache is wired at all.
package scorecache

import (
	"context"
	"fmt"
)

// Scope names one cached view.
type Scope string

const (
	ScopeFlags      Scope = "flags"
	ScopeScoreboard Scope = "scoreboard"
)

// ScopeTeamStats is the per-team statistics view.
func ScopeTeamStats(teamID int) Scope {
	return Scope(fmt.Sprintf("team_stats:%d", teamID))
}

// Invalidator is called synchronously after every committed mutation.
type Invalidator interface {
	Invalidate(ctx context.Context, scopes ...Scope) error
}

// Noop satisfies Invalidator for deployments without a cache and for tests.
type Noop struct{}

func (Noop) Invalidate(ctx context.Context, scopes ...Scope) error { return nil }
