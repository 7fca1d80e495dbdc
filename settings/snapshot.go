package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Snapshot is the set of typed settings a single operation works with.
// Callers load one snapshot per operation and pass it down instead of
// re-reading mutable global state mid-flight.
type Snapshot struct {
	RedFlagSubmissionPenalty int
	AgentShowFlagEarlyMins   int
}

// Load reads all engine settings, applying defaults for values that are
// absent or fail to parse.
func Load(ctx context.Context, repo Repo) (Snapshot, error) {
	penalty, err := getInt(ctx, repo, KeyRedFlagSubmissionPenalty, DefaultRedFlagSubmissionPenalty)
	if err != nil {
		return Snapshot{}, err
	}
	if penalty < 0 {
		penalty = DefaultRedFlagSubmissionPenalty
	}
	earlyMins, err := getInt(ctx, repo, KeyAgentShowFlagEarlyMins, DefaultAgentShowFlagEarlyMins)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		RedFlagSubmissionPenalty: penalty,
		AgentShowFlagEarlyMins:   earlyMins,
	}, nil
}

// FlagLookahead is how far before start_time a flag becomes visible to
// white team listings and agents.
func (s Snapshot) FlagLookahead() time.Duration {
	return time.Duration(s.AgentShowFlagEarlyMins) * time.Minute
}

func getInt(ctx context.Context, repo Repo, name string, fallback int) (int, error) {
	raw, ok, err := repo.Get(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to read setting %s: %w", name, err)
	}
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback, nil
	}
	return n, nil
}
