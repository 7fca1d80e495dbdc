// Package settings reads named competition settings with typed fallback
// defaults. Settings are stored by the white team in the settings table; a
// missing or malformed value silently falls back to the hardcoded default so
// the engine keeps running with a half-configured database.
package settings

import "context"

const (
	KeyRedFlagSubmissionPenalty = "red_team_flag_submission_penalty"
	KeyAgentShowFlagEarlyMins   = "agent_show_flag_early_mins"
)

const (
	DefaultRedFlagSubmissionPenalty = 10
	DefaultAgentShowFlagEarlyMins   = 5
)

// Repo reads raw setting values by name. The second return value reports
// whether the setting exists.
type Repo interface {
	Get(ctx context.Context, name string) (string, bool, error)
}
