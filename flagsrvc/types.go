package flagsrvc

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformNix     Platform = "nix"
)

type Perm string

const (
	PermUser Perm = "user"
	PermRoot Perm = "root"
)

type FlagType string

const FlagTypeFile FlagType = "file"

// FlagData is the flag's content payload: a token that red operators submit
// and/or a human-readable description planted on the host.
type FlagData struct {
	Token   string `json:"flag,omitempty"`
	Content string `json:"content,omitempty"`
}

// CanonicalToken returns the string compared against red-team submissions.
// The explicit token wins; a content-only flag uses its content as token.
func (d FlagData) CanonicalToken() string {
	if token := strings.TrimSpace(d.Token); token != "" {
		return token
	}
	return strings.TrimSpace(d.Content)
}

// Flag is a time-windowed secret planted on a blue service. Immutable after
// creation except through submissions. Dummy flags are decoys: never listed,
// never submittable, never scored.
type Flag struct {
	ID        uuid.UUID
	Type      FlagType
	Platform  Platform
	Perm      Perm
	Data      FlagData
	StartTime time.Time
	EndTime   time.Time
	Dummy     bool
}

// ActiveAt reports whether now falls inside the flag's submission window,
// inclusive on both ends.
func (f Flag) ActiveAt(now time.Time) bool {
	return !now.Before(f.StartTime) && !now.After(f.EndTime)
}

// Solve is append-only evidence that an automated agent observed a flag's
// token present on a (team, host). Used only by the attacker-score path.
type Solve struct {
	ID        int
	FlagID    uuid.UUID
	TeamID    int
	Host      string
	CreatedAt time.Time
}

// Submission is the authoritative, idempotent record of a red team claiming
// a flag against one blue team. At most one row ever exists per
// (flag, target team); that is the double-penalty guard.
type Submission struct {
	ID                int
	FlagID            uuid.UUID
	TargetTeamID      int
	SubmittedByTeamID int
	SubmittedByUserID int
	Points            int
	SubmittedAt       time.Time
}
