package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenUnset(t *testing.T) {
	repo := NewInMemRepo()

	snap, err := Load(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, DefaultRedFlagSubmissionPenalty, snap.RedFlagSubmissionPenalty)
	assert.Equal(t, DefaultAgentShowFlagEarlyMins, snap.AgentShowFlagEarlyMins)
}

func TestLoadReadsConfiguredValues(t *testing.T) {
	repo := NewInMemRepo()
	repo.Set(KeyRedFlagSubmissionPenalty, "25")
	repo.Set(KeyAgentShowFlagEarlyMins, "30")

	snap, err := Load(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 25, snap.RedFlagSubmissionPenalty)
	assert.Equal(t, 30, snap.AgentShowFlagEarlyMins)
	assert.Equal(t, 30*time.Minute, snap.FlagLookahead())
}

func TestLoadFallsBackOnMalformedValue(t *testing.T) {
	repo := NewInMemRepo()
	repo.Set(KeyRedFlagSubmissionPenalty, "not-a-number")

	snap, err := Load(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, DefaultRedFlagSubmissionPenalty, snap.RedFlagSubmissionPenalty)
}

func TestLoadFallsBackOnNegativePenalty(t *testing.T) {
	repo := NewInMemRepo()
	repo.Set(KeyRedFlagSubmissionPenalty, "-5")

	snap, err := Load(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, DefaultRedFlagSubmissionPenalty, snap.RedFlagSubmissionPenalty)
}

func TestLoadTrimsWhitespace(t *testing.T) {
	repo := NewInMemRepo()
	repo.Set(KeyRedFlagSubmissionPenalty, " 15 ")

	snap, err := Load(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 15, snap.RedFlagSubmissionPenalty)
}
