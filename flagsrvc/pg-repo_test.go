package flagsrvc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/golangmigrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool connects to a unique and isolated test database, fully
// migrated and ready for testing
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	conf := pgtestdb.Custom(t, pgtestdb.Config{
		DriverName: "pgx",
		User:       "defendnet", // local dev pg user
		Password:   "defendnet", // local dev pg password
		Host:       "localhost",
		Port:       "5433",
		Options:    "sslmode=disable",
	}, golangmigrator.New("../migrate"))

	pool, err := pgxpool.New(context.Background(), conf.URL())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedTeams(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO teams (id, name, color) VALUES
		 (1, 'Blue One', 'blue'), (2, 'Blue Two', 'blue'), (10, 'Red Cell', 'red')`)
	require.NoError(t, err)
}

func TestPgRepoFlagRoundTrip(t *testing.T) {
	t.Parallel()
	pool := newTestPool(t)
	repo := NewPgRepo(pool)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	flag := Flag{
		ID:        uuid.New(),
		Type:      FlagTypeFile,
		Platform:  PlatformNix,
		Perm:      PermRoot,
		Data:      FlagData{Token: "FLAG123", Content: "under the doormat"},
		StartTime: start,
		EndTime:   start.Add(3 * time.Hour),
	}
	require.NoError(t, repo.StoreFlag(ctx, flag))

	got, err := repo.GetFlag(ctx, flag.ID)
	require.NoError(t, err)
	assert.Equal(t, flag.ID, got.ID)
	assert.Equal(t, flag.Data, got.Data)
	assert.True(t, got.StartTime.Equal(start))
	assert.Equal(t, time.UTC, got.StartTime.Location())

	_, err = repo.GetFlag(ctx, uuid.New())
	assert.ErrorContains(t, err, "not found")
}

func TestPgRepoSubmissionUniqueness(t *testing.T) {
	t.Parallel()
	pool := newTestPool(t)
	repo := NewPgRepo(pool)
	ctx := context.Background()
	seedTeams(t, pool)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	flag := Flag{
		ID: uuid.New(), Platform: PlatformNix, Perm: PermUser,
		Data: FlagData{Token: "FLAG123"}, StartTime: start, EndTime: start.Add(time.Hour),
	}
	require.NoError(t, repo.StoreFlag(ctx, flag))

	submission := Submission{
		FlagID: flag.ID, TargetTeamID: 1, SubmittedByTeamID: 10,
		SubmittedByUserID: 101, Points: 10, SubmittedAt: start,
	}
	stored, err := repo.StoreSubmission(ctx, submission)
	require.NoError(t, err)
	assert.NotZero(t, stored.ID)

	_, err = repo.StoreSubmission(ctx, submission)
	assert.ErrorContains(t, err, "already submitted")

	// a different target team is a distinct row
	submission.TargetTeamID = 2
	_, err = repo.StoreSubmission(ctx, submission)
	require.NoError(t, err)

	total, err := repo.SumSubmissionPoints(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestPgRepoSchemaRejectsInvertedWindow(t *testing.T) {
	t.Parallel()
	pool := newTestPool(t)
	repo := NewPgRepo(pool)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := repo.StoreFlag(context.Background(), Flag{
		ID: uuid.New(), Platform: PlatformNix, Perm: PermUser,
		StartTime: start, EndTime: start.Add(-time.Hour),
	})
	require.Error(t, err)
}
