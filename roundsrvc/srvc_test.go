package roundsrvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defendnet/backend/checksrvc"
	"github.com/defendnet/backend/teamsrvc"
)

type fakeRunner struct {
	outcomes map[int]checksrvc.Outcome
	delays   map[int]time.Duration
}

func (f *fakeRunner) RunCheck(ctx context.Context, svc teamsrvc.Service) checksrvc.Outcome {
	if delay := f.delays[svc.ID]; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return checksrvc.Outcome{Status: checksrvc.StatusError, Output: "check timed out"}
		}
	}
	if outcome, ok := f.outcomes[svc.ID]; ok {
		return outcome
	}
	return checksrvc.Outcome{Status: checksrvc.StatusPass}
}

func newTestSetup(services ...teamsrvc.Service) (*teamsrvc.InMemRepo, *InMemRepo) {
	teams := teamsrvc.NewInMemRepo()
	teams.AddTeam(teamsrvc.Team{ID: 1, Name: "Blue One", Color: teamsrvc.ColorBlue})
	for _, svc := range services {
		teams.AddService(svc)
	}
	return teams, NewInMemRepo(teams)
}

func blueService(id int, name string) teamsrvc.Service {
	return teamsrvc.Service{ID: id, Name: name, Host: "10.0.0.1", Port: 21, TeamID: 1, CheckName: "ftp", Enabled: true, Points: 1}
}

func TestRoundRecordsDistinctStatuses(t *testing.T) {
	teams, repo := newTestSetup(
		blueService(1, "ftp"),
		blueService(2, "irc"),
		blueService(3, "http"),
	)
	runner := &fakeRunner{outcomes: map[int]checksrvc.Outcome{
		1: {Status: checksrvc.StatusPass},
		2: {Status: checksrvc.StatusFail, Output: "login refused"},
		3: {Status: checksrvc.StatusError, Output: "check timed out"},
	}}
	sched := NewScheduler(teams, repo, runner, nil, nil, Config{
		Interval: time.Minute, RoundDuration: 5 * time.Second, Workers: 2,
	})

	round, err := sched.RunRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, round.Number)
	assert.False(t, round.CompletedAt.IsZero())

	results, err := repo.ListResults(context.Background(), round.Number)
	require.NoError(t, err)
	require.Len(t, results, 3)
	statuses := map[int]checksrvc.Status{}
	for _, result := range results {
		statuses[result.ServiceID] = result.Status
	}
	assert.Equal(t, checksrvc.StatusPass, statuses[1])
	assert.Equal(t, checksrvc.StatusFail, statuses[2])
	assert.Equal(t, checksrvc.StatusError, statuses[3])
}

// a hanging check on one service must not deprive its siblings of results
func TestRoundDeadlineIsolatesSlowService(t *testing.T) {
	teams, repo := newTestSetup(
		blueService(1, "slow"),
		blueService(2, "ftp"),
		blueService(3, "irc"),
	)
	runner := &fakeRunner{
		outcomes: map[int]checksrvc.Outcome{
			2: {Status: checksrvc.StatusPass},
			3: {Status: checksrvc.StatusFail},
		},
		delays: map[int]time.Duration{1: 2 * time.Second},
	}
	sched := NewScheduler(teams, repo, runner, nil, nil, Config{
		Interval: time.Minute, RoundDuration: 150 * time.Millisecond, Workers: 3,
	})

	start := time.Now()
	round, err := sched.RunRound(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "round must complete at its deadline")

	results, err := repo.ListResults(context.Background(), round.Number)
	require.NoError(t, err)
	require.Len(t, results, 3)
	statuses := map[int]checksrvc.Status{}
	for _, result := range results {
		statuses[result.ServiceID] = result.Status
	}
	assert.Equal(t, checksrvc.StatusError, statuses[1])
	assert.Equal(t, checksrvc.StatusPass, statuses[2])
	assert.Equal(t, checksrvc.StatusFail, statuses[3])
}

func TestRoundNumbersAreMonotonic(t *testing.T) {
	teams, repo := newTestSetup(blueService(1, "ftp"))
	sched := NewScheduler(teams, repo, &fakeRunner{}, nil, nil, Config{
		Interval: time.Minute, RoundDuration: time.Second, Workers: 1,
	})

	for want := 1; want <= 3; want++ {
		round, err := sched.RunRound(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, round.Number)
	}
}

func TestResultRepoRejectsDuplicates(t *testing.T) {
	_, repo := newTestSetup()
	result := CheckResult{ServiceID: 1, RoundNumber: 1, Status: checksrvc.StatusPass, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.StoreResult(context.Background(), result))
	err := repo.StoreResult(context.Background(), result)
	require.Error(t, err)
}

func TestWorkerPoolStillCoversAllServices(t *testing.T) {
	services := make([]teamsrvc.Service, 0, 20)
	for i := 1; i <= 20; i++ {
		services = append(services, blueService(i, "svc"))
	}
	teams, repo := newTestSetup(services...)
	sched := NewScheduler(teams, repo, &fakeRunner{}, nil, nil, Config{
		Interval: time.Minute, RoundDuration: 5 * time.Second, Workers: 3,
	})

	round, err := sched.RunRound(context.Background())
	require.NoError(t, err)
	results, err := repo.ListResults(context.Background(), round.Number)
	require.NoError(t, err)
	assert.Len(t, results, 20)
}
