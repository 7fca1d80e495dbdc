package roundsrvc

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/defendnet/backend/checksrvc"
	"github.com/defendnet/backend/teamsrvc"
)

type resultKey struct {
	serviceID   int
	roundNumber int
}

type InMemRepo struct {
	lock    sync.Mutex
	rounds  map[int]Round
	results map[resultKey]CheckResult
	teams   *teamsrvc.InMemRepo // service point weights for availability sums
}

func NewInMemRepo(teams *teamsrvc.InMemRepo) *InMemRepo {
	return &InMemRepo{
		rounds:  make(map[int]Round),
		results: make(map[resultKey]CheckResult),
		teams:   teams,
	}
}

func (m *InMemRepo) LastRoundNumber(ctx context.Context) (int, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	last := 0
	for number := range m.rounds {
		if number > last {
			last = number
		}
	}
	return last, nil
}

func (m *InMemRepo) CreateRound(ctx context.Context, round Round) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.rounds[round.Number] = round
	return nil
}

func (m *InMemRepo) CompleteRound(ctx context.Context, number int, completedAt time.Time) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	round := m.rounds[number]
	round.CompletedAt = completedAt
	m.rounds[number] = round
	return nil
}

func (m *InMemRepo) StoreResult(ctx context.Context, result CheckResult) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	key := resultKey{result.ServiceID, result.RoundNumber}
	if _, ok := m.results[key]; ok {
		return ErrDuplicateResult(result.ServiceID, result.RoundNumber)
	}
	m.results[key] = result
	return nil
}

func (m *InMemRepo) ListResults(ctx context.Context, roundNumber int) ([]CheckResult, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var results []CheckResult
	for key, result := range m.results {
		if key.roundNumber == roundNumber {
			results = append(results, result)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].ServiceID < results[j].ServiceID
	})
	return results, nil
}

func (m *InMemRepo) SumPassedPoints(ctx context.Context, teamID int) (int, error) {
	services, err := m.teams.ListEnabledServices(ctx)
	if err != nil {
		return 0, err
	}
	pointsByService := make(map[int]int)
	for _, svc := range services {
		if svc.TeamID == teamID {
			pointsByService[svc.ID] = svc.Points
		}
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	total := 0
	for _, result := range m.results {
		if result.Status != checksrvc.StatusPass {
			continue
		}
		total += pointsByService[result.ServiceID]
	}
	return total, nil
}
