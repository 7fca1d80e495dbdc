package flagsrvc

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type submissionKey struct {
	flagID       uuid.UUID
	targetTeamID int
}

type InMemRepo struct {
	lock        sync.Mutex
	flags       map[uuid.UUID]Flag
	solves      []Solve
	submissions map[submissionKey]Submission
	nextID      int
}

func NewInMemRepo() *InMemRepo {
	return &InMemRepo{
		flags:       make(map[uuid.UUID]Flag),
		submissions: make(map[submissionKey]Submission),
		nextID:      1,
	}
}

func (m *InMemRepo) StoreFlag(ctx context.Context, flag Flag) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.flags[flag.ID] = flag
	return nil
}

func (m *InMemRepo) GetFlag(ctx context.Context, id uuid.UUID) (Flag, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	flag, ok := m.flags[id]
	if !ok {
		return Flag{}, ErrFlagNotFound()
	}
	return flag, nil
}

func (m *InMemRepo) ListFlags(ctx context.Context) ([]Flag, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	flags := make([]Flag, 0, len(m.flags))
	for _, flag := range m.flags {
		flags = append(flags, flag)
	}
	sort.Slice(flags, func(i, j int) bool {
		return flags[i].StartTime.Before(flags[j].StartTime)
	})
	return flags, nil
}

func (m *InMemRepo) StoreSolve(ctx context.Context, solve Solve) (Solve, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	solve.ID = m.nextID
	m.nextID++
	m.solves = append(m.solves, solve)
	return solve, nil
}

func (m *InMemRepo) ListSolves(ctx context.Context) ([]Solve, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	solves := make([]Solve, len(m.solves))
	copy(solves, m.solves)
	return solves, nil
}

func (m *InMemRepo) StoreSubmission(ctx context.Context, submission Submission) (Submission, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	key := submissionKey{submission.FlagID, submission.TargetTeamID}
	if _, ok := m.submissions[key]; ok {
		return Submission{}, ErrFlagAlreadySubmitted()
	}
	submission.ID = m.nextID
	m.nextID++
	m.submissions[key] = submission
	return submission, nil
}

func (m *InMemRepo) ListSubmissionsByTeam(ctx context.Context, submittedByTeamID int) ([]Submission, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var submissions []Submission
	for _, submission := range m.submissions {
		if submission.SubmittedByTeamID == submittedByTeamID {
			submissions = append(submissions, submission)
		}
	}
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].ID < submissions[j].ID
	})
	return submissions, nil
}

func (m *InMemRepo) SumSubmissionPoints(ctx context.Context, targetTeamID int) (int, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	total := 0
	for _, submission := range m.submissions {
		if submission.TargetTeamID == targetTeamID {
			total += submission.Points
		}
	}
	return total, nil
}
