package scoresrvc

import (
	"context"
	"sync"
)

type InMemAdjustmentRepo struct {
	lock        sync.Mutex
	adjustments []ScoreAdjustment
	nextID      int
}

func NewInMemAdjustmentRepo() *InMemAdjustmentRepo {
	return &InMemAdjustmentRepo{nextID: 1}
}

func (m *InMemAdjustmentRepo) StoreAdjustment(ctx context.Context, adjustment ScoreAdjustment) (ScoreAdjustment, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	adjustment.ID = m.nextID
	m.nextID++
	m.adjustments = append(m.adjustments, adjustment)
	return adjustment, nil
}

func (m *InMemAdjustmentRepo) SumAdjustmentPoints(ctx context.Context, targetTeamID int) (int, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	total := 0
	for _, adjustment := range m.adjustments {
		if adjustment.TargetTeamID == targetTeamID {
			total += adjustment.Points
		}
	}
	return total, nil
}
