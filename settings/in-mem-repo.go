package settings

import (
	"context"
	"sync"
)

type InMemRepo struct {
	lock   sync.Mutex
	values map[string]string
}

func NewInMemRepo() *InMemRepo {
	return &InMemRepo{values: make(map[string]string)}
}

func (m *InMemRepo) Set(name, value string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.values[name] = value
}

func (m *InMemRepo) Get(ctx context.Context, name string) (string, bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	v, ok := m.values[name]
	return v, ok, nil
}
