package teamsrvc

import (
	"context"
	"sort"
	"sync"
)

type InMemRepo struct {
	lock     sync.Mutex
	teams    map[int]Team
	services map[int]Service
	accounts map[int][]Account // keyed by service id
}

func NewInMemRepo() *InMemRepo {
	return &InMemRepo{
		teams:    make(map[int]Team),
		services: make(map[int]Service),
		accounts: make(map[int][]Account),
	}
}

func (m *InMemRepo) AddTeam(team Team) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.teams[team.ID] = team
}

func (m *InMemRepo) AddService(svc Service) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.services[svc.ID] = svc
}

func (m *InMemRepo) AddAccount(acct Account) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.accounts[acct.ServiceID] = append(m.accounts[acct.ServiceID], acct)
}

func (m *InMemRepo) GetTeam(ctx context.Context, id int) (Team, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	team, ok := m.teams[id]
	if !ok {
		return Team{}, ErrTeamNotFound()
	}
	return team, nil
}

func (m *InMemRepo) ListTeams(ctx context.Context) ([]Team, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	teams := make([]Team, 0, len(m.teams))
	for _, team := range m.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (m *InMemRepo) ListBlueTeams(ctx context.Context) ([]Team, error) {
	teams, _ := m.ListTeams(ctx)
	blue := make([]Team, 0, len(teams))
	for _, team := range teams {
		if team.IsBlue() {
			blue = append(blue, team)
		}
	}
	return blue, nil
}

func (m *InMemRepo) ListEnabledServices(ctx context.Context) ([]Service, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	services := make([]Service, 0, len(m.services))
	for _, svc := range m.services {
		if svc.Enabled {
			services = append(services, svc)
		}
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services, nil
}

func (m *InMemRepo) ListServicesByCheck(ctx context.Context, checkName string) ([]Service, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	services := make([]Service, 0)
	for _, svc := range m.services {
		if svc.CheckName == checkName {
			services = append(services, svc)
		}
	}
	sort.Slice(services, func(i, j int) bool {
		if services[i].Name != services[j].Name {
			return services[i].Name < services[j].Name
		}
		return services[i].TeamID < services[j].TeamID
	})
	return services, nil
}

func (m *InMemRepo) ListAccounts(ctx context.Context, serviceID int) ([]Account, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	accounts := make([]Account, len(m.accounts[serviceID]))
	copy(accounts, m.accounts[serviceID])
	return accounts, nil
}
