package teamsrvc

import "context"

// Repo is the read model over competition setup data. Teams, services and
// accounts are created before the competition and never change during it, so
// there are no write operations here.
type Repo interface {
	GetTeam(ctx context.Context, id int) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)
	ListBlueTeams(ctx context.Context) ([]Team, error)
	ListEnabledServices(ctx context.Context) ([]Service, error)
	ListServicesByCheck(ctx context.Context, checkName string) ([]Service, error)
	ListAccounts(ctx context.Context, serviceID int) ([]Account, error)
}
