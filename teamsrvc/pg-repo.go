package teamsrvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepo struct {
	pool *pgxpool.Pool
}

func NewPgRepo(pool *pgxpool.Pool) *PgRepo {
	return &PgRepo{pool: pool}
}

func (r *PgRepo) GetTeam(ctx context.Context, id int) (Team, error) {
	var team Team
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, color FROM teams WHERE id = $1`, id,
	).Scan(&team.ID, &team.Name, &team.Color)
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, ErrTeamNotFound()
	}
	if err != nil {
		return Team{}, fmt.Errorf("failed to query team: %w", err)
	}
	return team, nil
}

func (r *PgRepo) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, color FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()
	return scanTeams(rows)
}

func (r *PgRepo) ListBlueTeams(ctx context.Context) ([]Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, color FROM teams WHERE color = $1 ORDER BY id`,
		ColorBlue)
	if err != nil {
		return nil, fmt.Errorf("failed to query blue teams: %w", err)
	}
	defer rows.Close()
	return scanTeams(rows)
}

func scanTeams(rows pgx.Rows) ([]Team, error) {
	var teams []Team
	for rows.Next() {
		var team Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Color); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

const serviceColumns = `id, name, host, port, team_id, check_name, enabled, points, properties`

func (r *PgRepo) ListEnabledServices(ctx context.Context) ([]Service, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE enabled ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query enabled services: %w", err)
	}
	defer rows.Close()
	return scanServices(rows)
}

func (r *PgRepo) ListServicesByCheck(ctx context.Context, checkName string) ([]Service, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE check_name = $1 ORDER BY name, team_id`,
		checkName)
	if err != nil {
		return nil, fmt.Errorf("failed to query services by check: %w", err)
	}
	defer rows.Close()
	return scanServices(rows)
}

func scanServices(rows pgx.Rows) ([]Service, error) {
	var services []Service
	for rows.Next() {
		var svc Service
		err := rows.Scan(&svc.ID, &svc.Name, &svc.Host, &svc.Port,
			&svc.TeamID, &svc.CheckName, &svc.Enabled, &svc.Points,
			&svc.Properties)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (r *PgRepo) ListAccounts(ctx context.Context, serviceID int) ([]Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, service_id, username, password FROM accounts WHERE service_id = $1`,
		serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var acct Account
		if err := rows.Scan(&acct.ID, &acct.ServiceID, &acct.Username, &acct.Password); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}
