package checksrvc

import (
	"context"
	"fmt"
	"time"

	"github.com/defendnet/backend/teamsrvc"
)

// Runner composes the credential selector and the executor into the one-call
// path the round scheduler fans out per service. Configuration problems
// (unknown check type, empty account pool, missing properties) surface as
// Error outcomes so that a misconfigured service never aborts a round.
type Runner struct {
	registry *Registry
	selector *Selector
	executor *Executor
	teams    teamsrvc.Repo

	defaultTimeout time.Duration
}

func NewRunner(registry *Registry, selector *Selector, executor *Executor, teams teamsrvc.Repo, defaultTimeout time.Duration) *Runner {
	return &Runner{
		registry:       registry,
		selector:       selector,
		executor:       executor,
		teams:          teams,
		defaultTimeout: defaultTimeout,
	}
}

func (r *Runner) RunCheck(ctx context.Context, svc teamsrvc.Service) Outcome {
	ct, err := r.registry.Get(svc.CheckName)
	if err != nil {
		return configErrorOutcome(err)
	}

	accounts, err := r.teams.ListAccounts(ctx, svc.ID)
	if err != nil {
		return Outcome{
			Status: StatusError,
			Output: fmt.Sprintf("failed to load accounts: %v", err),
		}
	}
	acct, err := r.selector.Pick(svc, accounts)
	if err != nil {
		return configErrorOutcome(err)
	}

	program, args, err := ct.Command(svc, acct)
	if err != nil {
		return configErrorOutcome(err)
	}

	return r.executor.Run(ctx, program, args, ct.Timeout(r.defaultTimeout))
}

func configErrorOutcome(err error) Outcome {
	return Outcome{
		Status: StatusError,
		Output: fmt.Sprintf("configuration error: %v", err),
	}
}
