package checksrvc

import (
	"math/rand/v2"

	"github.com/defendnet/backend/teamsrvc"
)

// Selector picks an account from a service's credential pool. Selection is
// uniform random with replacement and keeps no memory of prior picks, so
// repeated rounds exercise different credentials without any fairness
// bookkeeping.
type Selector struct {
	intn func(n int) int
}

func NewSelector() *Selector {
	return &Selector{intn: rand.IntN}
}

// NewSelectorWithRand injects the randomness source, for tests.
func NewSelectorWithRand(intn func(n int) int) *Selector {
	return &Selector{intn: intn}
}

func (s *Selector) Pick(svc teamsrvc.Service, accounts []teamsrvc.Account) (teamsrvc.Account, error) {
	if len(accounts) == 0 {
		return teamsrvc.Account{}, ErrNoAccounts(svc.Name)
	}
	return accounts[s.intn(len(accounts))], nil
}
