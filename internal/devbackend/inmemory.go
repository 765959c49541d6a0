package devbackend

import (
	"github.com/berhot/session-handoff/internal/config"
	tenantrepofakes "github.com/berhot/session-handoff/tenants/repofakes"
	"github.com/berhot/session-handoff/token/refresh"
	refreshrepofake "github.com/berhot/session-handoff/token/refresh/repofake"
	fakeuserrepo "github.com/berhot/session-handoff/users/repofake"
)

// NewInMemory wires a Service over in-memory repositories and seeds it.
func NewInMemory(cfg config.TokenConfig, seeds []SeedUser, options ...ServiceOption) (*Service, Repos, error) {
	repos := Repos{
		Users:      fakeuserrepo.NewFakeUserRepo(),
		Tenants:    tenantrepofakes.NewFakeTenantRepo(),
		Challenges: NewInMemoryChallengeRepo(),
	}
	if err := Seed(repos, seeds); err != nil {
		return nil, Repos{}, err
	}

	service, err := NewService(repos, refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), cfg), cfg, options...)
	if err != nil {
		return nil, Repos{}, err
	}
	return service, repos, nil
}
