package devbackend

import (
	"github.com/pkg/errors"

	"github.com/berhot/session-handoff/tenants"
	"github.com/berhot/session-handoff/users"
)

// SeedUser describes a user created at start-up.
type SeedUser struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       users.RoleType
	TenantName string
	EmailOTP   bool
}

// DefaultSeedUsers are the accounts a fresh development backend knows.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{Email: "owner@berhot.dev", Password: "Password1", FirstName: "Demo", LastName: "Owner", Role: users.RoleOwner, TenantName: "Demo Cafe"},
		{Email: "otp@berhot.dev", Password: "Password1", FirstName: "Otp", LastName: "Owner", Role: users.RoleOwner, TenantName: "Demo Retail", EmailOTP: true},
	}
}

// Seed creates the tenant and user for each seed.
func Seed(repos Repos, seeds []SeedUser) error {
	for _, seed := range seeds {
		hash, err := users.HashPassword(seed.Password)
		if err != nil {
			return errors.Wrapf(err, "[Seed] hash password for %s", seed.Email)
		}

		tenant := &tenants.Tenant{Name: seed.TenantName}
		if err := repos.Tenants.Upsert(tenant); err != nil {
			return errors.Wrapf(err, "[Seed] tenant %s", seed.TenantName)
		}

		user := &users.User{
			Email:        seed.Email,
			PasswordHash: hash,
			FirstName:    seed.FirstName,
			LastName:     seed.LastName,
			Role:         seed.Role,
			TenantID:     tenant.ID,
			Verified:     true,
			MFType:       users.MFNone,
		}
		if seed.EmailOTP {
			user.MFType = users.MFEmail
		}
		if err := repos.Users.Upsert(user); err != nil {
			return errors.Wrapf(err, "[Seed] user %s", seed.Email)
		}
		tenant.OwnerID = user.ID
		if err := repos.Tenants.Upsert(tenant); err != nil {
			return errors.Wrapf(err, "[Seed] tenant owner %s", seed.TenantName)
		}
	}
	return nil
}
