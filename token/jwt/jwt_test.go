package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berhot/session-handoff/internal/config"
	"github.com/berhot/session-handoff/token/jwt"
	"github.com/berhot/session-handoff/users"
)

func setupTestFixture(t *testing.T, secret string) config.Config {
	t.Helper()
	cfg, err := config.FromMap(map[string]string{"DEV_JWT_SECRET": secret})
	require.NoError(t, err)
	return cfg
}

func withNow(t *testing.T, now time.Time) *time.Time {
	t.Helper()
	original := jwt.NowTimeFunc
	t.Cleanup(func() { jwt.NowTimeFunc = original })
	current := now
	jwt.NowTimeFunc = func() time.Time { return current }
	return &current
}

func TestCreateAndIntrospect(t *testing.T) {
	cfg := setupTestFixture(t, "secret-a")
	now := withNow(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	user := &users.User{ID: "u-1", Email: "owner@berhot.dev", TenantID: "t-1", Role: users.RoleOwner}
	token, err := jwt.NewCreator(cfg).CreateAccessToken(user)
	require.NoError(t, err)

	info, err := jwt.NewInspector(cfg).Introspect(token)
	require.NoError(t, err)
	assert.Equal(t, &jwt.TokenIntrospection{
		Active: true,
		Sub:    "u-1",
		Email:  "owner@berhot.dev",
		Tenant: "t-1",
		Role:   "owner",
		Exp:    now.Add(time.Hour).Unix(),
	}, info)
}

func TestIntrospect_Inactive(t *testing.T) {
	cfg := setupTestFixture(t, "secret-a")
	now := withNow(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	token, err := jwt.NewCreator(cfg).CreateAccessToken(&users.User{ID: "u-1"})
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		info, err := jwt.NewInspector(cfg).Introspect("  ")
		require.NoError(t, err)
		assert.False(t, info.Active)
	})

	t.Run("wrong secret", func(t *testing.T) {
		info, err := jwt.NewInspector(setupTestFixture(t, "secret-b")).Introspect(token)
		require.Error(t, err)
		assert.False(t, info.Active)
	})

	t.Run("garbage", func(t *testing.T) {
		info, err := jwt.NewInspector(cfg).Introspect("not.a.jwt")
		require.Error(t, err)
		assert.False(t, info.Active)
	})

	t.Run("expired", func(t *testing.T) {
		*now = now.Add(2 * time.Hour)
		info, err := jwt.NewInspector(cfg).Introspect(token)
		require.Error(t, err)
		assert.False(t, info.Active)
	})
}
