package refresh_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berhot/session-handoff/internal/config"
	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/token/refresh"
	refreshrepofake "github.com/berhot/session-handoff/token/refresh/repofake"
)

func setupTestFixture(t *testing.T) *refresh.Manager {
	t.Helper()
	cfg, err := config.FromMap(map[string]string{})
	require.NoError(t, err)

	original := refresh.NowTimeFunc
	t.Cleanup(func() { refresh.NowTimeFunc = original })
	refresh.NowTimeFunc = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	return refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), cfg)
}

func TestManager_Create(t *testing.T) {
	m := setupTestFixture(t)

	token, err := m.Create("u-1", "t-1")
	require.NoError(t, err)
	assert.Len(t, token, 64)

	stored, err := m.Get(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", stored.UserID)
	assert.Equal(t, "t-1", stored.TenantID)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), stored.Iat)
}

func TestManager_CreateReplacesPrevious(t *testing.T) {
	m := setupTestFixture(t)

	first, err := m.Create("u-1", "t-1")
	require.NoError(t, err)
	second, err := m.Create("u-1", "t-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = m.Get(first)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = m.Get(second)
	assert.NoError(t, err)
}
