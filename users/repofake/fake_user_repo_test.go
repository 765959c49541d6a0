package fakeuserrepo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/users"
	fakeuserrepo "github.com/berhot/session-handoff/users/repofake"
)

func TestFakeUserRepo_Upsert(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	u := &users.User{Email: " Owner@Berhot.dev", TenantID: "t-1"}
	require.NoError(t, repo.Upsert(u))
	require.NotEmpty(t, u.ID)
	assert.Equal(t, "owner@berhot.dev", u.Email)

	byEmail, err := repo.GetByEmail("OWNER@berhot.dev")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	err = repo.Upsert(&users.User{Email: "owner@berhot.dev"})
	assert.ErrorIs(t, err, apperrors.ErrUserExists)

	_, err = repo.GetByID("missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestFakeUserRepo_List(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	for _, u := range []*users.User{
		{ID: "a", Email: "a@x.dev", TenantID: "t-1"},
		{ID: "b", Email: "b@x.dev", TenantID: "t-1"},
		{ID: "c", Email: "c@x.dev", TenantID: "t-2"},
	} {
		require.NoError(t, repo.Upsert(u))
	}

	tests := []struct {
		name          string
		tenantID      string
		offset, limit int
		wantIDs       []string
	}{
		{name: "all", wantIDs: []string{"a", "b", "c"}},
		{name: "tenant", tenantID: "t-1", wantIDs: []string{"a", "b"}},
		{name: "page", offset: 1, limit: 1, wantIDs: []string{"b"}},
		{name: "past end", offset: 5, limit: 2, wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.List(tt.tenantID, tt.offset, tt.limit)
			require.NoError(t, err)
			var ids []string
			for _, u := range list {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFakeUserRepo_Updates(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	original := fakeuserrepo.NowTimeFunc
	t.Cleanup(func() { fakeuserrepo.NowTimeFunc = original })
	fakeuserrepo.NowTimeFunc = func() time.Time { return now }

	repo := fakeuserrepo.NewFakeUserRepo()
	require.NoError(t, repo.Upsert(&users.User{Email: "owner@berhot.dev"}))

	require.NoError(t, repo.SetBlocked("owner@berhot.dev", true))
	require.NoError(t, repo.SetVerified("owner@berhot.dev", true))
	require.NoError(t, repo.SetLastLogin("owner@berhot.dev"))

	u, err := repo.GetByEmail("owner@berhot.dev")
	require.NoError(t, err)
	assert.True(t, u.Blocked)
	assert.True(t, u.Verified)
	assert.Equal(t, now, u.LastLogin)

	assert.ErrorIs(t, repo.SetBlocked("nobody@berhot.dev", true), apperrors.ErrUserNotFound)
}
