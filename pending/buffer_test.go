package pending_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berhot/session-handoff/pending"
	"github.com/berhot/session-handoff/sessions"
)

func testTokens() pending.Tokens {
	return pending.Tokens{
		AccessToken:  "t1",
		RefreshToken: "r1",
		User:         sessions.User{ID: "u1", Email: "owner@example.com", Role: "owner", TenantID: "tenant-1"},
	}
}

func TestBuffer_FinalizeWithProduct(t *testing.T) {
	b := pending.NewBuffer()
	assert.False(t, b.Held())

	b.Hold(testTokens())
	b.SetProduct(sessions.POSProduct{Name: "Cafe POS", Origin: "cafe"})
	require.True(t, b.Held())

	session, ok := b.Finalize()
	require.True(t, ok)
	assert.Equal(t, "t1", session.AccessToken)
	assert.Equal(t, "r1", session.RefreshToken)
	assert.Equal(t, "u1", session.UserID())
	assert.Equal(t, sessions.OriginID("cafe"), session.ProductOrigin())
	assert.True(t, session.Usable())
	assert.False(t, b.Held())
}

func TestBuffer_FinalizeIsIdempotent(t *testing.T) {
	b := pending.NewBuffer()
	b.Hold(testTokens())

	first, ok := b.Finalize()
	require.True(t, ok)
	require.NotNil(t, first)

	second, ok := b.Finalize()
	assert.False(t, ok)
	assert.Nil(t, second)
}

func TestBuffer_FinalizeWithoutHold(t *testing.T) {
	b := pending.NewBuffer()
	b.SetProduct(sessions.POSProduct{Name: "Cafe POS", Origin: "cafe"})

	session, ok := b.Finalize()
	assert.False(t, ok)
	assert.Nil(t, session)
}

func TestBuffer_FinalizeWithoutProduct(t *testing.T) {
	b := pending.NewBuffer()
	b.Hold(testTokens())

	session, ok := b.Finalize()
	require.True(t, ok)
	assert.Nil(t, session.PosProduct)
	assert.True(t, session.Usable())
}

func TestBuffer_HoldRefusesInvalidTokens(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*pending.Tokens)
	}{
		{name: "no user", mutate: func(tk *pending.Tokens) { tk.User = sessions.User{} }},
		{name: "no user ID", mutate: func(tk *pending.Tokens) { tk.User.ID = "" }},
		{name: "no access token", mutate: func(tk *pending.Tokens) { tk.AccessToken = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := pending.NewBuffer()
			tokens := testTokens()
			tt.mutate(&tokens)

			assert.False(t, b.Hold(tokens))
			assert.False(t, b.Held())
			_, ok := b.Finalize()
			assert.False(t, ok)

			// earlier valid tokens survive a refused replacement
			require.True(t, b.Hold(testTokens()))
			assert.False(t, b.Hold(tokens))
			session, ok := b.Finalize()
			require.True(t, ok)
			assert.True(t, session.Usable())
			assert.Equal(t, "u1", session.UserID())
		})
	}
}

func TestBuffer_HoldReplaces(t *testing.T) {
	b := pending.NewBuffer()
	b.Hold(testTokens())

	replacement := testTokens()
	replacement.AccessToken = "t2"
	b.Hold(replacement)

	session, ok := b.Finalize()
	require.True(t, ok)
	assert.Equal(t, "t2", session.AccessToken)
}

func TestBuffer_FinalizeResetsProduct(t *testing.T) {
	b := pending.NewBuffer()
	b.Hold(testTokens())
	b.SetProduct(sessions.POSProduct{Name: "Cafe POS", Origin: "cafe"})
	_, ok := b.Finalize()
	require.True(t, ok)

	b.Hold(testTokens())
	session, ok := b.Finalize()
	require.True(t, ok)
	assert.Nil(t, session.PosProduct)
}

func TestBuffer_ConcurrentFinalize(t *testing.T) {
	b := pending.NewBuffer()
	b.Hold(testTokens())

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := b.Finalize(); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}
