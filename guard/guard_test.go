package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/berhot/session-handoff/guard"
	"github.com/berhot/session-handoff/sessions"
)

func TestIsAuthorized(t *testing.T) {
	origins := []sessions.OriginID{"cafe", "retail", "restaurant", "appointment", "3002", ""}

	for _, o1 := range origins {
		session := &sessions.AuthSession{
			AccessToken: "t1",
			User:        &sessions.User{ID: "u1"},
			PosProduct:  &sessions.POSProduct{Name: "Product", Origin: o1},
		}
		for _, o2 := range origins {
			assert.Equal(t, o1 == o2, guard.IsAuthorized(session, o2), "product origin %q, app origin %q", o1, o2)
		}
	}
}

func TestIsAuthorized_NoProduct(t *testing.T) {
	session := &sessions.AuthSession{AccessToken: "t1", User: &sessions.User{ID: "u1"}}

	for _, origin := range []sessions.OriginID{"cafe", "retail", ""} {
		assert.False(t, guard.IsAuthorized(session, origin))
	}
	assert.False(t, guard.IsAuthorized(nil, "cafe"))
}
