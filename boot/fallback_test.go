package boot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berhot/session-handoff/boot"
)

func TestSignInFallback(t *testing.T) {
	tests := []struct {
		name          string
		landingOrigin string
		currentURL    string
		wantCalls     []boot.NavigatorCall
		wantLocation  string
	}{
		{
			name:          "handoff fragment stripped unread",
			landingOrigin: landingOrigin,
			currentURL:    "http://localhost:3002/dashboard#auth=abc",
			wantLocation:  "http://localhost:3000/en/signin?logout=false&port=3002",
			wantCalls: []boot.NavigatorCall{
				{Method: "replace", URL: "http://localhost:3002/dashboard"},
				{Method: "assign", URL: "http://localhost:3000/en/signin?logout=false&port=3002"},
			},
		},
		{
			name:          "no fragment",
			landingOrigin: landingOrigin,
			currentURL:    "http://localhost:3002/dashboard",
			wantLocation:  "http://localhost:3000/en/signin?logout=false&port=3002",
			wantCalls: []boot.NavigatorCall{
				{Method: "assign", URL: "http://localhost:3000/en/signin?logout=false&port=3002"},
			},
		},
		{
			name:         "current origin when no landing origin is built in",
			currentURL:   "https://cafe.berhot.dev/dashboard",
			wantLocation: "https://cafe.berhot.dev/en/signin?logout=false&port=cafe.berhot.dev",
			wantCalls: []boot.NavigatorCall{
				{Method: "assign", URL: "https://cafe.berhot.dev/en/signin?logout=false&port=cafe.berhot.dev"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &boot.RecordingNavigator{}
			outcome := boot.SignInFallback(context.Background(), nav, tt.landingOrigin, "en", "", tt.currentURL)

			require.Equal(t, boot.StateRedirected, outcome.State)
			assert.True(t, outcome.State.Terminal())
			assert.Equal(t, boot.ReasonNoConfig, outcome.Reason)
			assert.Equal(t, tt.wantLocation, outcome.Location)
			assert.Equal(t, tt.wantCalls, nav.Calls())
		})
	}
}
