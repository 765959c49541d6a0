package server

import (
	"net/http"
	"time"
)

const (
	// flowCookieName carries the pending sign-in flow between BFF calls
	flowCookieName = "berhot_flow"
	// flowHeaderName is accepted for clients that cannot send cookies
	flowHeaderName = "X-Berhot-Flow"
)

func (s *Server) setFlowCookie(w http.ResponseWriter, r *http.Request, flowID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flowCookieName,
		Value:    flowID,
		Path:     "/api/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetPendingFlowTTL() / time.Second),
	})
}

// flowID returns the caller's pending flow, cookie first.
func flowID(r *http.Request) string {
	if cookie, err := r.Cookie(flowCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return r.Header.Get(flowHeaderName)
}
