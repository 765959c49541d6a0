// Package guard decides whether a session belongs to the app that is
// currently loading.
package guard

import "github.com/berhot/session-handoff/sessions"

// IsAuthorized reports whether session is provisioned into the product served
// at origin. A session without a product is authorized nowhere; it is only
// good for the product-selection surface.
func IsAuthorized(session *sessions.AuthSession, origin sessions.OriginID) bool {
	if session == nil || session.PosProduct == nil {
		return false
	}
	return session.PosProduct.Origin == origin
}
