// Package pending holds freshly issued tokens in memory while the user
// finishes OTP verification and onboarding. Nothing here reaches storage
// until Finalize hands the composed session to the caller.
package pending

import (
	"sync"

	"github.com/berhot/session-handoff/sessions"
)

// Tokens is what the backend returns on sign-in, OTP verification or
// sign-up.
type Tokens struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         sessions.User `json:"user"`
}

// Valid reports whether the tokens can become a usable session: an access
// token and a user with an ID.
func (t Tokens) Valid() bool {
	return t.AccessToken != "" && t.User.ID != ""
}

// Buffer is a single pending sign-in. It is safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	tokens  *Tokens
	product *sessions.POSProduct
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Hold stores tokens, replacing any earlier ones. A product chosen for the
// earlier tokens is kept. Invalid tokens are refused and leave the buffer
// unchanged.
func (b *Buffer) Hold(tokens Tokens) bool {
	if !tokens.Valid() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = &tokens
	return true
}

// SetProduct records the product the held session will be bound to.
func (b *Buffer) SetProduct(product sessions.POSProduct) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.product = &product
}

// Held reports whether tokens are waiting to be finalized.
func (b *Buffer) Held() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokens != nil
}

// User returns a copy of the held user.
func (b *Buffer) User() (sessions.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tokens == nil {
		return sessions.User{}, false
	}
	return b.tokens.User, true
}

// Product returns the chosen product, if any.
func (b *Buffer) Product() (sessions.POSProduct, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.product == nil {
		return sessions.POSProduct{}, false
	}
	return *b.product, true
}

// Finalize composes the held tokens and chosen product into a session and
// empties the buffer. The session has no product when none was chosen.
// Only the first call after Hold returns true.
func (b *Buffer) Finalize() (*sessions.AuthSession, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.tokens == nil {
		return nil, false
	}

	user := b.tokens.User
	session := &sessions.AuthSession{
		AccessToken:  b.tokens.AccessToken,
		RefreshToken: b.tokens.RefreshToken,
		User:         &user,
	}
	if b.product != nil {
		product := *b.product
		session.PosProduct = &product
	}

	b.tokens = nil
	b.product = nil
	return session, true
}
