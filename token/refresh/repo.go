package refresh

import (
	"time"
)

// StoredRefreshToken is the server-side record of a refresh token. The client
// only receives Token, an opaque random string.
type StoredRefreshToken struct {
	Token    string    // The actual random token string (sent to client)
	UserID   string    // Server-side metadata
	TenantID string    // Server-side metadata
	Iat      time.Time // Server-side metadata (issued at time)
}

// Repo stores refresh token metadata keyed by the token string.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	GetByUserID(userID string) (*StoredRefreshToken, error)
}
