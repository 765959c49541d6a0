package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/berhot/session-handoff/internal/config"
	"github.com/berhot/session-handoff/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Issuer is the iss claim of every token minted by the development backend.
const Issuer = "berhot-devbackend"

// Creator mints HS256 access tokens for the development backend
type Creator struct {
	config config.TokenConfig
}

// NewCreator creates a new JWT creator
func NewCreator(cfg config.TokenConfig) *Creator {
	return &Creator{
		config: cfg,
	}
}

// CreateAccessToken creates an access token for user. The product apps treat
// it as opaque.
func (c *Creator) CreateAccessToken(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"iss":    Issuer,                                          // The issuer of the token
		"sub":    user.ID,                                         // The user the token was issued to
		"email":  user.Email,                                      // Convenience for the stub's own lookups
		"tenant": user.TenantID,                                   // Tenant the user belongs to
		"role":   string(user.Role),                               // Role within the tenant
		"iat":    now.Unix(),                                      // Issued At: the time at which the token was issued
		"exp":    now.Add(c.config.GetAccessTokenExpiry()).Unix(), // Expiry: when the token will expire
		"jti":    uuid.New().String(),                             // Unique token ID
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.config.GetDevJWTSecret()))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}
