package jwt

import (
	"errors"
	"fmt"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/berhot/session-handoff/internal/config"
)

// TokenIntrospection is what the development backend knows about an access
// token. If Active is false the other fields may not be populated.
type TokenIntrospection struct {
	Active bool   `json:"active"`           // True or false - Is the token valid
	Sub    string `json:"sub,omitempty"`    // Users unique ID
	Email  string `json:"email,omitempty"`  // Users email
	Tenant string `json:"tenant,omitempty"` // Tenant
	Role   string `json:"role,omitempty"`   // Role within the tenant
	Exp    int64  `json:"exp,omitempty"`    // Expiration
}

// Inspector validates access tokens minted by Creator
type Inspector struct {
	config config.TokenConfig
}

func NewInspector(cfg config.TokenConfig) *Inspector {
	return &Inspector{config: cfg}
}

// Introspect validates rawToken. Invalid or expired tokens are reported as
// inactive together with the reason.
func (i *Inspector) Introspect(rawToken string) (*TokenIntrospection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return &TokenIntrospection{Active: false}, nil
	}

	token, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{},
		func(t *jwtlib.Token) (any, error) {
			return []byte(i.config.GetDevJWTSecret()), nil
		},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(Issuer),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil || !token.Valid {
		return &TokenIntrospection{Active: false}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return &TokenIntrospection{Active: false}, errors.New("error extracting claims from token")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	tenant, _ := claims["tenant"].(string)
	role, _ := claims["role"].(string)
	exp, _ := claims["exp"].(float64)

	return &TokenIntrospection{
		Active: true,
		Sub:    sub,
		Email:  email,
		Tenant: tenant,
		Role:   role,
		Exp:    int64(exp),
	}, nil
}
