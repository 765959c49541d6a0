package config

import "time"

// TokenConfig is used by the development backend only.
type TokenConfig interface {
	GetDevJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenLength() int
	GetOTPExpiry() time.Duration
	GetDevOTPCode() string
}

type Tokens struct {
	DevJWTSecret string `env:"DEV_JWT_SECRET" envDefault:"berhot-dev-secret"`
}

var _ TokenConfig = Tokens{}

func (t Tokens) GetDevJWTSecret() string {
	return t.DevJWTSecret
}

func (Tokens) GetAccessTokenExpiry() time.Duration {
	return 1 * time.Hour
}

func (Tokens) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func (Tokens) GetOTPExpiry() time.Duration {
	return 5 * time.Minute
}

func (Tokens) GetDevOTPCode() string {
	return "123456"
}
