package users

import (
	"fmt"
	"strings"
	"time"

	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/berhot/session-handoff/sessions"
)

type MFAuthType string

const (
	MFNone  MFAuthType = "none"
	MFEmail MFAuthType = "email"
)

// RoleType is a user's role within their tenant
type RoleType string

const (
	RoleOwner   RoleType = "owner"   // Created the tenant at sign-up
	RoleManager RoleType = "manager" // Can manage staff and products
	RoleCashier RoleType = "cashier" // Point-of-sale access only
)

type User struct {
	ID           string    `json:"id,omitempty"`          // Unique identifier for the user
	Email        string    `json:"email,omitempty"`       // User's email address, lower case
	PasswordHash string    `json:"-"`                     // Hashed version of the user's password - never serialize
	FirstName    string    `json:"first_name,omitempty"`  // First name of the user
	LastName     string    `json:"last_name,omitempty"`   // Last name of the user
	DateJoined   time.Time `json:"date_joined,omitempty"` // Date and time when the user registered
	LastLogin    time.Time `json:"last_login,omitempty"`  // Last time the user logged in

	TenantID string   `json:"tenant_id,omitempty"`
	Role     RoleType `json:"role,omitempty"`

	Verified bool       `json:"verified,omitempty"` // Verified, has the user confirmed their email
	Blocked  bool       `json:"blocked,omitempty"`  // Blocked, has the user been blocked from logging in
	MFType   MFAuthType `json:"mfType,omitempty"`   // MFType, Multifactor type
}

// NormalizeEmail lower-cases and trims an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

func (u *User) MFAAuth() bool {
	return u.MFType != "" && u.MFType != MFNone
}

// Snapshot is the identity copied into an AuthSession at sign-in.
func (u *User) Snapshot() sessions.User {
	return sessions.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		TenantID:  u.TenantID,
	}
}
