package devbackend

import (
	"fmt"
	"strings"

	"github.com/berhot/session-handoff/backend"
	"github.com/berhot/session-handoff/users"
)

// Validator handles request validation for the stub backend
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateUserCredentials validates login credentials
func (v *Validator) ValidateUserCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	// Basic email format validation
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fmt.Errorf("invalid email format")
	}

	if password == "" {
		return fmt.Errorf("password is required")
	}

	return nil
}

// ValidateUserState validates user account state
func (v *Validator) ValidateUserState(user *users.User) error {
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if user.Blocked {
		return fmt.Errorf("user account is blocked")
	}

	return nil
}

// ValidateSignUp validates a sign-up request
func (v *Validator) ValidateSignUp(req backend.SignUpRequest) error {
	if err := v.ValidateUserCredentials(req.Email, req.Password); err != nil {
		return err
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return fmt.Errorf("first name is required")
	}
	if strings.TrimSpace(req.BusinessName) == "" {
		return fmt.Errorf("business name is required")
	}
	return users.ValidatePasswordStrength(req.Password)
}

// ValidateOTP validates the shape of an OTP answer
func (v *Validator) ValidateOTP(challengeID, code string) error {
	if strings.TrimSpace(challengeID) == "" {
		return fmt.Errorf("challenge id is required")
	}
	if len(code) != 6 {
		return fmt.Errorf("code must be 6 digits")
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return fmt.Errorf("code must be 6 digits")
		}
	}
	return nil
}
