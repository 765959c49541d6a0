package errors

import (
	"errors"
	"fmt"
)

// Common error types shared across the handoff packages
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOTPRequired        = errors.New("otp verification required")
	ErrInvalidOTP         = errors.New("invalid otp code")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")

	// Onboarding flow errors
	ErrFlowNotFound         = errors.New("onboarding flow not found")
	ErrFlowAlreadyCompleted = errors.New("onboarding flow already completed")
	ErrNoTokensHeld         = errors.New("no tokens held")

	// Product errors
	ErrUnknownProduct = errors.New("unknown product")
	ErrUnknownOrigin  = errors.New("unknown origin")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")

	// General errors
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternal       = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
