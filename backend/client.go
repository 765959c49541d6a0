// Package backend calls the opaque authentication API that issues
// {accessToken, refreshToken, user} on sign-in, OTP verification and
// sign-up.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/pending"
	"github.com/berhot/session-handoff/sessions"
)

const (
	PathSignIn    = "/api/v1/auth/signin"
	PathVerifyOTP = "/api/v1/auth/verify-otp"
	PathSignUp    = "/api/v1/auth/signup"
)

const defaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is read for the message.
const maxErrorBody = 4 << 10

// SignInRequest is the body of a sign-in call.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyOTPRequest answers an OTP challenge.
type VerifyOTPRequest struct {
	ChallengeID string `json:"challengeId"`
	Code        string `json:"code"`
}

// SignUpRequest creates a tenant and its owner.
type SignUpRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
}

// Result is a backend response. Either Tokens is set, or OTPRequired is
// true and ChallengeID names the challenge to verify.
type Result struct {
	AccessToken  string         `json:"accessToken,omitempty"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	User         *sessions.User `json:"user,omitempty"`
	OTPRequired  bool           `json:"otpRequired,omitempty"`
	ChallengeID  string         `json:"challengeId,omitempty"`
}

// Tokens returns the issued tokens, or false when the result is an OTP
// challenge or incomplete.
func (r Result) Tokens() (pending.Tokens, bool) {
	if r.OTPRequired || r.AccessToken == "" || r.User == nil {
		return pending.Tokens{}, false
	}
	return pending.Tokens{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		User:         *r.User,
	}, true
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Unwrap lets callers match the taxonomy with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return apperrors.ErrInvalidCredentials
	case http.StatusConflict:
		return apperrors.ErrUserExists
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidRequest
	default:
		return nil
	}
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("[NewClient] backend base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: baseURL, client: hc}, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (Result, error) {
	return c.post(ctx, PathSignIn, SignInRequest{Email: email, Password: password})
}

func (c *Client) VerifyOTP(ctx context.Context, challengeID, code string) (Result, error) {
	return c.post(ctx, PathVerifyOTP, VerifyOTPRequest{ChallengeID: challengeID, Code: code})
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (Result, error) {
	return c.post(ctx, PathSignUp, req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode %s response: %w", path, err)
	}
	if !result.OTPRequired && (result.AccessToken == "" || result.User == nil) {
		return Result{}, fmt.Errorf("%s: response has neither tokens nor an OTP challenge", path)
	}
	if result.OTPRequired && result.ChallengeID == "" {
		return Result{}, fmt.Errorf("%s: OTP required without a challenge ID", path)
	}
	return result, nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} and falls back
// to the raw body.
func errorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(data))
}
