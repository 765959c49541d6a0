// Package devbackend is a local stand-in for the opaque authentication
// backend. It issues {accessToken, refreshToken, user} for seeded and
// signed-up users and keeps everything in memory.
package devbackend

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/backend"
	"github.com/berhot/session-handoff/internal/config"
	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/tenants"
	"github.com/berhot/session-handoff/token/jwt"
	"github.com/berhot/session-handoff/token/refresh"
	"github.com/berhot/session-handoff/users"
)

// maxOTPAttempts is how many wrong codes a challenge survives.
const maxOTPAttempts = 5

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users      users.UserRepo
	Tenants    tenants.Repo
	Challenges ChallengeRepo
}

// Service implements sign-in, OTP verification and sign-up.
type Service struct {
	repos     Repos
	creator   *jwt.Creator
	inspector *jwt.Inspector
	refresh   *refresh.Manager
	validator *Validator
	config    config.TokenConfig
	nowTime   func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repos Repos, refreshManager *refresh.Manager, cfg config.TokenConfig, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Tenants == nil {
		return nil, errors.New("[NewService] Tenants repo is required")
	}
	if repos.Challenges == nil {
		return nil, errors.New("[NewService] Challenges repo is required")
	}
	if refreshManager == nil {
		return nil, errors.New("[NewService] refresh manager is required")
	}
	if cfg == nil || cfg.GetDevJWTSecret() == "" {
		return nil, errors.New("[NewService] JWT secret is required")
	}

	s := &Service{
		repos:     repos,
		creator:   jwt.NewCreator(cfg),
		inspector: jwt.NewInspector(cfg),
		refresh:   refreshManager,
		validator: NewValidator(),
		config:    cfg,
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// SignIn checks the credentials. Users with email MFA get an OTP challenge
// instead of tokens.
func (s *Service) SignIn(email, password string) (backend.Result, error) {
	if err := s.validator.ValidateUserCredentials(email, password); err != nil {
		return backend.Result{}, errors.Wrap(apperrors.ErrInvalidRequest, err.Error())
	}

	user, err := s.repos.Users.GetByEmail(email)
	if err != nil {
		// Same answer as a wrong password
		return backend.Result{}, apperrors.ErrInvalidCredentials
	}
	if err := s.validator.ValidateUserState(user); err != nil {
		return backend.Result{}, errors.Wrap(apperrors.ErrInvalidCredentials, err.Error())
	}
	if !user.CheckPassword(password) {
		return backend.Result{}, apperrors.ErrInvalidCredentials
	}

	if user.MFAAuth() {
		return s.challenge(user)
	}
	return s.issue(user)
}

// VerifyOTP answers a challenge created by SignIn.
func (s *Service) VerifyOTP(challengeID, code string) (backend.Result, error) {
	if err := s.validator.ValidateOTP(challengeID, code); err != nil {
		return backend.Result{}, errors.Wrap(apperrors.ErrInvalidRequest, err.Error())
	}

	challenge, err := s.repos.Challenges.Get(challengeID)
	if err != nil {
		return backend.Result{}, apperrors.ErrInvalidOTP
	}
	if s.nowTime().After(challenge.ExpiresAt) {
		_ = s.repos.Challenges.Delete(challengeID)
		return backend.Result{}, errors.Wrap(apperrors.ErrInvalidOTP, "challenge expired")
	}
	if code != challenge.Code {
		challenge.Attempts++
		if challenge.Attempts >= maxOTPAttempts {
			_ = s.repos.Challenges.Delete(challengeID)
		} else {
			_ = s.repos.Challenges.Upsert(challenge)
		}
		return backend.Result{}, apperrors.ErrInvalidOTP
	}

	_ = s.repos.Challenges.Delete(challengeID)
	user, err := s.repos.Users.GetByEmail(challenge.Email)
	if err != nil {
		return backend.Result{}, apperrors.ErrInvalidOTP
	}
	return s.issue(user)
}

// SignUp creates a tenant and its owner and signs the owner in.
func (s *Service) SignUp(req backend.SignUpRequest) (backend.Result, error) {
	if err := s.validator.ValidateSignUp(req); err != nil {
		return backend.Result{}, errors.Wrap(apperrors.ErrInvalidRequest, err.Error())
	}
	if _, err := s.repos.Users.GetByEmail(req.Email); err == nil {
		return backend.Result{}, apperrors.ErrUserExists
	}

	hash, err := users.HashPassword(req.Password)
	if err != nil {
		return backend.Result{}, errors.Wrap(err, "[SignUp] hash password")
	}

	now := s.nowTime()
	owner := &users.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		DateJoined:   now,
		Role:         users.RoleOwner,
		Verified:     true,
		MFType:       users.MFNone,
	}
	tenant := &tenants.Tenant{
		Name:      strings.TrimSpace(req.BusinessName),
		OwnerID:   owner.ID,
		CreatedAt: now,
	}
	if err := s.repos.Tenants.Upsert(tenant); err != nil {
		return backend.Result{}, errors.Wrap(err, "[SignUp] create tenant")
	}
	owner.TenantID = tenant.ID
	if err := s.repos.Users.Upsert(owner); err != nil {
		_ = s.repos.Tenants.Delete(tenant.ID)
		return backend.Result{}, errors.Wrap(err, "[SignUp] create owner")
	}

	log.Info().Str("user_id", owner.ID).Str("tenant_id", tenant.ID).Msg("devbackend: tenant created")
	return s.issue(owner)
}

// Me returns the user an access token was issued to.
func (s *Service) Me(accessToken string) (*users.User, error) {
	introspection, err := s.inspector.Introspect(accessToken)
	if err != nil || !introspection.Active {
		return nil, apperrors.ErrInvalidCredentials
	}
	user, err := s.repos.Users.GetByID(introspection.Sub)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) challenge(user *users.User) (backend.Result, error) {
	challenge := &Challenge{
		ID:        uuid.New().String(),
		Email:     user.Email,
		Code:      s.config.GetDevOTPCode(),
		ExpiresAt: s.nowTime().Add(s.config.GetOTPExpiry()),
	}
	if err := s.repos.Challenges.Upsert(challenge); err != nil {
		return backend.Result{}, errors.Wrap(err, "[SignIn] store challenge")
	}

	// Development only: there is no mailer
	log.Info().Str("email", user.Email).Str("code", challenge.Code).Msg("devbackend: OTP issued")
	return backend.Result{OTPRequired: true, ChallengeID: challenge.ID}, nil
}

func (s *Service) issue(user *users.User) (backend.Result, error) {
	accessToken, err := s.creator.CreateAccessToken(user)
	if err != nil {
		return backend.Result{}, errors.Wrap(err, "[issue] access token")
	}
	refreshToken, err := s.refresh.Create(user.ID, user.TenantID)
	if err != nil {
		return backend.Result{}, errors.Wrap(err, "[issue] refresh token")
	}
	_ = s.repos.Users.SetLastLogin(user.Email)

	snapshot := user.Snapshot()
	return backend.Result{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &snapshot,
	}, nil
}
