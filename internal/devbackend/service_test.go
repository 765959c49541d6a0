package devbackend_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berhot/session-handoff/backend"
	"github.com/berhot/session-handoff/internal/config"
	"github.com/berhot/session-handoff/internal/devbackend"
	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/users"
)

const (
	testPassword = "Password1"
	otpEmail     = "otp@berhot.dev"
	ownerEmail   = "owner@berhot.dev"
)

// testFixture holds all test dependencies
type testFixture struct {
	now     time.Time
	repos   devbackend.Repos
	service *devbackend.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	cfg, err := config.FromMap(map[string]string{"DEV_JWT_SECRET": "test-secret"})
	require.NoError(t, err)

	f := &testFixture{now: time.Now()}
	service, repos, err := devbackend.NewInMemory(cfg, devbackend.DefaultSeedUsers(),
		devbackend.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.repos = repos
	f.service = service
	return f
}

func TestService_SignIn(t *testing.T) {
	f := setupTestFixture(t)

	result, err := f.service.SignIn("  OWNER@berhot.dev ", testPassword)
	require.NoError(t, err)
	assert.False(t, result.OTPRequired)
	assert.NotEmpty(t, result.AccessToken)
	assert.Len(t, result.RefreshToken, 64)
	require.NotNil(t, result.User)
	assert.Equal(t, ownerEmail, result.User.Email)
	assert.Equal(t, "owner", result.User.Role)
	assert.NotEmpty(t, result.User.TenantID)

	user, err := f.service.Me(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
	assert.False(t, user.LastLogin.IsZero())
}

func TestService_SignInFailures(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.repos.Users.Upsert(&users.User{Email: "blocked@berhot.dev", Blocked: true}))

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "wrong password", email: ownerEmail, password: "nope", wantErr: apperrors.ErrInvalidCredentials},
		{name: "unknown user", email: "ghost@berhot.dev", password: testPassword, wantErr: apperrors.ErrInvalidCredentials},
		{name: "blocked", email: "blocked@berhot.dev", password: testPassword, wantErr: apperrors.ErrInvalidCredentials},
		{name: "missing password", email: ownerEmail, password: "", wantErr: apperrors.ErrInvalidRequest},
		{name: "bad email", email: "owner", password: testPassword, wantErr: apperrors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.SignIn(tt.email, tt.password)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_OTP(t *testing.T) {
	f := setupTestFixture(t)

	result, err := f.service.SignIn(otpEmail, testPassword)
	require.NoError(t, err)
	require.True(t, result.OTPRequired)
	require.NotEmpty(t, result.ChallengeID)
	assert.Empty(t, result.AccessToken)

	_, err = f.service.VerifyOTP(result.ChallengeID, "000000")
	require.ErrorIs(t, err, apperrors.ErrInvalidOTP)

	verified, err := f.service.VerifyOTP(result.ChallengeID, "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, verified.AccessToken)
	assert.Equal(t, otpEmail, verified.User.Email)

	// Challenges are single use
	_, err = f.service.VerifyOTP(result.ChallengeID, "123456")
	require.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestService_OTPExpiry(t *testing.T) {
	f := setupTestFixture(t)

	result, err := f.service.SignIn(otpEmail, testPassword)
	require.NoError(t, err)

	f.now = f.now.Add(10 * time.Minute)
	_, err = f.service.VerifyOTP(result.ChallengeID, "123456")
	require.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestService_OTPAttempts(t *testing.T) {
	f := setupTestFixture(t)

	result, err := f.service.SignIn(otpEmail, testPassword)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = f.service.VerifyOTP(result.ChallengeID, "999999")
		require.ErrorIs(t, err, apperrors.ErrInvalidOTP)
	}
	_, err = f.service.VerifyOTP(result.ChallengeID, "123456")
	require.ErrorIs(t, err, apperrors.ErrInvalidOTP, "challenge is burnt after too many attempts")
}

func TestService_SignUp(t *testing.T) {
	f := setupTestFixture(t)

	req := backend.SignUpRequest{
		FirstName:    "Sara",
		LastName:     "Ali",
		Email:        "Sara@Example.com",
		Password:     "Secret123",
		BusinessName: "Sara's Bakery",
	}
	result, err := f.service.SignUp(req)
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, "sara@example.com", result.User.Email)
	assert.Equal(t, "owner", result.User.Role)

	tenant, err := f.repos.Tenants.Get(result.User.TenantID)
	require.NoError(t, err)
	assert.Equal(t, "Sara's Bakery", tenant.Name)
	assert.Equal(t, result.User.ID, tenant.OwnerID)

	_, err = f.service.SignUp(req)
	require.ErrorIs(t, err, apperrors.ErrUserExists)

	signedIn, err := f.service.SignIn("sara@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, signedIn.User.ID)
}

func TestService_SignUpValidation(t *testing.T) {
	f := setupTestFixture(t)

	tests := map[string]backend.SignUpRequest{
		"weak password": {FirstName: "A", Email: "a@b.co", Password: "short", BusinessName: "B"},
		"no business":   {FirstName: "A", Email: "a@b.co", Password: "Secret123"},
		"no first name": {Email: "a@b.co", Password: "Secret123", BusinessName: "B"},
		"no email":      {FirstName: "A", Password: "Secret123", BusinessName: "B"},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.SignUp(req)
			require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		})
	}
}

func TestService_MeRejectsForeignToken(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Me("not-a-jwt")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	other, err := config.FromMap(map[string]string{"DEV_JWT_SECRET": "other-secret"})
	require.NoError(t, err)
	otherService, _, err := devbackend.NewInMemory(other, devbackend.DefaultSeedUsers())
	require.NoError(t, err)
	result, err := otherService.SignIn(ownerEmail, testPassword)
	require.NoError(t, err)

	_, err = f.service.Me(result.AccessToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
