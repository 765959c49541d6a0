package server

import (
	"context"
	"net/http"

	"github.com/berhot/session-handoff/backend"
	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/onboarding"
	"github.com/berhot/session-handoff/pending"
	"github.com/berhot/session-handoff/sessions"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	ChallengeID string `json:"challengeId"`
	Code        string `json:"code"`
}

// authResponse never carries the tokens; they stay in the pending flow until
// onboarding completes.
type authResponse struct {
	FlowID           string               `json:"flowId,omitempty"`
	OTPRequired      bool                 `json:"otpRequired"`
	ChallengeID      string               `json:"challengeId,omitempty"`
	User             *sessions.User       `json:"user,omitempty"`
	PreferredProduct *sessions.POSProduct `json:"preferredProduct,omitempty"`
}

func (s *Server) SignInHandler() http.HandlerFunc {
	return s.authHandler("signin", func(ctx context.Context, r *http.Request) (backend.Result, error) {
		var req signInRequest
		if err := decodeJSON(r, &req); err != nil {
			return backend.Result{}, err
		}
		if req.Email == "" || req.Password == "" {
			return backend.Result{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "email and password are required")
		}
		return s.backend.SignIn(ctx, req.Email, req.Password)
	})
}

func (s *Server) VerifyHandler() http.HandlerFunc {
	return s.authHandler("verify", func(ctx context.Context, r *http.Request) (backend.Result, error) {
		var req verifyRequest
		if err := decodeJSON(r, &req); err != nil {
			return backend.Result{}, err
		}
		if req.ChallengeID == "" || req.Code == "" {
			return backend.Result{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "challengeId and code are required")
		}
		return s.backend.VerifyOTP(ctx, req.ChallengeID, req.Code)
	})
}

func (s *Server) SignUpHandler() http.HandlerFunc {
	return s.authHandler("signup", func(ctx context.Context, r *http.Request) (backend.Result, error) {
		var req backend.SignUpRequest
		if err := decodeJSON(r, &req); err != nil {
			return backend.Result{}, err
		}
		if req.Email == "" || req.Password == "" {
			return backend.Result{}, apperrors.Wrapf(apperrors.ErrInvalidRequest, "email and password are required")
		}
		return s.backend.SignUp(ctx, req)
	})
}

// authHandler runs one backend call and, when it yields tokens, holds them
// in the caller's pending flow. A new sign-in in the same flow replaces the
// held tokens.
func (s *Server) authHandler(kind string, call func(context.Context, *http.Request) (backend.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := call(r.Context(), r)
		if err != nil {
			s.metrics.signIns.WithLabelValues(kind, "error").Inc()
			s.logger.Debug().Err(err).Str("kind", kind).Msg("authentication failed")
			writeError(w, err)
			return
		}

		if result.OTPRequired {
			s.metrics.signIns.WithLabelValues(kind, "otp_required").Inc()
			writeJSON(w, http.StatusOK, authResponse{OTPRequired: true, ChallengeID: result.ChallengeID})
			return
		}

		tokens, ok := result.Tokens()
		if !ok {
			s.metrics.signIns.WithLabelValues(kind, "error").Inc()
			writeError(w, apperrors.Wrapf(apperrors.ErrInternal, "backend returned no tokens"))
			return
		}

		id, buffer, err := s.flows.Hold(flowID(r), tokens)
		if err != nil {
			s.metrics.signIns.WithLabelValues(kind, "error").Inc()
			writeError(w, err)
			return
		}
		controller, err := s.controller(buffer)
		if err != nil {
			writeError(w, err)
			return
		}
		s.setFlowCookie(w, r, id)
		s.metrics.signIns.WithLabelValues(kind, "ok").Inc()
		s.logger.Info().Str("user_id", tokens.User.ID).Str("kind", kind).Msg("tokens held for onboarding")

		status := http.StatusOK
		if kind == "signup" {
			status = http.StatusCreated
		}
		response := authResponse{FlowID: id, User: &tokens.User}
		if product, ok := controller.PreferredProduct(r.Context()); ok {
			response.PreferredProduct = &product
		}
		writeJSON(w, status, response)
	}
}

// controller builds the onboarding controller for one flow. The browser
// persists and navigates, so it gets neither a store nor a navigator.
func (s *Server) controller(buffer *pending.Buffer) (*onboarding.Controller, error) {
	return onboarding.NewController(onboarding.Config{
		LandingOrigin: s.config.GetLandingOrigin(),
		Lang:          s.config.GetDefaultLang(),
		Port:          s.config.GetOriginID().String(),
	}, buffer, s.assigner,
		onboarding.WithPreferences(s.preferences),
		onboarding.WithLogger(s.logger),
	)
}
