package devbackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/backend"
	apperrors "github.com/berhot/session-handoff/internal/errors"
)

const (
	contentTypeJSON = "application/json"

	RouteMe = "/api/v1/auth/me"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Handler serves the backend contract consumed by backend.Client.
type Handler struct {
	service *Service
	mux     *http.ServeMux
}

func NewHandler(service *Service) *Handler {
	h := &Handler{service: service, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST "+backend.PathSignIn, h.SignIn())
	h.mux.HandleFunc("POST "+backend.PathVerifyOTP, h.VerifyOTP())
	h.mux.HandleFunc("POST "+backend.PathSignUp, h.SignUp())
	h.mux.HandleFunc("GET "+RouteMe, h.Me())
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) SignIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req backend.SignInRequest
		if !decode(w, r, &req) {
			return
		}
		result, err := h.service.SignIn(req.Email, req.Password)
		respond(w, result, err)
	}
}

func (h *Handler) VerifyOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req backend.VerifyOTPRequest
		if !decode(w, r, &req) {
			return
		}
		result, err := h.service.VerifyOTP(req.ChallengeID, req.Code)
		respond(w, result, err)
	}
}

func (h *Handler) SignUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req backend.SignUpRequest
		if !decode(w, r, &req) {
			return
		}
		result, err := h.service.SignUp(req)
		if err == nil {
			w.Header().Set("Content-Type", contentTypeJSON)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(result)
			return
		}
		respond(w, result, err)
	}
}

func (h *Handler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeJSONError(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		user, err := h.service.Me(raw)
		if err != nil {
			respond(w, nil, err)
			return
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		_ = json.NewEncoder(w).Encode(user.Snapshot())
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func respond(w http.ResponseWriter, body any, err error) {
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Err(err).Msg("devbackend: request failed")
			writeJSONError(w, "internal error", status)
			return
		}
		writeJSONError(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	_ = json.NewEncoder(w).Encode(body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrInvalidOTP):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError writes {"error": message}
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
