package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/berhot/session-handoff/backend"
	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/sessions"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

type healthResponse struct {
	Status string            `json:"status"`
	Origin sessions.OriginID `json:"origin"`
}

type shellConfigResponse struct {
	Origin        sessions.OriginID            `json:"origin"`
	LandingOrigin string                       `json:"landingOrigin"`
	Lang          string                       `json:"lang"`
	Origins       map[sessions.OriginID]string `json:"origins"`
}

type preferenceResponse struct {
	Email   string              `json:"email"`
	Product sessions.POSProduct `json:"product"`
}

type preferenceRequest struct {
	Email      string               `json:"email"`
	ProductKey string               `json:"productKey,omitempty"`
	Product    *sessions.POSProduct `json:"product,omitempty"`
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Origin: s.config.GetOriginID()})
	}
}

func (s *Server) ProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"products":        s.catalog.Products(),
			"classifications": s.catalog.Classifications(),
			"default":         s.catalog.Default().Key,
		})
	}
}

// ShellConfigHandler feeds the wasm boot shell everything it needs to run
// the boot sequence for this origin.
func (s *Server) ShellConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, shellConfigResponse{
			Origin:        s.config.GetOriginID(),
			LandingOrigin: s.config.GetLandingOrigin(),
			Lang:          s.config.GetDefaultLang(),
			Origins:       s.catalog.BaseURLs(),
		})
	}
}

func (s *Server) GetPreferenceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			writeError(w, apperrors.Wrapf(apperrors.ErrInvalidRequest, "email is required"))
			return
		}
		product, ok := s.preferences.Recall(r.Context(), email)
		if !ok {
			writeError(w, apperrors.Wrapf(apperrors.ErrNotFound, "no product preference"))
			return
		}
		writeJSON(w, http.StatusOK, preferenceResponse{Email: email, Product: product})
	}
}

func (s *Server) PutPreferenceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req preferenceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Email == "" {
			writeError(w, apperrors.Wrapf(apperrors.ErrInvalidRequest, "email is required"))
			return
		}

		var product sessions.POSProduct
		switch {
		case req.ProductKey != "":
			p, ok := s.catalog.ByKey(req.ProductKey)
			if !ok {
				writeError(w, apperrors.Wrapf(apperrors.ErrUnknownProduct, "product %q", req.ProductKey))
				return
			}
			product = p.POSProduct()
		case req.Product != nil:
			p, ok := s.catalog.ByOrigin(req.Product.Origin)
			if !ok {
				writeError(w, apperrors.Wrapf(apperrors.ErrUnknownOrigin, "origin %q", req.Product.Origin))
				return
			}
			product = p.POSProduct()
		default:
			writeError(w, apperrors.Wrapf(apperrors.ErrInvalidRequest, "productKey or product is required"))
			return
		}

		if err := s.preferences.Remember(r.Context(), req.Email, product); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, preferenceResponse{Email: req.Email, Product: product})
	}
}

// PreflightHandler answers OPTIONS once CorsMiddleware has set its headers.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "invalid JSON body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps the error taxonomy onto status codes.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		writeJSONError(w, status, "internal error")
		return
	}
	writeJSONError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidRequest),
		apperrors.Is(err, apperrors.ErrUnknownProduct),
		apperrors.Is(err, apperrors.ErrUnknownOrigin):
		return http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrInvalidCredentials),
		apperrors.Is(err, apperrors.ErrInvalidOTP):
		return http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrFlowNotFound),
		apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrUserExists),
		apperrors.Is(err, apperrors.ErrFlowAlreadyCompleted),
		apperrors.Is(err, apperrors.ErrNoTokensHeld):
		return http.StatusConflict
	case apperrors.Is(err, apperrors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}

	var apiErr *backend.APIError
	if apperrors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
