package server

import (
	"net/http"

	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/sessions"
)

type classificationRequest struct {
	Classification string `json:"classification,omitempty"`
	ProductKey     string `json:"productKey,omitempty"`
}

type classificationResponse struct {
	Product sessions.POSProduct `json:"product"`
}

type completeResponse struct {
	Session      sessions.AuthSession `json:"session"`
	RedirectURL  string               `json:"redirectUrl"`
	NeedsProduct bool                 `json:"needsProduct"`
}

// ClassificationHandler binds the flow's user to a product, either by
// business classification or by explicit product key.
func (s *Server) ClassificationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req classificationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		buffer, err := s.flows.Get(flowID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		controller, err := s.controller(buffer)
		if err != nil {
			writeError(w, err)
			return
		}

		var product sessions.POSProduct
		if req.ProductKey != "" {
			product, err = controller.ChooseProduct(r.Context(), req.ProductKey)
		} else {
			product, err = controller.ChooseClassification(r.Context(), req.Classification)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, classificationResponse{Product: product})
	}
}

// CompleteHandler finalizes the flow. The redirect URL already carries the
// session in its #auth= fragment. A flow completes once; repeats get 409.
func (s *Server) CompleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buffer, err := s.flows.Get(flowID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		controller, err := s.controller(buffer)
		if err != nil {
			writeError(w, err)
			return
		}

		outcome, ok := controller.Complete(r.Context())
		if !ok {
			writeError(w, apperrors.Wrapf(apperrors.ErrFlowAlreadyCompleted, "complete onboarding"))
			return
		}

		s.metrics.onboarding.WithLabelValues(outcome.Session.ProductOrigin().String()).Inc()
		writeJSON(w, http.StatusOK, completeResponse{
			Session:      outcome.Session,
			RedirectURL:  outcome.Location,
			NeedsProduct: outcome.NeedsProduct,
		})
	}
}
