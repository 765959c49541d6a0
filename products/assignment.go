// Package products maps a business classification to the POS product and
// origin a user is provisioned into.
package products

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/sessions"
)

// Assigner commits product choices into sessions.
type Assigner struct {
	catalog     *Catalog
	preferences *Preferences
}

// NewAssigner creates an Assigner. preferences may be nil, in which case
// ChangeProduct does not record the choice.
func NewAssigner(catalog *Catalog, preferences *Preferences) *Assigner {
	return &Assigner{catalog: catalog, preferences: preferences}
}

func (a *Assigner) Catalog() *Catalog {
	return a.catalog
}

// Assign returns a copy of session provisioned into the product for
// classification. It neither persists nor navigates.
func (a *Assigner) Assign(session sessions.AuthSession, classification string) sessions.AuthSession {
	product := a.catalog.ForClassification(classification)
	return session.WithProduct(product.POSProduct())
}

// ChangeProduct switches session to the product with productKey and records
// the choice against the user's email.
func (a *Assigner) ChangeProduct(ctx context.Context, session sessions.AuthSession, productKey string) (sessions.AuthSession, error) {
	product, ok := a.catalog.ByKey(productKey)
	if !ok {
		return session, apperrors.Wrapf(apperrors.ErrUnknownProduct, "change product to %q", productKey)
	}

	changed := session.WithProduct(product.POSProduct())
	if a.preferences != nil && changed.Email() != "" {
		// Remember logs its own failures
		_ = a.preferences.Remember(ctx, changed.Email(), product.POSProduct())
	}

	log.Debug().Str("user_id", changed.UserID()).Str("product", product.Key).Msg("product changed")
	return changed, nil
}
