// Package onboarding drives the sign-in side of a handoff: it holds the
// freshly issued tokens, binds them to a product and sends the user to that
// product's dashboard with the session in the URL fragment.
package onboarding

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/boot"
	"github.com/berhot/session-handoff/handoff"
	apperrors "github.com/berhot/session-handoff/internal/errors"
	"github.com/berhot/session-handoff/pending"
	"github.com/berhot/session-handoff/products"
	"github.com/berhot/session-handoff/sessions"
	"github.com/berhot/session-handoff/signin"
)

type Config struct {
	LandingOrigin string // Base URL of the sign-in surface itself
	Lang          string
	Port          string
}

// Outcome is the result of a completed onboarding.
type Outcome struct {
	Session      sessions.AuthSession
	Location     string // Product dashboard URL with #auth=, or the sign-in surface
	NeedsProduct bool   // No product was chosen before completion
}

// Controller is one user's onboarding. It is not shared between users.
type Controller struct {
	config      Config
	buffer      *pending.Buffer
	assigner    *products.Assigner
	preferences *products.Preferences
	store       *sessions.Store
	nav         boot.Navigator
	logger      zerolog.Logger
}

type ControllerOption func(*Controller)

// WithStore persists the completed session in this origin's store.
func WithStore(store *sessions.Store) ControllerOption {
	return func(c *Controller) {
		c.store = store
	}
}

// WithNavigator performs the final navigation. Without one the caller is
// expected to navigate to Outcome.Location itself.
func WithNavigator(nav boot.Navigator) ControllerOption {
	return func(c *Controller) {
		c.nav = nav
	}
}

// WithPreferences records product choices against the user's email.
func WithPreferences(preferences *products.Preferences) ControllerOption {
	return func(c *Controller) {
		c.preferences = preferences
	}
}

func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(config Config, buffer *pending.Buffer, assigner *products.Assigner, options ...ControllerOption) (*Controller, error) {
	if config.LandingOrigin == "" {
		return nil, errors.New("[NewController] landing origin is required")
	}
	if buffer == nil {
		return nil, errors.New("[NewController] pending buffer is required")
	}
	if assigner == nil {
		return nil, errors.New("[NewController] product assigner is required")
	}

	c := &Controller{
		config:   config,
		buffer:   buffer,
		assigner: assigner,
		logger:   log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Authenticated holds tokens returned by the backend. Tokens without an
// access token or user ID are refused with ErrInvalidRequest.
func (c *Controller) Authenticated(tokens pending.Tokens) error {
	if !c.buffer.Hold(tokens) {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "onboarding: tokens need an access token and a user ID")
	}
	c.logger.Debug().Str("user_id", tokens.User.ID).Msg("onboarding: tokens held")
	return nil
}

// PreferredProduct returns the product previously chosen by the held user.
func (c *Controller) PreferredProduct(ctx context.Context) (sessions.POSProduct, bool) {
	user, ok := c.buffer.User()
	if !ok || c.preferences == nil {
		return sessions.POSProduct{}, false
	}
	return c.preferences.Recall(ctx, user.Email)
}

// ChooseClassification binds the held user to the product for label.
// Unknown labels get the default product.
func (c *Controller) ChooseClassification(ctx context.Context, label string) (sessions.POSProduct, error) {
	user, ok := c.buffer.User()
	if !ok {
		return sessions.POSProduct{}, apperrors.ErrNoTokensHeld
	}

	assigned := c.assigner.Assign(sessions.AuthSession{User: &user}, label)
	product := *assigned.PosProduct
	c.choose(ctx, user, product)
	return product, nil
}

// ChooseProduct binds the held user to the product with key.
func (c *Controller) ChooseProduct(ctx context.Context, key string) (sessions.POSProduct, error) {
	user, ok := c.buffer.User()
	if !ok {
		return sessions.POSProduct{}, apperrors.ErrNoTokensHeld
	}

	product, found := c.assigner.Catalog().ByKey(key)
	if !found {
		return sessions.POSProduct{}, apperrors.Wrapf(apperrors.ErrUnknownProduct, "choose product %q", key)
	}
	c.choose(ctx, user, product.POSProduct())
	return product.POSProduct(), nil
}

func (c *Controller) choose(ctx context.Context, user sessions.User, product sessions.POSProduct) {
	c.buffer.SetProduct(product)
	if c.preferences != nil && user.Email != "" {
		_ = c.preferences.Remember(ctx, user.Email, product)
	}
	c.logger.Debug().
		Str("user_id", user.ID).
		Str("origin", product.Origin.String()).
		Msg("onboarding: product chosen")
}

// Complete finalizes the held tokens into a session, saves it and navigates
// to the product's dashboard. Only the first call after Authenticated does
// anything; later calls return false without side effects.
func (c *Controller) Complete(ctx context.Context) (Outcome, bool) {
	session, ok := c.buffer.Finalize()
	if !ok {
		return Outcome{}, false
	}

	if c.store != nil {
		c.store.Save(ctx, *session)
	}

	outcome := Outcome{Session: *session}
	if location, ok := c.dashboardURL(*session); ok {
		outcome.Location = location
	} else {
		outcome.NeedsProduct = session.PosProduct == nil
		outcome.Location = signin.URL(c.config.LandingOrigin, signin.Params{
			Lang:       c.config.Lang,
			Port:       c.config.Port,
			PosProduct: session.PosProduct,
			Email:      session.Email(),
		})
	}

	c.logger.Info().
		Str("user_id", session.UserID()).
		Str("origin", session.ProductOrigin().String()).
		Bool("needs_product", outcome.NeedsProduct).
		Msg("onboarding: complete")

	if c.nav != nil {
		if err := c.nav.Assign(ctx, outcome.Location); err != nil {
			c.logger.Error().Err(err).Msg("onboarding: navigation failed")
		}
	}
	return outcome, true
}

func (c *Controller) dashboardURL(session sessions.AuthSession) (string, bool) {
	if session.PosProduct == nil {
		return "", false
	}
	product, ok := c.assigner.Catalog().ByOrigin(session.PosProduct.Origin)
	if !ok || product.BaseURL == "" {
		return "", false
	}
	fragment, err := handoff.Fragment(session)
	if err != nil {
		c.logger.Error().Err(err).Msg("onboarding: cannot encode handoff")
		return "", false
	}
	return signin.DashboardURL(product.BaseURL, product.DashboardPath, fragment), true
}
