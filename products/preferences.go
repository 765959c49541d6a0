package products

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/sessions"
	"github.com/berhot/session-handoff/storage"
)

// Preferences is the email -> product record kept under berhot_pos_products.
// It lets the central app recall a user's product on a later sign-in
// without a handoff fragment.
type Preferences struct {
	backend storage.Backend
	logger  zerolog.Logger
}

func NewPreferences(backend storage.Backend) *Preferences {
	return &Preferences{backend: backend, logger: log.Logger}
}

// Remember records product for email, replacing any earlier choice.
// Concurrent writers race; the last write wins.
func (p *Preferences) Remember(ctx context.Context, email string, product sessions.POSProduct) (err error) {
	key := normalizeEmail(email)
	if key == "" {
		return fmt.Errorf("remember product: email is required")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", storage.ErrUnavailable, r)
		}
		if err != nil {
			p.logger.Warn().Err(err).Msg("product preference not saved")
		}
	}()

	// A failed read must not turn into a write that drops everyone else
	prefs, err := p.readAll(ctx)
	if err != nil {
		return fmt.Errorf("remember product: %w", err)
	}
	prefs[key] = product

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal product preferences: %w", err)
	}
	return p.backend.SetItem(ctx, storage.KeyPOSProducts, string(data))
}

// Recall returns the remembered product for email.
func (p *Preferences) Recall(ctx context.Context, email string) (product sessions.POSProduct, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn().Interface("panic", r).Msg("product preference read: storage panicked")
			product, ok = sessions.POSProduct{}, false
		}
	}()

	prefs, err := p.readAll(ctx)
	if err != nil {
		return sessions.POSProduct{}, false
	}
	product, ok = prefs[normalizeEmail(email)]
	return product, ok
}

// readAll returns the whole record. A missing, empty or corrupt record reads
// as empty; only a storage failure is an error.
func (p *Preferences) readAll(ctx context.Context) (map[string]sessions.POSProduct, error) {
	raw, found, err := p.backend.GetItem(ctx, storage.KeyPOSProducts)
	if err != nil {
		p.logger.Warn().Err(err).Msg("product preference read: storage unavailable")
		return nil, err
	}

	prefs := make(map[string]sessions.POSProduct)
	if !found || raw == "" {
		return prefs, nil
	}
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		p.logger.Warn().Err(err).Msg("product preference read: stored value is not valid JSON")
		return make(map[string]sessions.POSProduct), nil
	}
	if prefs == nil {
		// The record was the JSON literal null
		prefs = make(map[string]sessions.POSProduct)
	}
	return prefs, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
