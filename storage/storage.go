// Package storage defines the key/value surface that sessions and product
// preferences are persisted through. It mirrors the browser's Web Storage
// API so the same code runs against window.localStorage, Redis or memory.
package storage

import (
	"context"

	apperrors "github.com/berhot/session-handoff/internal/errors"
)

// Fixed storage keys shared with the JavaScript apps.
const (
	KeyAuthSession = "berhot_auth"
	KeyPOSProducts = "berhot_pos_products"
)

// ErrUnavailable is returned when the backing store refuses access, e.g. a
// browser in private mode or a Redis connection that is down.
var ErrUnavailable = apperrors.ErrStorageUnavailable

// Backend is a per-origin string key/value store.
type Backend interface {
	// GetItem returns the value and whether the key exists
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem writes a value, replacing any previous one
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes the key. Removing a missing key is not an error
	RemoveItem(ctx context.Context, key string) error
}
