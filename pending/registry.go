package pending

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	apperrors "github.com/berhot/session-handoff/internal/errors"
)

// DefaultTTL is how long an untouched flow survives.
const DefaultTTL = 15 * time.Minute

// Registry maps flow IDs to buffers for the sign-in host. Flows expire
// after the TTL and are never persisted.
type Registry struct {
	flows *cache.Cache
	ttl   time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		flows: cache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

// Start creates a flow holding tokens and returns its ID. Invalid tokens
// start nothing and return ErrInvalidRequest.
func (r *Registry) Start(tokens Tokens) (string, *Buffer, error) {
	buffer := NewBuffer()
	if !buffer.Hold(tokens) {
		return "", nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "tokens need an access token and a user ID")
	}
	id := uuid.NewString()
	r.flows.Set(id, buffer, r.ttl)
	return id, buffer, nil
}

// Get returns the flow's buffer and slides its expiry.
func (r *Registry) Get(id string) (*Buffer, error) {
	if id == "" {
		return nil, apperrors.ErrFlowNotFound
	}
	value, found := r.flows.Get(id)
	if !found {
		return nil, apperrors.Wrapf(apperrors.ErrFlowNotFound, "flow %s", id)
	}
	buffer := value.(*Buffer)
	r.flows.Set(id, buffer, r.ttl)
	return buffer, nil
}

// Hold replaces the tokens of an existing flow, or starts a new flow when id
// is unknown or expired.
func (r *Registry) Hold(id string, tokens Tokens) (string, *Buffer, error) {
	buffer, err := r.Get(id)
	if err != nil {
		return r.Start(tokens)
	}
	if !buffer.Hold(tokens) {
		return "", nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "tokens need an access token and a user ID")
	}
	return id, buffer, nil
}

// Delete forgets a flow.
func (r *Registry) Delete(id string) {
	r.flows.Delete(id)
}

// Len returns the number of live flows, expired ones included until the
// next cleanup.
func (r *Registry) Len() int {
	return r.flows.ItemCount()
}
