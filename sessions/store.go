package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/berhot/session-handoff/storage"
)

// Store owns the persisted AuthSession of one origin. Nothing else writes
// the berhot_auth key. Storage failures never escape: a blocked backend
// reads as "no session" and writes become no-ops.
type Store struct {
	backend storage.Backend
	logger  zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for swallowed storage failures.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

func NewStore(backend storage.Backend, options ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Load returns the stored session, or false when there is none, it cannot
// be parsed, or storage is unavailable.
func (s *Store) Load(ctx context.Context) (session *AuthSession, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().Interface("panic", r).Msg("session load: storage panicked")
			session, ok = nil, false
		}
	}()

	raw, found, err := s.backend.GetItem(ctx, storage.KeyAuthSession)
	if err != nil {
		s.logger.Warn().Err(err).Msg("session load: storage unavailable")
		return nil, false
	}
	if !found || raw == "" {
		return nil, false
	}

	var stored AuthSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn().Err(err).Msg("session load: stored value is not valid JSON")
		return nil, false
	}
	return &stored, true
}

// Save writes the session. It is best effort; the caller keeps using its
// in-memory copy for the current page load either way.
func (s *Store) Save(ctx context.Context, session AuthSession) {
	if err := s.try(func() error {
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		return s.backend.SetItem(ctx, storage.KeyAuthSession, string(data))
	}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", session.UserID()).Msg("session save failed")
		return
	}
	s.logger.Debug().Str("user_id", session.UserID()).Str("origin", session.ProductOrigin().String()).Msg("session saved")
}

// Clear removes the stored session. Calling it again is harmless.
func (s *Store) Clear(ctx context.Context) {
	if err := s.try(func() error {
		return s.backend.RemoveItem(ctx, storage.KeyAuthSession)
	}); err != nil {
		s.logger.Warn().Err(err).Msg("session clear failed")
	}
}

func (s *Store) try(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", storage.ErrUnavailable, r)
		}
	}()
	return fn()
}
