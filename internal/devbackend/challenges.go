package devbackend

import (
	"sync"
	"time"

	apperrors "github.com/berhot/session-handoff/internal/errors"
)

// Challenge is an outstanding email OTP challenge.
type Challenge struct {
	ID        string
	Email     string
	Code      string
	Attempts  int
	ExpiresAt time.Time
}

type ChallengeRepo interface {
	Upsert(challenge *Challenge) error
	Get(id string) (*Challenge, error)
	Delete(id string) error
}

// InMemoryChallengeRepo is a thread-safe in-memory ChallengeRepo
type InMemoryChallengeRepo struct {
	mu         sync.RWMutex
	challenges map[string]*Challenge
}

func NewInMemoryChallengeRepo() *InMemoryChallengeRepo {
	return &InMemoryChallengeRepo{
		challenges: make(map[string]*Challenge),
	}
}

func (r *InMemoryChallengeRepo) Upsert(challenge *Challenge) error {
	if challenge == nil || challenge.ID == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "challenge id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to prevent external modifications
	stored := *challenge
	r.challenges[challenge.ID] = &stored
	return nil
}

func (r *InMemoryChallengeRepo) Get(id string) (*Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	challenge, ok := r.challenges[id]
	if !ok {
		return nil, apperrors.ErrInvalidOTP
	}
	c := *challenge
	return &c, nil
}

func (r *InMemoryChallengeRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.challenges, id)
	return nil
}
