package memory

import (
	"context"
	"sync"

	"github.com/berhot/session-handoff/storage"
)

var _ storage.Backend = (*Storage)(nil)

// Storage is an in-memory storage.Backend. It can be switched into a
// blocked mode to behave like a browser with storage disabled.
type Storage struct {
	items   map[string]string
	writes  int
	blocked bool
	panics  bool
	lock    sync.RWMutex
}

func NewMemoryStorage() *Storage {
	return &Storage{
		items: make(map[string]string),
	}
}

// Block makes every call fail with storage.ErrUnavailable
func (s *Storage) Block(blocked bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.blocked = blocked
}

// SetPanic makes every call panic, like a storage API that throws
func (s *Storage) SetPanic(panics bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.panics = panics
}

// Writes returns the number of successful SetItem calls
func (s *Storage) Writes() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.writes
}

func (s *Storage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if err := s.check(); err != nil {
		return "", false, err
	}
	value, ok := s.items[key]
	return value, ok, nil
}

func (s *Storage) SetItem(_ context.Context, key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.check(); err != nil {
		return err
	}
	s.items[key] = value
	s.writes++
	return nil
}

func (s *Storage) RemoveItem(_ context.Context, key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.check(); err != nil {
		return err
	}
	delete(s.items, key)
	return nil
}

func (s *Storage) check() error {
	if s.panics {
		panic("storage: access denied")
	}
	if s.blocked {
		return storage.ErrUnavailable
	}
	return nil
}
