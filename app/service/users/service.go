package users

import (
	"sync"

	"github.com/samber/do"
)

// Store is the user registry keyed by (platform, id).
type Store interface {
	// GetOrCreate returns the user for the key, constructing a new one on
	// first sighting. The release func must be called once processing of
	// the current event is done; it serializes concurrent access to the
	// same user so that history and coordinate updates are not lost.
	GetOrCreate(platform Platform, id string) (*User, func())
}

type storeKey struct {
	platform Platform
	id       string
}

type entry struct {
	mu   sync.Mutex
	user *User
}

// Service is the in-memory Store implementation. Durable persistence is an
// external concern.
type Service struct {
	mu      sync.Mutex
	entries map[storeKey]*entry
}

var _ Store = (*Service)(nil)

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		entries: make(map[storeKey]*entry),
	}, nil
}

func (s *Service) GetOrCreate(platform Platform, id string) (*User, func()) {
	key := storeKey{platform: platform, id: id}

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{user: NewUser(platform, id)}
		s.entries[key] = e
	}
	s.mu.Unlock()

	e.mu.Lock()

	return e.user, e.mu.Unlock
}

func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
