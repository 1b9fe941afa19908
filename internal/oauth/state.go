package oauth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/propmgr/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

// StateStore issues single-use OAuth state values. Each state remembers the
// browser that started the flow so the callback can notify it.
type StateStore struct {
	mu sync.Mutex
	c  *gocache.Cache
}

// NewStateStore keeps states for ttl. Expired entries are purged every minute.
func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{c: gocache.New(ttl, time.Minute)}
}

// Issue returns a fresh state bound to browserID.
func (s *StateStore) Issue(browserID string) string {
	state := uuid.NewString()
	s.c.SetDefault(state, browserID)
	return state
}

// Consume validates and removes state, returning the browser it was issued
// to. Unknown, expired and already used states return ErrInvalidOAuthState.
func (s *StateStore) Consume(state string) (string, error) {
	if state == "" {
		return "", domain.ErrInvalidOAuthState
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.c.Get(state)
	if !ok {
		return "", domain.ErrInvalidOAuthState
	}
	s.c.Delete(state)

	browserID, _ := v.(string)
	return browserID, nil
}
