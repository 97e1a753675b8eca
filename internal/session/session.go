package session

import (
	"log/slog"
	"sync"

	"github.com/mdoering/marquee/internal/domain"
	"github.com/mdoering/marquee/internal/store"
)

// Persisted keys in the session bucket
const (
	keyUser  = "user"  // serialized user record, token excluded
	keyToken = "token" // raw token string
)

// Store owns the authenticated user's session: the last known user record
// and the bearer token. The record is swapped as a whole so a reader never
// observes a token from one login paired with a user from another. Backed
// by the durable store, so a session survives restarts until logout.
type Store struct {
	kv     *store.Store
	logger *slog.Logger

	mu      sync.RWMutex
	current domain.Session
}

// NewStore creates a session store over kv, rehydrating any persisted
// session.
func NewStore(kv *store.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{kv: kv, logger: logger}

	var user domain.User
	var token string
	if kv.Get(store.BucketSession, keyUser, &user) && kv.Get(store.BucketSession, keyToken, &token) && token != "" {
		s.current = domain.Session{User: user, Token: token}
		logger.Debug("session rehydrated", "username", user.Username)
	}

	return s
}

// Current returns a copy of the session. Valid() is false when logged out.
func (s *Store) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the current bearer token. Implements domain.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Username returns the current account name. Implements domain.TokenSource.
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.User.Username
}

// SetSession replaces the whole session, typically after login.
func (s *Store) SetSession(user domain.User, token string) error {
	s.mu.Lock()
	s.current = domain.Session{User: user, Token: token}
	s.mu.Unlock()

	return s.persist(user, token)
}

// SetUser replaces the user record, keeping the existing token. Called
// after profile updates and favorite mutations, which return the updated
// record but not a new token.
func (s *Store) SetUser(user domain.User) error {
	s.mu.Lock()
	token := s.current.Token
	s.current = domain.Session{User: user, Token: token}
	s.mu.Unlock()

	return s.persist(user, token)
}

// SetFavorites mirrors a freshly fetched favorite-ID list into the
// session record.
func (s *Store) SetFavorites(ids []string) error {
	s.mu.Lock()
	user := s.current.User
	user.FavoriteMovieIDs = ids
	token := s.current.Token
	s.current = domain.Session{User: user, Token: token}
	s.mu.Unlock()

	return s.persist(user, token)
}

// Clear blanks the session on logout. The persisted keys are emptied
// rather than removed, matching the server contract for logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.current = domain.Session{}
	s.mu.Unlock()

	return s.persist(domain.User{}, "")
}

// Destroy wipes everything, session and caches, on account deletion.
func (s *Store) Destroy() {
	s.mu.Lock()
	s.current = domain.Session{}
	s.mu.Unlock()

	s.kv.Wipe()
}

func (s *Store) persist(user domain.User, token string) error {
	if err := s.kv.Set(store.BucketSession, keyUser, user); err != nil {
		return err
	}
	return s.kv.Set(store.BucketSession, keyToken, token)
}
