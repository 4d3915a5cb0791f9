// Package session holds the client's authentication token and mirrors it
// into durable storage.
package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// TokenKey is the storage key the token is persisted under.
const TokenKey = "token"

// Snapshot is an immutable view of the session at one instant.
type Snapshot struct {
	Token    string
	LoggedIn bool
}

// Store is the single source of truth for identity state. It is created at
// startup and passed to whatever needs it.
type Store struct {
	mu      sync.RWMutex
	token   string
	storage Storage
	log     *zap.Logger
}

// NewStore reads the persisted token once. Later changes made to storage by
// other processes are not observed until the next NewStore.
func NewStore(storage Storage, log *zap.Logger) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("session: nil storage")
	}
	if log == nil {
		log = zap.NewNop()
	}
	token, ok, err := storage.Get(TokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read persisted token: %w", err)
	}
	if !ok {
		token = ""
	}
	log.Debug("session loaded", zap.Bool("logged_in", token != ""))
	return &Store{token: token, storage: storage, log: log}, nil
}

// Token returns the current token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsLoggedIn reports whether a non-empty token is held.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Snapshot captures token and logged-in flag under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, LoggedIn: s.token != ""}
}

// SetToken replaces the token. An empty token clears the session and removes
// the persisted key. The in-memory value changes even when persisting fails;
// the storage error is returned so the caller can surface it.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	var err error
	if token != "" {
		err = s.storage.Set(TokenKey, token)
	} else {
		err = s.storage.Delete(TokenKey)
	}
	if err != nil {
		s.log.Warn("failed to persist session token", zap.Bool("logged_in", token != ""), zap.Error(err))
		return fmt.Errorf("failed to persist session: %w", err)
	}
	s.log.Debug("session updated", zap.Bool("logged_in", token != ""))
	return nil
}

// Logout is SetToken("").
func (s *Store) Logout() error {
	return s.SetToken("")
}

// Close releases the storage backend.
func (s *Store) Close() error {
	return s.storage.Close()
}
