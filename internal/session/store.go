// Package session holds the process-wide authenticated identity.
//
// The Store restores a persisted session at startup, publishes identity
// changes to subscribers (replay-latest multicast), and supplies the bearer
// credential for API calls. It is the only writer of the identity stream;
// an identity is never published without a credential backing it.
package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tradedesk/tradedesk-go/internal/cache"
	"github.com/tradedesk/tradedesk-go/internal/kvstore"
	"github.com/tradedesk/tradedesk-go/internal/model"
	"github.com/tradedesk/tradedesk-go/internal/token"
)

// ErrNotAuthenticated reports an operation that requires a signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Persisted state keys.
const (
	credentialKey = "token"
	identityKey   = "user"
)

// Navigator is told when the session ends, so the surrounding application
// can route the user back to its unauthenticated entry point.
type Navigator interface {
	NavigateToLogin()
}

// Store owns the current session: the bearer credential and the identity it
// backs. Constructed once at startup and torn down at process exit.
type Store struct {
	kv     kvstore.Store
	nav    Navigator
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	restored   bool
	credential string

	identity *cache.Live[*model.User]
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithNavigator sets the collaborator notified on logout.
func WithNavigator(nav Navigator) StoreOption {
	return func(s *Store) {
		s.nav = nav
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithClock sets the wall-clock source used for expiry checks.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store backed by the given key-value store.
func NewStore(kv kvstore.Store, opts ...StoreOption) *Store {
	s := &Store{
		kv:       kv,
		logger:   slog.Default(),
		now:      time.Now,
		identity: cache.NewLive[*model.User](),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Restore loads a previously persisted session, if any. It runs at most once
// per Store: later calls are no-ops, so a restore can never clobber a
// session established in the meantime. Corrupt or partially persisted state
// self-heals through the same cleanup as Logout.
func (s *Store) Restore() {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return
	}
	s.restored = true
	s.mu.Unlock()

	credential, okCred, err := s.load(credentialKey)
	if err != nil {
		s.Logout()
		return
	}
	raw, okUser, err := s.load(identityKey)
	if err != nil {
		s.Logout()
		return
	}

	if !okCred && !okUser {
		// Nothing persisted: a valid logged-out state.
		return
	}
	if !okCred || !okUser {
		s.logger.Warn("partially persisted session, clearing")
		s.Logout()
		return
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("corrupt persisted identity, clearing", "err", err)
		s.Logout()
		return
	}

	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()
	s.identity.Set(&user)

	s.logger.Info("session restored", "user_id", user.ID, "username", user.Username)
}

func (s *Store) load(key string) (string, bool, error) {
	v, ok, err := s.kv.Load(key)
	if err != nil {
		s.logger.Warn("failed to read persisted session", "key", key, "err", err)
		return "", false, err
	}
	return v, ok, nil
}

// CompleteAuth installs the session carried by a successful login or
// registration response: persists (credential, identity) and publishes the
// new identity exactly once. A response without a credential is rejected —
// an identity must never be published without a credential backing it.
func (s *Store) CompleteAuth(resp *model.AuthResponse) {
	if resp == nil || resp.Token == "" {
		s.logger.Error("auth response carries no credential, ignoring")
		return
	}

	user := resp.User()

	if err := s.kv.Save(credentialKey, resp.Token); err != nil {
		s.logger.Warn("failed to persist credential", "err", err)
	}
	if data, err := json.Marshal(user); err == nil {
		if err := s.kv.Save(identityKey, string(data)); err != nil {
			s.logger.Warn("failed to persist identity", "err", err)
		}
	}

	s.mu.Lock()
	s.credential = resp.Token
	// A completed login supersedes any pending restore.
	s.restored = true
	s.mu.Unlock()

	s.identity.Set(user)

	s.logger.Info("session established", "user_id", user.ID, "username", user.Username)
}

// Logout clears persisted and in-memory session state, publishes the empty
// identity, and signals the navigator.
func (s *Store) Logout() {
	if err := s.kv.Remove(credentialKey); err != nil {
		s.logger.Warn("failed to remove persisted credential", "err", err)
	}
	if err := s.kv.Remove(identityKey); err != nil {
		s.logger.Warn("failed to remove persisted identity", "err", err)
	}

	s.mu.Lock()
	s.credential = ""
	s.mu.Unlock()

	s.identity.Set(nil)

	if s.nav != nil {
		s.nav.NavigateToLogin()
	}
}

// IsAuthenticated reports whether a credential is present and unexpired.
// Recomputed against the wall clock on every call; validity is never cached.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	credential := s.credential
	s.mu.Unlock()

	if credential == "" {
		return false
	}
	return !token.IsExpired(credential, s.now())
}

// Current returns the last-published identity, or nil when signed out.
func (s *Store) Current() *model.User {
	return s.identity.Current()
}

// Subscribe returns the identity stream with replay-latest semantics. The
// channel yields the new identity after every login and nil after every
// logout.
func (s *Store) Subscribe() (<-chan *model.User, func()) {
	return s.identity.Subscribe()
}

// Token returns the current raw credential. It implements the API client's
// TokenSource.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential, s.credential != ""
}
