package stores

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
	"github.com/tracetrail/tracetrail/internal/client/services"
	"github.com/tracetrail/tracetrail/internal/logging"
)

// ErrTokenExpired is the restore failure for a token whose exp claim has
// already passed. No request is made for such a token.
var ErrTokenExpired = errors.New("stored token has expired")

// TokenStore is the persisted token slot; storage.TokenStore implements it.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// SessionState is a copy of the session as seen by observers.
type SessionState struct {
	User    *models.User
	Loading bool
}

func (s SessionState) Authenticated() bool { return s.User != nil }

// SessionStore owns the signed-in user and the persisted token. Only this
// store writes the token.
type SessionStore struct {
	auth   services.AuthService
	tokens TokenStore
	logger logging.Logger
	now    func() time.Time

	// writeMu pairs every token write with the state change it belongs to.
	// It is taken before mu and held across the storage call.
	writeMu sync.Mutex

	mu       sync.Mutex
	user     *models.User
	loading  bool
	restored bool
	closed   bool
	// epoch changes on every login, signup and logout so that a slower
	// Restore cannot overwrite a session established after it started.
	epoch uint64
	subs  observers[SessionState]
}

// NewSessionStore returns a store in the loading state; call Restore once to
// resolve it.
func NewSessionStore(auth services.AuthService, tokens TokenStore, logger logging.Logger) *SessionStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SessionStore{
		auth:    auth,
		tokens:  tokens,
		logger:  logger.With("component", "session"),
		now:     time.Now,
		loading: true,
	}
}

func (s *SessionStore) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.user)
}

func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *SessionStore) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (s *SessionStore) Subscribe(fn func(SessionState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.subs.add(fn)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.subs.remove(id)
		s.mu.Unlock()
	}
}

// Close detaches observers. Results of calls still in flight are dropped.
func (s *SessionStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs.reset()
}

// Login authenticates and, on success, persists the token and sets the
// user. On failure the previous state is left untouched.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	if s.isClosed() {
		return ErrClosed
	}
	resp, err := s.auth.Login(ctx, models.LoginCredentials{Email: email, Password: password})
	if err != nil {
		s.logger.Info(ctx, "login rejected", "kind", client.KindOf(err))
		return err
	}
	return s.establish(ctx, resp)
}

// Signup registers a new account with the same contract as Login.
func (s *SessionStore) Signup(ctx context.Context, data models.SignupData) error {
	if s.isClosed() {
		return ErrClosed
	}
	resp, err := s.auth.Signup(ctx, data)
	if err != nil {
		s.logger.Info(ctx, "signup rejected", "kind", client.KindOf(err))
		return err
	}
	return s.establish(ctx, resp)
}

func (s *SessionStore) establish(ctx context.Context, resp *models.AuthResponse) error {
	if s.isClosed() {
		return ErrClosed
	}
	user := resp.User

	s.writeMu.Lock()
	if err := s.tokens.Save(ctx, resp.AccessToken); err != nil {
		s.writeMu.Unlock()
		return fmt.Errorf("persist token: %w", err)
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.writeMu.Unlock()
		return ErrClosed
	}
	s.epoch++
	s.user = &user
	s.loading = false
	st, fns := s.stateLocked(), s.subs.snapshot()
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.logger.Info(ctx, "session established", "user_id", user.ID)
	notify(fns, st)
	return nil
}

// Logout clears the user and removes the token. It never contacts the
// backend. The user is cleared even when the token cannot be removed.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.writeMu.Unlock()
		return ErrClosed
	}
	s.epoch++
	s.user = nil
	st, fns := s.stateLocked(), s.subs.snapshot()
	s.mu.Unlock()

	err := s.tokens.Remove(ctx)
	s.writeMu.Unlock()

	notify(fns, st)
	if err != nil {
		s.logger.Error(ctx, "remove token on logout", "error", err)
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Restore resolves the session from the persisted token. It runs once per
// store; later calls return ErrAlreadyRestored. With no token the session
// stays unauthenticated and nil is returned. A token that is expired, or
// that the backend does not accept, is removed and the failure returned.
// Loading is false once Restore returns, whatever the outcome.
func (s *SessionStore) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.restored {
		s.mu.Unlock()
		return ErrAlreadyRestored
	}
	s.restored = true
	epoch := s.epoch
	s.mu.Unlock()

	user, err := s.resolve(ctx)

	s.writeMu.Lock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.writeMu.Unlock()
		return ErrClosed
	}
	current := s.epoch == epoch
	if current && user != nil {
		s.user = user
	}
	s.loading = false
	st, fns := s.stateLocked(), s.subs.snapshot()
	s.mu.Unlock()

	if err != nil && current {
		if rmErr := s.tokens.Remove(ctx); rmErr != nil {
			s.logger.Error(ctx, "remove rejected token", "error", rmErr)
		}
	}
	s.writeMu.Unlock()
	notify(fns, st)
	return err
}

func (s *SessionStore) resolve(ctx context.Context) (*models.User, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		s.logger.Warn(ctx, "read persisted token", "error", err)
		return nil, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return nil, nil
	}
	if client.TokenExpired(token, s.now()) {
		s.logger.Info(ctx, "persisted token expired")
		return nil, ErrTokenExpired
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		s.logger.Info(ctx, "persisted token rejected", "kind", client.KindOf(err))
		return nil, err
	}
	return user, nil
}

// RefreshToken exchanges the current token for a new one and persists it.
// It requires an authenticated session.
func (s *SessionStore) RefreshToken(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	signedIn, epoch := s.user != nil, s.epoch
	s.mu.Unlock()
	if !signedIn {
		return client.LocalError("Not signed in")
	}

	resp, err := s.auth.Refresh(ctx)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	closed, stale := s.closed, s.epoch != epoch
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if stale {
		// A login or logout replaced the session while the request was out.
		return ErrSuperseded
	}
	if err := s.tokens.Save(ctx, resp.AccessToken); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.logger.Debug(ctx, "token refreshed")
	return nil
}

// UpdateUser replaces the in-memory user record, e.g. after a profile edit.
func (s *SessionStore) UpdateUser(user models.User) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.user = &user
	st, fns := s.stateLocked(), s.subs.snapshot()
	s.mu.Unlock()

	notify(fns, st)
}

func (s *SessionStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *SessionStore) stateLocked() SessionState {
	return SessionState{User: copyUser(s.user), Loading: s.loading}
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
