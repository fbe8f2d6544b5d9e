// Package session holds the single session token of the application
// instance and keeps it mirrored in durable storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/fooddash/internal/config"
	"github.com/spec-kit/fooddash/internal/events"
	"github.com/spec-kit/fooddash/internal/observability"
)

// State is Anonymous without a token and Authenticated with one.
type State string

const (
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// ErrEmptyToken is returned by SignIn when called without a token.
var ErrEmptyToken = errors.New("session token must not be empty")

// Storage is the durable key-value backend the token is mirrored to.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Snapshot is a consistent read of the store.
type Snapshot struct {
	Token string
	State State
}

// Store is the only writer of the session token, in memory and in storage.
// Create one per application instance and pass it to whoever needs it.
type Store struct {
	mu          sync.RWMutex
	token       string
	initialized bool

	storage    Storage
	key        string
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key (default "auth_token").
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithMetrics counts transitions.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Store) {
		s.metrics = metrics
	}
}

// New builds an uninitialized, anonymous store. dispatcher and logger may be nil.
func New(storage Storage, dispatcher events.Dispatcher, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		storage:    storage,
		key:        config.DefaultTokenKey,
		dispatcher: dispatcher,
		logger:     logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Initialize adopts a previously persisted token, if any. Only the first
// call (or the first call before any SignIn/SignOut) reads storage. Storage
// failures leave the store anonymous.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true

	token, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("failed to read persisted session token; starting anonymous",
			zap.String("key", s.key), zap.Error(err))
	}
	s.token = token
	s.mu.Unlock()

	if token != "" {
		s.publish(ctx, events.EventSessionRestored, StateAuthenticated, false)
	}
}

// SignIn persists token and then makes it current. A storage failure is
// logged and the token is still adopted for this process.
func (s *Store) SignIn(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	replaced := s.token != ""
	if err := s.guard(func() error { return s.storage.Set(ctx, s.key, token) }); err != nil {
		s.logger.Warn("failed to persist session token; keeping it in memory only",
			zap.String("key", s.key), zap.Error(err))
	}
	s.token = token
	s.initialized = true
	s.mu.Unlock()

	s.publish(ctx, events.EventSessionSignedIn, StateAuthenticated, replaced)
	return nil
}

// SignOut removes the persisted token and clears the current one. Calling
// it while anonymous is a no-op apart from clearing storage again.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	if err := s.guard(func() error { return s.storage.Remove(ctx, s.key) }); err != nil {
		s.logger.Warn("failed to remove persisted session token",
			zap.String("key", s.key), zap.Error(err))
	}
	s.token = ""
	s.initialized = true
	s.mu.Unlock()

	if wasAuthenticated {
		s.publish(ctx, events.EventSessionSignedOut, StateAnonymous, false)
	}
}

// Token returns the current token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// State returns the current state.
func (s *Store) State() State {
	return s.Snapshot().State
}

// Snapshot returns token and state read together.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Token: s.token, State: stateOf(s.token)}
}

// Subscribe registers handler for every session transition.
func (s *Store) Subscribe(handler events.EventHandler) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.AnyEvent, handler)
}

func (s *Store) load(ctx context.Context) (string, error) {
	var token string
	err := s.guard(func() error {
		val, ok, err := s.storage.Get(ctx, s.key)
		if err != nil {
			return err
		}
		if ok {
			token = val
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// guard turns a storage panic into an error.
func (s *Store) guard(fn func() error) (err error) {
	if s.storage == nil {
		return errors.New("no session storage configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session storage panic: %v", r)
		}
	}()
	return fn()
}

func (s *Store) publish(ctx context.Context, eventType events.EventType, state State, replaced bool) {
	s.metrics.RecordSessionTransition(string(eventType))
	if s.dispatcher == nil {
		return
	}
	event := events.NewEvent(eventType, string(state))
	event.Replaced = replaced
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("session event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}

func stateOf(token string) State {
	if token == "" {
		return StateAnonymous
	}
	return StateAuthenticated
}
