package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/fooddash/internal/auth"
	"github.com/spec-kit/fooddash/internal/events"
	"github.com/spec-kit/fooddash/internal/persistence"
)

// flakyStorage wraps a memory storage and fails on demand.
type flakyStorage struct {
	*persistence.MemoryStorage
	failGet, failSet, failRemove, panicGet bool
}

var errUnavailable = errors.New("storage unavailable")

func (f *flakyStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if f.panicGet {
		panic("storage exploded")
	}
	if f.failGet {
		return "", false, errUnavailable
	}
	return f.MemoryStorage.Get(ctx, key)
}

func (f *flakyStorage) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errUnavailable
	}
	return f.MemoryStorage.Set(ctx, key, value)
}

func (f *flakyStorage) Remove(ctx context.Context, key string) error {
	if f.failRemove {
		return errUnavailable
	}
	return f.MemoryStorage.Remove(ctx, key)
}

type StoreSuite struct {
	suite.Suite
	ctx        context.Context
	storage    *flakyStorage
	dispatcher events.Dispatcher
	received   []events.Event
	logs       *observer.ObservedLogs
	store      *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.storage = &flakyStorage{MemoryStorage: persistence.NewMemoryStorage()}
	s.dispatcher = events.NewInMemoryDispatcher()
	s.received = nil

	core, logs := observer.New(zap.DebugLevel)
	s.logs = logs
	s.store = s.newStore()
	s.store.Subscribe(func(_ context.Context, e events.Event) error {
		s.received = append(s.received, e)
		return nil
	})
	s.store.logger = zap.New(core)
}

func (s *StoreSuite) newStore() *Store {
	return New(s.storage, s.dispatcher, nil)
}

func (s *StoreSuite) persisted() (string, bool) {
	val, ok, err := s.storage.MemoryStorage.Get(s.ctx, "auth_token")
	s.Require().NoError(err)
	return val, ok
}

func (s *StoreSuite) types() []events.EventType {
	out := make([]events.EventType, 0, len(s.received))
	for _, e := range s.received {
		out = append(out, e.Type)
	}
	return out
}

func (s *StoreSuite) TestStartsAnonymous() {
	s.Equal(StateAnonymous, s.store.State())
	s.Empty(s.store.Token())

	s.store.Initialize(s.ctx)
	s.Equal(StateAnonymous, s.store.State())
	s.Empty(s.received)
}

func (s *StoreSuite) TestInitializeAdoptsPersistedToken() {
	s.Require().NoError(s.storage.Set(s.ctx, "auth_token", "persisted"))

	s.store.Initialize(s.ctx)

	s.Equal(Snapshot{Token: "persisted", State: StateAuthenticated}, s.store.Snapshot())
	s.Equal([]events.EventType{events.EventSessionRestored}, s.types())
}

func (s *StoreSuite) TestInitializeReadsOnce() {
	s.store.Initialize(s.ctx)
	s.Require().NoError(s.storage.Set(s.ctx, "auth_token", "late"))

	s.store.Initialize(s.ctx)
	s.Equal(StateAnonymous, s.store.State())
}

func (s *StoreSuite) TestInitializeSurvivesStorageError() {
	s.storage.failGet = true

	s.NotPanics(func() { s.store.Initialize(s.ctx) })
	s.Equal(StateAnonymous, s.store.State())
	s.Equal(1, s.logs.FilterMessage("failed to read persisted session token; starting anonymous").Len())
}

func (s *StoreSuite) TestInitializeSurvivesStoragePanic() {
	s.storage.panicGet = true

	s.NotPanics(func() { s.store.Initialize(s.ctx) })
	s.Equal(StateAnonymous, s.store.State())
}

func (s *StoreSuite) TestSignInPersistsBeforeVisible() {
	var seenPersisted string
	s.store.Subscribe(func(context.Context, events.Event) error {
		seenPersisted, _ = s.persisted()
		return nil
	})

	s.Require().NoError(s.store.SignIn(s.ctx, "tok-1"))

	val, ok := s.persisted()
	s.True(ok)
	s.Equal("tok-1", val)
	s.Equal("tok-1", seenPersisted)
	s.Equal(StateAuthenticated, s.store.State())
}

func (s *StoreSuite) TestSignInRejectsEmptyToken() {
	s.ErrorIs(s.store.SignIn(s.ctx, ""), ErrEmptyToken)
	s.Equal(StateAnonymous, s.store.State())
	_, ok := s.persisted()
	s.False(ok)
}

func (s *StoreSuite) TestSignInReplacesTokenWithoutAnonymousStep() {
	s.Require().NoError(s.store.SignIn(s.ctx, "old"))
	s.Require().NoError(s.store.SignIn(s.ctx, "new"))

	s.Equal("new", s.store.Token())
	s.Equal([]events.EventType{events.EventSessionSignedIn, events.EventSessionSignedIn}, s.types())
	s.False(s.received[0].Replaced)
	s.True(s.received[1].Replaced)
	for _, e := range s.received {
		s.Equal(string(StateAuthenticated), e.State)
	}
}

func (s *StoreSuite) TestSignInKeepsTokenWhenPersistFails() {
	s.storage.failSet = true

	s.Require().NoError(s.store.SignIn(s.ctx, "memory-only"))

	s.Equal("memory-only", s.store.Token())
	_, ok := s.persisted()
	s.False(ok)
	s.Equal(1, s.logs.FilterMessage("failed to persist session token; keeping it in memory only").Len())
}

func (s *StoreSuite) TestSignOutThenReloadIsAnonymous() {
	s.Require().NoError(s.store.SignIn(s.ctx, "tok"))
	s.store.SignOut(s.ctx)

	s.Equal(StateAnonymous, s.store.State())
	_, ok := s.persisted()
	s.False(ok)

	reloaded := s.newStore()
	reloaded.Initialize(s.ctx)
	s.Equal(StateAnonymous, reloaded.State())
}

func (s *StoreSuite) TestSignOutIsIdempotent() {
	s.NotPanics(func() {
		s.store.SignOut(s.ctx)
		s.store.SignOut(s.ctx)
	})
	s.Equal(StateAnonymous, s.store.State())
	s.Empty(s.received)

	s.Require().NoError(s.store.SignIn(s.ctx, "tok"))
	s.store.SignOut(s.ctx)
	s.store.SignOut(s.ctx)
	s.Equal([]events.EventType{events.EventSessionSignedIn, events.EventSessionSignedOut}, s.types())
}

func (s *StoreSuite) TestSignOutClearsMemoryWhenRemoveFails() {
	s.Require().NoError(s.store.SignIn(s.ctx, "tok"))
	s.storage.failRemove = true

	s.store.SignOut(s.ctx)
	s.Equal(StateAnonymous, s.store.State())
}

func (s *StoreSuite) TestSignInBeforeInitializeIsNotOverwritten() {
	s.Require().NoError(s.storage.Set(s.ctx, "auth_token", "stale"))
	s.Require().NoError(s.store.SignIn(s.ctx, "fresh"))

	s.store.Initialize(s.ctx)
	s.Equal("fresh", s.store.Token())
}

// A persisted but undecodable token is adopted as-is; only the claims are absent.
func (s *StoreSuite) TestMalformedPersistedTokenIsAdopted() {
	s.Require().NoError(s.storage.Set(s.ctx, "auth_token", "abc.def.ghi"))

	s.store.Initialize(s.ctx)
	s.Equal("abc.def.ghi", s.store.Token())
	s.Equal(StateAuthenticated, s.store.State())

	viewer := auth.NewViewer(s.store.Token(), auth.NewInterpreter(nil, nil))
	s.True(viewer.ShowAccountMenu())
	s.Nil(viewer.Claims)
	s.False(viewer.CanCreateRestaurant())
	s.False(viewer.CanManageRestaurant(""))
}

func TestStoreCustomKeyAndNilDependencies(t *testing.T) {
	storage := persistence.NewMemoryStorage()
	store := New(storage, nil, nil, WithKey("fooddash_token"), WithMetrics(nil))

	require.NoError(t, store.SignIn(context.Background(), "tok"))
	val, ok, err := storage.Get(context.Background(), "fooddash_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", val)

	store.Subscribe(func(context.Context, events.Event) error { return nil })
	store.SignOut(context.Background())
	assert.Equal(t, StateAnonymous, store.State())
}

func TestStoreWithoutStorageStaysUsable(t *testing.T) {
	store := New(nil, nil, nil)
	store.Initialize(context.Background())
	require.NoError(t, store.SignIn(context.Background(), "tok"))
	assert.Equal(t, "tok", store.Token())
	store.SignOut(context.Background())
	assert.Equal(t, StateAnonymous, store.State())
}

func TestStoreConcurrentSignInSignOut(t *testing.T) {
	storage := persistence.NewMemoryStorage()
	store := New(storage, events.NewInMemoryDispatcher(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.SignIn(ctx, "tok")
		}()
		go func() {
			defer wg.Done()
			store.SignOut(ctx)
		}()
	}
	wg.Wait()

	snap := store.Snapshot()
	val, ok, err := storage.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, snap.State == StateAuthenticated, ok)
	assert.Equal(t, snap.Token, val)
}
