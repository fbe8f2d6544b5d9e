package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/fooddash/internal/auth"
	"github.com/spec-kit/fooddash/internal/backend"
	"github.com/spec-kit/fooddash/internal/domain"
	"github.com/spec-kit/fooddash/internal/events"
	"github.com/spec-kit/fooddash/internal/persistence"
	"github.com/spec-kit/fooddash/internal/session"
	apperrors "github.com/spec-kit/fooddash/pkg/util/errorutil"
)

// fakeBackend records writes and serves canned catalog data.
type fakeBackend struct {
	mu          sync.Mutex
	token       string
	signInErr   error
	restaurants []domain.Restaurant
	food        []domain.FoodItem
	restErr     error
	foodErr     error
	calls       []string
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) SignIn(context.Context, backend.Credentials) (string, error) {
	return f.token, f.signInErr
}

func (f *fakeBackend) SignUp(context.Context, backend.Registration) (string, error) {
	return f.token, f.signInErr
}

func (f *fakeBackend) Restaurants(context.Context) ([]domain.Restaurant, error) {
	return f.restaurants, f.restErr
}

func (f *fakeBackend) FoodItems(context.Context) ([]domain.FoodItem, error) {
	return f.food, f.foodErr
}

func (f *fakeBackend) CreateRestaurant(_ context.Context, ownerID string, _ backend.RestaurantInput) error {
	f.record("create-restaurant:" + ownerID)
	return nil
}

func (f *fakeBackend) UpdateRestaurant(_ context.Context, id string, _ backend.RestaurantInput) error {
	f.record("update-restaurant:" + id)
	return nil
}

func (f *fakeBackend) CreateFood(_ context.Context, restID string, _ backend.FoodInput) error {
	f.record("create-food:" + restID)
	return nil
}

func (f *fakeBackend) UpdateFood(_ context.Context, id string, _ backend.FoodInput) error {
	f.record("update-food:" + id)
	return nil
}

func viewerFor(t *testing.T, id string, role domain.Role) auth.Viewer {
	t.Helper()
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"id":%q,"role":%q}`, id, role)))
	return auth.NewViewer("h."+payload+".s", auth.NewInterpreter(nil, nil))
}

func newStore() *session.Store {
	return session.New(persistence.NewMemoryStorage(), events.NewInMemoryDispatcher(), nil)
}

func TestAuthServiceSignInAdoptsToken(t *testing.T) {
	store := newStore()
	svc := NewAuthService(&fakeBackend{token: "a.b.c"}, store, nil)

	require.NoError(t, svc.SignIn(context.Background(), backend.Credentials{Username: "ana", Password: "pw"}))
	assert.Equal(t, "a.b.c", store.Token())

	svc.SignOut(context.Background())
	assert.Equal(t, session.StateAnonymous, store.State())
}

func TestAuthServiceFailedSignInKeepsSession(t *testing.T) {
	store := newStore()
	require.NoError(t, store.SignIn(context.Background(), "old.token.x"))

	rejected := apperrors.NewBackendError("Invalid credentials", 401, nil)
	svc := NewAuthService(&fakeBackend{signInErr: rejected}, store, nil)

	err := svc.SignIn(context.Background(), backend.Credentials{Username: "ana", Password: "bad"})
	require.ErrorIs(t, err, rejected)
	assert.Equal(t, "old.token.x", store.Token())
}

func TestAuthServiceSignUp(t *testing.T) {
	t.Run("without token", func(t *testing.T) {
		store := newStore()
		signedIn, err := NewAuthService(&fakeBackend{}, store, nil).
			SignUp(context.Background(), backend.Registration{Username: "bo"})
		require.NoError(t, err)
		assert.False(t, signedIn)
		assert.Empty(t, store.Token())
	})

	t.Run("with token", func(t *testing.T) {
		store := newStore()
		signedIn, err := NewAuthService(&fakeBackend{token: "n.e.w"}, store, nil).
			SignUp(context.Background(), backend.Registration{Username: "bo"})
		require.NoError(t, err)
		assert.True(t, signedIn)
		assert.Equal(t, "n.e.w", store.Token())
	})
}

func catalogFixture() *fakeBackend {
	return &fakeBackend{
		restaurants: []domain.Restaurant{
			{ID: "r1", Name: "Pho", OwnerID: "m1"},
			{ID: "r2", Name: "Taco", OwnerID: "m2"},
			{ID: "r3", Name: "Dosa", OwnerID: "m1"},
			{ID: "r4", Name: "Ramen", OwnerID: "m3"},
		},
		food: []domain.FoodItem{
			{ID: "f1", Name: "Pho bo", RestID: "r1"},
			{ID: "f2", Name: "Al pastor", RestID: "r2"},
			{ID: "f3", Name: "Pho ga", RestID: "r1"},
			{ID: "f4", Name: "Masala", RestID: "r3"},
		},
	}
}

func TestCatalogFeatured(t *testing.T) {
	featured := NewCatalogService(catalogFixture()).Featured(context.Background())
	require.NoError(t, featured.Err)
	assert.Len(t, featured.Restaurants, FeaturedCount)
	assert.Len(t, featured.Food, FeaturedCount)
	assert.Equal(t, "r1", featured.Restaurants[0].ID)
}

func TestCatalogFeaturedKeepsPartialResults(t *testing.T) {
	fake := catalogFixture()
	fake.foodErr = errors.New("food down")

	featured := NewCatalogService(fake).Featured(context.Background())
	assert.EqualError(t, featured.Err, "food down")
	assert.Len(t, featured.Restaurants, FeaturedCount)
	assert.Empty(t, featured.Food)
}

func TestCatalogMenu(t *testing.T) {
	menu, err := NewCatalogService(catalogFixture()).Menu(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Pho", menu.Restaurant.Name)
	require.Len(t, menu.Items, 2)
	assert.Equal(t, "f3", menu.Items[1].ID)

	_, err = NewCatalogService(catalogFixture()).Menu(context.Background(), "nope")
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCatalogCreateRestaurantGates(t *testing.T) {
	ctx := context.Background()
	fake := catalogFixture()
	svc := NewCatalogService(fake)
	in := backend.RestaurantInput{Name: "New", Location: "Here"}

	err := svc.CreateRestaurant(ctx, auth.Viewer{}, in)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	err = svc.CreateRestaurant(ctx, viewerFor(t, "u1", domain.RoleUser), in)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	// Token present but unreadable: no role-gated action.
	err = svc.CreateRestaurant(ctx, auth.NewViewer("garbage", auth.NewInterpreter(nil, nil)), in)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	require.NoError(t, svc.CreateRestaurant(ctx, viewerFor(t, "m9", domain.RoleMerchant), in))
	assert.Equal(t, []string{"create-restaurant:m9"}, fake.calls)
}

func TestCatalogOwnerOnlyWrites(t *testing.T) {
	ctx := context.Background()
	fake := catalogFixture()
	svc := NewCatalogService(fake)
	owner := viewerFor(t, "m1", domain.RoleMerchant)
	other := viewerFor(t, "m2", domain.RoleMerchant)
	food := backend.FoodInput{Name: "Spring roll", Price: 3, Ingredients: []string{"rice paper"}}

	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(
		svc.UpdateRestaurant(ctx, other, "r1", backend.RestaurantInput{Name: "x", Location: "y"})).Code)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(svc.CreateFood(ctx, other, "r1", food)).Code)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(svc.UpdateFood(ctx, other, "r1", "f1", food)).Code)

	require.NoError(t, svc.UpdateRestaurant(ctx, owner, "r1", backend.RestaurantInput{Name: "x", Location: "y"}))
	require.NoError(t, svc.CreateFood(ctx, owner, "r1", food))
	require.NoError(t, svc.UpdateFood(ctx, owner, "r1", "f3", food))

	// f2 belongs to another restaurant.
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(svc.UpdateFood(ctx, owner, "r1", "f2", food)).Code)

	assert.Equal(t, []string{"update-restaurant:r1", "create-food:r1", "update-food:f3"}, fake.calls)
}

func TestAuditServiceLogsTransitionsWithoutToken(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	store := newStore()
	NewAuditService(zap.New(core)).RegisterHandlers(store)

	ctx := context.Background()
	require.NoError(t, store.SignIn(ctx, "secret.token.value"))
	require.NoError(t, store.SignIn(ctx, "other.token.value"))
	store.SignOut(ctx)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "SessionSignedIn", entries[0].Message)
	assert.Equal(t, false, entries[0].ContextMap()["replaced"])
	assert.Equal(t, true, entries[1].ContextMap()["replaced"])
	assert.Equal(t, "SessionSignedOut", entries[2].Message)
	for _, entry := range entries {
		for _, v := range entry.ContextMap() {
			assert.NotContains(t, fmt.Sprint(v), "token.value")
		}
	}
}
