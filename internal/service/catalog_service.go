package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/fooddash/internal/auth"
	"github.com/spec-kit/fooddash/internal/backend"
	"github.com/spec-kit/fooddash/internal/domain"
	apperrors "github.com/spec-kit/fooddash/pkg/util/errorutil"
)

// FeaturedCount is how many restaurants and food items the home page shows.
const FeaturedCount = 3

// CatalogBackend is the part of the backend client used for restaurants and food.
type CatalogBackend interface {
	Restaurants(ctx context.Context) ([]domain.Restaurant, error)
	FoodItems(ctx context.Context) ([]domain.FoodItem, error)
	CreateRestaurant(ctx context.Context, ownerID string, in backend.RestaurantInput) error
	UpdateRestaurant(ctx context.Context, id string, in backend.RestaurantInput) error
	CreateFood(ctx context.Context, restID string, in backend.FoodInput) error
	UpdateFood(ctx context.Context, id string, in backend.FoodInput) error
}

// Featured is the home page content. Err holds the first fetch failure;
// whatever loaded is still shown.
type Featured struct {
	Restaurants []domain.Restaurant
	Food        []domain.FoodItem
	Err         error
}

// Menu is a restaurant with the food it serves.
type Menu struct {
	Restaurant domain.Restaurant
	Items      []domain.FoodItem
}

// CatalogService reads and edits restaurants and menus, applying the
// ownership gates before any write reaches the backend.
type CatalogService struct {
	backend CatalogBackend
}

// NewCatalogService builds the service.
func NewCatalogService(client CatalogBackend) *CatalogService {
	return &CatalogService{backend: client}
}

// Featured fetches restaurants and food concurrently and keeps the first few of each.
func (s *CatalogService) Featured(ctx context.Context) Featured {
	var (
		g           errgroup.Group
		restaurants []domain.Restaurant
		food        []domain.FoodItem
		restErr     error
		foodErr     error
	)
	g.Go(func() error {
		restaurants, restErr = s.backend.Restaurants(ctx)
		return nil
	})
	g.Go(func() error {
		food, foodErr = s.backend.FoodItems(ctx)
		return nil
	})
	_ = g.Wait()

	out := Featured{
		Restaurants: firstN(restaurants, FeaturedCount),
		Food:        firstN(food, FeaturedCount),
		Err:         restErr,
	}
	if out.Err == nil {
		out.Err = foodErr
	}
	return out
}

// Restaurants lists every restaurant.
func (s *CatalogService) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	return s.backend.Restaurants(ctx)
}

// Menu returns the restaurant restID and its food.
func (s *CatalogService) Menu(ctx context.Context, restID string) (*Menu, error) {
	restaurant, err := s.restaurant(ctx, restID)
	if err != nil {
		return nil, err
	}
	food, err := s.backend.FoodItems(ctx)
	if err != nil {
		return nil, err
	}
	return &Menu{Restaurant: restaurant, Items: domain.MenuOf(food, restID)}, nil
}

// CreateRestaurant creates a restaurant owned by the viewer.
func (s *CatalogService) CreateRestaurant(ctx context.Context, viewer auth.Viewer, in backend.RestaurantInput) error {
	if !viewer.HasToken() {
		return apperrors.NewUnauthorized("You must be logged in to create a restaurant.")
	}
	if !viewer.CanCreateRestaurant() {
		return apperrors.NewForbidden("Only merchants can create restaurants.")
	}
	return s.backend.CreateRestaurant(ctx, viewer.SubjectID(), in)
}

// UpdateRestaurant edits a restaurant the viewer owns.
func (s *CatalogService) UpdateRestaurant(ctx context.Context, viewer auth.Viewer, id string, in backend.RestaurantInput) error {
	restaurant, err := s.restaurant(ctx, id)
	if err != nil {
		return err
	}
	if !viewer.CanManageRestaurant(restaurant.OwnerID) {
		return apperrors.NewForbidden("Only the owner can update this restaurant.")
	}
	return s.backend.UpdateRestaurant(ctx, id, in)
}

// CreateFood adds a food item to a restaurant the viewer owns.
func (s *CatalogService) CreateFood(ctx context.Context, viewer auth.Viewer, restID string, in backend.FoodInput) error {
	restaurant, err := s.restaurant(ctx, restID)
	if err != nil {
		return err
	}
	if !viewer.CanManageMenu(restaurant.OwnerID) {
		return apperrors.NewForbidden("Only the owner can change this menu.")
	}
	return s.backend.CreateFood(ctx, restID, in)
}

// UpdateFood edits a food item on the menu of a restaurant the viewer owns.
func (s *CatalogService) UpdateFood(ctx context.Context, viewer auth.Viewer, restID, foodID string, in backend.FoodInput) error {
	menu, err := s.Menu(ctx, restID)
	if err != nil {
		return err
	}
	if !viewer.CanManageMenu(menu.Restaurant.OwnerID) {
		return apperrors.NewForbidden("Only the owner can change this menu.")
	}
	if !onMenu(menu.Items, foodID) {
		return apperrors.NewNotFound("food item", map[string]any{"id": foodID})
	}
	return s.backend.UpdateFood(ctx, foodID, in)
}

func (s *CatalogService) restaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	restaurants, err := s.backend.Restaurants(ctx)
	if err != nil {
		return domain.Restaurant{}, err
	}
	restaurant, ok := domain.FindRestaurant(restaurants, id)
	if !ok {
		return domain.Restaurant{}, apperrors.NewNotFound("restaurant", map[string]any{"id": id})
	}
	return restaurant, nil
}

func onMenu(items []domain.FoodItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
