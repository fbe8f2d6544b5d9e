package backend

import (
	"context"

	"github.com/spec-kit/fooddash/internal/domain"
)

// RestaurantInput is the create/update payload of a restaurant.
type RestaurantInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// FoodInput is the create/update payload of a food item.
type FoodInput struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Ingredients []string `json:"ingredients"`
}

// Restaurants lists every restaurant.
func (c *Client) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	const failed = "Failed to fetch restaurants."
	resp, err := c.request(ctx).Get("/api/resturant/get")
	if err := c.check(resp, err, failed); err != nil {
		return nil, err
	}
	var out []domain.Restaurant
	if err := c.decode(resp.Body(), &out, failed); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRestaurant creates a restaurant owned by ownerID.
func (c *Client) CreateRestaurant(ctx context.Context, ownerID string, in RestaurantInput) error {
	resp, err := c.request(ctx).
		SetPathParam("ownerId", ownerID).
		SetBody(in).
		Post("/api/resturant/create/{ownerId}")
	return c.check(resp, err, "Failed to create restaurant.")
}

// UpdateRestaurant changes name and location of a restaurant.
func (c *Client) UpdateRestaurant(ctx context.Context, id string, in RestaurantInput) error {
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetBody(in).
		Patch("/api/resturant/update/{id}")
	return c.check(resp, err, "Failed to update restaurant.")
}

// FoodItems lists the food of every restaurant.
func (c *Client) FoodItems(ctx context.Context) ([]domain.FoodItem, error) {
	const failed = "Failed to fetch food items."
	resp, err := c.request(ctx).Get("/api/food/getfood")
	if err := c.check(resp, err, failed); err != nil {
		return nil, err
	}
	var out []domain.FoodItem
	if err := c.decode(resp.Body(), &out, failed); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFood adds a food item to the menu of restID.
func (c *Client) CreateFood(ctx context.Context, restID string, in FoodInput) error {
	resp, err := c.request(ctx).
		SetPathParam("restId", restID).
		SetBody(in).
		Post("/api/food/create_food/{restId}")
	return c.check(resp, err, "Failed to create food item.")
}

// UpdateFood changes a food item.
func (c *Client) UpdateFood(ctx context.Context, id string, in FoodInput) error {
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetBody(in).
		Patch("/api/food/update/food/{id}")
	return c.check(resp, err, "Failed to update food item.")
}

// Account fetches the account detail of a subject id.
func (c *Client) Account(ctx context.Context, id string) (*domain.Account, error) {
	const failed = "Failed to fetch account."
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		Get("/api/user/get/{id}")
	if err := c.check(resp, err, failed); err != nil {
		return nil, err
	}
	var out domain.Account
	if err := c.decode(resp.Body(), &out, failed); err != nil {
		return nil, err
	}
	return &out, nil
}
