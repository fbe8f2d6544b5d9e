package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/fooddash/internal/api/dto"
	"github.com/spec-kit/fooddash/internal/api/http/views"
	"github.com/spec-kit/fooddash/internal/auth"
	"github.com/spec-kit/fooddash/internal/service"
)

// CatalogHandler serves the home, restaurant and menu pages.
type CatalogHandler struct {
	catalog *service.CatalogService
	views   *views.Renderer
	logger  *zap.Logger
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService, renderer *views.Renderer, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{catalog: catalog, views: renderer, logger: logger}
}

// Home handles GET /. A failed fetch is shown next to whatever did load.
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	featured := h.catalog.Featured(c.UserContext())
	page := views.Page{Data: featured}
	if featured.Err != nil {
		h.logger.Warn("home page fetch failed", zap.Error(featured.Err))
		page.Error, _ = errorMessage(featured.Err)
	}
	return render(c, h.views, fiber.StatusOK, "home", page)
}

// Restaurants handles GET /restaurants.
func (h *CatalogHandler) Restaurants(c *fiber.Ctx) error {
	return h.restaurantsPage(c, fiber.StatusOK, "")
}

// UpdateRestaurant handles POST /restaurants/:id.
func (h *CatalogHandler) UpdateRestaurant(c *fiber.Ctx) error {
	var form dto.RestaurantForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	err := func() error {
		in, err := form.Input()
		if err != nil {
			return err
		}
		return h.catalog.UpdateRestaurant(c.UserContext(), auth.ViewerFromContext(c), c.Params("id"), in)
	}()
	if err != nil {
		msg, status := errorMessage(err)
		return h.restaurantsPage(c, status, msg)
	}
	return c.Redirect("/restaurants", fiber.StatusSeeOther)
}

// CreateRestaurantPage handles GET /create-restaurant.
func (h *CatalogHandler) CreateRestaurantPage(c *fiber.Ctx) error {
	return render(c, h.views, fiber.StatusOK, "create_restaurant",
		views.Page{Title: "Create Restaurant", Data: dto.RestaurantForm{}})
}

// CreateRestaurant handles POST /create-restaurant.
func (h *CatalogHandler) CreateRestaurant(c *fiber.Ctx) error {
	var form dto.RestaurantForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	err := func() error {
		in, err := form.Input()
		if err != nil {
			return err
		}
		return h.catalog.CreateRestaurant(c.UserContext(), auth.ViewerFromContext(c), in)
	}()
	if err != nil {
		msg, status := errorMessage(err)
		return render(c, h.views, status, "create_restaurant",
			views.Page{Title: "Create Restaurant", Error: msg, Data: form})
	}
	return c.Redirect("/restaurants", fiber.StatusSeeOther)
}

// Menu handles GET /food/:id.
func (h *CatalogHandler) Menu(c *fiber.Ctx) error {
	menu, err := h.catalog.Menu(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return render(c, h.views, fiber.StatusOK, "menu", views.Page{Title: menu.Restaurant.Name, Data: menu})
}

// CreateFood handles POST /food/:id.
func (h *CatalogHandler) CreateFood(c *fiber.Ctx) error {
	var form dto.FoodForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}
	restID := c.Params("id")

	err := func() error {
		in, err := form.Input()
		if err != nil {
			return err
		}
		return h.catalog.CreateFood(c.UserContext(), auth.ViewerFromContext(c), restID, in)
	}()
	if err != nil {
		return h.menuWithError(c, restID, err)
	}
	return c.Redirect("/food/"+restID, fiber.StatusSeeOther)
}

// UpdateFood handles POST /food/:id/items/:foodId.
func (h *CatalogHandler) UpdateFood(c *fiber.Ctx) error {
	var form dto.FoodForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}
	restID := c.Params("id")

	err := func() error {
		in, err := form.Input()
		if err != nil {
			return err
		}
		return h.catalog.UpdateFood(c.UserContext(), auth.ViewerFromContext(c), restID, c.Params("foodId"), in)
	}()
	if err != nil {
		return h.menuWithError(c, restID, err)
	}
	return c.Redirect("/food/"+restID, fiber.StatusSeeOther)
}

func (h *CatalogHandler) restaurantsPage(c *fiber.Ctx, status int, message string) error {
	restaurants, err := h.catalog.Restaurants(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, h.views, status, "restaurants",
		views.Page{Title: "Restaurants", Error: message, Data: restaurants})
}

func (h *CatalogHandler) menuWithError(c *fiber.Ctx, restID string, cause error) error {
	menu, err := h.catalog.Menu(c.UserContext(), restID)
	if err != nil {
		return err
	}
	msg, status := errorMessage(cause)
	return render(c, h.views, status, "menu", views.Page{Title: menu.Restaurant.Name, Error: msg, Data: menu})
}
