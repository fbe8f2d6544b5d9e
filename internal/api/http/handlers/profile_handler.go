package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fooddash/internal/api/http/views"
	"github.com/spec-kit/fooddash/internal/auth"
	"github.com/spec-kit/fooddash/internal/service"
)

// ProfileHandler serves the account page.
type ProfileHandler struct {
	profile *service.ProfileService
	views   *views.Renderer
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profile *service.ProfileService, renderer *views.Renderer) *ProfileHandler {
	return &ProfileHandler{profile: profile, views: renderer}
}

// Profile handles GET /profile.
func (h *ProfileHandler) Profile(c *fiber.Ctx) error {
	account, err := h.profile.Account(c.UserContext(), auth.ViewerFromContext(c))
	if err != nil {
		return err
	}
	return render(c, h.views, fiber.StatusOK, "profile", views.Page{Title: "My Profile", Data: account})
}
