package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fooddash/internal/api/http/views"
	"github.com/spec-kit/fooddash/internal/auth"
	apperrors "github.com/spec-kit/fooddash/pkg/util/errorutil"
)

// render writes a full HTML page for the request's viewer.
func render(c *fiber.Ctx, renderer *views.Renderer, status int, name string, page views.Page) error {
	page.Viewer = auth.ViewerFromContext(c)
	page.CSRF = auth.CSRFToken(c)
	body, err := renderer.Render(name, page)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(body)
}

// errorMessage returns the user-facing message of err and its status.
func errorMessage(err error) (string, int) {
	de := apperrors.ToDomainError(err)
	return de.Message, de.HTTPStatus
}
