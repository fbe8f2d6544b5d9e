package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/fooddash/pkg/util/errorutil"
)

const viewerKey = "auth_viewer"

// TokenSource exposes the current session token.
type TokenSource interface {
	Token() string
}

// ViewerMiddleware attaches a freshly decoded Viewer to every request.
type ViewerMiddleware struct {
	tokens      TokenSource
	interpreter *Interpreter
}

// NewViewerMiddleware constructs middleware.
func NewViewerMiddleware(tokens TokenSource, interpreter *Interpreter) *ViewerMiddleware {
	return &ViewerMiddleware{tokens: tokens, interpreter: interpreter}
}

// Handle reads the token once per request and stores the Viewer in locals.
func (m *ViewerMiddleware) Handle(c *fiber.Ctx) error {
	c.Locals(viewerKey, NewViewer(m.tokens.Token(), m.interpreter))
	return c.Next()
}

// ViewerFromContext retrieves the request's Viewer. Without the middleware
// the zero Viewer (anonymous) is returned.
func ViewerFromContext(c *fiber.Ctx) Viewer {
	viewer, _ := c.Locals(viewerKey).(Viewer)
	return viewer
}

// RequireToken ensures a session token is held.
func RequireToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !ViewerFromContext(c).HasToken() {
			return apperrors.NewUnauthorized("You must be logged in.")
		}
		return c.Next()
	}
}

// RequireMerchant ensures the decoded role is merchant.
func RequireMerchant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := ViewerFromContext(c)
		if !viewer.HasToken() {
			return apperrors.NewUnauthorized("You must be logged in to create a restaurant.")
		}
		if !viewer.IsMerchant() {
			return apperrors.NewForbidden("Only merchants can manage restaurants.")
		}
		return c.Next()
	}
}
