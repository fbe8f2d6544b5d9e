package http

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/fooddash/internal/api/http/views"
	"github.com/spec-kit/fooddash/internal/auth"
	"github.com/spec-kit/fooddash/internal/observability"
	apperrors "github.com/spec-kit/fooddash/pkg/util/errorutil"
)

// MiddlewareConfig bundles what the global middlewares need.
type MiddlewareConfig struct {
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Timeout time.Duration
	Views   *views.Renderer
	Viewers *auth.ViewerMiddleware
	CSRF    auth.CSRFConfig
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(logger, cfg.Metrics, cfg.Views))
	app.Use(observability.RequestLogger(logger, cfg.Metrics))
	if cfg.Viewers != nil {
		app.Use(cfg.Viewers.Handle)
	}
	app.Use(auth.RequireSameOrigin())
	app.Use(auth.NewCSRF(cfg.CSRF))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware renders errors as an HTML page, or as JSON for
// machine endpoints. Unauthorized page requests are sent to sign-in.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, renderer *views.Renderer) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			domainErr := fromFiberError(err)
			metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
			if domainErr.HTTPStatus >= 500 {
				logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
			}

			if wantsJSON(c) || renderer == nil {
				err = writeJSONError(c, domainErr)
				return
			}
			if domainErr.Code == "UNAUTHORIZED" && c.Method() == fiber.MethodGet {
				err = c.Redirect("/signin", fiber.StatusSeeOther)
				return
			}
			err = writeHTMLError(c, renderer, domainErr)
		}()
		return c.Next()
	}
}

func fromFiberError(err error) *apperrors.DomainError {
	if fe, ok := err.(*fiber.Error); ok {
		code := "VALIDATION_FAILED"
		if fe.Code == fiber.StatusNotFound {
			code = "NOT_FOUND"
		} else if fe.Code >= fiber.StatusInternalServerError {
			code = "INTERNAL_ERROR"
		}
		return apperrors.NewDomainError(code, fe.Message, fe.Code, nil)
	}
	return apperrors.ToDomainError(err)
}

func wantsJSON(c *fiber.Ctx) bool {
	path := c.Path()
	return strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/metrics") ||
		c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

func writeJSONError(c *fiber.Ctx, domainErr *apperrors.DomainError) error {
	response := fiber.Map{"error": fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}}
	if len(domainErr.Details) > 0 {
		response["error"].(fiber.Map)["details"] = domainErr.Details
	}
	return c.Status(domainErr.HTTPStatus).JSON(response)
}

func writeHTMLError(c *fiber.Ctx, renderer *views.Renderer, domainErr *apperrors.DomainError) error {
	body, err := renderer.Render("error", views.Page{
		Title:  domainErr.Message,
		Viewer: auth.ViewerFromContext(c),
		Error:  domainErr.Message,
		CSRF:   auth.CSRFToken(c),
	})
	if err != nil {
		return c.Status(domainErr.HTTPStatus).SendString(domainErr.Message)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(domainErr.HTTPStatus).Send(body)
}
