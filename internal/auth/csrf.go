package auth

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	apperrors "github.com/spec-kit/fooddash/pkg/util/errorutil"
)

const csrfKey = "auth_csrf"

const (
	// CSRFField is the form field post forms carry the token in.
	CSRFField = "csrf_token"
	// CSRFCookie holds the token issued on safe requests.
	CSRFCookie = "csrf_token"
)

// CSRFConfig tunes the form token middleware.
type CSRFConfig struct {
	Expiration   time.Duration
	SecureCookie bool
}

// NewCSRF issues a token on safe requests and rejects unsafe requests whose
// form token is missing or does not match the cookie.
func NewCSRF(cfg CSRFConfig) fiber.Handler {
	if cfg.Expiration <= 0 {
		cfg.Expiration = 2 * time.Hour
	}
	return csrf.New(csrf.Config{
		KeyLookup:      "form:" + CSRFField,
		CookieName:     CSRFCookie,
		CookieSameSite: "Strict",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.SecureCookie,
		Expiration:     cfg.Expiration,
		ContextKey:     csrfKey,
		ErrorHandler: func(*fiber.Ctx, error) error {
			return apperrors.NewForbidden("Invalid or missing form token. Reload the page and try again.")
		},
	})
}

// CSRFToken returns the token issued for this request, if any.
func CSRFToken(c *fiber.Ctx) string {
	token, _ := c.Locals(csrfKey).(string)
	return token
}

// RequireSameOrigin rejects unsafe requests a browser marks as coming from
// another site.
func RequireSameOrigin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions, fiber.MethodTrace:
			return c.Next()
		}

		switch c.Get("Sec-Fetch-Site") {
		case "", "same-origin", "none":
		default:
			return crossOrigin()
		}

		if origin := c.Get(fiber.HeaderOrigin); origin != "" {
			u, err := url.Parse(origin)
			if err != nil || u.Host == "" || u.Host != c.Hostname() {
				return crossOrigin()
			}
		}
		return c.Next()
	}
}

func crossOrigin() error {
	return apperrors.NewForbidden("Cross-site form submissions are not allowed.")
}
