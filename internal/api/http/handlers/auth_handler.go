package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fooddash/internal/api/dto"
	"github.com/spec-kit/fooddash/internal/api/http/views"
	"github.com/spec-kit/fooddash/internal/service"
)

// AuthHandler serves the sign-in, sign-up and sign-out pages.
type AuthHandler struct {
	auth  *service.AuthService
	views *views.Renderer
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, renderer *views.Renderer) *AuthHandler {
	return &AuthHandler{auth: authService, views: renderer}
}

// SignInPage handles GET /signin.
func (h *AuthHandler) SignInPage(c *fiber.Ctx) error {
	return render(c, h.views, fiber.StatusOK, "signin", views.Page{Title: "Sign In", Data: dto.SignInForm{}})
}

// SignIn handles POST /signin. On success the token is adopted and the
// user lands on the home page.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var form dto.SignInForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	err := func() error {
		creds, err := form.Credentials()
		if err != nil {
			return err
		}
		return h.auth.SignIn(c.UserContext(), creds)
	}()
	if err != nil {
		msg, status := errorMessage(err)
		form.Password = ""
		return render(c, h.views, status, "signin", views.Page{Title: "Sign In", Error: msg, Data: form})
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// SignUpPage handles GET /signup.
func (h *AuthHandler) SignUpPage(c *fiber.Ctx) error {
	return render(c, h.views, fiber.StatusOK, "signup", views.Page{Title: "Sign Up", Data: dto.SignUpForm{}})
}

// SignUp handles POST /signup. Without a token in the response the user is
// sent to the sign-in page.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var form dto.SignUpForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	var signedIn bool
	err := func() error {
		reg, err := form.Registration()
		if err != nil {
			return err
		}
		signedIn, err = h.auth.SignUp(c.UserContext(), reg)
		return err
	}()
	if err != nil {
		msg, status := errorMessage(err)
		form.Password = ""
		return render(c, h.views, status, "signup", views.Page{Title: "Sign Up", Error: msg, Data: form})
	}
	if signedIn {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Redirect("/signin", fiber.StatusSeeOther)
}

// SignOut handles POST /signout.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	h.auth.SignOut(c.UserContext())
	return c.Redirect("/", fiber.StatusSeeOther)
}
