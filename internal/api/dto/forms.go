package dto

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/fooddash/internal/backend"
	apperrors "github.com/spec-kit/fooddash/pkg/util/errorutil"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SignInForm is posted by the sign-in page.
type SignInForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// SignUpForm is posted by the sign-up page.
type SignUpForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

// RestaurantForm creates or updates a restaurant.
type RestaurantForm struct {
	Name     string `form:"name" json:"name" validate:"required"`
	Location string `form:"location" json:"location" validate:"required"`
}

// FoodForm creates or updates a food item. Ingredients are comma separated.
type FoodForm struct {
	Name        string `form:"name" json:"name" validate:"required"`
	Price       string `form:"price" json:"price" validate:"required"`
	Ingredients string `form:"ingredients" json:"ingredients" validate:"required"`
}

// Credentials validates the form and returns the backend payload.
func (f SignInForm) Credentials() (backend.Credentials, error) {
	f.Username = strings.TrimSpace(f.Username)
	if err := check(f, "Username and password are required."); err != nil {
		return backend.Credentials{}, err
	}
	return backend.Credentials{Username: f.Username, Password: f.Password}, nil
}

// Registration validates the form and returns the backend payload.
func (f SignUpForm) Registration() (backend.Registration, error) {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	if err := check(f, "Username, a valid email and password are required."); err != nil {
		return backend.Registration{}, err
	}
	return backend.Registration{Username: f.Username, Email: f.Email, Password: f.Password}, nil
}

// Input validates the form and returns the backend payload.
func (f RestaurantForm) Input() (backend.RestaurantInput, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Location = strings.TrimSpace(f.Location)
	if err := check(f, "Name and location are required."); err != nil {
		return backend.RestaurantInput{}, err
	}
	return backend.RestaurantInput{Name: f.Name, Location: f.Location}, nil
}

// Input validates the form, parses the price and splits ingredients.
func (f FoodForm) Input() (backend.FoodInput, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Price = strings.TrimSpace(f.Price)
	if err := check(f, "Name, price, and ingredients are required."); err != nil {
		return backend.FoodInput{}, err
	}

	price, err := strconv.ParseFloat(f.Price, 64)
	if err != nil || price < 0 {
		return backend.FoodInput{}, apperrors.NewValidationError("Price must be a positive number.",
			map[string]any{"price": f.Price})
	}

	ingredients := SplitIngredients(f.Ingredients)
	if len(ingredients) == 0 {
		return backend.FoodInput{}, apperrors.NewValidationError("Name, price, and ingredients are required.", nil)
	}
	return backend.FoodInput{Name: f.Name, Price: price, Ingredients: ingredients}, nil
}

// SplitIngredients splits a comma separated list, dropping blanks.
func SplitIngredients(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func check(form any, message string) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	details := map[string]any{}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			details[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return apperrors.NewValidationError(message, details)
}
