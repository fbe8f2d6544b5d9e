package backend

import (
	"context"
	"errors"

	"github.com/tidwall/gjson"

	apperrors "github.com/spec-kit/fooddash/pkg/util/errorutil"
)

// Credentials is the sign-in payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

const (
	msgSignInFailed = "Failed to sign in"
	msgSignUpFailed = "Failed to sign up"
)

var errNoToken = errors.New("response carried no token")

// SignIn exchanges credentials for a session token. Only the "token" field
// of a successful response is read.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (string, error) {
	resp, err := c.request(ctx).SetBody(creds).Post("/api/auth/signin")
	if err := c.check(resp, err, msgSignInFailed); err != nil {
		return "", err
	}

	token := gjson.GetBytes(resp.Body(), "token").String()
	if token == "" {
		return "", apperrors.NewBackendError(msgSignInFailed, 0, errNoToken)
	}
	return token, nil
}

// SignUp registers an account. The returned token is empty when the backend
// does not sign the new account in.
func (c *Client) SignUp(ctx context.Context, reg Registration) (string, error) {
	resp, err := c.request(ctx).SetBody(reg).Post("/api/auth/signup")
	if err := c.check(resp, err, msgSignUpFailed); err != nil {
		return "", err
	}
	return gjson.GetBytes(resp.Body(), "token").String(), nil
}
