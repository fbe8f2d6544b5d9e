// Package backend is the HTTP client for the FoodDash REST API.
package backend

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spec-kit/fooddash/internal/config"
	apperrors "github.com/spec-kit/fooddash/pkg/util/errorutil"
)

// TokenSource exposes the current session token.
type TokenSource interface {
	Token() string
}

// Client calls the backend on behalf of the current session.
type Client struct {
	http   *resty.Client
	tokens TokenSource
	logger *zap.Logger
}

// New builds a client. When tokens yields a non-empty token it is sent as
// a bearer token on every request.
func New(cfg config.BackendConfig, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	if timeout := cfg.Timeout(); timeout > 0 {
		httpClient.SetTimeout(timeout)
	}
	httpClient.JSONMarshal = json.Marshal
	httpClient.JSONUnmarshal = json.Unmarshal

	c := &Client{http: httpClient, tokens: tokens, logger: logger}
	httpClient.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if c.tokens == nil {
			return nil
		}
		if token := c.tokens.Token(); token != "" {
			r.SetAuthToken(token)
		}
		return nil
	})
	return c
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// check turns a transport error or a failed response into a domain error.
// A response fails on a non-2xx status or on a body with "success": false;
// its "message" field, when present, is what the user sees.
func (c *Client) check(resp *resty.Response, err error, fallback string) error {
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("message", fallback), zap.Error(err))
		return apperrors.NewBackendError(fallback, http.StatusBadGateway, err)
	}

	body := resp.Body()
	failed := resp.IsError() || gjson.GetBytes(body, "success").Type == gjson.False
	if !failed {
		return nil
	}

	message := gjson.GetBytes(body, "message").String()
	if message == "" {
		message = fallback
	}
	c.logger.Debug("backend rejected request",
		zap.String("url", resp.Request.URL),
		zap.Int("status", resp.StatusCode()),
		zap.String("message", message))
	return apperrors.NewBackendError(message, resp.StatusCode(), nil)
}

func (c *Client) decode(body []byte, out interface{}, fallback string) error {
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("backend returned an unexpected body", zap.Error(err))
		return apperrors.NewBackendError(fallback, http.StatusBadGateway, err)
	}
	return nil
}
