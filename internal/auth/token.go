package auth

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spec-kit/fooddash/internal/domain"
	"github.com/spec-kit/fooddash/internal/observability"
)

// ErrMalformedToken is returned by DecodeClaims for any token it cannot read.
var ErrMalformedToken = errors.New("malformed token")

// Claims describes the session token payload issued by the backend.
// The signature is never verified here; claims drive rendering only.
// IssuedAt and ExpiresAt keep the payload's numeric text as-is.
type Claims struct {
	SubjectID string      `json:"id"`
	Role      domain.Role `json:"role"`
	IssuedAt  json.Number `json:"iat,omitempty"`
	ExpiresAt json.Number `json:"exp,omitempty"`
}

// HasRole reports whether the claims carry exactly the given role.
func (c *Claims) HasRole(role domain.Role) bool {
	return c != nil && c.Role == role
}

// Expired reports whether exp lies before now. Tokens without a numeric
// exp never expire. Nothing in the client acts on this; the backend
// enforces expiry.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt == "" {
		return false
	}
	exp, err := c.ExpiresAt.Float64()
	if err != nil {
		return false
	}
	return float64(now.UnixNano())/float64(time.Second) > exp
}

// DecodeClaims reads the payload segment of a compact JWS token. Only the
// payload is required, so "header.payload" is accepted, and both the url
// and the standard base64 alphabets are read. Claims other than id, role,
// iat and exp are not inspected; a value of an unexpected type leaves its
// field empty instead of failing the token.
func DecodeClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: missing payload segment", ErrMalformedToken)
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload encoding: %v", ErrMalformedToken, err)
	}
	if !gjson.ValidBytes(payload) || !gjson.ParseBytes(payload).IsObject() {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedToken)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw jwt.MapClaims
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: payload content: %v", ErrMalformedToken, err)
	}

	return &Claims{
		SubjectID: stringClaim(raw["id"]),
		Role:      domain.Role(stringClaim(raw["role"])),
		IssuedAt:  numberClaim(raw["iat"]),
		ExpiresAt: numberClaim(raw["exp"]),
	}, nil
}

func decodeSegment(seg string) ([]byte, error) {
	seg = strings.NewReplacer("+", "-", "/", "_").Replace(strings.TrimRight(seg, "="))
	return base64.RawURLEncoding.DecodeString(seg)
}

// stringClaim keeps strings and the literal text of numbers.
func stringClaim(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	}
	return ""
}

func numberClaim(v interface{}) json.Number {
	if n, ok := v.(json.Number); ok {
		return n
	}
	return ""
}

// Interpreter turns the current session token into claims for views.
type Interpreter struct {
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewInterpreter builds an interpreter. Both arguments may be nil.
func NewInterpreter(logger *zap.Logger, metrics *observability.Metrics) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{logger: logger, metrics: metrics}
}

// Decode returns the claims of token, or nil when the token is empty or
// unreadable. Failures are logged and counted, never returned.
func (i *Interpreter) Decode(token string) (claims *Claims) {
	if token == "" {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("panic while decoding session token", zap.Any("panic", r))
			i.metrics.RecordDecodeFailure()
			claims = nil
		}
	}()

	decoded, err := DecodeClaims(token)
	if err != nil {
		i.logger.Warn("failed to decode session token", zap.Error(err))
		i.metrics.RecordDecodeFailure()
		return nil
	}
	return decoded
}
