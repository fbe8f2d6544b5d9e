package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/fooddash/internal/backend"
)

// AuthBackend is the part of the backend client used for authentication.
type AuthBackend interface {
	SignIn(ctx context.Context, creds backend.Credentials) (string, error)
	SignUp(ctx context.Context, reg backend.Registration) (string, error)
}

// SessionWriter is the session store as seen by authentication flows.
type SessionWriter interface {
	SignIn(ctx context.Context, token string) error
	SignOut(ctx context.Context)
}

// AuthService coordinates the sign-in, sign-up and sign-out flows.
type AuthService struct {
	backend AuthBackend
	session SessionWriter
	logger  *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(client AuthBackend, session SessionWriter, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{backend: client, session: session, logger: logger}
}

// SignIn exchanges credentials for a token and adopts it. The session is
// untouched when the exchange fails.
func (s *AuthService) SignIn(ctx context.Context, creds backend.Credentials) error {
	token, err := s.backend.SignIn(ctx, creds)
	if err != nil {
		return err
	}
	if err := s.session.SignIn(ctx, token); err != nil {
		return err
	}
	s.logger.Info("signed in", zap.String("username", creds.Username))
	return nil
}

// SignUp registers an account. It reports whether the backend signed the
// new account in, in which case the token has been adopted.
func (s *AuthService) SignUp(ctx context.Context, reg backend.Registration) (bool, error) {
	token, err := s.backend.SignUp(ctx, reg)
	if err != nil {
		return false, err
	}
	if token == "" {
		s.logger.Info("account registered", zap.String("username", reg.Username))
		return false, nil
	}
	if err := s.session.SignIn(ctx, token); err != nil {
		return false, err
	}
	s.logger.Info("account registered and signed in", zap.String("username", reg.Username))
	return true, nil
}

// SignOut clears the session.
func (s *AuthService) SignOut(ctx context.Context) {
	s.session.SignOut(ctx)
}
