package service

import (
	"context"

	"github.com/spec-kit/fooddash/internal/auth"
	"github.com/spec-kit/fooddash/internal/domain"
	apperrors "github.com/spec-kit/fooddash/pkg/util/errorutil"
)

//go:generate mockgen -source=profile_service.go -destination=account_backend_mock_test.go -package=service

// AccountBackend fetches account details.
type AccountBackend interface {
	Account(ctx context.Context, id string) (*domain.Account, error)
}

// ProfileService loads the account behind the current session.
type ProfileService struct {
	backend AccountBackend
}

// NewProfileService builds the service.
func NewProfileService(client AccountBackend) *ProfileService {
	return &ProfileService{backend: client}
}

// Account fetches the viewer's account by the subject id in the token.
func (s *ProfileService) Account(ctx context.Context, viewer auth.Viewer) (*domain.Account, error) {
	if !viewer.HasToken() {
		return nil, apperrors.NewUnauthorized("You must be logged in.")
	}
	id := viewer.SubjectID()
	if id == "" {
		return nil, apperrors.NewUnauthorized("Your session could not be read. Please sign in again.")
	}
	return s.backend.Account(ctx, id)
}
