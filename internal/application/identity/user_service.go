// Package identity keeps the local copy of users vouched for by the upstream identity provider.
package identity

import (
	"context"

	"github.com/gradguide/backend/internal/domain/identity"
	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/gradguide/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// UserService records and looks up users
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// EnsureUser upserts the caller so rows they create have an owner to reference
func (s *UserService) EnsureUser(ctx context.Context, candidate identity.UserCandidate) (*UserDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "ensure",
		attribute.String(telemetry.SpanAttrUserID, candidate.ID))
	defer span.End()

	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Upsert(ctx, candidate)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to upsert user", zap.String("user_id", candidate.ID), zap.Error(err))
		return nil, err
	}
	return ToUserDTO(user), nil
}

// GetUser returns the user with the given id
func (s *UserService) GetUser(ctx context.Context, id string) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load user", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "User not found")
	}
	return ToUserDTO(user), nil
}
