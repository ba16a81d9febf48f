// Package tracker manages a user's private list of job applications.
package tracker

import (
	"context"

	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/gradguide/backend/internal/domain/tracker"
	"github.com/gradguide/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ApplicationService handles the owner's application operations
type ApplicationService struct {
	repo    tracker.ApplicationRepository
	metrics *telemetry.AppMetrics
	logger  *zap.Logger
}

// NewApplicationService creates a new application service. metrics may be nil.
func NewApplicationService(repo tracker.ApplicationRepository, metrics *telemetry.AppMetrics, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// List returns the user's applications, newest first
func (s *ApplicationService) List(ctx context.Context, userID string) ([]ApplicationDTO, error) {
	apps, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list applications", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return ToApplicationDTOs(apps), nil
}

// Create validates and stores a new application for input.UserID
func (s *ApplicationService) Create(ctx context.Context, input CreateApplicationInput) (*ApplicationDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracker", "create",
		attribute.String(telemetry.SpanAttrUserID, input.UserID))
	defer span.End()

	app, err := tracker.NewApplication(input.UserID, input.Company, input.Role)
	if err != nil {
		return nil, err
	}
	app.SetStatus(input.Status)
	app.SetPriority(input.Priority)
	if err := app.SetWAM(input.WAM); err != nil {
		return nil, err
	}
	app.ApplicationDate = input.ApplicationDate
	app.ResponseDate = input.ResponseDate
	app.University = input.University
	app.Notes = input.Notes

	created, err := s.repo.Create(ctx, app)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to create application", zap.String("user_id", input.UserID), zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int64(telemetry.SpanAttrApplicationID, created.ID))
	s.metrics.ApplicationChanged(ctx, "created")
	s.logger.Info("Application created",
		zap.Int64("application_id", created.ID),
		zap.String("user_id", created.UserID),
	)
	return ToApplicationDTO(created), nil
}

// Update merges patch into the application id owned by userID.
// Another user's application is reported as not found.
func (s *ApplicationService) Update(ctx context.Context, id int64, userID string, patch tracker.ApplicationPatch) (*ApplicationDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracker", "update",
		attribute.String(telemetry.SpanAttrUserID, userID),
		attribute.Int64(telemetry.SpanAttrApplicationID, id))
	defer span.End()

	if patch.IsEmpty() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "No fields to update")
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, userID, patch)
	if err != nil {
		telemetry.RecordError(span, err)
		if !isNotFound(err) {
			s.logger.Error("Failed to update application", zap.Int64("application_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.ApplicationChanged(ctx, "updated")
	return ToApplicationDTO(updated), nil
}

// Delete removes the application id owned by userID and reports whether it existed
func (s *ApplicationService) Delete(ctx context.Context, id int64, userID string) (bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracker", "delete",
		attribute.String(telemetry.SpanAttrUserID, userID),
		attribute.Int64(telemetry.SpanAttrApplicationID, id))
	defer span.End()

	removed, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to delete application", zap.Int64("application_id", id), zap.Error(err))
		return false, err
	}
	if removed {
		s.metrics.ApplicationChanged(ctx, "deleted")
		s.logger.Info("Application deleted", zap.Int64("application_id", id), zap.String("user_id", userID))
	}
	return removed, nil
}

func isNotFound(err error) bool {
	return shared.CodeOf(err) == shared.CodeNotFound
}
