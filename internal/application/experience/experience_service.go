// Package experience serves the shared recruiting reports and the company
// pages derived from them.
package experience

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gradguide/backend/internal/domain/experience"
	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/gradguide/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultIdempotencyTTL is how long a submit key is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

const companiesCacheName = "companies"

// ServiceOption configures an ExperienceService
type ServiceOption func(*ExperienceService)

// WithIdempotency enables Idempotency-Key handling on Submit
func WithIdempotency(store shared.IdempotencyStore, ttl time.Duration) ServiceOption {
	return func(s *ExperienceService) {
		s.idempotency = store
		if ttl > 0 {
			s.idempotencyTTL = ttl
		}
	}
}

// WithSummaryCache caches the company summaries until the next submission
func WithSummaryCache(cache experience.SummaryCache) ServiceOption {
	return func(s *ExperienceService) {
		s.summaries = cache
	}
}

// WithMetrics records service metrics
func WithMetrics(metrics *telemetry.AppMetrics) ServiceOption {
	return func(s *ExperienceService) {
		s.metrics = metrics
	}
}

// ExperienceService handles experience reports
type ExperienceService struct {
	repo           experience.SubmissionRepository
	summaries      experience.SummaryCache
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	metrics        *telemetry.AppMetrics
	logger         *zap.Logger
}

// NewExperienceService creates a new experience service
func NewExperienceService(repo experience.SubmissionRepository, logger *zap.Logger, opts ...ServiceOption) *ExperienceService {
	s := &ExperienceService{
		repo:           repo,
		idempotencyTTL: DefaultIdempotencyTTL,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the reports matching filter, newest first
func (s *ExperienceService) List(ctx context.Context, filter experience.Filter) ([]SubmissionDTO, error) {
	filter = filter.Normalized()

	var (
		subs []experience.Submission
		err  error
	)
	if filter.IsEmpty() {
		subs, err = s.repo.FindAll(ctx)
	} else {
		subs, err = s.repo.Search(ctx, filter)
	}
	if err != nil {
		s.logger.Error("Failed to list experiences", zap.Error(err))
		return nil, err
	}
	return ToSubmissionDTOs(subs), nil
}

// Get returns one report
func (s *ExperienceService) Get(ctx context.Context, id int64) (*SubmissionDTO, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load experience", zap.Int64("submission_id", id), zap.Error(err))
		return nil, err
	}
	if sub == nil {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Experience not found")
	}
	return ToSubmissionDTO(sub), nil
}

// ListMine returns the reports written by userID, newest first
func (s *ExperienceService) ListMine(ctx context.Context, userID string) ([]SubmissionDTO, error) {
	subs, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list user experiences", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return ToSubmissionDTOs(subs), nil
}

// Submit stores a new report. When input carries an idempotency key that was
// already completed, the first report is returned and replayed is true.
func (s *ExperienceService) Submit(ctx context.Context, input SubmitInput) (dto *SubmissionDTO, replayed bool, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "experience", "submit",
		attribute.String(telemetry.SpanAttrUserID, input.UserID),
		attribute.String(telemetry.SpanAttrCompany, input.Company))
	defer span.End()

	sub, err := experience.NewSubmission(input.UserID, input.Company, input.Role)
	if err != nil {
		return nil, false, err
	}
	sub.ExperienceType = input.ExperienceType
	sub.Theme = input.Theme
	sub.Narrative = input.Narrative

	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		created, err := s.create(ctx, sub)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, false, err
		}
		span.SetAttributes(attribute.Int64(telemetry.SpanAttrSubmissionID, created.ID))
		return created, false, nil
	}

	scoped := sub.UserID + ":" + key
	reserved, err := s.idempotency.Reserve(ctx, scoped, s.idempotencyTTL)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to reserve idempotency key", zap.String("user_id", sub.UserID), zap.Error(err))
		return nil, false, shared.WrapDomainError(shared.CodeStoreUnavailable, "Idempotency store is unavailable", err)
	}
	if !reserved {
		dto, err := s.replay(ctx, scoped)
		if err != nil {
			return nil, false, err
		}
		span.SetAttributes(attribute.Int64(telemetry.SpanAttrSubmissionID, dto.ID))
		return dto, true, nil
	}

	created, err := s.create(ctx, sub)
	if err != nil {
		telemetry.RecordError(span, err)
		if relErr := s.idempotency.Release(ctx, scoped); relErr != nil {
			s.logger.Warn("Failed to release idempotency key", zap.Error(relErr))
		}
		return nil, false, err
	}
	if err := s.idempotency.Complete(ctx, scoped, strconv.FormatInt(created.ID, 10), s.idempotencyTTL); err != nil {
		s.logger.Warn("Failed to record idempotency result",
			zap.Int64("submission_id", created.ID), zap.Error(err))
	}
	span.SetAttributes(attribute.Int64(telemetry.SpanAttrSubmissionID, created.ID))
	return created, false, nil
}

func (s *ExperienceService) create(ctx context.Context, sub *experience.Submission) (*SubmissionDTO, error) {
	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		s.logger.Error("Failed to create experience",
			zap.String("user_id", sub.UserID),
			zap.String("company", sub.Company),
			zap.Error(err))
		return nil, err
	}

	if s.summaries != nil {
		if err := s.summaries.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate company summaries", zap.Error(err))
		}
	}
	s.metrics.SubmissionCreated(ctx)
	s.logger.Info("Experience submitted",
		zap.Int64("submission_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.String("company", created.Company))
	return ToSubmissionDTO(created), nil
}

func (s *ExperienceService) replay(ctx context.Context, key string) (*SubmissionDTO, error) {
	result, done, found, err := s.idempotency.Result(ctx, key)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeStoreUnavailable, "Idempotency store is unavailable", err)
	}
	if !found || !done {
		return nil, shared.NewDomainError(shared.CodeConflict, "A request with this Idempotency-Key is still in progress")
	}
	id, err := strconv.ParseInt(result, 10, 64)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeInternal, "Corrupt idempotency record", err)
	}
	dto, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.metrics.IdempotentReplay(ctx)
	return dto, nil
}

// Companies returns the per-company summaries, largest first
func (s *ExperienceService) Companies(ctx context.Context) ([]CompanySummaryDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "experience", "companies")
	defer span.End()

	var version int64
	cacheable := false
	if s.summaries != nil {
		cached, ok, err := s.summaries.Get(ctx)
		if err != nil {
			s.logger.Warn("Company summary cache read failed", zap.Error(err))
		}
		s.metrics.CacheLookup(ctx, companiesCacheName, ok)
		span.SetAttributes(attribute.Bool(telemetry.SpanAttrCacheHit, ok))
		if ok {
			return ToCompanySummaryDTOs(cached), nil
		}
		// the version must be read before FindAll
		if version, err = s.summaries.Version(ctx); err != nil {
			s.logger.Warn("Company summary cache version read failed", zap.Error(err))
		} else {
			cacheable = true
		}
	}

	subs, err := s.repo.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to load experiences for company summaries", zap.Error(err))
		return nil, err
	}
	summaries := experience.Summarize(subs)
	span.SetAttributes(attribute.Int(telemetry.SpanAttrResultCount, len(summaries)))

	if cacheable {
		if err := s.summaries.Set(ctx, version, summaries); err != nil {
			s.logger.Warn("Company summary cache write failed", zap.Error(err))
		}
	}
	return ToCompanySummaryDTOs(summaries), nil
}

// Company returns one company's summary with its reports. An unknown company
// yields a nil summary and no reports.
func (s *ExperienceService) Company(ctx context.Context, name string) (*CompanyDetailDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "company name is required")
	}

	subs, err := s.repo.Search(ctx, experience.Filter{Company: name})
	if err != nil {
		s.logger.Error("Failed to load company experiences", zap.String("company", name), zap.Error(err))
		return nil, err
	}

	detail := &CompanyDetailDTO{Experiences: ToSubmissionDTOs(subs)}
	if summary := experience.SummarizeCompany(name, subs); summary != nil {
		detail.Company = ToCompanySummaryDTO(summary)
	}
	return detail, nil
}
