// Package lawmatch answers firm-fit queries over the graduate intake table.
package lawmatch

import (
	"context"
	"strings"

	"github.com/gradguide/backend/internal/domain/lawmatch"
	"github.com/gradguide/backend/internal/domain/shared"
	"github.com/gradguide/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var maxWAM = decimal.NewFromInt(100)

// MatchResultDTO is one firm's score
type MatchResultDTO struct {
	Firm          string `json:"firm"`
	Score         int64  `json:"score"`
	UniPercentage int    `json:"uni_percentage"`
	MatchLevel    string `json:"match_level"`
}

// MatchResponseDTO wraps the ranked firm scores
type MatchResponseDTO struct {
	Results []MatchResultDTO `json:"results"`
}

// Service scores firms for a candidate profile
type Service struct {
	matcher *lawmatch.Matcher
	metrics *telemetry.AppMetrics
	logger  *zap.Logger
}

// NewService creates a law-match service over matcher. metrics may be nil.
func NewService(matcher *lawmatch.Matcher, metrics *telemetry.AppMetrics, logger *zap.Logger) *Service {
	return &Service{matcher: matcher, metrics: metrics, logger: logger}
}

// Match ranks every firm for university and wam. A nil wam means the default
// of 70 and an unknown university falls back to the "Other" share.
func (s *Service) Match(ctx context.Context, university string, wam *decimal.Decimal) (*MatchResponseDTO, error) {
	university = strings.TrimSpace(university)
	_, span := telemetry.StartServiceSpan(ctx, "lawmatch", "match",
		attribute.String("lawmatch.university", university))
	defer span.End()

	if wam != nil && (wam.IsNegative() || wam.GreaterThan(maxWAM)) {
		return nil, shared.NewDomainError("INVALID_WAM", "WAM must be between 0 and 100")
	}

	results := s.matcher.Match(lawmatch.Query{University: university, WAM: wam})
	out := make([]MatchResultDTO, 0, len(results))
	for _, r := range results {
		out = append(out, MatchResultDTO{
			Firm:          r.Firm,
			Score:         r.Score,
			UniPercentage: r.UniPercentage,
			MatchLevel:    string(r.MatchLevel),
		})
	}

	span.SetAttributes(attribute.Int(telemetry.SpanAttrResultCount, len(out)))
	s.metrics.LawMatchQueried(ctx, university)
	s.logger.Debug("Law match computed", zap.String("university", university), zap.Int("firms", len(out)))
	return &MatchResponseDTO{Results: out}, nil
}

// FirmData returns the firm by university intake table
func (s *Service) FirmData() lawmatch.FirmData {
	return s.matcher.Data()
}
