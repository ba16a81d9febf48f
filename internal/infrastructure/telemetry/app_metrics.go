package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the service's instruments. A nil *AppMetrics records nothing.
type AppMetrics struct {
	requests        metric.Int64Counter
	requestDuration metric.Float64Histogram
	inFlight        metric.Int64UpDownCounter

	applications metric.Int64Counter
	submissions  metric.Int64Counter
	lawMatches   metric.Int64Counter
	cacheLookups metric.Int64Counter
	replays      metric.Int64Counter
	rateLimited  metric.Int64Counter
}

// NewAppMetrics creates every instrument on meter
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	m := &AppMetrics{}
	var err error

	if m.requests, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests served"), metric.WithUnit("{request}")); err != nil {
		return nil, instrumentError("http.server.requests", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(HTTPDurationBuckets...)); err != nil {
		return nil, instrumentError("http.server.request.duration", err)
	}
	if m.inFlight, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("HTTP requests in flight"), metric.WithUnit("{request}")); err != nil {
		return nil, instrumentError("http.server.active_requests", err)
	}
	if m.applications, err = meter.Int64Counter("gradguide.applications.changes",
		metric.WithDescription("Tracked application writes by outcome"), metric.WithUnit("{application}")); err != nil {
		return nil, instrumentError("gradguide.applications.changes", err)
	}
	if m.submissions, err = meter.Int64Counter("gradguide.submissions.created",
		metric.WithDescription("Experience submissions created"), metric.WithUnit("{submission}")); err != nil {
		return nil, instrumentError("gradguide.submissions.created", err)
	}
	if m.lawMatches, err = meter.Int64Counter("gradguide.lawmatch.queries",
		metric.WithDescription("Law firm match queries"), metric.WithUnit("{query}")); err != nil {
		return nil, instrumentError("gradguide.lawmatch.queries", err)
	}
	if m.cacheLookups, err = meter.Int64Counter("gradguide.cache.lookups",
		metric.WithDescription("Cache lookups by result"), metric.WithUnit("{lookup}")); err != nil {
		return nil, instrumentError("gradguide.cache.lookups", err)
	}
	if m.replays, err = meter.Int64Counter("gradguide.idempotency.replays",
		metric.WithDescription("Requests answered from a stored idempotency result"), metric.WithUnit("{request}")); err != nil {
		return nil, instrumentError("gradguide.idempotency.replays", err)
	}
	if m.rateLimited, err = meter.Int64Counter("gradguide.ratelimit.rejections",
		metric.WithDescription("Requests rejected by the rate limiter"), metric.WithUnit("{request}")); err != nil {
		return nil, instrumentError("gradguide.ratelimit.rejections", err)
	}
	return m, nil
}

func instrumentError(name string, err error) error {
	return fmt.Errorf("failed to create instrument %s: %w", name, err)
}

// RequestStarted counts a request in flight and returns the func that finishes it
func (m *AppMetrics) RequestStarted(ctx context.Context, method string) func(route string, status int) {
	if m == nil {
		return func(string, int) {}
	}
	start := time.Now()
	m.inFlight.Add(ctx, 1, metric.WithAttributes(AttrHTTPMethod.String(method)))
	return func(route string, status int) {
		attrs := metric.WithAttributes(
			AttrHTTPMethod.String(method),
			AttrHTTPRoute.String(route),
			AttrHTTPStatusCode.Int(status),
		)
		m.inFlight.Add(ctx, -1, metric.WithAttributes(AttrHTTPMethod.String(method)))
		m.requests.Add(ctx, 1, attrs)
		m.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// ApplicationChanged counts a tracker write; outcome is created, updated or deleted
func (m *AppMetrics) ApplicationChanged(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.applications.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
}

// SubmissionCreated counts a new experience submission
func (m *AppMetrics) SubmissionCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.submissions.Add(ctx, 1)
}

// LawMatchQueried counts a match query
func (m *AppMetrics) LawMatchQueried(ctx context.Context, university string) {
	if m == nil {
		return
	}
	m.lawMatches.Add(ctx, 1, metric.WithAttributes(attribute.String("university", university)))
}

// CacheLookup counts a hit or miss on the named cache
func (m *AppMetrics) CacheLookup(ctx context.Context, cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(AttrCache.String(cache), AttrCacheResult.String(result)))
}

// IdempotentReplay counts a request answered from a stored result
func (m *AppMetrics) IdempotentReplay(ctx context.Context) {
	if m == nil {
		return
	}
	m.replays.Add(ctx, 1)
}

// RateLimited counts a rejected request; window is hourly or daily
func (m *AppMetrics) RateLimited(ctx context.Context, window string) {
	if m == nil {
		return
	}
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(attribute.String("window", window)))
}
