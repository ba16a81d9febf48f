package telemetry

import (
	"context"
	"errors"

	"github.com/gradguide/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const meterName = "github.com/gradguide/backend"

// Telemetry owns every observability provider the server starts
type Telemetry struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	Metrics  *AppMetrics
	DB       *DBTracingPlugin
}

// Setup starts the providers the configuration enables. Providers that are
// disabled are still returned as no-ops so callers never check for nil.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Telemetry, error) {
	t := &Telemetry{DB: NewDBTracingPlugin(cfg, logger)}
	var err error

	if t.Tracer, err = NewTracerProvider(ctx, cfg, logger); err != nil {
		return nil, err
	}
	if t.Meter, err = NewMeterProvider(ctx, cfg, logger); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if t.Logs, err = NewLoggerProvider(ctx, cfg, logger); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if t.Profiler, err = NewProfiler(cfg, logger); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if t.Profiler.IsEnabled() {
		t.Tracer.EnableSpanProfiles()
	}
	if t.Metrics, err = NewAppMetrics(t.Meter.Meter(meterName)); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	return t, nil
}

// InstrumentDB installs database tracing on db
func (t *Telemetry) InstrumentDB(db *gorm.DB) error {
	return t.DB.Register(db)
}

// Shutdown stops every provider and joins their errors
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Profiler != nil {
		errs = append(errs, t.Profiler.Stop())
	}
	if t.Logs != nil {
		errs = append(errs, t.Logs.Shutdown(ctx))
	}
	if t.Meter != nil {
		errs = append(errs, t.Meter.Shutdown(ctx))
	}
	if t.Tracer != nil {
		errs = append(errs, t.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
