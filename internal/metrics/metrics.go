// Package metrics exposes the cleaning pipeline's counters through an
// OpenTelemetry meter backed by a Prometheus registry. Instrument
// creation failures degrade to no-ops instead of crashing the bot.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fernwehlabs/mailscrub/internal/metrics"

// Cleaning outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeDecodeError = "decode_error"
)

// Metrics holds the bot's instruments and the registry they export to.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	registry *prom.Registry
	logger   *zap.Logger

	updates     metric.Int64Counter
	cleanings   metric.Int64Counter
	emails      metric.Int64Counter
	cleaningDur metric.Float64Histogram
}

// New creates a Metrics instance with its own Prometheus registry.
func New(logger *zap.Logger) (*Metrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prom.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(newResource()),
	)

	m := &Metrics{
		provider: provider,
		registry: registry,
		logger:   logger,
	}
	m.init(provider.Meter(instrumentationName))
	return m, nil
}

// newResource describes the service on exported target_info. A standalone
// resource avoids the schema URL conflict resource.Default() brings in
// through its own semconv version.
func newResource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("mailscrub"),
	)
}

func (m *Metrics) init(meter metric.Meter) {
	var err error

	m.updates, err = meter.Int64Counter(
		"mailscrub.updates_total",
		metric.WithDescription("Handled Telegram updates labeled by kind (command, text, document)."),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		m.logger.Warn("failed to create updates counter", zap.Error(err))
	}

	m.cleanings, err = meter.Int64Counter(
		"mailscrub.cleanings_total",
		metric.WithDescription("Cleaning runs labeled by outcome (ok, empty, decode_error)."),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		m.logger.Warn("failed to create cleanings counter", zap.Error(err))
	}

	m.emails, err = meter.Int64Counter(
		"mailscrub.emails_total",
		metric.WithDescription("Extracted candidates labeled by disposition (unique, duplicate, invalid)."),
		metric.WithUnit("{email}"),
	)
	if err != nil {
		m.logger.Warn("failed to create emails counter", zap.Error(err))
	}

	m.cleaningDur, err = meter.Float64Histogram(
		"mailscrub.cleaning_duration_seconds",
		metric.WithDescription("Duration of a full decode and clean run. Use histogram_quantile for P50/P95/P99."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0),
	)
	if err != nil {
		m.logger.Warn("failed to create duration histogram", zap.Error(err))
	}
}

// RecordUpdate counts a handled update of the given kind.
func (m *Metrics) RecordUpdate(ctx context.Context, kind string) {
	if m == nil || m.updates == nil {
		return
	}
	m.updates.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordCleaning counts a cleaning run and its duration.
func (m *Metrics) RecordCleaning(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	if m.cleanings != nil {
		m.cleanings.Add(ctx, 1, attrs)
	}
	if m.cleaningDur != nil {
		m.cleaningDur.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordEmails counts candidate dispositions from one cleaning run.
func (m *Metrics) RecordEmails(ctx context.Context, unique, duplicates, invalid int) {
	if m == nil || m.emails == nil {
		return
	}
	for _, d := range []struct {
		label string
		count int
	}{
		{"unique", unique},
		{"duplicate", duplicates},
		{"invalid", invalid},
	} {
		if d.count > 0 {
			m.emails.Add(ctx, int64(d.count),
				metric.WithAttributes(attribute.String("disposition", d.label)))
		}
	}
}

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
