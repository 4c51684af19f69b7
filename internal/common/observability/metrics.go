package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"

	"correspondence-workers/internal/common/logger"
)

// Observability owns the meter and tracer providers for the process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerShutdown func(context.Context) error
	meter          otelmetric.Meter
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	renderedChars  otelmetric.Int64Histogram
}

// Options configure New. An empty OTLPEndpoint keeps spans in-process.
type Options struct {
	ServiceName  string
	Version      string
	Environment  string
	OTLPEndpoint string
	OTLPInsecure bool
	SampleRatio  float64
}

// New wires the otel meter to the Prometheus registry and sets up tracing.
// Exporter failures are logged and leave the corresponding instruments as no-ops.
func New(ctx context.Context, opts Options, log logger.Logger) *Observability {
	o := &Observability{tracer: otel.Tracer(opts.ServiceName)}

	shutdown, err := initTracing(ctx, opts)
	if err != nil {
		log.Warn("trace exporter init failed, continuing without export", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		o.tracerShutdown = shutdown
		o.tracer = otel.Tracer(opts.ServiceName)
	}

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("prometheus exporter init failed", map[string]interface{}{"error": err.Error()})
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	o.meterProvider = provider
	o.meter = provider.Meter(opts.ServiceName)

	o.jobCounter, _ = o.meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = o.meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.renderedChars, _ = o.meter.Int64Histogram(
		"correspondence.body.length",
		otelmetric.WithDescription("Length of rendered letter bodies"),
		otelmetric.WithUnit("{char}"),
	)
	return o
}

// NewNoop is used by tests and tools that do not export telemetry.
func NewNoop() *Observability {
	return &Observability{tracer: otel.Tracer("noop")}
}

// StartSpan starts a span on the process tracer.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordRenderedLength(ctx context.Context, templateID string, chars int) {
	if o.renderedChars != nil {
		o.renderedChars.Record(ctx, int64(chars), otelmetric.WithAttributes(
			attribute.String("template_id", templateID),
		))
	}
}

func (o *Observability) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerShutdown != nil {
		_ = o.tracerShutdown(ctx)
	}
}
