package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records form command outcomes through an otel meter that is
// exported on the default prometheus registry.
type Observability struct {
	meterProvider   *metric.MeterProvider
	commandCounter  otelmetric.Int64Counter
	commandDuration otelmetric.Float64Histogram
}

// New returns a usable Observability even when the exporter cannot be
// created; recording then becomes a no-op.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	commandCounter, err := meter.Int64Counter(
		"form.commands",
		otelmetric.WithDescription("Number of form commands executed"),
	)
	if err != nil {
		return &Observability{meterProvider: provider}, err
	}

	commandDuration, err := meter.Float64Histogram(
		"form.command.duration",
		otelmetric.WithDescription("Form command duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return &Observability{meterProvider: provider}, err
	}

	return &Observability{
		meterProvider:   provider,
		commandCounter:  commandCounter,
		commandDuration: commandDuration,
	}, nil
}

// Noop returns an Observability that records nothing.
func Noop() *Observability {
	return &Observability{}
}

// RecordCommand records one command execution. status is "success",
// "validation_error", "transport_error", "superseded", "skipped" or "busy".
func (o *Observability) RecordCommand(ctx context.Context, command, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
	)
	if o.commandCounter != nil {
		o.commandCounter.Add(ctx, 1, attrs)
	}
	if o.commandDuration != nil {
		o.commandDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
