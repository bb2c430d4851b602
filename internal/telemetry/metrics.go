// Package telemetry adapts access decisions and audit outcomes onto
// OpenTelemetry instruments.
package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics counts access decisions and audit append failures. A nil *Metrics
// is a valid no-op receiver so call sites never need to branch.
type Metrics struct {
	decisions     metric.Int64Counter
	auditFailures metric.Int64Counter
}

// NewMetrics builds the instrument set on the given provider. Instrument
// creation failures are logged and leave the affected counter nil.
func NewMetrics(provider metric.MeterProvider) *Metrics {
	meter := provider.Meter("projecthub")
	m := &Metrics{}

	var err error
	m.decisions, err = meter.Int64Counter("projecthub.access.decisions",
		metric.WithDescription("Access decisions by module, level, and outcome"),
	)
	if err != nil {
		log.Printf("telemetry: decisions counter: %v", err)
	}
	m.auditFailures, err = meter.Int64Counter("projecthub.audit.append_failures",
		metric.WithDescription("Audit records dropped because the append failed"),
	)
	if err != nil {
		log.Printf("telemetry: audit failures counter: %v", err)
	}
	return m
}

// RecordDecision counts one evaluation outcome.
func (m *Metrics) RecordDecision(ctx context.Context, module, level string, allowed bool) {
	if m == nil || m.decisions == nil {
		return
	}
	m.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("module", module),
		attribute.String("level", level),
		attribute.Bool("allowed", allowed),
	))
}

// RecordAuditFailure counts one dropped audit record.
func (m *Metrics) RecordAuditFailure(ctx context.Context) {
	if m == nil || m.auditFailures == nil {
		return
	}
	m.auditFailures.Add(ctx, 1)
}
