package rpn

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records evaluation outcomes.
// Use NewMetrics for OpenTelemetry metrics or NoopMetrics{} when disabled.
type Metrics interface {
	// RecordSolve records one evaluation of an expression with the given
	// number of tokens; err is nil on success.
	RecordSolve(tokens int, err error)

	// RecordStore records a sto binding.
	RecordStore()
}

// NoopMetrics is a Metrics that does nothing.
type NoopMetrics struct{}

var _ Metrics = NoopMetrics{}

func (NoopMetrics) RecordSolve(int, error) {}
func (NoopMetrics) RecordStore()           {}

const meterName = "github.com/jcorbin/gorpn"

type otelMetrics struct {
	solves metric.Int64Counter
	errors metric.Int64Counter
	tokens metric.Int64Histogram
	stores metric.Int64Counter
}

var _ Metrics = (*otelMetrics)(nil)

// NewMetrics returns a Metrics that records through meter:
//
//	rpn.solve.count   evaluations, by "ok"
//	rpn.solve.errors  failed evaluations, by "kind" (see ErrorKind)
//	rpn.expr.tokens   tokens per evaluated expression
//	rpn.store.count   sto bindings
func NewMetrics(meter metric.Meter) (Metrics, error) {
	var m otelMetrics
	var err error

	if m.solves, err = meter.Int64Counter("rpn.solve.count",
		metric.WithDescription("Number of expression evaluations"),
	); err != nil {
		return nil, err
	}

	if m.errors, err = meter.Int64Counter("rpn.solve.errors",
		metric.WithDescription("Number of evaluations without a result"),
	); err != nil {
		return nil, err
	}

	if m.tokens, err = meter.Int64Histogram("rpn.expr.tokens",
		metric.WithDescription("Tokens per evaluated expression"),
		metric.WithUnit("{token}"),
	); err != nil {
		return nil, err
	}

	if m.stores, err = meter.Int64Counter("rpn.store.count",
		metric.WithDescription("Number of variable bindings made by sto"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// NewGlobalMetrics returns a Metrics using the global OTel meter provider,
// falling back to NoopMetrics if the instruments cannot be created.
//
// Configure the provider before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewGlobalMetrics() Metrics {
	m, err := NewMetrics(otel.Meter(meterName))
	if err != nil {
		log.Printf("rpn: metrics initialization failed, using no-op recorder: %v", err)
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordSolve(tokens int, err error) {
	ctx := context.Background()
	m.solves.Add(ctx, 1, metric.WithAttributes(attribute.Bool("ok", err == nil)))
	m.tokens.Record(ctx, int64(tokens))
	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", ErrorKind(err))))
	}
}

func (m *otelMetrics) RecordStore() {
	m.stores.Add(context.Background(), 1)
}
