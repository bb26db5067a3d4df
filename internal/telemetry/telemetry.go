package telemetry

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/stremovskyy/go-walley"

// Outcome labels.
const (
	OutcomeSuccess   = "success"
	OutcomeAPIError  = "api_error"
	OutcomeHTTPError = "http_error"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed_request"
	OutcomeUnknown   = "unknown"
)

// Telemetry records one span and one metric sample per API request.
// A nil *Telemetry is valid and records nothing.
type Telemetry struct {
	tracer   trace.Tracer
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New builds request instrumentation. A nil registerer disables metrics and a
// nil tracer provider falls back to the global one.
func New(reg prometheus.Registerer, tp trace.TracerProvider) (*Telemetry, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	t := &Telemetry{tracer: tp.Tracer(instrumentationName)}
	if reg == nil {
		return t, nil
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walley",
		Subsystem: "checkout",
		Name:      "requests_total",
		Help:      "Checkout API requests by method, path and outcome.",
	}, []string{"method", "path", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "walley",
		Subsystem: "checkout",
		Name:      "request_duration_seconds",
		Help:      "Checkout API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	var err error
	if t.requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if t.duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return t, nil
}

// register reuses an identical collector already registered by another client.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// Request is an in-flight instrumented request.
type Request struct {
	t      *Telemetry
	span   trace.Span
	method string
	path   string
	start  time.Time
}

// Start opens a client span for method and path.
func (t *Telemetry) Start(ctx context.Context, method, path, requestID string) (context.Context, *Request) {
	if t == nil {
		return ctx, nil
	}
	ctx, span := t.tracer.Start(ctx, "walley "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("walley.request_id", requestID),
		),
	)
	return ctx, &Request{t: t, span: span, method: method, path: path, start: time.Now()}
}

// End closes the span and records the outcome. status is 0 when no response
// was received.
func (r *Request) End(outcome string, status int, err error) {
	if r == nil {
		return
	}
	if status > 0 {
		r.span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	r.span.SetAttributes(attribute.String("walley.outcome", outcome))
	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
	} else {
		r.span.SetStatus(codes.Ok, "")
	}
	r.span.End()

	if r.t.requests != nil {
		r.t.requests.WithLabelValues(r.method, r.path, outcome).Inc()
	}
	if r.t.duration != nil {
		r.t.duration.WithLabelValues(r.method, r.path).Observe(time.Since(r.start).Seconds())
	}
}

// StatusLabel formats an HTTP status for log lines.
func StatusLabel(status int) string {
	if status <= 0 {
		return "none"
	}
	return strconv.Itoa(status)
}
