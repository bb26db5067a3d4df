package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRequestRecordsSpanAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	tel, err := New(reg, tp)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, req := tel.Start(context.Background(), "POST", "/checkout", "req-1")
	req.End(OutcomeSuccess, 200, nil)

	_, req = tel.Start(context.Background(), "POST", "/checkout", "req-2")
	req.End(OutcomeAPIError, 402, errors.New("declined"))

	if got := testutil.ToFloat64(tel.requests.WithLabelValues("POST", "/checkout", OutcomeSuccess)); got != 1 {
		t.Fatalf("success counter = %v", got)
	}
	if got := testutil.ToFloat64(tel.requests.WithLabelValues("POST", "/checkout", OutcomeAPIError)); got != 1 {
		t.Fatalf("api_error counter = %v", got)
	}
	if n := testutil.CollectAndCount(tel.duration); n != 1 {
		t.Fatalf("expected one histogram series, got %d", n)
	}

	ended := spans.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(ended))
	}
	if ended[0].Name() != "walley POST /checkout" || ended[0].Status().Code != codes.Ok {
		t.Fatalf("unexpected first span %q %v", ended[0].Name(), ended[0].Status())
	}
	if ended[1].Status().Code != codes.Error {
		t.Fatalf("failed request span must carry error status")
	}
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg, nil)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := New(reg, nil)
	if err != nil {
		t.Fatalf("second client on same registry: %v", err)
	}
	if first.requests != second.requests {
		t.Fatalf("expected shared counter vector")
	}
}

func TestNilTelemetryIsNoop(t *testing.T) {
	var tel *Telemetry
	ctx := context.Background()
	got, req := tel.Start(ctx, "POST", "/checkout", "id")
	if got != ctx || req != nil {
		t.Fatalf("nil telemetry must pass context through")
	}
	req.End(OutcomeTransport, 0, errors.New("boom"))
}

func TestMetricsDisabledWithoutRegisterer(t *testing.T) {
	tel, err := New(nil, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, req := tel.Start(context.Background(), "POST", "/checkout", "id")
	req.End(OutcomeSuccess, 200, nil)
	if tel.requests != nil || tel.duration != nil {
		t.Fatalf("metrics must stay disabled")
	}
}
