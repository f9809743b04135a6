package telemetry

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const transportScopeName = "github.com/windrosehq/windrose-go/api"

// InstrumentedTransport wraps an http.RoundTripper with OTel tracing and
// metrics. Every request gets a span and is counted in wr.api.* metrics.
// Use WrapTransport to create one; it returns the original transport
// unchanged when telemetry is disabled.
type InstrumentedTransport struct {
	inner  http.RoundTripper
	tracer trace.Tracer
	reqs   metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
}

// WrapTransport returns rt decorated with OTel instrumentation.
// When telemetry is disabled, rt is returned as-is with zero overhead.
func WrapTransport(rt http.RoundTripper) http.RoundTripper {
	if !Enabled() {
		return rt
	}
	if rt == nil {
		rt = http.DefaultTransport
	}
	m := Meter(transportScopeName)
	reqs, _ := m.Int64Counter("wr.api.requests",
		metric.WithDescription("Total API requests issued"),
	)
	dur, _ := m.Float64Histogram("wr.api.request.duration",
		metric.WithDescription("API request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("wr.api.errors",
		metric.WithDescription("Total API transport and HTTP-status errors"),
	)
	return &InstrumentedTransport{
		inner:  rt,
		tracer: Tracer(transportScopeName),
		reqs:   reqs,
		dur:    dur,
		errs:   errs,
	}
}

func (t *InstrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path),
	}
	ctx, span := t.tracer.Start(req.Context(), req.Method+" "+req.URL.Path,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	t.reqs.Add(ctx, 1, metric.WithAttributes(attrs...))
	start := time.Now()

	resp, err := t.inner.RoundTrip(req.WithContext(ctx))

	ms := float64(time.Since(start).Milliseconds())
	t.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	case resp.StatusCode >= 400:
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		span.SetStatus(codes.Error, resp.Status)
		t.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	default:
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	}
	span.End()
	return resp, err
}
