package optimistic

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/windrosehq/windrose-go/internal/telemetry"
)

const meterScopeName = "github.com/windrosehq/windrose-go/optimistic"

// runnerMetrics holds the wr.mutation.* instruments, labeled with the
// mutation name. No-ops when telemetry is disabled.
type runnerMetrics struct {
	applies   metric.Int64Counter
	successes metric.Int64Counter
	failures  metric.Int64Counter
	dur       metric.Float64Histogram
}

func newRunnerMetrics() *runnerMetrics {
	m := telemetry.Meter(meterScopeName)
	applies, _ := m.Int64Counter("wr.mutation.applies",
		metric.WithDescription("Speculative writes applied to the cache"),
	)
	successes, _ := m.Int64Counter("wr.mutation.successes",
		metric.WithDescription("Mutations settled with a successful remote call"),
	)
	failures, _ := m.Int64Counter("wr.mutation.failures",
		metric.WithDescription("Mutations rolled back after a failed remote call"),
	)
	dur, _ := m.Float64Histogram("wr.mutation.duration",
		metric.WithDescription("Mutation time from speculation to settle in milliseconds"),
		metric.WithUnit("ms"),
	)
	return &runnerMetrics{
		applies:   applies,
		successes: successes,
		failures:  failures,
		dur:       dur,
	}
}

func (m *runnerMetrics) applied(ctx context.Context, name string) {
	m.applies.Add(ctx, 1, metric.WithAttributes(attribute.String("wr.mutation", name)))
}

func (m *runnerMetrics) settled(ctx context.Context, name string, ok bool, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("wr.mutation", name))
	if ok {
		m.successes.Add(ctx, 1, attrs)
	} else {
		m.failures.Add(ctx, 1, attrs)
	}
	m.dur.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}
