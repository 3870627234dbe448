package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/ipiccardo/item-detail-ML-sub001/internal/domain/assistant"
)

// Assistant metric names
const (
	MetricAssistantFallbacks      = "storefront.assistant.fallbacks"
	MetricAssistantRemoteDuration = "storefront.assistant.remote.duration"
)

// AssistantMetrics records remote assistant outcomes. It implements
// assistant.Observer.
type AssistantMetrics struct {
	fallbacks      *Counter
	remoteDuration *Histogram
}

// NewAssistantMetrics creates the assistant instruments on meter
func NewAssistantMetrics(meter metric.Meter) (*AssistantMetrics, error) {
	fallbacks, err := NewCounter(meter,
		MetricAssistantFallbacks,
		"Chat replies produced by the local classifier instead of the remote assistant",
		"{reply}",
	)
	if err != nil {
		return nil, err
	}

	remoteDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        MetricAssistantRemoteDuration,
		Description: "Remote assistant call latency in seconds",
		Unit:        "s",
		Boundaries:  DurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &AssistantMetrics{fallbacks: fallbacks, remoteDuration: remoteDuration}, nil
}

// RemoteReplied implements assistant.Observer
func (m *AssistantMetrics) RemoteReplied(ctx context.Context, elapsed time.Duration) {
	m.remoteDuration.RecordDuration(ctx, elapsed, AttrOutcome.String("success"))
}

// FallbackUsed implements assistant.Observer. Disabled remotes make no call,
// so no latency is recorded for them.
func (m *AssistantMetrics) FallbackUsed(ctx context.Context, reason assistant.FallbackReason, elapsed time.Duration) {
	m.fallbacks.Inc(ctx, AttrFallbackReason.String(string(reason)))
	if reason != assistant.FallbackDisabled {
		m.remoteDuration.RecordDuration(ctx, elapsed, AttrOutcome.String(string(reason)))
	}
}

var _ assistant.Observer = (*AssistantMetrics)(nil)
