package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestNewMeterProvider_Enabled(t *testing.T) {
	// the gRPC exporter connects lazily, so no collector is needed
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:4317",
		ServiceName:       "storefront-test",
		Insecure:          true,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, mp.IsEnabled())

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	_ = mp.Shutdown(ctx)
}

func TestHelpers_WithNoopMeter(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")

	c, err := NewCounter(meter, "test.counter", "a counter", "1")
	require.NoError(t, err)
	c.Inc(context.Background())

	h, err := NewHistogram(meter, HistogramOpts{Name: "test.histogram", Unit: "s", Boundaries: DurationBuckets})
	require.NoError(t, err)
	h.RecordDuration(context.Background(), 0)
}
