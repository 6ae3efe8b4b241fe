// internal/common/observability/observability_test.go
package observability

import (
	"context"
	"testing"
	"time"

	"idea-scoring/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordJob(t *testing.T) {
	reader := metric.NewManualReader()
	obs, err := newWithProvider(metric.NewMeterProvider(metric.WithReader(reader)), "test")
	require.NoError(t, err)

	ctx := context.Background()
	obs.RecordJob(ctx, "assess-idea-maturity", "completed", 120*time.Millisecond)
	obs.RecordJob(ctx, "assess-idea-maturity", "failed", 10*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = true
		if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
			assert.Len(t, sum.DataPoints, 2)
		}
	}
	assert.True(t, names["jobs.processed"])
	assert.True(t, names["jobs.duration"])

	require.NoError(t, obs.Shutdown(ctx))
}

func TestRecordJob_NilSafe(t *testing.T) {
	var obs *Observability
	obs.RecordJob(context.Background(), "assess-idea-admission", "completed", time.Millisecond)
	assert.NoError(t, obs.Shutdown(context.Background()))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{Enabled: false}, "idea-scoring")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer())
}
