package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersCollectors(t *testing.T) {
	m := NewMetrics()

	m.RequestTotal.WithLabelValues("http", "ok").Inc()
	m.TransportSwaps.Inc()
	m.CleanupFailures.WithLabelValues("ws").Inc()

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["web3_request_total"])
	assert.True(t, names["web3_transport_swaps_total"])
	assert.True(t, names["web3_transport_cleanup_failures_total"])
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TransportSwaps))
}

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}
