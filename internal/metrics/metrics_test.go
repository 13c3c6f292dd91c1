package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Callback(CallbackSettled)
	m.Callback(CallbackReplay)
	m.Callback(CallbackReplay)
	m.PointsCredited(10)
	m.Vote("ok", 4)
	m.Vote("insufficient_points", 0)
	m.HistoriesExpired(3)
	m.HistoriesExpired(0)

	require.Equal(t, 1.0, promtest.ToFloat64(m.callbacks.WithLabelValues(CallbackSettled)))
	require.Equal(t, 2.0, promtest.ToFloat64(m.callbacks.WithLabelValues(CallbackReplay)))
	require.Equal(t, 10.0, promtest.ToFloat64(m.pointsCredited))
	require.Equal(t, 4.0, promtest.ToFloat64(m.pointsSpent))
	require.Equal(t, 1.0, promtest.ToFloat64(m.votes.WithLabelValues("insufficient_points")))
	require.Equal(t, 3.0, promtest.ToFloat64(m.historyExpiries))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Callback(CallbackSettled)
		m.Purchase("ok")
		m.Vote("ok", 1)
		m.PointsCredited(1)
		m.HistoriesExpired(1)
	})
}
