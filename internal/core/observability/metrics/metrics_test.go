package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ModeTransition("Waypoint", "Attack")
		m.PathRequest(PathCommitted)
		m.PathCache(1, 2)
		m.ShotFired()
		m.DamageDealt(10)
		m.TickDuration(time.Millisecond)
		m.Controllers(3)
	})
}

func TestCollectorsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ModeTransition("Waypoint", "Attack")
	m.ModeTransition("Waypoint", "Attack")
	m.PathRequest(PathKept)
	m.PathCache(3, 1)
	m.ShotFired()
	m.DamageDealt(20)
	m.DamageDealt(-1)
	m.Controllers(4)

	assert.Equal(t, 2.0, value(t, m.modeTransitions.WithLabelValues("Waypoint", "Attack")))
	assert.Equal(t, 1.0, value(t, m.pathRequests.WithLabelValues(PathKept)))
	assert.Equal(t, 3.0, value(t, m.pathCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, value(t, m.shotsFired))
	assert.Equal(t, 20.0, value(t, m.damageDealt))
	assert.Equal(t, 4.0, value(t, m.controllers))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)
}

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var pb dto.Metric
	require.NoError(t, c.Write(&pb))
	switch {
	case pb.Counter != nil:
		return pb.GetCounter().GetValue()
	case pb.Gauge != nil:
		return pb.GetGauge().GetValue()
	}
	t.Fatalf("unsupported metric %v", c.Desc())
	return 0
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
