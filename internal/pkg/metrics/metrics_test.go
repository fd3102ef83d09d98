package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gathered returns the value of the sample of family name whose labels
// match labels exactly.
func gathered(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			if len(got) != len(labels) {
				continue
			}
			match := true
			for k, v := range labels {
				if got[k] != v {
					match = false
				}
			}
			if !match {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	t.Fatalf("metric %s %v not found", name, labels)
	return 0
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, false)

	m.ClockIn("Late")
	m.ClockIn("Late")
	m.ClockIn("Present")
	m.ClockInRejected("holiday")
	m.ClockOut("Half Day", 5)
	m.SetStaleOpenSessions(3)

	assert.Equal(t, 2.0, gathered(t, reg, "hris_attendance_clock_ins_total", map[string]string{"status": "Late"}))
	assert.Equal(t, 1.0, gathered(t, reg, "hris_attendance_clock_ins_total", map[string]string{"status": "Present"}))
	assert.Equal(t, 1.0, gathered(t, reg, "hris_attendance_clock_in_rejections_total", map[string]string{"reason": "holiday"}))
	assert.Equal(t, 1.0, gathered(t, reg, "hris_attendance_clock_outs_total", map[string]string{"status": "Half Day"}))
	assert.Equal(t, 1.0, gathered(t, reg, "hris_attendance_worked_hours", map[string]string{}))
	assert.Equal(t, 3.0, gathered(t, reg, "hris_attendance_stale_open_sessions", map[string]string{}))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ClockIn("Present")
		m.ClockInRejected("duplicate")
		m.ClockOut("Present", 8)
		m.SetStaleOpenSessions(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(prometheus.NewRegistry(), false)
	m.ClockIn("Present")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hris_attendance_clock_ins_total{status="Present"} 1`)
}
