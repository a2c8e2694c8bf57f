package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelarchitect/internal/history"
)

func TestMetrics_Generations(t *testing.T) {
	m := New()
	m.ObserveGeneration(OutcomeSuccess, 2*time.Second)
	m.ObserveGeneration(OutcomeSuccess, time.Second)
	m.ObserveGeneration("transport", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generationsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationsTotal.WithLabelValues("transport")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.generationDuration))
}

func TestMetrics_DiagnosticsSink(t *testing.T) {
	m := New()
	var sink history.DiagnosticsSink = m

	sink.ReportAppend(history.AppendOutcome{EntryID: "a"})
	sink.ReportAppend(history.AppendOutcome{Err: errors.New("down")})
	sink.ReportDelete(history.DeleteOutcome{EntryID: "a", Err: errors.New("down")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.appendsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.appendsTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deletesTotal.WithLabelValues("failure")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.SetActiveSessions(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "reelarchitect_active_sessions 4")
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
