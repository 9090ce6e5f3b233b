package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ObserveUpstream("GET", "/settlements", 200, 15*time.Millisecond)
	m.ObserveUpstream("GET", "/settlements", 200, 5*time.Millisecond)
	m.ObserveList("settlements", "load", "applied")
	m.SetWorkspaces(3)
	m.ObserveConsole("GET", "/dashboard", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("GET", "/settlements", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.listEvents.WithLabelValues("settlements", "load", "applied")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.workspaces))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.consoleRequests.WithLabelValues("GET", "/dashboard", "200")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveList("tax-invoices", "upload", "rejected")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `backoffice_list_events_total{op="upload",outcome="rejected",variant="tax-invoices"} 1`)
	assert.Contains(t, string(body), "backoffice_active_workspaces 0")
}
