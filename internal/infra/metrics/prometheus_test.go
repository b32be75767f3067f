package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveEntryAndTransition(t *testing.T) {
	m := New()

	m.ObserveEntry("verify", "ok")
	m.ObserveEntry("verify", "ok")
	m.ObserveEntry("verify", "token_consumed")
	m.ObserveTransition("active", "paused", "left_venue")

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.entryOutcomes.WithLabelValues("verify", "ok")), 0.0001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.entryOutcomes.WithLabelValues("verify", "token_consumed")), 0.0001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("active", "paused", "left_venue")), 0.0001)
}

func TestObserveStoreCall(t *testing.T) {
	m := New()

	m.ObserveStoreCall("consume_token", 1, 5*time.Millisecond, nil)
	m.ObserveStoreCall("consume_token", 3, 50*time.Millisecond, assert.AnError)

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.storeCalls.WithLabelValues("consume_token", "ok")), 0.0001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.storeCalls.WithLabelValues("consume_token", "error")), 0.0001)
}

func TestRequestStarted(t *testing.T) {
	m := New()

	done := m.RequestStarted(http.MethodPost, "/v1/entry/verify")
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.httpInFlight), 0.0001)

	done(http.StatusOK)
	assert.InDelta(t, 0.0, testutil.ToFloat64(m.httpInFlight), 0.0001)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodPost, "/v1/entry/verify", "200")), 0.0001)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveAuditFailure("entry_verify")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `venuegate_audit_write_failures_total{event_type="entry_verify"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
