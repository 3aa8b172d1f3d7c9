package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.IncUploadAccepted()
	m.IncUploadRejected("unsupported_media_type")
	m.IncAlertDispatched("medical-equipment-alert", true)
	m.IncAlertDispatched("medical-equipment-alert", false)
	m.IncDeliveryFailed("medical-equipment-alert")
	m.ObserveDispatchDuration("medical-equipment-alert", 120*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	wantSeries := []string{
		"medpredict_alerts_uploads_accepted_total 1",
		`medpredict_alerts_uploads_rejected_total{reason="unsupported_media_type"} 1`,
		`medpredict_alerts_alerts_dispatched_total{outcome="success",workflow="medical-equipment-alert"} 1`,
		`medpredict_alerts_alerts_dispatched_total{outcome="partial_failure",workflow="medical-equipment-alert"} 1`,
		`medpredict_alerts_deliveries_failed_total{workflow="medical-equipment-alert"} 1`,
	}
	for _, want := range wantSeries {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.IncUploadAccepted()
	m.IncUploadRejected("x")
	m.IncAlertDispatched("w", true)
	m.IncDeliveryFailed("w")
	m.ObserveDispatchDuration("w", time.Second)
}
