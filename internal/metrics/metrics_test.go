package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveGeneration(t *testing.T) {
	before := testutil.ToFloat64(Generations.WithLabelValues(OutcomeFallback))

	ObserveGeneration(OutcomeFallback, 2*time.Second)

	assert.Equal(t, before+1, testutil.ToFloat64(Generations.WithLabelValues(OutcomeFallback)))
}

func TestHandlerExposesCounters(t *testing.T) {
	IncHTTPRequest("/api/strategy", http.StatusOK)
	IncInFlightRejection()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `spark_http_requests_total{route="/api/strategy",status="200"}`)
	assert.Contains(t, rec.Body.String(), "spark_in_flight_rejections_total")
}
