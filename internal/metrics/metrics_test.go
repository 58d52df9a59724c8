package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{404, "4xx"},
		{429, "4xx"},
		{500, "5xx"},
		{100, "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, classifyStatus(tt.code))
	}
}

func TestHandler_ExposesRecordedMetrics(t *testing.T) {
	RecordSourceSearch("metrics_test_source", OutcomeTimeout, 150*time.Millisecond)
	RecordWatchCheck(WatchTriggered)
	RecordCacheLookup(true)
	RecordRequest(http.MethodGet, "/api/v1/search", http.StatusOK, 20*time.Millisecond)

	body := scrape(t)

	assert.Contains(t, body, `ucuzbot_source_searches_total{outcome="timeout",source="metrics_test_source"} 1`)
	assert.Contains(t, body, `ucuzbot_source_search_duration_seconds_count{source="metrics_test_source"} 1`)
	assert.Contains(t, body, `ucuzbot_watch_checks_total{outcome="triggered"}`)
	assert.Contains(t, body, `ucuzbot_search_cache_lookups_total{result="hit"}`)
	assert.Contains(t, body, `ucuzbot_http_requests_total{method="GET",route="/api/v1/search",status="2xx"}`)
}
