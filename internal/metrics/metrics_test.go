package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.Request("stream", http.StatusPartialContent)
	m.Request("stream", http.StatusPartialContent)
	m.StreamedBytes("video/mp4", 1000)
	m.StreamedBytes("video/mp4", 0)
	m.RangeError("malformed")

	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("stream", "206")))
	require.Equal(t, 1000.0, testutil.ToFloat64(m.streamed.WithLabelValues("video/mp4")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rangeErrors.WithLabelValues("malformed")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `portal_streamed_bytes_total{content_type="video/mp4"} 1000`)
}
