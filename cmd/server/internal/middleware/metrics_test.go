package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/roomz/cmd/server/internal/metrics"
)

func TestMetricsRecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.HTTPRequestsTotal.Reset()

	r := gin.New()
	r.Use(Metrics())
	r.GET("/rooms/:roomId/meetings", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/rooms/Room%201/meetings", "/rooms/Room%202/meetings", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	metric := &dto.Metric{}
	require.NoError(t, metrics.HTTPRequestsTotal.WithLabelValues("GET", "/rooms/:roomId/meetings", "200").Write(metric))
	assert.Equal(t, float64(2), metric.Counter.GetValue())

	metric = &dto.Metric{}
	require.NoError(t, metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404").Write(metric))
	assert.Equal(t, float64(1), metric.Counter.GetValue())
}
