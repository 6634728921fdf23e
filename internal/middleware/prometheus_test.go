package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"photoshare/internal/metrics"
)

func TestPrometheusMetrics(t *testing.T) {
	e := echo.New()
	e.Use(PrometheusMetrics)
	e.GET("/api/photos/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.NoContent(http.StatusOK)
	})

	ok := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/photos/:id", "200")
	notFound := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/photos/:id", "404")
	okBefore, notFoundBefore := testutil.ToFloat64(ok), testutil.ToFloat64(notFound)

	for _, id := range []string{"a", "b", "missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos/"+id, nil))
	}

	// путь берётся из шаблона маршрута, а не из URL
	assert.Equal(t, okBefore+2, testutil.ToFloat64(ok))
	assert.Equal(t, notFoundBefore+1, testutil.ToFloat64(notFound))
}
