package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeasuredApp(t *testing.T) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(pm.Handler())
	return app, pm, reg
}

// durationSamples returns the histogram sample count for one method/path pair.
func durationSamples(t *testing.T, reg *prometheus.Registry, method, path string) uint64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range mfs {
		if mf.GetName() != "http_request_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["method"] == method && labels["path"] == path {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func TestPrometheusMiddleware_CountsByStatus(t *testing.T) {
	app, pm, _ := newMeasuredApp(t)
	app.Get("/documents", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Delete("/documents", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Post("/documents", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	})

	tests := []struct {
		method string
		status string
	}{
		{http.MethodGet, "200"},
		{http.MethodDelete, "204"},
		{http.MethodPost, "400"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			_, err := app.Test(httptest.NewRequest(tt.method, "/documents", nil))
			require.NoError(t, err)

			got := testutil.ToFloat64(pm.requestCount.WithLabelValues(tt.method, "/documents", tt.status))
			assert.Equal(t, float64(1), got)
		})
	}
}

func TestPrometheusMiddleware_SkipsMetricsAndEvents(t *testing.T) {
	app, _, reg := newMeasuredApp(t)
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/metrics", ok)
	app.Get("/api/v1/events", ok)

	for _, target := range []string{"/metrics", "/api/v1/events"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		assert.Empty(t, mf.GetMetric(), mf.GetName())
	}
}

func TestPrometheusMiddleware_RoutePatternLabels(t *testing.T) {
	app, pm, reg := newMeasuredApp(t)
	app.Get("/documents/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, id := range []string{"123", "456"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(pm.requestCount.WithLabelValues(http.MethodGet, "/documents/:id", "200")))
	assert.Equal(t, uint64(2), durationSamples(t, reg, http.MethodGet, "/documents/:id"))
	assert.Zero(t, durationSamples(t, reg, http.MethodGet, "/documents/123"))
}
