package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipechain/internal/session"
)

func TestRecordReload(t *testing.T) {
	c := NewCollector("test")

	c.RecordReload(nil, map[string]int{"recipes": 4})
	c.RecordReload(errors.New("boom"), nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.DatasetReloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DatasetReloads.WithLabelValues("error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.DatasetRecords.WithLabelValues("recipes")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	c := NewCollector("test")
	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/api/views/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/views/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/views/{id}", "404")))
}

func TestWatchers(t *testing.T) {
	c := NewCollector("test")
	c.WatchClients(func() int { return 3 })
	c.WatchSession(func() session.Stats { return session.Stats{LayoutBuilds: 2, Ticks: 10} })

	families, err := c.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				values[f.GetName()] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[f.GetName()] = m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 3.0, values["test_sse_clients"])
	assert.Equal(t, 2.0, values["test_layout_builds_total"])
	assert.Equal(t, 10.0, values["test_simulation_ticks_total"])
}

func TestHandler(t *testing.T) {
	c := NewCollector("test")
	c.RecordReload(nil, map[string]int{"items": 1})
	rec := httptest.NewRecorder()

	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_dataset_reloads_total")
}
