package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetricsAndLogger_UseRoutePattern(t *testing.T) {
	m := metrics.NewMetricsManager("content-test")
	r := chi.NewRouter()
	r.Use(Logger(zap.NewNop()))
	r.Use(Metrics(m))
	r.Get("/api/articles/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/articles/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/articles/{id}", "GET", "418")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestsTotal))
}
