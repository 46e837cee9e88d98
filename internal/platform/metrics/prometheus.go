package metrics

import (
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/content-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the service's Prometheus collectors.
type MetricsManager struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestLatency  *prometheus.HistogramVec
	RetryAttemptsTotal  *prometheus.CounterVec
	FeedFallbacksTotal  *prometheus.CounterVec
	CacheLookupsTotal   *prometheus.CounterVec
	FeaturesMigrated    prometheus.Counter
	FeaturesRefreshed   prometheus.Counter
	IngestCreatedTotal  *prometheus.CounterVec
	ImageProxyResponses *prometheus.CounterVec
}

func NewMetricsManager(serviceName string) *MetricsManager {
	namespace := strings.ReplaceAll(serviceName, "-", "_")
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPRequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_latency_seconds",
			Help:      "Latency of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		RetryAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retry_attempts_total",
			Help:      "Failed attempts that were retried, by operation.",
		}, []string{"operation"}),
		FeedFallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_fallbacks_total",
			Help:      "Feed requests served from the latest-content fallback.",
		}, []string{"feed"}),
		CacheLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by result.",
		}, []string{"result"}),
		FeaturesMigrated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_migrated_total",
			Help:      "Documents whose feature keys were rewritten.",
		}),
		FeaturesRefreshed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_refreshed_total",
			Help:      "Documents whose flags were changed by the refresh job.",
		}),
		IngestCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_created_total",
			Help:      "Documents created by the ingest job, by source.",
		}, []string{"source"}),
		ImageProxyResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_proxy_responses_total",
			Help:      "Image proxy outcomes.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestLatency,
		m.RetryAttemptsTotal,
		m.FeedFallbacksTotal,
		m.CacheLookupsTotal,
		m.FeaturesMigrated,
		m.FeaturesRefreshed,
		m.IngestCreatedTotal,
		m.ImageProxyResponses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// StartMetricsServer blocks serving /metrics on port. An empty port disables it.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
