package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the service's Prometheus metrics.
type MetricsManager struct {
	Registry             *prometheus.Registry
	UploadsTotal         prometheus.Counter
	UploadFailuresTotal  prometheus.Counter
	MediaDeletesTotal    *prometheus.CounterVec
	ListingsCreatedTotal prometheus.Counter
	ListingsDeletedTotal prometheus.Counter
	SearchesTotal        prometheus.Counter
	RequestLatency       *prometheus.HistogramVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		UploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_uploads_total",
			Help:      "Images uploaded into a working set.",
		}),
		UploadFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_upload_failures_total",
			Help:      "Images that failed to upload or resolve.",
		}),
		MediaDeletesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_deletes_total",
			Help:      "Pending image deletions by outcome.",
		}, []string{"outcome"}),
		ListingsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_created_total",
			Help:      "Listings written to the store.",
		}),
		ListingsDeletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_deleted_total",
			Help:      "Listings removed by their owner.",
		}),
		SearchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_searches_total",
			Help:      "Prefix searches over listing names.",
		}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		m.UploadsTotal,
		m.UploadFailuresTotal,
		m.MediaDeletesTotal,
		m.ListingsCreatedTotal,
		m.ListingsDeletedTotal,
		m.SearchesTotal,
		m.RequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// The helpers below accept a nil manager so callers can run without metrics.

func (m *MetricsManager) UploadSucceeded() {
	if m != nil {
		m.UploadsTotal.Inc()
	}
}

func (m *MetricsManager) UploadFailed() {
	if m != nil {
		m.UploadFailuresTotal.Inc()
	}
}

func (m *MetricsManager) MediaDeleted(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.MediaDeletesTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsManager) ListingCreated() {
	if m != nil {
		m.ListingsCreatedTotal.Inc()
	}
}

func (m *MetricsManager) ListingDeleted() {
	if m != nil {
		m.ListingsDeletedTotal.Inc()
	}
}

func (m *MetricsManager) Searched() {
	if m != nil {
		m.SearchesTotal.Inc()
	}
}
