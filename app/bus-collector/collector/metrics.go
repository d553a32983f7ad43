package collector

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collector's prometheus instrumentation
type Metrics struct {
	registry *prometheus.Registry

	FetchFailures            prometheus.Counter
	StoreReconnects          prometheus.Counter
	PositionsStored          prometheus.Counter
	EntitiesDropped          prometheus.Counter
	ConsecutiveFetchFailures prometheus.Gauge
	CycleDuration            prometheus.Histogram
}

// NewMetrics builds and registers the collector metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "collector_fetch_failures_total",
			Help: "Total failed feed fetch attempts.",
		}),
		StoreReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "collector_store_reconnects_total",
			Help: "Total storage connection reacquisitions.",
		}),
		PositionsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "collector_positions_stored_total",
			Help: "Total vehicle position rows appended.",
		}),
		EntitiesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "collector_feed_entities_dropped_total",
			Help: "Total feed entities dropped for missing vehicle id or coordinates.",
		}),
		ConsecutiveFetchFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "collector_consecutive_fetch_failures",
			Help: "Current run of consecutive failed fetches.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "collector_cycle_duration_seconds",
			Help:    "Duration of a fetch-normalize-store cycle.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
	registry.MustRegister(
		m.FetchFailures,
		m.StoreReconnects,
		m.PositionsStored,
		m.EntitiesDropped,
		m.ConsecutiveFetchFailures,
		m.CycleDuration,
	)
	return m
}

// Serve exposes /metrics and /healthz on addr and returns the server so the
// caller can shut it down
func (m *Metrics) Serve(logger *log.Logger, addr string) *http.Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	server := &http.Server{Addr: addr, Handler: router}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("ops listener error: %v", err)
		}
	}()
	logger.Printf("ops listener on %s", addr)
	return server
}
