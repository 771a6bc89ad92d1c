package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultCache   = "cache"
)

// MetricsManager holds the storefront's Prometheus collectors. A nil *MetricsManager is
// valid and records nothing.
type MetricsManager struct {
	Registry            *prometheus.Registry
	CartMutationsTotal  *prometheus.CounterVec
	CartPersistFailures prometheus.Counter
	CartItems           prometheus.Gauge
	CatalogFetchesTotal *prometheus.CounterVec
	CatalogProducts     prometheus.Gauge
	CheckoutsTotal      *prometheus.CounterVec
	HTTPRequestLatency  *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of cart mutations by operation.",
	}, []string{"op"})
	cartPersistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_persist_failures_total",
		Help:      "Total number of cart writes to the durable slot that failed.",
	})
	cartItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_items",
		Help:      "Current number of units in the cart.",
	})
	catalogFetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_fetches_total",
		Help:      "Total number of catalog loads by result.",
	}, []string{"result"})
	catalogProducts := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_products",
		Help:      "Number of products in the last loaded catalog.",
	})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkout hand-offs by result.",
	}, []string{"result"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	registry.MustRegister(
		cartMutations,
		cartPersistFailures,
		cartItems,
		catalogFetches,
		catalogProducts,
		checkouts,
		httpLatency,
		httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:            registry,
		CartMutationsTotal:  cartMutations,
		CartPersistFailures: cartPersistFailures,
		CartItems:           cartItems,
		CatalogFetchesTotal: catalogFetches,
		CatalogProducts:     catalogProducts,
		CheckoutsTotal:      checkouts,
		HTTPRequestLatency:  httpLatency,
		HTTPRequestsTotal:   httpRequests,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsManager) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *MetricsManager) CartMutation(op string, itemsCount int) {
	if m == nil {
		return
	}
	m.CartMutationsTotal.WithLabelValues(op).Inc()
	m.CartItems.Set(float64(itemsCount))
}

func (m *MetricsManager) CartPersistFailed() {
	if m == nil {
		return
	}
	m.CartPersistFailures.Inc()
}

func (m *MetricsManager) CatalogFetched(result string, products int) {
	if m == nil {
		return
	}
	m.CatalogFetchesTotal.WithLabelValues(result).Inc()
	if result != ResultFailure {
		m.CatalogProducts.Set(float64(products))
	}
}

func (m *MetricsManager) Checkout(result string) {
	if m == nil {
		return
	}
	m.CheckoutsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsManager) HTTPRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestLatency.WithLabelValues(method, route).Observe(seconds)
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}
