// Package metrics agrupa los collectors Prometheus del POS y del ledger en un registry propio.
// Todos los métodos aceptan un receptor nil (métricas deshabilitadas).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collectors registrados.
type Metrics struct {
	registry *prometheus.Registry

	remoteRequests *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	collectionSize *prometheus.GaugeVec
	stockLevel     *prometheus.GaugeVec
}

// New crea el registry con el namespace dado (ej. "pos", "ledgerd").
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		remoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_requests_total",
			Help:      "Llamadas al servicio remoto del ledger por operación y resultado",
		}, []string{"op", "outcome"}),
		remoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ledger_request_duration_seconds",
			Help:      "Duración de las llamadas al ledger",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests HTTP atendidos",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de los requests HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		collectionSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_collection_items",
			Help:      "Registros cargados por colección",
		}, []string{"collection"}),
		stockLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_stock_units",
			Help:      "Stock restante por categoría (puede ser negativo)",
		}, []string{"category"}),
	}

	registry.MustRegister(
		m.remoteRequests, m.remoteDuration,
		m.httpRequests, m.httpDuration,
		m.collectionSize, m.stockLevel,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry expone el registry (tests y exportadores externos).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler handler net/http de /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRemote registra una llamada al ledger iniciada en start.
func (m *Metrics) ObserveRemote(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.remoteRequests.WithLabelValues(op, outcome).Inc()
	m.remoteDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ObserveHTTP registra un request atendido.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SetCollectionSize publica el tamaño de una colección del ledger.
func (m *Metrics) SetCollectionSize(collection string, n int) {
	if m == nil {
		return
	}
	m.collectionSize.WithLabelValues(collection).Set(float64(n))
}

// SetStock publica el stock restante de una categoría.
func (m *Metrics) SetStock(category string, remaining int) {
	if m == nil {
		return
	}
	m.stockLevel.WithLabelValues(category).Set(float64(remaining))
}
