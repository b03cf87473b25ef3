// Package metrics expone contadores Prometheus de ventas, facturas e inventario.
// Todos los métodos aceptan un receptor nil (métricas deshabilitadas).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contadores y latencias del módulo de facturación.
type Metrics struct {
	// Transiciones de venta por acción (create, emit, cancel, delete)
	SaleTransitions *prometheus.CounterVec

	// Transiciones de factura por acción (create, emit, authorize, cancel)
	InvoiceTransitions *prometheus.CounterVec

	// Emisiones rechazadas por falta de stock
	StockRejections prometheus.Counter

	// Claves de acceso almacenadas que no superan la verificación
	IntegrityFailures prometheus.Counter

	// Duración de las operaciones transaccionales por operación
	OperationLatency *prometheus.HistogramVec
}

// New registra las métricas en reg (prometheus.DefaultRegisterer en producción).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SaleTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_sale_transitions_total",
			Help: "Total de transiciones de estado de ventas por acción",
		}, []string{"action"}),

		InvoiceTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "facturacion_invoice_transitions_total",
			Help: "Total de transiciones de estado de facturas por acción",
		}, []string{"action"}),

		StockRejections: f.NewCounter(prometheus.CounterOpts{
			Name: "facturacion_stock_rejections_total",
			Help: "Emisiones de venta rechazadas por stock insuficiente",
		}),

		IntegrityFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "facturacion_access_key_integrity_failures_total",
			Help: "Claves de acceso almacenadas con dígito verificador inválido",
		}),

		OperationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "facturacion_operation_duration_seconds",
			Help:    "Duración de las operaciones de venta y facturación",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
	}
}

// IncSale registra una transición de venta.
func (m *Metrics) IncSale(action string) {
	if m != nil {
		m.SaleTransitions.WithLabelValues(action).Inc()
	}
}

// IncInvoice registra una transición de factura.
func (m *Metrics) IncInvoice(action string) {
	if m != nil {
		m.InvoiceTransitions.WithLabelValues(action).Inc()
	}
}

// IncStockRejection registra una emisión rechazada por stock.
func (m *Metrics) IncStockRejection() {
	if m != nil {
		m.StockRejections.Inc()
	}
}

// IncIntegrityFailure registra una clave de acceso corrupta.
func (m *Metrics) IncIntegrityFailure() {
	if m != nil {
		m.IntegrityFailures.Inc()
	}
}

// ObserveOperation registra la duración de una operación desde start.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m != nil {
		m.OperationLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
