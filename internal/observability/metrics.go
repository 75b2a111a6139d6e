package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the API and worker.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	invoicesFinalized *prometheus.CounterVec
	numberFallbacks   prometheus.Counter
	pdfRenderDuration prometheus.Histogram
	reportsGenerated  *prometheus.CounterVec
}

// NewMetrics initialises the registry with HTTP and domain metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "challan_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "challan_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	finalized := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "challan_invoices_finalized_total",
		Help: "Challans that received a sequential invoice number, by trigger.",
	}, []string{"via"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "challan_invoice_number_fallback_total",
		Help: "Invoice numbers derived from the clock because the lookup failed.",
	})
	render := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "challan_pdf_render_duration_seconds",
		Help:    "Time spent laying out and writing invoice PDFs.",
		Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	})
	generated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "challan_monthly_reports_generated_total",
		Help: "Monthly workbooks built, by origin.",
	}, []string{"origin"})
	registry.MustRegister(requests, duration, finalized, fallbacks, render, generated)
	return &Metrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:     requests,
		requestDuration:   duration,
		invoicesFinalized: finalized,
		numberFallbacks:   fallbacks,
		pdfRenderDuration: render,
		reportsGenerated:  generated,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// InvoiceFinalized counts a draft→completed (or direct completed) numbering.
func (m *Metrics) InvoiceFinalized(via string) {
	if m == nil {
		return
	}
	m.invoicesFinalized.WithLabelValues(via).Inc()
}

// InvoiceNumberFallback counts clock-derived invoice numbers.
func (m *Metrics) InvoiceNumberFallback() {
	if m == nil {
		return
	}
	m.numberFallbacks.Inc()
}

// ObservePDFRender records how long one invoice render took.
func (m *Metrics) ObservePDFRender(d time.Duration) {
	if m == nil {
		return
	}
	m.pdfRenderDuration.Observe(d.Seconds())
}

// ReportGenerated counts monthly workbook builds.
func (m *Metrics) ReportGenerated(origin string) {
	if m == nil {
		return
	}
	m.reportsGenerated.WithLabelValues(origin).Inc()
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
