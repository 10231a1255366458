package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	quotationsCreated prometheus.Counter
	linesDropped      prometheus.Counter
	repliesRecorded   prometheus.Counter
	mailsEnqueued     prometheus.Counter
}

// NewMetrics initializes the registry and base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cotizador_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cotizador_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	quotationsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cotizador_quotations_created_total",
		Help: "Quotations created, staff and guest combined.",
	})
	linesDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cotizador_quotation_lines_dropped_total",
		Help: "Line requests dropped during batch merge (invalid or inactive catalog references).",
	})
	repliesRecorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cotizador_quotation_replies_total",
		Help: "Staff replies recorded on quotations.",
	})
	mailsEnqueued := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cotizador_quotation_mails_enqueued_total",
		Help: "Quotation emails handed to the delivery queue.",
	})
	registry.MustRegister(requests, duration, quotationsCreated, linesDropped, repliesRecorded, mailsEnqueued)
	return &Metrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:     requests,
		requestDuration:   duration,
		quotationsCreated: quotationsCreated,
		linesDropped:      linesDropped,
		repliesRecorded:   repliesRecorded,
		mailsEnqueued:     mailsEnqueued,
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

// Middleware records metrics for each HTTP request.
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

// QuotationCreated increments the created-quotations counter.
func (m *Metrics) QuotationCreated() {
	if m != nil {
		m.quotationsCreated.Inc()
	}
}

// LinesDropped adds dropped line requests to the silent-drop counter.
func (m *Metrics) LinesDropped(n int) {
	if m != nil && n > 0 {
		m.linesDropped.Add(float64(n))
	}
}

// ReplyRecorded increments the reply counter.
func (m *Metrics) ReplyRecorded() {
	if m != nil {
		m.repliesRecorded.Inc()
	}
}

// MailEnqueued increments the enqueued-mail counter.
func (m *Metrics) MailEnqueued() {
	if m != nil {
		m.mailsEnqueued.Inc()
	}
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
