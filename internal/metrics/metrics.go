package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "finance_tracker"

// Recorder owns its own registry so several instances can coexist in tests.
type Recorder struct {
	registry           *prometheus.Registry
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	domainEvents       *prometheus.CounterVec
	transactionAmounts *prometheus.HistogramVec
	logins             *prometheus.CounterVec
	rateLimited        prometheus.Counter
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		domainEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "domain_events_total",
				Help:      "Domain events published on the event bus",
			},
			[]string{"type"},
		),
		transactionAmounts: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transaction_amount",
				Help:      "Amounts of created transactions",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
			},
			[]string{"kind"},
		),
		logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Successful logins by role",
			},
			[]string{"role"},
		),
		rateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the rate limiter",
			},
		),
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (r *Recorder) RateLimited() {
	r.rateLimited.Inc()
}

// Subscribe counts every domain event type the services publish.
func (r *Recorder) Subscribe(bus *events.EventBus) {
	for _, eventType := range []string{
		events.UserRegisteredEvent,
		events.UserLoggedInEvent,
		events.TransactionCreatedEvent,
		events.TransactionsResetEvent,
		events.ReportCreatedEvent,
		events.ReportStatusChangedEvent,
	} {
		bus.Subscribe(eventType, r.handleEvent)
	}
}

func (r *Recorder) handleEvent(_ context.Context, event events.Event) error {
	r.domainEvents.WithLabelValues(event.EventType()).Inc()

	data, _ := event.Payload().(map[string]interface{})
	switch event.EventType() {
	case events.TransactionCreatedEvent:
		kind, _ := data["kind"].(string)
		if amount, ok := data["amount"].(decimal.Decimal); ok {
			r.transactionAmounts.WithLabelValues(kind).Observe(amount.InexactFloat64())
		}
	case events.UserLoggedInEvent:
		role, _ := data["role"].(string)
		r.logins.WithLabelValues(role).Inc()
	}
	return nil
}
