package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "haven"

// Collector holds the Prometheus metrics of the service. Each Collector owns
// its registry so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Events    *prometheus.CounterVec
	MealPlans *prometheus.CounterVec
	LLMTokens *prometheus.CounterVec
}

// NewCollector registers the service metrics plus the Go runtime collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_recorded_total",
				Help:      "Events appended to the event log",
			},
			[]string{"kind"},
		),
		MealPlans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mealplans_generated_total",
				Help:      "Meal plans generated",
			},
			[]string{"budget"},
		),
		LLMTokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_tokens_total",
				Help:      "Tokens consumed by language model calls",
			},
			[]string{"provider", "type"},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Events,
		c.MealPlans,
		c.LLMTokens,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// EventRecorded counts an event of kind.
func (c *Collector) EventRecorded(kind string) {
	c.Events.WithLabelValues(kind).Inc()
}

// MealPlanGenerated counts a meal plan for budget.
func (c *Collector) MealPlanGenerated(budget string) {
	c.MealPlans.WithLabelValues(budget).Inc()
}

// TokensUsed adds the prompt and completion tokens of one model call.
func (c *Collector) TokensUsed(provider string, prompt, completion int) {
	c.LLMTokens.WithLabelValues(provider, "prompt").Add(float64(prompt))
	c.LLMTokens.WithLabelValues(provider, "completion").Add(float64(completion))
}
