package lexsite

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eringen/lexsite/listing"
)

// Metrics holds the site's Prometheus collectors. Each App owns its own
// registry so several apps can run in one process.
type Metrics struct {
	registry *prometheus.Registry

	// events counts listing and contact events by name.
	// Labels: name
	events *prometheus.CounterVec

	// contactSubmissions counts contact form outcomes.
	// Labels: result (sent, invalid, failed, limited)
	contactSubmissions *prometheus.CounterVec

	// listingMatches observes how many posts a category selection matched.
	listingMatches prometheus.Histogram
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexsite",
			Subsystem: "listing",
			Name:      "events_total",
			Help:      "Site events by name",
		}, []string{"name"}),
		contactSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexsite",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by result",
		}, []string{"result"}),
		listingMatches: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lexsite",
			Subsystem: "listing",
			Name:      "category_matches",
			Help:      "Posts matched by a category selection",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Sink wraps next so every tracked event is also counted. next may be nil.
func (m *Metrics) Sink(next listing.EventSink) listing.EventSink {
	return meteredSink{m: m, next: next}
}

type meteredSink struct {
	m    *Metrics
	next listing.EventSink
}

func (s meteredSink) Track(name string, params map[string]string) {
	s.m.events.WithLabelValues(name).Inc()
	if name == "category_select" {
		if n, err := strconv.Atoi(params["match_count"]); err == nil {
			s.m.listingMatches.Observe(float64(n))
		}
	}
	if s.next != nil {
		s.next.Track(name, params)
	}
}
