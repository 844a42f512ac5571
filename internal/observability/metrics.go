package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the alert service.
type Metrics struct {
	ChecksTotal         prometheus.Counter
	AlertsSent          prometheus.Counter
	ProviderErrors      prometheus.Counter
	MailErrors          prometheus.Counter
	StoreErrors         prometheus.Counter
	NotificationQueries prometheus.Counter

	ProviderDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ChecksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_alert",
			Name:      "checks_total",
			Help:      "Total weather check requests processed.",
		}),
		AlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_alert",
			Name:      "alerts_sent_total",
			Help:      "Total adverse-weather alert emails sent.",
		}),
		ProviderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_alert",
			Name:      "provider_errors_total",
			Help:      "Total weather provider failures.",
		}),
		MailErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_alert",
			Name:      "mail_errors_total",
			Help:      "Total SMTP delivery failures.",
		}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_alert",
			Name:      "store_errors_total",
			Help:      "Total notification store failures.",
		}),
		NotificationQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_alert",
			Name:      "notification_queries_total",
			Help:      "Total notification history queries.",
		}),
		ProviderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_alert",
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of weather provider requests.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
	}

	prometheus.MustRegister(
		m.ChecksTotal,
		m.AlertsSent,
		m.ProviderErrors,
		m.MailErrors,
		m.StoreErrors,
		m.NotificationQueries,
		m.ProviderDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ChecksTotal:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_alert", Name: "checks_total"}),
		AlertsSent:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_alert", Name: "alerts_sent_total"}),
		ProviderErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_alert", Name: "provider_errors_total"}),
		MailErrors:          prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_alert", Name: "mail_errors_total"}),
		StoreErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_alert", Name: "store_errors_total"}),
		NotificationQueries: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_alert", Name: "notification_queries_total"}),
		ProviderDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_alert", Name: "provider_request_duration_seconds"}),
	}
}
