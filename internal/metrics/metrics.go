// Package metrics provides Prometheus metrics for the feed relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FeedMetrics holds the Prometheus metrics for feed consumption and
// subscription bookkeeping. A nil *FeedMetrics is valid and records nothing,
// so callers that do not care about metrics can pass nil.
type FeedMetrics struct {
	LinesReceived   prometheus.Counter
	ParseFailures   prometheus.Counter
	FilteredOut     prometheus.Counter
	PayloadFailures prometheus.Counter
	EventsDelivered prometheus.Counter

	ActiveSubscriptions prometheus.Gauge
}

// NewFeedMetrics creates and registers relay metrics on the given registerer.
func NewFeedMetrics(reg prometheus.Registerer) *FeedMetrics {
	factory := promauto.With(reg)

	return &FeedMetrics{
		LinesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "txrelay",
			Name:      "feed_lines_received_total",
			Help:      "Total raw lines received from the upstream feed",
		}),
		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "txrelay",
			Name:      "feed_parse_failures_total",
			Help:      "Total feed lines rejected by the parser",
		}),
		FilteredOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "txrelay",
			Name:      "feed_filtered_total",
			Help:      "Total lines dropped by tag classification or prefix filter",
		}),
		PayloadFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "txrelay",
			Name:      "payload_failures_total",
			Help:      "Total matched lines skipped because payload extraction failed",
		}),
		EventsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "txrelay",
			Name:      "events_delivered_total",
			Help:      "Total events delivered to subscriber handlers",
		}),
		ActiveSubscriptions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "txrelay",
			Name:      "active_subscriptions",
			Help:      "Current number of live subscriptions",
		}),
	}
}

// IncReceived records one raw line received from the feed.
func (m *FeedMetrics) IncReceived() {
	if m == nil {
		return
	}
	m.LinesReceived.Inc()
}

// IncParseFailure records one line rejected by the parser.
func (m *FeedMetrics) IncParseFailure() {
	if m == nil {
		return
	}
	m.ParseFailures.Inc()
}

// IncFiltered records one line dropped by the tag or prefix filter.
func (m *FeedMetrics) IncFiltered() {
	if m == nil {
		return
	}
	m.FilteredOut.Inc()
}

// IncPayloadFailure records one matched line skipped on payload extraction.
func (m *FeedMetrics) IncPayloadFailure() {
	if m == nil {
		return
	}
	m.PayloadFailures.Inc()
}

// AddDelivered records n handler deliveries.
func (m *FeedMetrics) AddDelivered(n int) {
	if m == nil {
		return
	}
	m.EventsDelivered.Add(float64(n))
}

// SetActiveSubscriptions records the current live subscription count.
func (m *FeedMetrics) SetActiveSubscriptions(n int) {
	if m == nil {
		return
	}
	m.ActiveSubscriptions.Set(float64(n))
}
