package vobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are prometheus collectors updated by a [Vector].
// A nil *Metrics disables collection.
type Metrics struct {
	DiffsBroadcast prometheus.Counter
	SubscriberLags prometheus.Counter
	Subscribers    prometheus.Gauge
}

// NewMetrics creates the vector collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DiffsBroadcast: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diffs_broadcast_total",
			Help:      "Number of diffs broadcast to subscribers of observable vectors.",
		}),
		SubscriberLags: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriber_lags_total",
			Help:      "Number of times a subscriber's backlog was collapsed into a reset.",
		}),
		Subscribers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers",
			Help:      "Number of live observable vector subscribers.",
		}),
	}
}

func (m *Metrics) broadcast() {
	if m != nil {
		m.DiffsBroadcast.Inc()
	}
}

func (m *Metrics) lag() {
	if m != nil {
		m.SubscriberLags.Inc()
	}
}

func (m *Metrics) subscribed() {
	if m != nil {
		m.Subscribers.Inc()
	}
}

func (m *Metrics) unsubscribed() {
	if m != nil {
		m.Subscribers.Dec()
	}
}
