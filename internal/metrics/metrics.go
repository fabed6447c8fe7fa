// Package metrics declares the Prometheus collectors the service exposes
// on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	PollsActive  prometheus.Gauge
	PollsCreated prometheus.Counter
	PollsClosed  prometheus.Counter
	ItemsAdded   prometheus.Counter
	VotesCast    prometheus.Counter

	Broadcasts         prometheus.Counter
	SnapshotsDelivered prometheus.Counter
}

func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		PollsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "polls_active",
			Help:      "Number of live poll actors.",
		}),
		PollsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_created_total",
			Help:      "Total number of polls created.",
		}),
		PollsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_closed_total",
			Help:      "Total number of polls torn down.",
		}),
		ItemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_added_total",
			Help:      "Total number of items submitted across all polls.",
		}),
		VotesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Total number of votes accepted across all polls.",
		}),
		Broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Total number of dirty-poll broadcast cycles.",
		}),
		SnapshotsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_delivered_total",
			Help:      "Total number of snapshots accepted by viewer channels.",
		}),
	}

	collectors := []prometheus.Collector{
		m.PollsActive,
		m.PollsCreated,
		m.PollsClosed,
		m.ItemsAdded,
		m.VotesCast,
		m.Broadcasts,
		m.SnapshotsDelivered,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
