package event

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_events_enqueued_total",
			Help: "Events accepted by the outbound queue",
		},
		[]string{"event_type"},
	)

	eventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_events_dropped_total",
			Help: "Events dropped because the queue was full or closed",
		},
		[]string{"event_type"},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_events_published_total",
			Help: "Events delivered to the broker",
		},
		[]string{"event_type"},
	)

	eventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_events_publish_failures_total",
			Help: "Events whose publish returned an error",
		},
		[]string{"event_type"},
	)

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "user_events_queue_depth",
		Help: "Events waiting in the outbound queue",
	})
)
