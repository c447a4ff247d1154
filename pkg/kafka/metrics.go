package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	// publishedMessages counts writes per topic, split by result.
	publishedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_producer_messages_total",
		Help: "Kafka messages written by the producer, by topic and result.",
	}, []string{"topic", "result"})

	publishLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafka_producer_write_seconds",
		Help:    "Latency of Kafka WriteMessages calls.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"topic"})
)

func observePublish(topic string, seconds float64, err error) {
	publishLatency.WithLabelValues(topic).Observe(seconds)
	result := resultOK
	if err != nil {
		result = resultError
	}
	publishedMessages.WithLabelValues(topic, result).Inc()
}
