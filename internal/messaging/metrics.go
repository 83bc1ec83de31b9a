package messaging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotaguard",
			Subsystem: "messaging",
			Name:      "published_total",
			Help:      "Published events by topic and outcome.",
		},
		[]string{"topic", "result"},
	)

	consumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotaguard",
			Subsystem: "messaging",
			Name:      "consumed_total",
			Help:      "Consumed events by topic and outcome.",
		},
		[]string{"topic", "result"},
	)
)
