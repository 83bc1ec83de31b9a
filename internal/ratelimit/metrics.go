package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var checksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "quotaguard",
		Subsystem: "ratelimit",
		Name:      "checks_total",
		Help:      "Rate limit checks by prefix and outcome.",
	},
	[]string{"prefix", "result"},
)
