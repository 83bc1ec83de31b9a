package quota

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotaguard",
			Subsystem: "quota",
			Name:      "checks_total",
			Help:      "Quota check decisions by resource and result.",
		},
		[]string{"resource", "result"},
	)

	deductedUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotaguard",
			Subsystem: "quota",
			Name:      "deducted_units_total",
			Help:      "Units of usage recorded per resource.",
		},
		[]string{"resource"},
	)

	storeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quotaguard",
			Subsystem: "quota",
			Name:      "store_failures_total",
			Help:      "Counter store failures absorbed by the engine.",
		},
		[]string{"op"},
	)
)
