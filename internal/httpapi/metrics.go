package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// submissions counts answer submissions by tagged outcome.
var submissions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "parley",
		Subsystem: "engine",
		Name:      "submissions_total",
		Help:      "Answer submissions by outcome.",
	},
	[]string{"outcome"},
)
