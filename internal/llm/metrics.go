package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// requestDuration tracks dialogue model latency per operation. These calls
// dominate end-to-end submission time, so they get their own histogram.
var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "parley",
		Subsystem: "llm",
		Name:      "request_duration_seconds",
		Help:      "Duration of dialogue model requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
