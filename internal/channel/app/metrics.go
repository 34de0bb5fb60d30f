package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	inboundProcessedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nowsms_channel",
			Name:      "inbound_processed_total",
			Help:      "Total number of inbound SMS callbacks processed, by terminal outcome.",
		},
		[]string{"outcome"}, // "rejected_content", "rejected_sender", "duplicate", "created", "updated", "error"
	)

	inboundProcessingDurationHist = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nowsms_channel",
			Name:      "inbound_processing_duration_seconds",
			Help:      "Duration of the inbound processing pipeline.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	identityResolutionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nowsms_channel",
			Name:      "identity_resolutions_total",
			Help:      "Total number of sender identity resolutions, by branch.",
		},
		[]string{"branch"}, // "mobile", "caller_id", "fallback"
	)
)
