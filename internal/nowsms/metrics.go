package nowsms

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	outboundSendCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nowsms_channel",
			Name:      "outbound_send_total",
			Help:      "Total number of outbound send attempts, by outcome.",
		},
		[]string{"outcome"}, // "sent", "import_mode", "developer_mode", "rejected", "transport_error"
	)

	outboundSendDurationHist = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nowsms_channel",
			Name:      "outbound_send_duration_seconds",
			Help:      "Duration of outbound gateway requests.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
