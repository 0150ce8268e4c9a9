package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Requests     *prometheus.CounterVec
	Uploads      *prometheus.CounterVec
	ModelLatency prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clipchat_requests_total",
			Help: "Conversation requests by mode and outcome.",
		}, []string{"mode", "status"}),
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clipchat_uploads_total",
			Help: "Video uploads by outcome.",
		}, []string{"status"}),
		ModelLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "clipchat_model_latency_seconds",
			Help:    "Wall time of external model calls.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}
}
