package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CollectionWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docforge", Name: "collection_writes_total", Help: "Number of whole-collection blob writes by collection key."},
		[]string{"collection"},
	)
	QuotaRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docforge", Name: "store_quota_rejected_total", Help: "Number of writes rejected by store capacity, by collection key."},
		[]string{"collection"},
	)
	CorruptionResets = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docforge", Name: "collection_corruption_resets_total", Help: "Number of times an unparseable collection blob was cleared."},
		[]string{"collection"},
	)
	Searches = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docforge", Name: "document_searches_total", Help: "Number of relevance queries served."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docforge", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docforge", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(CollectionWrites)
	reg.MustRegister(QuotaRejected)
	reg.MustRegister(CorruptionResets)
	reg.MustRegister(Searches)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
