package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CommentOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "commentsvc", Name: "comment_operations_total", Help: "Number of comment operations by operation and outcome."},
		[]string{"op", "outcome"},
	)
	IdentityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "commentsvc", Name: "identity_checks_total", Help: "Number of identity verification calls by outcome."},
		[]string{"outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "commentsvc", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "commentsvc", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(CommentOps)
	reg.MustRegister(IdentityChecks)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
