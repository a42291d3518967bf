package rest

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	scoreRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_requests_total",
			Help: "Total scoring requests by outcome",
		},
		[]string{"outcome"},
	)
	highRiskScores = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scoring_high_risk_total",
			Help: "Total requests scored as high risk",
		},
	)
)

func init() {
	prometheus.MustRegister(scoreRequests)
	prometheus.MustRegister(highRiskScores)
}
