package authz

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeAllow    = "allow"
	outcomeDeny     = "deny"
	outcomeNotFound = "not_found"
)

var decisions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "authz_decisions_total",
		Help: "Authorization decisions by capability and outcome",
	},
	[]string{"capability", "outcome"},
)

func init() {
	prometheus.MustRegister(decisions)
}

func recordDecision(cap Capability, outcome string) {
	decisions.WithLabelValues(string(cap), outcome).Inc()
}
