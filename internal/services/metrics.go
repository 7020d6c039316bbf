package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brayn_generations_total",
			Help: "Generations persisted after a successful provider call",
		},
		[]string{"type"},
	)

	providerFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brayn_provider_failures_total",
			Help: "Failed calls to external providers",
		},
		[]string{"provider"},
	)

	likeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brayn_like_toggles_total",
			Help: "Community like toggles by direction",
		},
		[]string{"direction"},
	)

	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brayn_payments_total",
			Help: "Payment operations by outcome",
		},
		[]string{"outcome"},
	)
)
