package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	usersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "useradmin",
			Name:      "users_created_total",
			Help:      "Users created through the creation service, by role.",
		},
		[]string{"role"},
	)
	seededUsersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "useradmin",
			Name:      "seeded_users_total",
			Help:      "Baseline users inserted by the seeder.",
		},
	)
)
