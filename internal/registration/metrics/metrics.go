package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration module.
type Metrics struct {
	TeamsRegistered        prometheus.Counter
	TeamsDeleted           prometheus.Counter
	ApplicationTransitions *prometheus.CounterVec
	PaymentTransitions     *prometheus.CounterVec
}

// New creates a Metrics instance with all registration metrics registered.
func New() *Metrics {
	return &Metrics{
		TeamsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hackhub_teams_registered_total",
			Help: "Total number of teams registered",
		}),
		TeamsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hackhub_teams_deleted_total",
			Help: "Total number of teams deleted",
		}),
		ApplicationTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hackhub_application_transitions_total",
			Help: "Application status transitions by target status",
		}, []string{"to"}),
		PaymentTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hackhub_payment_transitions_total",
			Help: "Payment status transitions by target status",
		}, []string{"to"}),
	}
}
