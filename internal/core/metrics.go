// AngelaMos | 2026
// metrics.go

package core

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DomainEvents counts marketplace state changes by entity and event, for
// example ("listing", "approve") or ("interest", "completed").
var DomainEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "ewastex",
		Name:      "domain_events_total",
		Help:      "Marketplace state transitions by entity and event",
	},
	[]string{"entity", "event"},
)

func init() {
	prometheus.MustRegister(DomainEvents)
}

func RecordEvent(entity, event string) {
	DomainEvents.WithLabelValues(entity, event).Inc()
}
