package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	CommitResultCommitted = "committed"
	CommitResultDuplicate = "duplicate"
	CommitResultConflict  = "conflict"
	CommitResultRejected  = "rejected"
	CommitResultError     = "error"
)

var (
	AvailabilityChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resort_availability_checks_total",
		Help: "The total number of availability checks by outcome",
	}, []string{"available"})

	BookingCommits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resort_booking_commits_total",
		Help: "The total number of booking commit attempts by result",
	}, []string{"result"})

	OutboxPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resort_outbox_events_published_total",
		Help: "The total number of booking events published to Kafka",
	})

	OutboxPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resort_outbox_publish_errors_total",
		Help: "The total number of failed booking event publish attempts",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
