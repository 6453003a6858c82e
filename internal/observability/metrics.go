package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogify_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// AuthEvents counts credential lifecycle outcomes (signup, login, verify, reset).
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogify_auth_events_total",
		Help: "Authentication events by type and outcome",
	}, []string{"event", "outcome"})

	// LikeToggles counts like and unlike operations.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogify_like_toggles_total",
		Help: "Like toggles by resulting state",
	}, []string{"state"})

	// CommentsCreated counts created comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blogify_comments_created_total",
		Help: "Total number of comments created",
	})

	// MailDeliveries counts outbound mail by template and outcome.
	MailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogify_mail_deliveries_total",
		Help: "Outbound mail deliveries by template and outcome",
	}, []string{"template", "outcome"})

	// UploadBytes records accepted upload sizes.
	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "blogify_upload_bytes",
		Help:    "Size of accepted image uploads in bytes",
		Buckets: prometheus.ExponentialBuckets(16<<10, 2, 8),
	})
)

// RecordAuthEvent increments the auth event counter.
func RecordAuthEvent(event string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	AuthEvents.WithLabelValues(event, outcome).Inc()
}
