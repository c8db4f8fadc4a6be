package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	intentCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymbro",
		Subsystem: "chat",
		Name:      "intents_total",
		Help:      "Classified chat messages by intent.",
	}, []string{"intent"})
	chatFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymbro",
		Subsystem: "chat",
		Name:      "failures_total",
		Help:      "Failed chat turns by error class.",
	}, []string{"class"})
	chatDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gymbro",
		Subsystem: "chat",
		Name:      "turn_duration_seconds",
		Help:      "End-to-end latency of a chat turn.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	}, []string{"intent", "status"})
	transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymbro",
		Subsystem: "pending_log",
		Name:      "transitions_total",
		Help:      "Pending-log workflow transitions by kind.",
	}, []string{"transition", "kind"})
	activitiesLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymbro",
		Subsystem: "events",
		Name:      "activity_logged_total",
		Help:      "ACTIVITY_LOGGED events consumed, by kind and forwarding result.",
	}, []string{"kind", "forwarded"})
)

func init() {
	prometheus.MustRegister(intentCounter, chatFailures, chatDuration, transitions, activitiesLogged)
}

func RecordIntent(intent string) {
	intentCounter.WithLabelValues(intent).Inc()
}

func RecordChatFailure(class string) {
	chatFailures.WithLabelValues(class).Inc()
}

// ObserveChatTurn records how long a turn took since start.
func ObserveChatTurn(intent, status string, start time.Time) {
	if intent == "" {
		intent = "unclassified"
	}
	chatDuration.WithLabelValues(intent, status).Observe(time.Since(start).Seconds())
}

func RecordTransition(transition, kind string) {
	transitions.WithLabelValues(transition, kind).Inc()
}

func RecordActivityLogged(kind string, forwarded bool) {
	label := "false"
	if forwarded {
		label = "true"
	}
	activitiesLogged.WithLabelValues(kind, label).Inc()
}
