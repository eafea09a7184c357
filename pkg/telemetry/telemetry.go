package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors for the session engine. Exposed on /metrics via
// promhttp in internal/app.
var (
	ConnectedParticipants = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sessionhub_connected_participants",
		Help: "Number of currently connected participants.",
	})

	ChatMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessionhub_chat_messages_total",
		Help: "Accepted chat messages, including system notices.",
	})

	ThreadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessionhub_qa_threads_total",
		Help: "Accepted Q&A threads, including facilitator prompts.",
	})

	RepliesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessionhub_qa_replies_total",
		Help: "Accepted Q&A replies, orphans included.",
	})

	ModerationRemovals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sessionhub_moderation_removals_total",
		Help: "Entries deleted by flag threshold or self-flag.",
	}, []string{"kind"})

	RejectedSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sessionhub_rejected_submissions_total",
		Help: "Submissions silently dropped, by reject reason.",
	}, []string{"reason"})

	ForcedDisconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessionhub_forced_disconnects_total",
		Help: "Connections terminated by the spam shield.",
	})

	FacilitatorPrompts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessionhub_facilitator_prompts_total",
		Help: "Automated prompts posted by the facilitator.",
	})
)
