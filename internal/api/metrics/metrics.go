// Package metrics defines and registers all custom Prometheus metrics for
// the classroom API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "classroom"

// ── Tutor metrics ─────────────────────────────────────────────────────────────

// QuestionsAskedTotal counts student questions that completed the ask flow
// (gateway call plus history append).
var QuestionsAskedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "questions_asked_total",
		Help:      "Total number of student questions asked and recorded.",
	},
)

// TutorRequestDuration measures the end-to-end tutor gateway round trip.
// Label:
//   - outcome: "answered" or "fallback"
var TutorRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tutor_request_duration_seconds",
		Help:      "Duration of tutor gateway calls from dispatch to reply.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// TutorFallbacksTotal counts gateway replies substituted by a fallback string.
// Label:
//   - reason: "upstream_error", "malformed_reply", or "empty_reply"
var TutorFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tutor_fallbacks_total",
		Help:      "Total number of tutor replies replaced by a fallback, by reason.",
	},
	[]string{"reason"},
)

// ── Classroom metrics ─────────────────────────────────────────────────────────

// BroadcastsTotal counts teacher announcements.
var BroadcastsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Total number of teacher broadcast announcements.",
	},
)

// ClassResetsTotal counts archive-and-reset operations.
// Label:
//   - result: "ok" or "error"
var ClassResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "class_resets_total",
		Help:      "Total number of class archive-and-reset operations, by result.",
	},
	[]string{"result"},
)

// ExportsTotal counts generated export documents.
// Label:
//   - format: "transcript", "class_transcript", or "workbook"
var ExportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of export documents generated, by format.",
	},
	[]string{"format"},
)
