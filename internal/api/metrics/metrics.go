// Package metrics defines and registers the custom Prometheus metrics of the
// member evaluations API. It is the single source of truth for metric names,
// labels and help strings.
//
// All metrics register with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "evaluations"

// ── Submission metrics ────────────────────────────────────────────────────────

// EvaluationsSubmittedTotal counts persisted evaluation records.
// Label:
//   - mode: "single" (form) or "batch" (pending drafts)
var EvaluationsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submitted_total",
		Help:      "Total number of evaluation records persisted, by submission mode.",
	},
	[]string{"mode"},
)

// SubmissionErrorsTotal counts failed submissions.
// Labels:
//   - mode: "single" or "batch"
//   - reason: "validation", "insert", "empty", "upstream" or "other"
var SubmissionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submission_errors_total",
		Help:      "Total number of failed evaluation submissions.",
	},
	[]string{"mode", "reason"},
)

// DraftsSavedTotal counts draft saves.
var DraftsSavedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "drafts_saved_total",
		Help:      "Total number of draft saves.",
	},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// DirectoryQueryDuration measures member listings against the workspace.
// Label:
//   - result: "ok" or "error"
var DirectoryQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "directory_query_duration_seconds",
		Help:      "Duration of member listings against the workspace directory.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ReportLoadsTotal counts dashboard loads.
// Label:
//   - result: "ok" or "error"
var ReportLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_loads_total",
		Help:      "Total number of report loads, by result.",
	},
	[]string{"result"},
)
