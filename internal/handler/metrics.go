package handler

import (
	"fmt"
	"net/http"

	"github.com/dreamjournal/dreamjournal/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "dreamjournal_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "dreamjournal_users_deleted_total %d\n", snap.UsersDeleted)
	writeMetric(w, "dreamjournal_signups_total %d\n", snap.Signups)
	writeMetric(w, "dreamjournal_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "dreamjournal_logins_total{status=\"failed\"} %d\n", snap.LoginsFailed)
	writeMetric(w, "dreamjournal_logouts_total %d\n", snap.Logouts)

	writeMetric(w, "dreamjournal_dream_logs_created_total %d\n", snap.DreamLogsCreated)
	writeMetric(w, "dreamjournal_dream_logs_updated_total %d\n", snap.DreamLogsUpdated)
	writeMetric(w, "dreamjournal_dream_logs_deleted_total %d\n", snap.DreamLogsDeleted)
	writeMetric(w, "dreamjournal_tags_created_total %d\n", snap.TagsCreated)
	writeMetric(w, "dreamjournal_dream_tags_created_total %d\n", snap.DreamTagsCreated)
	writeMetric(w, "dreamjournal_dream_tags_deleted_total %d\n", snap.DreamTagsDeleted)

	writeMetric(w, "dreamjournal_rate_limited_total %d\n", snap.RateLimited)
	writeMetric(w, "dreamjournal_password_hash_duration_seconds_count %d\n", snap.HashDurationCount)
	writeMetric(w, "dreamjournal_password_hash_duration_seconds_sum %.6f\n", float64(snap.HashDurationNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
