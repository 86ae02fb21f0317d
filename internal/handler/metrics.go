package handler

import (
	"fmt"
	"net/http"

	"github.com/bookshelf/bookshelf/internal/metrics"
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
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "bookshelf_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "bookshelf_users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "bookshelf_users_deleted_total %d\n", snap.UsersDeleted)

	writeMetric(w, "bookshelf_books_created_total %d\n", snap.BooksCreated)
	writeMetric(w, "bookshelf_books_updated_total %d\n", snap.BooksUpdated)
	writeMetric(w, "bookshelf_books_deleted_total %d\n", snap.BooksDeleted)

	writeMetric(w, "bookshelf_book_cache_hits_total %d\n", snap.BookCacheHits)
	writeMetric(w, "bookshelf_book_cache_misses_total %d\n", snap.BookCacheMisses)

	writeMetric(w, "bookshelf_reconcile_runs_total %d\n", snap.ReconcileRuns)
	writeMetric(w, "bookshelf_reconcile_dangling_refs_repaired_total %d\n", snap.DanglingRefsRepaired)
	writeMetric(w, "bookshelf_reconcile_duration_seconds_count %d\n", snap.ReconcileDurationCount)
	writeMetric(w, "bookshelf_reconcile_duration_seconds_sum %.6f\n", float64(snap.ReconcileDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
