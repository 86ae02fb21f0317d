// Package reconcile repairs dangling book references. The book delete
// cascade is two independent writes; a crash between them leaves a
// deleted book's identifier in user book lists until a pass here pulls
// it out.
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookshelf/bookshelf/internal/metrics"
	"github.com/bookshelf/bookshelf/internal/model"
)

// DefaultInterval is the default delay between passes.
const DefaultInterval = 5 * time.Minute

// Repository defines the storage operations a pass needs.
type Repository interface {
	ScanUserBookRefs(ctx context.Context) ([]model.UserDocument, error)
	FindBooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.BookDocument, error)
	DetachBookFromUsers(ctx context.Context, bookID primitive.ObjectID) (int64, error)
}

// Worker runs periodic reconciliation passes.
type Worker struct {
	repo     Repository
	logger   *slog.Logger
	metrics  metrics.Recorder
	interval time.Duration

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
}

// NewWorker creates a new reconciliation worker.
func NewWorker(repo Repository, logger *slog.Logger, recorder metrics.Recorder, interval time.Duration) *Worker {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Worker{
		repo:     repo,
		logger:   logger.With("component", "reconcile.worker"),
		metrics:  recorder,
		interval: interval,
	}
}

// Run starts the worker loop. Blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return errors.New("worker already started")
	}
	w.started = true
	w.done = make(chan struct{})
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	defer close(w.done)

	w.logger.Info("reconcile worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reconcile worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.logger.Error("reconcile pass failed", "error", err)
			}
		}
	}
}

// Shutdown stops the worker and waits for an in-flight pass to finish.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runOnce executes a single reconciliation pass.
func (w *Worker) runOnce(ctx context.Context) error {
	runID := ulid.Make().String()
	log := w.logger.With("run_id", runID)
	start := time.Now()

	w.metrics.IncReconcileRun()
	defer func() {
		w.metrics.ObserveReconcileDuration(time.Since(start))
	}()

	users, err := w.repo.ScanUserBookRefs(ctx)
	if err != nil {
		return err
	}

	refs := collectRefs(users)
	if len(refs) == 0 {
		return nil
	}

	existingDocs, err := w.repo.FindBooksByIDs(ctx, refs)
	if err != nil {
		return err
	}

	existing := make(map[primitive.ObjectID]bool, len(existingDocs))
	for i := range existingDocs {
		existing[existingDocs[i].ID] = true
	}

	dangling := diffDangling(refs, existing)
	if len(dangling) == 0 {
		return nil
	}

	var usersUpdated int64
	for _, id := range dangling {
		n, err := w.repo.DetachBookFromUsers(ctx, id)
		if err != nil {
			return err
		}
		usersUpdated += n
	}

	w.metrics.AddDanglingRefsRepaired(int64(len(dangling)))
	log.Info("repaired dangling book references",
		"dangling_refs", len(dangling),
		"users_updated", usersUpdated,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// collectRefs gathers the distinct book references across all users.
func collectRefs(users []model.UserDocument) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool)
	var refs []primitive.ObjectID

	for i := range users {
		for _, id := range users[i].Books {
			if !seen[id] {
				seen[id] = true
				refs = append(refs, id)
			}
		}
	}

	return refs
}

// diffDangling returns the refs with no matching entry in existing.
func diffDangling(refs []primitive.ObjectID, existing map[primitive.ObjectID]bool) []primitive.ObjectID {
	var dangling []primitive.ObjectID
	for _, id := range refs {
		if !existing[id] {
			dangling = append(dangling, id)
		}
	}
	return dangling
}
