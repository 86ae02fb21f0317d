package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated             uint64
	UsersUpdated             uint64
	UsersDeleted             uint64
	BooksCreated             uint64
	BooksUpdated             uint64
	BooksDeleted             uint64
	BookCacheHits            uint64
	BookCacheMisses          uint64
	ReconcileRuns            uint64
	DanglingRefsRepaired     uint64
	ReconcileDurationCount   uint64
	ReconcileDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersCreated             uint64
	usersUpdated             uint64
	usersDeleted             uint64
	booksCreated             uint64
	booksUpdated             uint64
	booksDeleted             uint64
	bookCacheHits            uint64
	bookCacheMisses          uint64
	reconcileRuns            uint64
	danglingRefsRepaired     uint64
	reconcileDurationCount   uint64
	reconcileDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:             atomic.LoadUint64(&m.usersCreated),
		UsersUpdated:             atomic.LoadUint64(&m.usersUpdated),
		UsersDeleted:             atomic.LoadUint64(&m.usersDeleted),
		BooksCreated:             atomic.LoadUint64(&m.booksCreated),
		BooksUpdated:             atomic.LoadUint64(&m.booksUpdated),
		BooksDeleted:             atomic.LoadUint64(&m.booksDeleted),
		BookCacheHits:            atomic.LoadUint64(&m.bookCacheHits),
		BookCacheMisses:          atomic.LoadUint64(&m.bookCacheMisses),
		ReconcileRuns:            atomic.LoadUint64(&m.reconcileRuns),
		DanglingRefsRepaired:     atomic.LoadUint64(&m.danglingRefsRepaired),
		ReconcileDurationCount:   atomic.LoadUint64(&m.reconcileDurationCount),
		ReconcileDurationTotalNs: atomic.LoadInt64(&m.reconcileDurationTotalNs),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserUpdated increments the user updated counter.
func (m *InMemoryRecorder) IncUserUpdated() {
	atomic.AddUint64(&m.usersUpdated, 1)
}

// IncUserDeleted increments the user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncBookCreated increments the book created counter.
func (m *InMemoryRecorder) IncBookCreated() {
	atomic.AddUint64(&m.booksCreated, 1)
}

// IncBookUpdated increments the book updated counter.
func (m *InMemoryRecorder) IncBookUpdated() {
	atomic.AddUint64(&m.booksUpdated, 1)
}

// IncBookDeleted increments the book deleted counter.
func (m *InMemoryRecorder) IncBookDeleted() {
	atomic.AddUint64(&m.booksDeleted, 1)
}

// IncBookCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncBookCacheHit() {
	atomic.AddUint64(&m.bookCacheHits, 1)
}

// IncBookCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncBookCacheMiss() {
	atomic.AddUint64(&m.bookCacheMisses, 1)
}

// IncReconcileRun increments the reconcile run counter.
func (m *InMemoryRecorder) IncReconcileRun() {
	atomic.AddUint64(&m.reconcileRuns, 1)
}

// AddDanglingRefsRepaired adds to the repaired reference counter.
func (m *InMemoryRecorder) AddDanglingRefsRepaired(count int64) {
	if count > 0 {
		atomic.AddUint64(&m.danglingRefsRepaired, uint64(count))
	}
}

// ObserveReconcileDuration records a reconcile pass duration.
func (m *InMemoryRecorder) ObserveReconcileDuration(duration time.Duration) {
	atomic.AddUint64(&m.reconcileDurationCount, 1)
	atomic.AddInt64(&m.reconcileDurationTotalNs, duration.Nanoseconds())
}
