package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncUserUpdated is a no-op.
func (n *NoopRecorder) IncUserUpdated() {}

// IncUserDeleted is a no-op.
func (n *NoopRecorder) IncUserDeleted() {}

// IncBookCreated is a no-op.
func (n *NoopRecorder) IncBookCreated() {}

// IncBookUpdated is a no-op.
func (n *NoopRecorder) IncBookUpdated() {}

// IncBookDeleted is a no-op.
func (n *NoopRecorder) IncBookDeleted() {}

// IncBookCacheHit is a no-op.
func (n *NoopRecorder) IncBookCacheHit() {}

// IncBookCacheMiss is a no-op.
func (n *NoopRecorder) IncBookCacheMiss() {}

// IncReconcileRun is a no-op.
func (n *NoopRecorder) IncReconcileRun() {}

// AddDanglingRefsRepaired is a no-op.
func (n *NoopRecorder) AddDanglingRefsRepaired(count int64) {}

// ObserveReconcileDuration is a no-op.
func (n *NoopRecorder) ObserveReconcileDuration(duration time.Duration) {}
