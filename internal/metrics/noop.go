package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncMealCreated is a no-op.
func (n *NoopRecorder) IncMealCreated() {}

// IncMealUpdated is a no-op.
func (n *NoopRecorder) IncMealUpdated() {}

// IncMealDeleted is a no-op.
func (n *NoopRecorder) IncMealDeleted() {}

// IncSummaryComputed is a no-op.
func (n *NoopRecorder) IncSummaryComputed() {}
