package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered   uint64
	MealsCreated      uint64
	MealsUpdated      uint64
	MealsDeleted      uint64
	SummariesComputed uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered   uint64
	mealsCreated      uint64
	mealsUpdated      uint64
	mealsDeleted      uint64
	summariesComputed uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:   atomic.LoadUint64(&m.usersRegistered),
		MealsCreated:      atomic.LoadUint64(&m.mealsCreated),
		MealsUpdated:      atomic.LoadUint64(&m.mealsUpdated),
		MealsDeleted:      atomic.LoadUint64(&m.mealsDeleted),
		SummariesComputed: atomic.LoadUint64(&m.summariesComputed),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncMealCreated increments the meal creation counter.
func (m *InMemoryRecorder) IncMealCreated() {
	atomic.AddUint64(&m.mealsCreated, 1)
}

// IncMealUpdated increments the meal update counter.
func (m *InMemoryRecorder) IncMealUpdated() {
	atomic.AddUint64(&m.mealsUpdated, 1)
}

// IncMealDeleted increments the meal deletion counter.
func (m *InMemoryRecorder) IncMealDeleted() {
	atomic.AddUint64(&m.mealsDeleted, 1)
}

// IncSummaryComputed increments the summary counter.
func (m *InMemoryRecorder) IncSummaryComputed() {
	atomic.AddUint64(&m.summariesComputed, 1)
}
