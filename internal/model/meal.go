package model

import "time"

// UpdatedAtLayout is the fixed textual format for the updated_at column:
// UTC wall clock, seconds precision, no zone designator.
const UpdatedAtLayout = "2006-01-02 15:04:05"

// Meal represents a single logged meal owned by one user.
type Meal struct {
	ID          string `json:"id"`
	OwnerID     string `json:"user_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsOnDiet    bool   `json:"is_on_diet"`
	// EatenAt is an epoch-millisecond timestamp supplied by the client.
	EatenAt int64 `json:"eaten_at"`
	// UpdatedAt is nil until the meal is updated for the first time.
	UpdatedAt *string `json:"updated_at"`
}

// EatenTime returns the eaten-at instant as a time.Time in UTC.
func (m *Meal) EatenTime() time.Time {
	return time.UnixMilli(m.EatenAt).UTC()
}

// Touch stamps the meal with the current update time.
func (m *Meal) Touch(now time.Time) {
	ts := now.UTC().Format(UpdatedAtLayout)
	m.UpdatedAt = &ts
}
