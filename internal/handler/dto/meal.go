package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dailydiet/dailydiet/internal/model"
)

// Timestamp is an epoch-millisecond instant coerced from either a JSON
// number (epoch ms) or a date string in one of the accepted layouts.
type Timestamp int64

// timestampLayouts are tried in order for string values. Layouts without
// a zone designator are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements flexible date coercion.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				*t = Timestamp(parsed.UnixMilli())
				return nil
			}
		}
		return fmt.Errorf("unrecognized timestamp %q", s)
	}

	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil {
			return fmt.Errorf("invalid timestamp %s", data)
		}
		ms = int64(f)
	}

	*t = Timestamp(ms)
	return nil
}

// Millis returns the epoch-millisecond value.
func (t Timestamp) Millis() int64 {
	return int64(t)
}

// MealRequest represents the request body for creating or updating a
// meal. All four fields are required; the update is a full replace, so
// the same schema serves both operations. The flag and timestamp are
// pointers so that absent and zero-valued fields stay distinguishable.
type MealRequest struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description" validate:"required"`
	IsOnDiet    *bool      `json:"isOnDiet" validate:"required"`
	EatedAt     *Timestamp `json:"eatedAt" validate:"required"`
}

// Validate checks the request against its schema.
func (r *MealRequest) Validate() error {
	return validate.Struct(r)
}

// MealsResponse wraps a meal list under the "meals" key.
type MealsResponse struct {
	Meals []*model.Meal `json:"meals"`
}

// ToMealsResponse builds the list envelope. An empty list marshals as
// [] rather than null.
func ToMealsResponse(meals []*model.Meal) *MealsResponse {
	if meals == nil {
		meals = make([]*model.Meal, 0)
	}
	return &MealsResponse{Meals: meals}
}
