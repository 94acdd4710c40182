package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dailydiet/dailydiet/internal/metrics"
	"github.com/dailydiet/dailydiet/internal/model"
	"github.com/dailydiet/dailydiet/internal/repository"
)

// ErrMealNotFound covers both a missing meal and a meal owned by another
// user, so handlers cannot leak existence.
var ErrMealNotFound = errors.New("meal not found")

// MealStore is the persistence surface the meal service depends on.
type MealStore interface {
	CreateMeal(ctx context.Context, meal *model.Meal) error
	GetMealByOwner(ctx context.Context, id, ownerID string) (*model.Meal, error)
	ListMealsByOwner(ctx context.Context, ownerID string) ([]*model.Meal, error)
	AllMealsByOwner(ctx context.Context, ownerID string) ([]*model.Meal, error)
	UpdateMeal(ctx context.Context, meal *model.Meal) error
	DeleteMeal(ctx context.Context, id, ownerID string) error
}

// MealService handles meal business logic, always scoped to an owner.
type MealService struct {
	store   MealStore
	metrics metrics.Recorder
}

// NewMealService creates a new MealService.
func NewMealService(store MealStore, recorder metrics.Recorder) *MealService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MealService{
		store:   store,
		metrics: recorder,
	}
}

// MealInput defines the mutable fields of a meal. Create uses all of
// them; Update replaces all of them (no partial update).
type MealInput struct {
	Name        string
	Description string
	IsOnDiet    bool
	// EatenAt is an epoch-millisecond timestamp.
	EatenAt int64
}

// Create inserts a new meal owned by ownerID.
// updated_at stays unset until the first update.
func (s *MealService) Create(ctx context.Context, ownerID string, input MealInput) (*model.Meal, error) {
	meal := &model.Meal{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		IsOnDiet:    input.IsOnDiet,
		EatenAt:     input.EatenAt,
	}

	if err := s.store.CreateMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}

	s.metrics.IncMealCreated()

	return meal, nil
}

// Get retrieves a single meal scoped to its owner.
func (s *MealService) Get(ctx context.Context, ownerID, id string) (*model.Meal, error) {
	meal, err := s.store.GetMealByOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}

	return meal, nil
}

// List returns the owner's meals, most recently eaten first.
func (s *MealService) List(ctx context.Context, ownerID string) ([]*model.Meal, error) {
	meals, err := s.store.ListMealsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	return meals, nil
}

// Update fully replaces the mutable fields of a meal and stamps updated_at.
// A concurrent delete between the existence check and the write surfaces
// as ErrMealNotFound; the pair is deliberately not wrapped in a transaction.
func (s *MealService) Update(ctx context.Context, ownerID, id string, input MealInput) error {
	meal, err := s.store.GetMealByOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return ErrMealNotFound
		}
		return fmt.Errorf("failed to get meal: %w", err)
	}

	meal.Name = input.Name
	meal.Description = input.Description
	meal.IsOnDiet = input.IsOnDiet
	meal.EatenAt = input.EatenAt
	meal.Touch(time.Now())

	if err := s.store.UpdateMeal(ctx, meal); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return ErrMealNotFound
		}
		return fmt.Errorf("failed to update meal: %w", err)
	}

	s.metrics.IncMealUpdated()

	return nil
}

// Delete removes a meal scoped to its owner.
func (s *MealService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.store.GetMealByOwner(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return ErrMealNotFound
		}
		return fmt.Errorf("failed to get meal: %w", err)
	}

	if err := s.store.DeleteMeal(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrMealNotFound) {
			return ErrMealNotFound
		}
		return fmt.Errorf("failed to delete meal: %w", err)
	}

	s.metrics.IncMealDeleted()

	return nil
}

// Summary aggregates the owner's meals into totals and the longest
// on-diet streak.
type Summary struct {
	TotalMeals           int `json:"totalMeals"`
	TotalMealsInDiet     int `json:"totalMealsInDiet"`
	TotalMealsOutOfDiet  int `json:"totalMealsOutOfDiet"`
	BetterSequenceInDiet int `json:"betterSequenceInDiet"`
}

// Summary computes the owner's meal totals and best on-diet sequence.
// The streak is scanned over the storage retrieval order, with no
// explicit sort. All four values come from the same scan, so
// TotalMeals == TotalMealsInDiet + TotalMealsOutOfDiet always holds.
func (s *MealService) Summary(ctx context.Context, ownerID string) (Summary, error) {
	meals, err := s.store.AllMealsByOwner(ctx, ownerID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load meals for summary: %w", err)
	}

	s.metrics.IncSummaryComputed()

	return computeSummary(meals), nil
}

// computeSummary runs the single-pass streak scan.
// The counter grows on each on-diet meal, resets on any off-diet meal,
// and the maximum observed value is kept.
func computeSummary(meals []*model.Meal) Summary {
	var summary Summary
	current := 0

	for _, meal := range meals {
		summary.TotalMeals++

		if meal.IsOnDiet {
			summary.TotalMealsInDiet++
			current++
			if current > summary.BetterSequenceInDiet {
				summary.BetterSequenceInDiet = current
			}
		} else {
			summary.TotalMealsOutOfDiet++
			current = 0
		}
	}

	return summary
}
