package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dailydiet/dailydiet/internal/metrics"
	"github.com/dailydiet/dailydiet/internal/model"
	"github.com/dailydiet/dailydiet/internal/repository"
)

// fakeMealStore keeps meals in insertion order, like a plain table scan.
type fakeMealStore struct {
	meals []*model.Meal
	err   error
}

func (f *fakeMealStore) CreateMeal(_ context.Context, meal *model.Meal) error {
	if f.err != nil {
		return f.err
	}
	copied := *meal
	f.meals = append(f.meals, &copied)
	return nil
}

func (f *fakeMealStore) GetMealByOwner(_ context.Context, id, ownerID string) (*model.Meal, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range f.meals {
		if m.ID == id && m.OwnerID == ownerID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repository.ErrMealNotFound
}

func (f *fakeMealStore) ListMealsByOwner(ctx context.Context, ownerID string) ([]*model.Meal, error) {
	meals, err := f.AllMealsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	// eaten_at descending
	for i := 0; i < len(meals); i++ {
		for j := i + 1; j < len(meals); j++ {
			if meals[j].EatenAt > meals[i].EatenAt {
				meals[i], meals[j] = meals[j], meals[i]
			}
		}
	}
	return meals, nil
}

func (f *fakeMealStore) AllMealsByOwner(_ context.Context, ownerID string) ([]*model.Meal, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*model.Meal, 0)
	for _, m := range f.meals {
		if m.OwnerID == ownerID {
			copied := *m
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeMealStore) UpdateMeal(_ context.Context, meal *model.Meal) error {
	for i, m := range f.meals {
		if m.ID == meal.ID && m.OwnerID == meal.OwnerID {
			copied := *meal
			f.meals[i] = &copied
			return nil
		}
	}
	return repository.ErrMealNotFound
}

func (f *fakeMealStore) DeleteMeal(_ context.Context, id, ownerID string) error {
	for i, m := range f.meals {
		if m.ID == id && m.OwnerID == ownerID {
			f.meals = append(f.meals[:i], f.meals[i+1:]...)
			return nil
		}
	}
	return repository.ErrMealNotFound
}

func onDiet(owner string, flags ...bool) []*model.Meal {
	meals := make([]*model.Meal, len(flags))
	for i, flag := range flags {
		meals[i] = &model.Meal{ID: string(rune('a' + i)), OwnerID: owner, IsOnDiet: flag}
	}
	return meals
}

func TestComputeSummary(t *testing.T) {
	tests := []struct {
		name  string
		flags []bool
		want  Summary
	}{
		{
			name:  "no meals",
			flags: nil,
			want:  Summary{},
		},
		{
			name:  "all off diet",
			flags: []bool{false, false},
			want:  Summary{TotalMeals: 2, TotalMealsOutOfDiet: 2},
		},
		{
			name:  "off on on",
			flags: []bool{false, true, true},
			want:  Summary{TotalMeals: 3, TotalMealsInDiet: 2, TotalMealsOutOfDiet: 1, BetterSequenceInDiet: 2},
		},
		{
			name:  "streak broken then shorter",
			flags: []bool{true, true, true, false, true},
			want:  Summary{TotalMeals: 5, TotalMealsInDiet: 4, TotalMealsOutOfDiet: 1, BetterSequenceInDiet: 3},
		},
		{
			name:  "single on diet",
			flags: []bool{true},
			want:  Summary{TotalMeals: 1, TotalMealsInDiet: 1, BetterSequenceInDiet: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeSummary(onDiet("u1", tt.flags...))
			if got != tt.want {
				t.Errorf("computeSummary = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeSummary_TotalsAlwaysAddUp(t *testing.T) {
	flags := []bool{true, false, true, true, false, false, true, true, true, false}
	got := computeSummary(onDiet("u1", flags...))
	if got.TotalMeals != got.TotalMealsInDiet+got.TotalMealsOutOfDiet {
		t.Errorf("totals do not add up: %+v", got)
	}
}

func TestMealService_Summary_UsesStorageOrder(t *testing.T) {
	store := &fakeMealStore{}
	svc := NewMealService(store, nil)
	ctx := context.Background()

	// Insert newest-first: on, on, off. A chronological scan would see
	// off, on, on; the storage-order scan must see on, on, off.
	meals := []*model.Meal{
		{ID: "m1", OwnerID: "u1", IsOnDiet: true, EatenAt: 3000},
		{ID: "m2", OwnerID: "u1", IsOnDiet: true, EatenAt: 2000},
		{ID: "m3", OwnerID: "u1", IsOnDiet: false, EatenAt: 1000},
	}
	for _, m := range meals {
		if err := store.CreateMeal(ctx, m); err != nil {
			t.Fatalf("CreateMeal failed: %v", err)
		}
	}

	summary, err := svc.Summary(ctx, "u1")
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	want := Summary{TotalMeals: 3, TotalMealsInDiet: 2, TotalMealsOutOfDiet: 1, BetterSequenceInDiet: 2}
	if summary != want {
		t.Errorf("Summary = %+v, want %+v", summary, want)
	}
}

func TestMealService_CreateLeavesUpdatedAtUnset(t *testing.T) {
	store := &fakeMealStore{}
	recorder := metrics.NewInMemory()
	svc := NewMealService(store, recorder)

	meal, err := svc.Create(context.Background(), "u1", MealInput{
		Name:        "Pizza",
		Description: "Four cheeses",
		IsOnDiet:    true,
		EatenAt:     1724868000000,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if meal.ID == "" {
		t.Error("Create should assign an id")
	}
	if meal.OwnerID != "u1" {
		t.Errorf("unexpected owner: %s", meal.OwnerID)
	}
	if meal.UpdatedAt != nil {
		t.Error("UpdatedAt should stay unset on create")
	}
	if recorder.Snapshot().MealsCreated != 1 {
		t.Error("expected MealsCreated counter to increment")
	}
}

func TestMealService_Get_NotOwned(t *testing.T) {
	store := &fakeMealStore{meals: []*model.Meal{{ID: "m1", OwnerID: "other"}}}
	svc := NewMealService(store, nil)

	_, err := svc.Get(context.Background(), "u1", "m1")
	if !errors.Is(err, ErrMealNotFound) {
		t.Errorf("expected ErrMealNotFound for foreign meal, got %v", err)
	}
}

func TestMealService_Update_FullReplaceAndTouch(t *testing.T) {
	store := &fakeMealStore{meals: []*model.Meal{{
		ID: "m1", OwnerID: "u1", Name: "Pizza", Description: "old", IsOnDiet: true, EatenAt: 1000,
	}}}
	svc := NewMealService(store, nil)
	ctx := context.Background()

	err := svc.Update(ctx, "u1", "m1", MealInput{
		Name:        "Salad",
		Description: "new",
		IsOnDiet:    false,
		EatenAt:     2000,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updated, err := svc.Get(ctx, "u1", "m1")
	if err != nil {
		t.Fatalf("Get after update failed: %v", err)
	}

	if updated.Name != "Salad" || updated.Description != "new" || updated.IsOnDiet || updated.EatenAt != 2000 {
		t.Errorf("update was not a full replace: %+v", updated)
	}
	if updated.UpdatedAt == nil {
		t.Fatal("UpdatedAt should be set after update")
	}
	if len(*updated.UpdatedAt) != len(model.UpdatedAtLayout) {
		t.Errorf("unexpected UpdatedAt format: %q", *updated.UpdatedAt)
	}
}

func TestMealService_Update_NotFound(t *testing.T) {
	svc := NewMealService(&fakeMealStore{}, nil)

	err := svc.Update(context.Background(), "u1", "missing", MealInput{Name: "x", Description: "y"})
	if !errors.Is(err, ErrMealNotFound) {
		t.Errorf("expected ErrMealNotFound, got %v", err)
	}
}

func TestMealService_Delete_IsTerminal(t *testing.T) {
	store := &fakeMealStore{meals: []*model.Meal{{ID: "m1", OwnerID: "u1"}}}
	svc := NewMealService(store, nil)
	ctx := context.Background()

	if err := svc.Delete(ctx, "u1", "m1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.Get(ctx, "u1", "m1"); !errors.Is(err, ErrMealNotFound) {
		t.Errorf("expected ErrMealNotFound after delete, got %v", err)
	}

	if err := svc.Delete(ctx, "u1", "m1"); !errors.Is(err, ErrMealNotFound) {
		t.Errorf("expected ErrMealNotFound on second delete, got %v", err)
	}
}
