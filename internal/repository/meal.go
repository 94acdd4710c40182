package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dailydiet/dailydiet/internal/model"
)

// ErrMealNotFound is returned when no meal matches both id and owner.
// A meal owned by someone else is indistinguishable from a missing one,
// so ownership is never leaked.
var ErrMealNotFound = errors.New("meal not found")

const mealColumns = "id, owner_id, name, description, is_on_diet, eaten_at, updated_at"

// CreateMeal inserts a new meal into the database.
func (r *Repository) CreateMeal(ctx context.Context, meal *model.Meal) error {
	query := `
		INSERT INTO meals (id, owner_id, name, description, is_on_diet, eaten_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		meal.ID,
		meal.OwnerID,
		meal.Name,
		meal.Description,
		meal.IsOnDiet,
		meal.EatenAt,
		meal.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}

	return nil
}

// GetMealByOwner retrieves a meal by id scoped to its owner.
// The single combined predicate keeps not-found and not-owned identical.
func (r *Repository) GetMealByOwner(ctx context.Context, id, ownerID string) (*model.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE id = $1 AND owner_id = $2
	`

	meal, err := scanMeal(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMealNotFound
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}

	return meal, nil
}

// ListMealsByOwner retrieves all meals for a user, most recently eaten first.
func (r *Repository) ListMealsByOwner(ctx context.Context, ownerID string) ([]*model.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE owner_id = $1
		ORDER BY eaten_at DESC
	`

	return r.queryMeals(ctx, query, ownerID)
}

// AllMealsByOwner retrieves all meals for a user with no explicit ordering.
// The summary streak is computed over this storage-order scan.
func (r *Repository) AllMealsByOwner(ctx context.Context, ownerID string) ([]*model.Meal, error) {
	query := `
		SELECT ` + mealColumns + `
		FROM meals
		WHERE owner_id = $1
	`

	return r.queryMeals(ctx, query, ownerID)
}

// UpdateMeal replaces the mutable fields of a meal, scoped to its owner.
// Returns ErrMealNotFound if the row vanished since the existence check.
func (r *Repository) UpdateMeal(ctx context.Context, meal *model.Meal) error {
	query := `
		UPDATE meals
		SET name = $3, description = $4, is_on_diet = $5, eaten_at = $6, updated_at = $7
		WHERE id = $1 AND owner_id = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		meal.ID,
		meal.OwnerID,
		meal.Name,
		meal.Description,
		meal.IsOnDiet,
		meal.EatenAt,
		meal.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMealNotFound
	}

	return nil
}

// DeleteMeal removes a meal, scoped to its owner.
func (r *Repository) DeleteMeal(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM meals
		WHERE id = $1 AND owner_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMealNotFound
	}

	return nil
}

func (r *Repository) queryMeals(ctx context.Context, query string, args ...any) ([]*model.Meal, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := make([]*model.Meal, 0)
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}

	return meals, nil
}

func scanMeal(row pgx.Row) (*model.Meal, error) {
	var meal model.Meal
	err := row.Scan(
		&meal.ID,
		&meal.OwnerID,
		&meal.Name,
		&meal.Description,
		&meal.IsOnDiet,
		&meal.EatenAt,
		&meal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &meal, nil
}
