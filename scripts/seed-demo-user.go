package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dailydiet/dailydiet/internal/model"
	"github.com/dailydiet/dailydiet/internal/repository"
	"github.com/dailydiet/dailydiet/internal/session"
)

type output struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	SessionToken string `json:"session_token"`
	MealsSeeded  int    `json:"meals_seeded"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		name        = flag.String("name", "Demo User", "User name")
		email       = flag.String("email", "demo@dailydiet.local", "User email")
		withMeals   = flag.Bool("meals", true, "Seed a few demo meals")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, err := ensureUser(ctx, repo, *name, *email)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	seeded := 0
	if *withMeals {
		seeded, err = seedMeals(ctx, repo, user.ID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "seed meals:", err)
			os.Exit(1)
		}
	}

	out := output{
		UserID:       user.ID,
		Email:        user.Email,
		SessionToken: user.SessionToken,
		MealsSeeded:  seeded,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.SessionToken)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// ensureUser returns the existing user for email or creates one.
func ensureUser(ctx context.Context, repo *repository.Repository, name, email string) (*model.User, error) {
	existing, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		SessionToken: session.NewToken(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// seedMeals inserts a small meal history ending in a two-meal streak.
func seedMeals(ctx context.Context, repo *repository.Repository, ownerID string) (int, error) {
	base := time.Now().UTC().Add(-72 * time.Hour)

	fixtures := []struct {
		name        string
		description string
		onDiet      bool
		offset      time.Duration
	}{
		{"Burger", "friday cheat meal", false, 0},
		{"Salad", "greens and grilled chicken", true, 24 * time.Hour},
		{"Soup", "light vegetable soup", true, 48 * time.Hour},
	}

	for _, f := range fixtures {
		meal := &model.Meal{
			ID:          uuid.New().String(),
			OwnerID:     ownerID,
			Name:        f.name,
			Description: f.description,
			IsOnDiet:    f.onDiet,
			EatenAt:     base.Add(f.offset).UnixMilli(),
		}
		if err := repo.CreateMeal(ctx, meal); err != nil {
			return 0, err
		}
	}

	return len(fixtures), nil
}
