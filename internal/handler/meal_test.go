package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dailydiet/dailydiet/internal/model"
	"github.com/dailydiet/dailydiet/internal/service"
	"github.com/dailydiet/dailydiet/internal/session"
)

// newMealRouter mounts the meal handler behind a stub guard that
// injects the given user, mirroring the production route layout.
func newMealRouter(store *fakeMealStore, user *model.User) http.Handler {
	h := NewMealHandler(service.NewMealService(store, nil), testLogger())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(session.ContextWithUser(req.Context(), user)))
		})
	})
	r.Route("/meals", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/summary", h.Summary)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

var testOwner = &model.User{ID: "11111111-1111-1111-1111-111111111111", Name: "John Doe"}

func seedMeal(store *fakeMealStore, ownerID, name string, onDiet bool, eatenAt int64) *model.Meal {
	meal := &model.Meal{
		ID:       uuid.New().String(),
		OwnerID:  ownerID,
		Name:     name,
		IsOnDiet: onDiet,
		EatenAt:  eatenAt,
	}
	store.meals = append(store.meals, meal)
	return meal
}

func TestMealCreate(t *testing.T) {
	store := &fakeMealStore{}
	router := newMealRouter(store, testOwner)

	rec := doRequest(t, router, http.MethodPost, "/meals",
		`{"name":"Pizza","description":"cheat day","isOnDiet":false,"eatedAt":"2024-08-28 18:00:00"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.meals) != 1 {
		t.Fatalf("expected 1 stored meal, got %d", len(store.meals))
	}

	meal := store.meals[0]
	if meal.OwnerID != testOwner.ID {
		t.Errorf("meal must belong to the caller, got owner %s", meal.OwnerID)
	}
	if meal.EatenAt != 1724868000000 {
		t.Errorf("eaten_at = %d, want 1724868000000", meal.EatenAt)
	}
	if meal.UpdatedAt != nil {
		t.Error("updated_at must stay unset on create")
	}
}

func TestMealCreate_MissingFields(t *testing.T) {
	store := &fakeMealStore{}
	router := newMealRouter(store, testOwner)

	rec := doRequest(t, router, http.MethodPost, "/meals", `{"name":"Pizza"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if _, code := decodeError(t, rec.Body); code != "VALIDATION_FAILED" {
		t.Errorf("unexpected code: %s", code)
	}
	if len(store.meals) != 0 {
		t.Error("invalid payload must not create a meal")
	}
}

func TestMealCreate_OffDietFlagAccepted(t *testing.T) {
	store := &fakeMealStore{}
	router := newMealRouter(store, testOwner)

	rec := doRequest(t, router, http.MethodPost, "/meals",
		`{"name":"Salad","description":"greens","isOnDiet":true,"eatedAt":1724868000000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, "/meals",
		`{"name":"Burger","description":"fast food","isOnDiet":false,"eatedAt":1724954400000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("explicit false flag must validate, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMealList_NewestFirst(t *testing.T) {
	store := &fakeMealStore{}
	seedMeal(store, testOwner.ID, "Pizza", true, 1724868000000)
	seedMeal(store, testOwner.ID, "Hamburger", false, 1724954400000)
	seedMeal(store, "22222222-2222-2222-2222-222222222222", "Not yours", true, 1724954400000)

	router := newMealRouter(store, testOwner)
	rec := doRequest(t, router, http.MethodGet, "/meals", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Meals []*model.Meal `json:"meals"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Meals) != 2 {
		t.Fatalf("expected 2 meals, got %d", len(body.Meals))
	}
	if body.Meals[0].Name != "Hamburger" || body.Meals[1].Name != "Pizza" {
		t.Errorf("expected newest first, got %s then %s", body.Meals[0].Name, body.Meals[1].Name)
	}
}

func TestMealList_EmptyIsArray(t *testing.T) {
	router := newMealRouter(&fakeMealStore{}, testOwner)
	rec := doRequest(t, router, http.MethodGet, "/meals", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"meals":[]`) {
		t.Errorf("empty list must marshal as [], got %s", rec.Body.String())
	}
}

func TestMealGet(t *testing.T) {
	store := &fakeMealStore{}
	meal := seedMeal(store, testOwner.ID, "Pizza", true, 1724868000000)

	router := newMealRouter(store, testOwner)
	rec := doRequest(t, router, http.MethodGet, "/meals/"+meal.ID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got model.Meal
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got.ID != meal.ID || got.Name != "Pizza" {
		t.Errorf("unexpected meal: %+v", got)
	}
}

func TestMealGet_InvalidID(t *testing.T) {
	router := newMealRouter(&fakeMealStore{}, testOwner)
	rec := doRequest(t, router, http.MethodGet, "/meals/not-a-uuid", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if _, code := decodeError(t, rec.Body); code != "INVALID_ID" {
		t.Errorf("unexpected code: %s", code)
	}
}

func TestMealGet_ForeignMealHidden(t *testing.T) {
	store := &fakeMealStore{}
	foreign := seedMeal(store, "22222222-2222-2222-2222-222222222222", "Secret", true, 1)

	router := newMealRouter(store, testOwner)
	rec := doRequest(t, router, http.MethodGet, "/meals/"+foreign.ID, "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign meal must look missing, got %d", rec.Code)
	}
	if _, code := decodeError(t, rec.Body); code != "MEAL_NOT_FOUND" {
		t.Errorf("unexpected code: %s", code)
	}
}

func TestMealUpdate(t *testing.T) {
	store := &fakeMealStore{}
	meal := seedMeal(store, testOwner.ID, "Pizza", false, 1724868000000)

	router := newMealRouter(store, testOwner)
	rec := doRequest(t, router, http.MethodPut, "/meals/"+meal.ID,
		`{"name":"Pizza","description":"thin crust","isOnDiet":true,"eatedAt":1724954400000}`)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	updated := store.meals[0]
	if !updated.IsOnDiet || updated.EatenAt != 1724954400000 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.UpdatedAt == nil {
		t.Fatal("update must stamp updated_at")
	}
	if len(*updated.UpdatedAt) != len(model.UpdatedAtLayout) {
		t.Errorf("unexpected updated_at format: %q", *updated.UpdatedAt)
	}
}

func TestMealUpdate_NotFound(t *testing.T) {
	router := newMealRouter(&fakeMealStore{}, testOwner)
	rec := doRequest(t, router, http.MethodPut, "/meals/"+uuid.New().String(),
		`{"name":"Pizza","description":"x","isOnDiet":true,"eatedAt":1}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMealDelete(t *testing.T) {
	store := &fakeMealStore{}
	meal := seedMeal(store, testOwner.ID, "Pizza", true, 1)

	router := newMealRouter(store, testOwner)

	rec := doRequest(t, router, http.MethodDelete, "/meals/"+meal.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodDelete, "/meals/"+meal.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete must 404, got %d", rec.Code)
	}
}

func TestMealSummary(t *testing.T) {
	store := &fakeMealStore{}
	seedMeal(store, testOwner.ID, "Burger", false, 1)
	seedMeal(store, testOwner.ID, "Salad", true, 2)
	seedMeal(store, testOwner.ID, "Soup", true, 3)

	router := newMealRouter(store, testOwner)
	rec := doRequest(t, router, http.MethodGet, "/meals/summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got service.Summary
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	want := service.Summary{
		TotalMeals:           3,
		TotalMealsInDiet:     2,
		TotalMealsOutOfDiet:  1,
		BetterSequenceInDiet: 2,
	}
	if got != want {
		t.Errorf("summary = %+v, want %+v", got, want)
	}
}

func TestMealSummary_Empty(t *testing.T) {
	router := newMealRouter(&fakeMealStore{}, testOwner)
	rec := doRequest(t, router, http.MethodGet, "/meals/summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got service.Summary
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if got != (service.Summary{}) {
		t.Errorf("expected all-zero summary, got %+v", got)
	}
}
