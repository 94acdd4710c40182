package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dailydiet/dailydiet/internal/handler/dto"
	"github.com/dailydiet/dailydiet/internal/service"
	"github.com/dailydiet/dailydiet/internal/session"
)

// MealHandler handles meal CRUD and summary endpoints. Every operation
// is scoped to the authenticated owner from the request context.
type MealHandler struct {
	svc    *service.MealService
	logger *slog.Logger
}

// NewMealHandler creates a new MealHandler.
func NewMealHandler(svc *service.MealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create registers a new meal for the caller.
// POST /meals
func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := session.MustUserFromContext(r.Context())

	req, ok := h.decodeMealRequest(w, r)
	if !ok {
		return
	}

	meal, err := h.svc.Create(r.Context(), owner.ID, service.MealInput{
		Name:        req.Name,
		Description: req.Description,
		IsOnDiet:    *req.IsOnDiet,
		EatenAt:     req.EatedAt.Millis(),
	})
	if err != nil {
		h.serviceError(w, "failed to create meal", err)
		return
	}

	h.logger.Info("meal created",
		slog.String("meal_id", meal.ID),
		slog.String("user_id", owner.ID),
	)

	writeJSON(w, http.StatusCreated, nil)
}

// List returns the caller's meals, most recently eaten first.
// GET /meals
func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := session.MustUserFromContext(r.Context())

	meals, err := h.svc.List(r.Context(), owner.ID)
	if err != nil {
		h.serviceError(w, "failed to list meals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMealsResponse(meals))
}

// Get returns one of the caller's meals.
// GET /meals/{id}
func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner := session.MustUserFromContext(r.Context())

	id, ok := mealID(w, r)
	if !ok {
		return
	}

	meal, err := h.svc.Get(r.Context(), owner.ID, id)
	if err != nil {
		h.serviceError(w, "failed to get meal", err)
		return
	}

	writeJSON(w, http.StatusOK, meal)
}

// Update replaces all mutable fields of one of the caller's meals.
// PUT /meals/{id}
func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := session.MustUserFromContext(r.Context())

	id, ok := mealID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeMealRequest(w, r)
	if !ok {
		return
	}

	err := h.svc.Update(r.Context(), owner.ID, id, service.MealInput{
		Name:        req.Name,
		Description: req.Description,
		IsOnDiet:    *req.IsOnDiet,
		EatenAt:     req.EatedAt.Millis(),
	})
	if err != nil {
		h.serviceError(w, "failed to update meal", err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// Delete removes one of the caller's meals.
// DELETE /meals/{id}
func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := session.MustUserFromContext(r.Context())

	id, ok := mealID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), owner.ID, id); err != nil {
		h.serviceError(w, "failed to delete meal", err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// Summary returns the caller's meal totals and best on-diet sequence.
// GET /meals/summary
func (h *MealHandler) Summary(w http.ResponseWriter, r *http.Request) {
	owner := session.MustUserFromContext(r.Context())

	summary, err := h.svc.Summary(r.Context(), owner.ID)
	if err != nil {
		h.serviceError(w, "failed to compute summary", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// decodeMealRequest decodes and validates a meal body, writing the
// error response itself when the body is unusable.
func (h *MealHandler) decodeMealRequest(w http.ResponseWriter, r *http.Request) (*dto.MealRequest, bool) {
	var req dto.MealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", "INVALID_JSON")
		return nil, false
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, dto.ValidationMessage(err), "VALIDATION_FAILED")
		return nil, false
	}

	return &req, true
}

// mealID extracts and validates the meal id path parameter.
// A malformed id is rejected before any storage access.
func mealID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid meal id", "INVALID_ID")
		return "", false
	}
	return id, true
}

// serviceError maps service errors to HTTP responses.
func (h *MealHandler) serviceError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, service.ErrMealNotFound) {
		writeError(w, http.StatusNotFound, "Meal not found", "MEAL_NOT_FOUND")
		return
	}
	h.logger.Error(msg, slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "An internal error occurred", "INTERNAL_ERROR")
}
