package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dailydiet/dailydiet/internal/handler/dto"
	"github.com/dailydiet/dailydiet/internal/service"
	"github.com/dailydiet/dailydiet/internal/session"
)

// UserHandler handles user registration and self-fetch endpoints.
type UserHandler struct {
	svc        *service.UserService
	logger     *slog.Logger
	sessionTTL time.Duration
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger, sessionTTL time.Duration) *UserHandler {
	return &UserHandler{
		svc:        svc,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new user and binds the session cookie to it.
// POST /users
//
// An inbound session cookie is reused so one browser session can own
// several accounts; without one a fresh token is minted and the cookie
// is set only after the insert succeeds.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", "INVALID_JSON")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, dto.ValidationMessage(err), "VALIDATION_FAILED")
		return
	}

	token := session.TokenFromRequest(r)
	hadCookie := token != ""
	if !hadCookie {
		token = session.NewToken()
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		SessionToken: token,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			writeError(w, http.StatusBadRequest, "User e-mail already in use", "EMAIL_IN_USE")
			return
		}
		h.logger.Error("failed to register user", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "An internal error occurred", "INTERNAL_ERROR")
		return
	}

	if !hadCookie {
		session.SetCookie(w, token, h.sessionTTL)
	}

	h.logger.Info("user registered", slog.String("user_id", user.ID))

	writeJSON(w, http.StatusCreated, nil)
}

// Me returns the caller's own user record.
// GET /users
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	current := session.MustUserFromContext(r.Context())

	user, err := h.svc.GetSelf(r.Context(), current.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found", "USER_NOT_FOUND")
			return
		}
		h.logger.Error("failed to get user", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "An internal error occurred", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}
