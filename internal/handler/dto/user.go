package dto

import "github.com/dailydiet/dailydiet/internal/model"

// CreateUserRequest represents the request body for registration.
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Validate checks the request against its schema.
func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// UserResponse represents the caller's own user record.
type UserResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	SessionToken string `json:"session_token"`
}

// ToUserResponse converts a User model to UserResponse.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		SessionToken: user.SessionToken,
	}
}
