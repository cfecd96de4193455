package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/praxis-markets/praxis/models"
)

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"max=100"`
}

// LoginRequest authenticates a user by email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Response is the public view of a user.
type Response struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginResponse carries the access token and the authenticated user.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Response  `json:"user"`
}

// ToResponse maps a user model to its public view.
func ToResponse(u *models.User) Response {
	return Response{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
