package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/praxis-markets/praxis/models"
)

// Repository defines the interface for user data access
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// Service defines the interface for user business logic
type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*Response, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*Response, error)
}
