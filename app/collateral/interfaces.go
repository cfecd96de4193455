package collateral

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/models"
)

// Repository defines the interface for collateral account data access
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	GetAccount(ctx context.Context, userID uuid.UUID) (*models.CollateralAccount, error)
	GetOrCreateAccount(ctx context.Context, userID uuid.UUID) (*models.CollateralAccount, error)
	SaveAccount(ctx context.Context, account *models.CollateralAccount) error
}

// Service defines the interface for collateral account business logic
type Service interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*AccountResponse, error)
	Deposit(ctx context.Context, userID uuid.UUID, req *DepositRequest) (*AccountResponse, error)
	Withdraw(ctx context.Context, userID uuid.UUID, req *WithdrawRequest) (*AccountResponse, error)
}
