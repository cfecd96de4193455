package collateral

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new collateral repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) GetAccount(ctx context.Context, userID uuid.UUID) (*models.CollateralAccount, error) {
	var account models.CollateralAccount
	err := r.db.WithContext(ctx).First(&account, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) GetOrCreateAccount(ctx context.Context, userID uuid.UUID) (*models.CollateralAccount, error) {
	account, err := r.GetAccount(ctx, userID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, models.ErrRecordNotFound) {
		return nil, err
	}

	account = &models.CollateralAccount{
		UserID:  userID,
		Balance: decimal.Zero,
	}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func (r *repository) SaveAccount(ctx context.Context, account *models.CollateralAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}
