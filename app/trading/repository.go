package trading

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/models"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new trading repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) GetMarketByID(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	var market models.Market
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&market).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &market, nil
}

func (r *repository) UpdateMarket(ctx context.Context, market *models.Market) error {
	return r.db.WithContext(ctx).Save(market).Error
}

func (r *repository) GetPosition(ctx context.Context, userID, marketID uuid.UUID, outcome int) (*models.Position, error) {
	var position models.Position
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND market_id = ? AND outcome = ?", userID, marketID, outcome).
		First(&position).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &position, nil
}

func (r *repository) GetOrCreatePosition(ctx context.Context, userID, marketID uuid.UUID, outcome int) (*models.Position, error) {
	position, err := r.GetPosition(ctx, userID, marketID, outcome)
	if err == nil {
		return position, nil
	}
	if !errors.Is(err, models.ErrRecordNotFound) {
		return nil, err
	}

	position = &models.Position{
		UserID:   userID,
		MarketID: marketID,
		Outcome:  outcome,
		Shares:   decimal.Zero,
	}
	if err := r.db.WithContext(ctx).Create(position).Error; err != nil {
		return nil, err
	}
	return position, nil
}

func (r *repository) GetPositionsByUserAndMarket(ctx context.Context, userID, marketID uuid.UUID) ([]models.Position, error) {
	var positions []models.Position
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND market_id = ?", userID, marketID).
		Order("outcome ASC").
		Find(&positions).Error
	return positions, err
}

func (r *repository) SavePosition(ctx context.Context, position *models.Position) error {
	return r.db.WithContext(ctx).Save(position).Error
}

func (r *repository) GetCollateralAccount(ctx context.Context, userID uuid.UUID) (*models.CollateralAccount, error) {
	var account models.CollateralAccount
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) SaveCollateralAccount(ctx context.Context, account *models.CollateralAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repository) GetLPShare(ctx context.Context, userID, marketID uuid.UUID) (*models.LPShare, error) {
	var share models.LPShare
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND market_id = ?", userID, marketID).
		First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &share, nil
}

func (r *repository) GetOrCreateLPShare(ctx context.Context, userID, marketID uuid.UUID) (*models.LPShare, error) {
	share, err := r.GetLPShare(ctx, userID, marketID)
	if err == nil {
		return share, nil
	}
	if !errors.Is(err, models.ErrRecordNotFound) {
		return nil, err
	}

	share = &models.LPShare{
		UserID:   userID,
		MarketID: marketID,
		Shares:   decimal.Zero,
	}
	if err := r.db.WithContext(ctx).Create(share).Error; err != nil {
		return nil, err
	}
	return share, nil
}

func (r *repository) SaveLPShare(ctx context.Context, share *models.LPShare) error {
	return r.db.WithContext(ctx).Save(share).Error
}

func (r *repository) TotalLPSupply(ctx context.Context, marketID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.LPShare{}).
		Select("SUM(shares)").
		Where("market_id = ?", marketID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repository) GetOrCreateFeeAccrual(ctx context.Context, marketID uuid.UUID) (*models.FeeAccrual, error) {
	var accrual models.FeeAccrual
	err := r.db.WithContext(ctx).Where("market_id = ?", marketID).First(&accrual).Error
	if err == nil {
		return &accrual, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	accrual = models.FeeAccrual{
		MarketID:     marketID,
		ProtocolFees: decimal.Zero,
		LPFees:       decimal.Zero,
		Volume:       decimal.Zero,
	}
	if err := r.db.WithContext(ctx).Create(&accrual).Error; err != nil {
		return nil, err
	}
	return &accrual, nil
}

func (r *repository) SaveFeeAccrual(ctx context.Context, accrual *models.FeeAccrual) error {
	return r.db.WithContext(ctx).Save(accrual).Error
}

func (r *repository) CreateTrade(ctx context.Context, trade *models.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}
