package markets

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

// NewRepository creates a new markets repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) CreateMarket(ctx context.Context, market *models.Market) error {
	return r.db.WithContext(ctx).Create(market).Error
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

func (r *repository) GetMarkets(ctx context.Context, filters *MarketFilters) ([]models.Market, int64, error) {
	var markets []models.Market
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Market{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filters.Page - 1) * filters.PerPage
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(filters.PerPage).
		Find(&markets).Error
	return markets, total, err
}

func (r *repository) UpdateMarket(ctx context.Context, market *models.Market) error {
	return r.db.WithContext(ctx).Save(market).Error
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

func (r *repository) GetOrCreateCollateralAccount(ctx context.Context, userID uuid.UUID) (*models.CollateralAccount, error) {
	account, err := r.GetCollateralAccount(ctx, userID)
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

func (r *repository) SaveCollateralAccount(ctx context.Context, account *models.CollateralAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repository) CreateLPShare(ctx context.Context, share *models.LPShare) error {
	return r.db.WithContext(ctx).Create(share).Error
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

func (r *repository) GetClaim(ctx context.Context, marketID, userID uuid.UUID) (*models.Claim, error) {
	var claim models.Claim
	err := r.db.WithContext(ctx).
		Where("market_id = ? AND user_id = ?", marketID, userID).
		First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &claim, nil
}

func (r *repository) CreateClaim(ctx context.Context, claim *models.Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *repository) GetFeeAccrual(ctx context.Context, marketID uuid.UUID) (*models.FeeAccrual, error) {
	var accrual models.FeeAccrual
	err := r.db.WithContext(ctx).Where("market_id = ?", marketID).First(&accrual).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRecordNotFound
		}
		return nil, err
	}
	return &accrual, nil
}

func (r *repository) CreateTrade(ctx context.Context, trade *models.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}
