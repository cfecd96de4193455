package markets

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/models"
)

// Repository defines the interface for market data access
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateMarket(ctx context.Context, market *models.Market) error
	GetMarketByID(ctx context.Context, id uuid.UUID) (*models.Market, error)
	GetMarkets(ctx context.Context, filters *MarketFilters) ([]models.Market, int64, error)
	UpdateMarket(ctx context.Context, market *models.Market) error

	GetPositionsByUserAndMarket(ctx context.Context, userID, marketID uuid.UUID) ([]models.Position, error)
	SavePosition(ctx context.Context, position *models.Position) error

	GetCollateralAccount(ctx context.Context, userID uuid.UUID) (*models.CollateralAccount, error)
	GetOrCreateCollateralAccount(ctx context.Context, userID uuid.UUID) (*models.CollateralAccount, error)
	SaveCollateralAccount(ctx context.Context, account *models.CollateralAccount) error

	CreateLPShare(ctx context.Context, share *models.LPShare) error
	GetLPShare(ctx context.Context, userID, marketID uuid.UUID) (*models.LPShare, error)
	TotalLPSupply(ctx context.Context, marketID uuid.UUID) (decimal.Decimal, error)

	GetClaim(ctx context.Context, marketID, userID uuid.UUID) (*models.Claim, error)
	CreateClaim(ctx context.Context, claim *models.Claim) error

	GetFeeAccrual(ctx context.Context, marketID uuid.UUID) (*models.FeeAccrual, error)
	CreateTrade(ctx context.Context, trade *models.Trade) error
}

// Service defines the interface for market lifecycle business logic
type Service interface {
	CreateMarket(ctx context.Context, creatorID uuid.UUID, req *CreateMarketRequest) (*MarketResponse, error)
	GetMarkets(ctx context.Context, filters *MarketFilters) (*MarketListResponse, error)
	GetMarketState(ctx context.Context, marketID uuid.UUID) (*MarketStateResponse, error)
	ResolveMarket(ctx context.Context, callerID, marketID uuid.UUID, req *ResolveMarketRequest) (*MarketResponse, error)
	CancelMarket(ctx context.Context, callerID, marketID uuid.UUID) (*MarketResponse, error)
	Claim(ctx context.Context, userID, marketID uuid.UUID) (*ClaimResponse, error)
	GetFeeQuote(ctx context.Context, marketID uuid.UUID) (*FeeQuoteResponse, error)
}

// FeeEngine defines the interface for dynamic fee calculations
type FeeEngine interface {
	ComputeFeeBps(totalVolume, liquidity decimal.Decimal, marketAge time.Duration) (totalBps, protocolBps, lpBps int64)
	LPRewardMultiplier(contributed, totalPool decimal.Decimal, timeStaked time.Duration) decimal.Decimal
}

// LiquidityDeriver derives the LMSR liquidity parameter from a seed. The
// trading module's pricing engine satisfies it; it is injected at wiring time
// so market creation and trading agree on market depth.
type LiquidityDeriver interface {
	DeriveLiquidityParameter(outcomeCount int, initialLiquidity decimal.Decimal) (decimal.Decimal, error)
}
