package trading

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/praxis-markets/praxis/models"
)

// Repository defines the interface for trading data access
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	GetMarketByID(ctx context.Context, id uuid.UUID) (*models.Market, error)
	UpdateMarket(ctx context.Context, market *models.Market) error

	// Outcome ledger
	GetPosition(ctx context.Context, userID, marketID uuid.UUID, outcome int) (*models.Position, error)
	GetOrCreatePosition(ctx context.Context, userID, marketID uuid.UUID, outcome int) (*models.Position, error)
	GetPositionsByUserAndMarket(ctx context.Context, userID, marketID uuid.UUID) ([]models.Position, error)
	SavePosition(ctx context.Context, position *models.Position) error

	// Collateral ledger
	GetCollateralAccount(ctx context.Context, userID uuid.UUID) (*models.CollateralAccount, error)
	SaveCollateralAccount(ctx context.Context, account *models.CollateralAccount) error

	// LP ledger
	GetLPShare(ctx context.Context, userID, marketID uuid.UUID) (*models.LPShare, error)
	GetOrCreateLPShare(ctx context.Context, userID, marketID uuid.UUID) (*models.LPShare, error)
	SaveLPShare(ctx context.Context, share *models.LPShare) error
	TotalLPSupply(ctx context.Context, marketID uuid.UUID) (decimal.Decimal, error)

	// Fee accrual and trade history
	GetOrCreateFeeAccrual(ctx context.Context, marketID uuid.UUID) (*models.FeeAccrual, error)
	SaveFeeAccrual(ctx context.Context, accrual *models.FeeAccrual) error
	CreateTrade(ctx context.Context, trade *models.Trade) error
}

// Service defines the interface for trading business logic
type Service interface {
	Buy(ctx context.Context, userID, marketID uuid.UUID, req *BuyRequest) (*TradeResponse, error)
	Sell(ctx context.Context, userID, marketID uuid.UUID, req *SellRequest) (*TradeResponse, error)
	MintCompleteSet(ctx context.Context, userID, marketID uuid.UUID, req *CompleteSetRequest) (*TradeResponse, error)
	BurnCompleteSet(ctx context.Context, userID, marketID uuid.UUID, req *CompleteSetRequest) (*TradeResponse, error)
	AddLiquidity(ctx context.Context, userID, marketID uuid.UUID, req *LiquidityRequest) (*LiquidityResponse, error)
	RemoveLiquidity(ctx context.Context, userID, marketID uuid.UUID, req *RemoveLiquidityRequest) (*LiquidityResponse, error)

	SimulateBuy(ctx context.Context, marketID uuid.UUID, req *QuoteRequest) (*QuoteResponse, error)
	SimulateSell(ctx context.Context, marketID uuid.UUID, req *QuoteRequest) (*QuoteResponse, error)
	GetPrices(ctx context.Context, marketID uuid.UUID) (*PricesResponse, error)
	CheckArbitrage(ctx context.Context, marketID uuid.UUID) (*ArbitrageResponse, error)
	GetUserPosition(ctx context.Context, marketID, userID uuid.UUID) (*UserPositionResponse, error)
}

// PricingEngine defines the interface for LMSR price and cost calculations
type PricingEngine interface {
	Cost(q models.QuantityVector, b decimal.Decimal) (decimal.Decimal, error)
	Prices(q models.QuantityVector, b decimal.Decimal) ([]decimal.Decimal, error)
	BuyCost(q models.QuantityVector, i int, shares, b decimal.Decimal) (decimal.Decimal, error)
	SellPayout(q models.QuantityVector, i int, shares, b decimal.Decimal) (decimal.Decimal, error)
	DeriveLiquidityParameter(outcomeCount int, initialLiquidity decimal.Decimal) (decimal.Decimal, error)
	PriceImpact(q models.QuantityVector, i int, signedShares, b decimal.Decimal) (decimal.Decimal, error)
	SharesForBudget(q models.QuantityVector, i int, maxCost, b decimal.Decimal) (decimal.Decimal, error)
}

// CompleteSetEngine defines the interface for 1:1 complete-set operations
type CompleteSetEngine interface {
	MintCost(amount decimal.Decimal) (decimal.Decimal, error)
	BurnPayout(amount decimal.Decimal) (decimal.Decimal, error)
	HasCompleteSet(balances []decimal.Decimal, amount decimal.Decimal) bool
	MinimumAcrossOutcomes(balances []decimal.Decimal) (decimal.Decimal, error)
	DetectArbitrage(prices []decimal.Decimal) (bool, decimal.Decimal)
}

// FeeQuoter computes the fee rate applied to LMSR trades. Implemented by the
// markets module's fee engine and injected at wiring time.
type FeeQuoter interface {
	ComputeFeeBps(totalVolume, liquidity decimal.Decimal, marketAge time.Duration) (totalBps, protocolBps, lpBps int64)
}
