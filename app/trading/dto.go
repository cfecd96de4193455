package trading

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praxis-markets/praxis/models"
)

// BuyRequest asks to spend at most MaxCost (fees included) on one outcome.
// MinShares is the slippage floor: the trade aborts if the budget buys fewer
// shares than this.
type BuyRequest struct {
	Outcome   int             `json:"outcome" binding:"min=0"`
	MaxCost   decimal.Decimal `json:"max_cost" binding:"required"`
	MinShares decimal.Decimal `json:"min_shares"`
}

// SellRequest asks to sell an exact number of shares of one outcome.
// MinPayout is the slippage floor on the net payout.
type SellRequest struct {
	Outcome   int             `json:"outcome" binding:"min=0"`
	Shares    decimal.Decimal `json:"shares" binding:"required"`
	MinPayout decimal.Decimal `json:"min_payout"`
}

// CompleteSetRequest mints or burns complete sets, 1:1 against collateral.
type CompleteSetRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// LiquidityRequest adds collateral to the market's liquidity pool.
type LiquidityRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// RemoveLiquidityRequest burns LP shares for a proportional pool payout.
type RemoveLiquidityRequest struct {
	LPShares decimal.Decimal `json:"lp_shares" binding:"required"`
}

// QuoteRequest asks for a simulated trade quote without executing it. For buy
// simulations Amount is the collateral budget; for sell simulations it is the
// share quantity.
type QuoteRequest struct {
	Outcome int             `json:"outcome" binding:"min=0"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
}

// TradeResponse reports an executed market operation.
type TradeResponse struct {
	TradeID    uuid.UUID         `json:"trade_id"`
	MarketID   uuid.UUID         `json:"market_id"`
	Kind       models.TradeKind  `json:"kind"`
	Outcome    *int              `json:"outcome,omitempty"`
	Shares     decimal.Decimal   `json:"shares"`
	Cost       decimal.Decimal   `json:"cost"`
	Fee        decimal.Decimal   `json:"fee"`
	Prices     []decimal.Decimal `json:"prices"`
	ExecutedAt time.Time         `json:"executed_at"`
}

// LiquidityResponse reports an executed liquidity operation.
type LiquidityResponse struct {
	MarketID           uuid.UUID       `json:"market_id"`
	LPShares           decimal.Decimal `json:"lp_shares"`
	Amount             decimal.Decimal `json:"amount"`
	PoolBalance        decimal.Decimal `json:"pool_balance"`
	LiquidityParameter decimal.Decimal `json:"liquidity_parameter"`
	TotalLPSupply      decimal.Decimal `json:"total_lp_supply"`
}

// QuoteResponse reports a simulated trade without side effects.
type QuoteResponse struct {
	MarketID       uuid.UUID       `json:"market_id"`
	Outcome        int             `json:"outcome"`
	Shares         decimal.Decimal `json:"shares"`
	BaseCost       decimal.Decimal `json:"base_cost"`
	Fee            decimal.Decimal `json:"fee"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	PriceImpactBps decimal.Decimal `json:"price_impact_bps"`
	QuotedAt       time.Time       `json:"quoted_at"`
}

// PricesResponse is the current price vector of a market.
type PricesResponse struct {
	MarketID  uuid.UUID         `json:"market_id"`
	Prices    []decimal.Decimal `json:"prices"`
	Labels    []string          `json:"labels,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ArbitrageResponse reports whether the price sum deviates from one unit.
type ArbitrageResponse struct {
	MarketID  uuid.UUID       `json:"market_id"`
	Exists    bool            `json:"exists"`
	Magnitude decimal.Decimal `json:"magnitude"`
	PriceSum  decimal.Decimal `json:"price_sum"`
}

// UserPositionResponse is a user's per-outcome share balances in one market,
// plus the largest complete set those balances can redeem.
type UserPositionResponse struct {
	MarketID     uuid.UUID         `json:"market_id"`
	UserID       uuid.UUID         `json:"user_id"`
	Balances     []decimal.Decimal `json:"balances"`
	CompleteSets decimal.Decimal   `json:"complete_sets"`
}
