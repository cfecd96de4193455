package markets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/praxis-markets/praxis/models"
)

// CreateMarketRequest creates a new market. Outcome count and resolution time
// are immutable once set; the liquidity parameter is derived from the seed.
type CreateMarketRequest struct {
	Title            string          `json:"title" binding:"required"`
	Description      string          `json:"description"`
	MetadataRef      string          `json:"metadata_ref"`
	OutcomeLabels    []string        `json:"outcome_labels" binding:"required,min=2,max=10"`
	ResolverID       uuid.UUID       `json:"resolver_id"`
	ResolutionTime   time.Time       `json:"resolution_time" binding:"required"`
	InitialLiquidity decimal.Decimal `json:"initial_liquidity" binding:"required"`
}

// ResolveMarketRequest names the winning outcome.
type ResolveMarketRequest struct {
	WinningOutcome int `json:"winning_outcome" binding:"min=0"`
}

// MarketFilters filters and paginates market listings.
type MarketFilters struct {
	Status  *models.MarketStatus `form:"status"`
	Page    int                  `form:"page"`
	PerPage int                  `form:"per_page"`
}

// MarketResponse is the public view of a market.
type MarketResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description,omitempty"`
	MetadataRef        string              `json:"metadata_ref,omitempty"`
	ResolverID         uuid.UUID           `json:"resolver_id"`
	OutcomeCount       int                 `json:"outcome_count"`
	OutcomeLabels      []string            `json:"outcome_labels"`
	LiquidityParameter decimal.Decimal     `json:"liquidity_parameter"`
	TotalVolume        decimal.Decimal     `json:"total_volume"`
	Status             models.MarketStatus `json:"status"`
	WinningOutcome     *int                `json:"winning_outcome,omitempty"`
	ResolutionTime     time.Time           `json:"resolution_time"`
	ResolvedAt         *time.Time          `json:"resolved_at,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// MarketListResponse is a paginated market listing.
type MarketListResponse struct {
	Markets []MarketResponse `json:"markets"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// MarketStateResponse exposes the full mutable state of a market for
// orchestration layers.
type MarketStateResponse struct {
	MarketResponse
	Quantities           []decimal.Decimal `json:"quantities"`
	CollateralPool       decimal.Decimal   `json:"collateral_pool"`
	LiquidityPoolBalance decimal.Decimal   `json:"liquidity_pool_balance"`
	TotalLPSupply        decimal.Decimal   `json:"total_lp_supply"`
}

// ClaimResponse reports a settlement payout.
type ClaimResponse struct {
	MarketID  uuid.UUID       `json:"market_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	ClaimedAt time.Time       `json:"claimed_at"`
}

// FeeQuoteResponse is the fee rate a trade on this market would pay right
// now, plus the running accrual totals.
type FeeQuoteResponse struct {
	MarketID        uuid.UUID       `json:"market_id"`
	TotalBps        int64           `json:"total_bps"`
	ProtocolBps     int64           `json:"protocol_bps"`
	LPBps           int64           `json:"lp_bps"`
	AccruedProtocol decimal.Decimal `json:"accrued_protocol"`
	AccruedLP       decimal.Decimal `json:"accrued_lp"`
	AccruedVolume   decimal.Decimal `json:"accrued_volume"`
}

// ToMarketResponse maps a market model to its public view.
func ToMarketResponse(m *models.Market) MarketResponse {
	return MarketResponse{
		ID:                 m.ID,
		Title:              m.Title,
		Description:        m.Description,
		MetadataRef:        m.MetadataRef,
		ResolverID:         m.ResolverID,
		OutcomeCount:       m.OutcomeCount,
		OutcomeLabels:      m.OutcomeLabels,
		LiquidityParameter: m.LiquidityParameter,
		TotalVolume:        m.TotalVolume,
		Status:             m.Status,
		WinningOutcome:     m.WinningOutcome,
		ResolutionTime:     m.ResolutionTime,
		ResolvedAt:         m.ResolvedAt,
		CreatedAt:          m.CreatedAt,
	}
}
