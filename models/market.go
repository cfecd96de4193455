package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MarketStatus represents the current status of a market.
// ACTIVE is the initial status; RESOLVED and CANCELLED are terminal and
// mutually exclusive.
type MarketStatus string

const (
	MarketStatusActive    MarketStatus = "active"
	MarketStatusResolved  MarketStatus = "resolved"
	MarketStatusCancelled MarketStatus = "cancelled"
)

const (
	MinOutcomeCount = 2
	MaxOutcomeCount = 10
)

// QuantityVector holds one cumulative share quantity per outcome, indexed by
// outcome id. Stored as a JSONB array of decimal strings.
type QuantityVector []decimal.Decimal

func (q QuantityVector) Value() (driver.Value, error) {
	return json.Marshal(q)
}

func (q *QuantityVector) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	}
	return fmt.Errorf("unsupported type %T for QuantityVector", value)
}

// Clone returns an independent copy of the vector so simulations never touch
// the stored state.
func (q QuantityVector) Clone() QuantityVector {
	out := make(QuantityVector, len(q))
	copy(out, q)
	return out
}

// ZeroQuantities returns an all-zero vector for a freshly created market.
func ZeroQuantities(outcomeCount int) QuantityVector {
	q := make(QuantityVector, outcomeCount)
	for i := range q {
		q[i] = decimal.Zero
	}
	return q
}

// Market represents one categorical prediction market priced by the LMSR.
type Market struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`

	// MetadataRef is an opaque off-chain content identifier. The engine
	// stores it and never interprets it.
	MetadataRef string `gorm:"type:text" json:"metadata_ref,omitempty"`

	ResolverID uuid.UUID `gorm:"type:uuid;not null" json:"resolver_id"`

	OutcomeCount  int            `gorm:"not null" json:"outcome_count"`
	OutcomeLabels OutcomeLabels  `gorm:"type:jsonb;default:'[]'" json:"outcome_labels"`
	Quantities    QuantityVector `gorm:"type:jsonb;not null" json:"quantities"`

	LiquidityParameter   decimal.Decimal `gorm:"type:decimal(38,18);not null" json:"liquidity_parameter"`
	CollateralPool       decimal.Decimal `gorm:"type:decimal(38,18);default:0;check:collateral_pool >= 0" json:"collateral_pool"`
	LiquidityPoolBalance decimal.Decimal `gorm:"type:decimal(38,18);default:0" json:"liquidity_pool_balance"`
	TotalVolume          decimal.Decimal `gorm:"type:decimal(38,18);default:0" json:"total_volume"`

	Status         MarketStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	WinningOutcome *int         `gorm:"type:int" json:"winning_outcome,omitempty"`
	ResolutionTime time.Time    `gorm:"type:timestamptz;not null" json:"resolution_time"`
	ResolvedAt     *time.Time   `gorm:"type:timestamptz" json:"resolved_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// OutcomeLabels holds the display label for each outcome, indexed by outcome id.
type OutcomeLabels []string

func (l OutcomeLabels) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *OutcomeLabels) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported type %T for OutcomeLabels", value)
}

// TableName specifies the table name for Market model
func (*Market) TableName() string {
	return "markets"
}

// BeforeCreate sets up the model before creation
func (m *Market) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// IsActive checks if the market is open for trading
func (m *Market) IsActive() bool {
	return m.Status == MarketStatusActive
}

// IsResolved checks if the market has been resolved
func (m *Market) IsResolved() bool {
	return m.Status == MarketStatusResolved
}

// IsCancelled checks if the market has been cancelled
func (m *Market) IsCancelled() bool {
	return m.Status == MarketStatusCancelled
}

// IsTerminal reports whether the market has reached a terminal status.
func (m *Market) IsTerminal() bool {
	return m.IsResolved() || m.IsCancelled()
}

// ValidOutcome checks that an outcome index addresses one of this market's
// outcomes.
func (m *Market) ValidOutcome(outcome int) bool {
	return outcome >= 0 && outcome < m.OutcomeCount
}

// Age returns the elapsed time since market creation.
func (m *Market) Age(now time.Time) time.Duration {
	return now.Sub(m.CreatedAt)
}

// Resolve transitions the market to RESOLVED with the given winning outcome.
// Allowed only while ACTIVE and once the resolution time has passed.
func (m *Market) Resolve(winningOutcome int, now time.Time) error {
	if !m.IsActive() {
		return ErrMarketNotActive
	}
	if now.Before(m.ResolutionTime) {
		return ErrResolutionTimeNotReached
	}
	if !m.ValidOutcome(winningOutcome) {
		return ErrInvalidOutcome
	}

	m.Status = MarketStatusResolved
	m.WinningOutcome = &winningOutcome
	m.ResolvedAt = &now
	return nil
}

// Cancel transitions the market to CANCELLED. Allowed only while ACTIVE.
func (m *Market) Cancel(now time.Time) error {
	if !m.IsActive() {
		return ErrMarketNotActive
	}
	m.Status = MarketStatusCancelled
	m.ResolvedAt = &now
	return nil
}

// Validate performs validation on the market model
func (m *Market) Validate() error {
	if m.Title == "" {
		return ErrInvalidMarketTitle
	}
	if m.ResolverID == uuid.Nil {
		return ErrInvalidResolver
	}
	if m.OutcomeCount < MinOutcomeCount || m.OutcomeCount > MaxOutcomeCount {
		return ErrInvalidOutcomeCount
	}
	if len(m.Quantities) != m.OutcomeCount {
		return ErrInvalidOutcomeCount
	}
	for i := range m.Quantities {
		if m.Quantities[i].IsNegative() {
			return ErrNegativeBalance
		}
	}
	if m.LiquidityParameter.LessThanOrEqual(decimal.Zero) {
		return ErrZeroAmount
	}
	if m.CollateralPool.IsNegative() || m.LiquidityPoolBalance.IsNegative() {
		return ErrNegativeBalance
	}
	return nil
}
