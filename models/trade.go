package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TradeKind represents the kind of market operation a trade record captures.
type TradeKind string

const (
	TradeKindBuy       TradeKind = "buy"
	TradeKindSell      TradeKind = "sell"
	TradeKindMintSet   TradeKind = "mint_set"
	TradeKindBurnSet   TradeKind = "burn_set"
	TradeKindAddLiq    TradeKind = "add_liquidity"
	TradeKindRemoveLiq TradeKind = "remove_liquidity"
)

// Trade is an immutable record of one executed market operation.
type Trade struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID uuid.UUID `gorm:"type:uuid;not null;index" json:"market_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind     TradeKind `gorm:"type:varchar(20);not null" json:"kind"`

	// Outcome is nil for operations that touch every outcome at once
	// (complete sets, liquidity).
	Outcome *int `gorm:"type:int" json:"outcome,omitempty"`

	Shares decimal.Decimal `gorm:"type:decimal(38,18);not null" json:"shares"`
	Cost   decimal.Decimal `gorm:"type:decimal(38,18);not null" json:"cost"`
	Fee    decimal.Decimal `gorm:"type:decimal(38,18);default:0" json:"fee"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Market *Market `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"market,omitempty"`
}

func (*Trade) TableName() string {
	return "trades"
}

func (t *Trade) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
