package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Claim marks a user's settlement payout on a terminal market. The unique
// (market, user) index is what makes claims idempotent: a second claim
// attempt finds the record and fails with ErrAlreadyClaimed.
type Claim struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_claims_market_user" json:"market_id"`
	UserID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_claims_market_user" json:"user_id"`
	Amount   decimal.Decimal `gorm:"type:decimal(38,18);not null" json:"amount"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Market *Market `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"market,omitempty"`
}

func (*Claim) TableName() string {
	return "claims"
}

func (c *Claim) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
