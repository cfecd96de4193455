package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LPShare is a liquidity provider's claim on a market's liquidity pool,
// proportional to capital contributed. StakedAt tracks the start of the
// current stake for reward-multiplier tiers.
type LPShare struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_lp_shares_user_market" json:"user_id"`
	MarketID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_lp_shares_user_market" json:"market_id"`
	Shares   decimal.Decimal `gorm:"type:decimal(38,18);default:0;check:shares >= 0" json:"shares"`
	StakedAt time.Time       `gorm:"type:timestamptz;not null" json:"staked_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Market *Market `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"market,omitempty"`
}

func (*LPShare) TableName() string {
	return "lp_shares"
}

func (s *LPShare) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TimeStaked returns how long the current stake has been held.
func (s *LPShare) TimeStaked(now time.Time) time.Duration {
	if s.StakedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StakedAt)
}

// Credit adds LP shares.
func (s *LPShare) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrZeroAmount
	}
	s.Shares = s.Shares.Add(amount)
	return nil
}

// Debit removes LP shares, failing if the balance is short.
func (s *LPShare) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrZeroAmount
	}
	if s.Shares.LessThan(amount) {
		return ErrInsufficientShares
	}
	s.Shares = s.Shares.Sub(amount)
	return nil
}
