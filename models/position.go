package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Position is one user's share balance in one outcome of one market. The
// outcome ledger is keyed by (user, market, outcome).
type Position struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_positions_user_market_outcome" json:"user_id"`
	MarketID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_positions_user_market_outcome" json:"market_id"`
	Outcome  int             `gorm:"not null;uniqueIndex:idx_positions_user_market_outcome" json:"outcome"`
	Shares   decimal.Decimal `gorm:"type:decimal(38,18);default:0;check:shares >= 0" json:"shares"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Market *Market `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"market,omitempty"`
}

func (*Position) TableName() string {
	return "positions"
}

func (p *Position) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Credit adds shares to the position.
func (p *Position) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrZeroAmount
	}
	p.Shares = p.Shares.Add(amount)
	return nil
}

// Debit removes shares from the position, failing if the balance is short.
func (p *Position) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrZeroAmount
	}
	if p.Shares.LessThan(amount) {
		return ErrInsufficientShares
	}
	p.Shares = p.Shares.Sub(amount)
	return nil
}
