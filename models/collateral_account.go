package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CollateralAccount is a user's collateral balance. Trades pull from and push
// to this account; both directions fail explicitly rather than going negative.
type CollateralAccount struct {
	ID      uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Balance decimal.Decimal `gorm:"type:decimal(38,18);default:0;check:balance >= 0" json:"balance"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*CollateralAccount) TableName() string {
	return "collateral_accounts"
}

func (a *CollateralAccount) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// CanDebit checks if the account has sufficient balance for a debit
func (a *CollateralAccount) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Credit adds collateral to the account
func (a *CollateralAccount) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrZeroAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Debit removes collateral from the account
func (a *CollateralAccount) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrZeroAmount
	}
	if !a.CanDebit(amount) {
		return ErrInsufficientCollateral
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Validate performs validation on the account model
func (a *CollateralAccount) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	if a.Balance.IsNegative() {
		return ErrNegativeBalance
	}
	return nil
}
