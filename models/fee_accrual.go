package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeAccrual tracks per-market running fee and volume totals. The fee engine
// itself is pure; this record holds the accumulated inputs and outputs.
type FeeAccrual struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	MarketID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"market_id"`
	ProtocolFees decimal.Decimal `gorm:"type:decimal(38,18);default:0" json:"protocol_fees"`
	LPFees       decimal.Decimal `gorm:"type:decimal(38,18);default:0" json:"lp_fees"`
	Volume       decimal.Decimal `gorm:"type:decimal(38,18);default:0" json:"volume"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Market *Market `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"market,omitempty"`
}

func (*FeeAccrual) TableName() string {
	return "fee_accruals"
}

func (f *FeeAccrual) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Accrue adds one trade's fee split and volume to the running totals.
func (f *FeeAccrual) Accrue(protocolFee, lpFee, volume decimal.Decimal) {
	f.ProtocolFees = f.ProtocolFees.Add(protocolFee)
	f.LPFees = f.LPFees.Add(lpFee)
	f.Volume = f.Volume.Add(volume)
}
