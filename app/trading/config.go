package trading

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/praxis-markets/praxis/models"
)

// Config represents the configuration for the trading module
type Config struct {
	// MaxTradeAmount caps the collateral budget of a single buy and the
	// payout of a single sell.
	MaxTradeAmount decimal.Decimal `env:"TRADING_MAX_TRADE_AMOUNT"`

	// PriceCacheTTL bounds how stale a cached price snapshot may get before
	// a read-only quote recomputes it.
	PriceCacheTTL time.Duration `env:"TRADING_PRICE_CACHE_TTL"`
}

func (c *Config) Validate() error {
	if !c.MaxTradeAmount.IsPositive() {
		return models.ErrZeroAmount
	}
	if c.PriceCacheTTL < 0 {
		return models.ErrDomain
	}
	return nil
}

// GetDefaultConfig returns the default trading configuration
func GetDefaultConfig() *Config {
	return &Config{
		MaxTradeAmount: decimal.NewFromInt(1_000_000),
		PriceCacheTTL:  2 * time.Second,
	}
}
