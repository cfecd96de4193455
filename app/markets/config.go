package markets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/praxis-markets/praxis/models"
)

// Config represents the configuration for the markets module
type Config struct {
	// MinInitialLiquidity is the smallest seed a market can be created with.
	// The liquidity parameter is derived from the seed, so a tiny seed makes
	// prices swing wildly on the first trades.
	MinInitialLiquidity decimal.Decimal `env:"MARKETS_MIN_INITIAL_LIQUIDITY"`

	// MinResolutionLead is how far in the future the resolution time must lie
	// at creation.
	MinResolutionLead time.Duration `env:"MARKETS_MIN_RESOLUTION_LEAD"`

	MaxTitleLength       int `env:"MARKETS_MAX_TITLE_LENGTH"`
	MaxDescriptionLength int `env:"MARKETS_MAX_DESCRIPTION_LENGTH"`

	DefaultPageSize int `env:"MARKETS_DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `env:"MARKETS_MAX_PAGE_SIZE"`
}

func (c *Config) Validate() error {
	if !c.MinInitialLiquidity.IsPositive() {
		return models.ErrZeroAmount
	}
	if c.MinResolutionLead < 0 {
		return models.ErrInvalidResolutionTime
	}
	if c.MaxTitleLength <= 0 || c.MaxDescriptionLength <= 0 {
		return models.ErrInvalidMarketTitle
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		return models.ErrDomain
	}
	return nil
}

// GetDefaultConfig returns the default markets configuration
func GetDefaultConfig() *Config {
	return &Config{
		MinInitialLiquidity:  decimal.NewFromInt(100),
		MinResolutionLead:    time.Hour,
		MaxTitleLength:       255,
		MaxDescriptionLength: 10_000,
		DefaultPageSize:      20,
		MaxPageSize:          100,
	}
}
