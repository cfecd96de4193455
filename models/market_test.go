package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTestMarket() *Market {
	return &Market{
		ID:                 uuid.New(),
		Title:              "Who wins the election?",
		ResolverID:         uuid.New(),
		OutcomeCount:       3,
		Quantities:         ZeroQuantities(3),
		LiquidityParameter: decimal.NewFromInt(1000),
		CollateralPool:     decimal.Zero,
		Status:             MarketStatusActive,
		ResolutionTime:     time.Now().Add(-time.Hour),
		CreatedAt:          time.Now().Add(-24 * time.Hour),
	}
}

func TestMarket_Resolve(t *testing.T) {
	t.Run("resolves active market after resolution time", func(t *testing.T) {
		m := newTestMarket()
		err := m.Resolve(1, time.Now())
		assert.NoError(t, err)
		assert.Equal(t, MarketStatusResolved, m.Status)
		assert.NotNil(t, m.WinningOutcome)
		assert.Equal(t, 1, *m.WinningOutcome)
		assert.NotNil(t, m.ResolvedAt)
	})

	t.Run("fails before resolution time", func(t *testing.T) {
		m := newTestMarket()
		m.ResolutionTime = time.Now().Add(time.Hour)
		err := m.Resolve(0, time.Now())
		assert.ErrorIs(t, err, ErrResolutionTimeNotReached)
		assert.Equal(t, MarketStatusActive, m.Status)
	})

	t.Run("fails on outcome out of range", func(t *testing.T) {
		m := newTestMarket()
		assert.ErrorIs(t, m.Resolve(3, time.Now()), ErrInvalidOutcome)
		assert.ErrorIs(t, m.Resolve(-1, time.Now()), ErrInvalidOutcome)
	})

	t.Run("fails when already terminal", func(t *testing.T) {
		m := newTestMarket()
		assert.NoError(t, m.Resolve(0, time.Now()))
		assert.ErrorIs(t, m.Resolve(1, time.Now()), ErrMarketNotActive)

		m2 := newTestMarket()
		assert.NoError(t, m2.Cancel(time.Now()))
		assert.ErrorIs(t, m2.Resolve(0, time.Now()), ErrMarketNotActive)
	})
}

func TestMarket_Cancel(t *testing.T) {
	m := newTestMarket()
	assert.NoError(t, m.Cancel(time.Now()))
	assert.Equal(t, MarketStatusCancelled, m.Status)
	assert.True(t, m.IsTerminal())

	// terminal states are set at most once
	assert.ErrorIs(t, m.Cancel(time.Now()), ErrMarketNotActive)
}

func TestMarket_Validate(t *testing.T) {
	t.Run("valid market", func(t *testing.T) {
		assert.NoError(t, newTestMarket().Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		m := newTestMarket()
		m.Title = ""
		assert.ErrorIs(t, m.Validate(), ErrInvalidMarketTitle)
	})

	t.Run("outcome count bounds", func(t *testing.T) {
		m := newTestMarket()
		m.OutcomeCount = 1
		m.Quantities = ZeroQuantities(1)
		assert.ErrorIs(t, m.Validate(), ErrInvalidOutcomeCount)

		m.OutcomeCount = 11
		m.Quantities = ZeroQuantities(11)
		assert.ErrorIs(t, m.Validate(), ErrInvalidOutcomeCount)
	})

	t.Run("quantity vector length must match outcome count", func(t *testing.T) {
		m := newTestMarket()
		m.Quantities = ZeroQuantities(2)
		assert.ErrorIs(t, m.Validate(), ErrInvalidOutcomeCount)
	})

	t.Run("negative quantity", func(t *testing.T) {
		m := newTestMarket()
		m.Quantities[2] = decimal.NewFromInt(-1)
		assert.ErrorIs(t, m.Validate(), ErrNegativeBalance)
	})

	t.Run("non-positive liquidity parameter", func(t *testing.T) {
		m := newTestMarket()
		m.LiquidityParameter = decimal.Zero
		assert.ErrorIs(t, m.Validate(), ErrZeroAmount)
	})
}

func TestCollateralAccount_DebitCredit(t *testing.T) {
	acct := &CollateralAccount{UserID: uuid.New(), Balance: decimal.NewFromInt(100)}

	assert.NoError(t, acct.Debit(decimal.NewFromInt(40)))
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(60)))

	assert.ErrorIs(t, acct.Debit(decimal.NewFromInt(61)), ErrInsufficientCollateral)
	assert.ErrorIs(t, acct.Debit(decimal.Zero), ErrZeroAmount)

	assert.NoError(t, acct.Credit(decimal.NewFromInt(40)))
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(100)))
	assert.ErrorIs(t, acct.Credit(decimal.NewFromInt(-1)), ErrZeroAmount)
}

func TestPosition_DebitCredit(t *testing.T) {
	p := &Position{UserID: uuid.New(), MarketID: uuid.New(), Outcome: 0, Shares: decimal.Zero}

	assert.ErrorIs(t, p.Debit(decimal.NewFromInt(1)), ErrInsufficientShares)
	assert.NoError(t, p.Credit(decimal.NewFromInt(5)))
	assert.NoError(t, p.Debit(decimal.NewFromInt(5)))
	assert.True(t, p.Shares.IsZero())
}
