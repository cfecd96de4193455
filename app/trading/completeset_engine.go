package trading

import (
	"github.com/shopspring/decimal"

	"github.com/praxis-markets/praxis/internal/fixedpoint"
	"github.com/praxis-markets/praxis/models"
)

// arbEpsilon is the tolerance applied when comparing a price sum to one unit.
// Fixed-point truncation leaves dust on the order of a few subunits per
// outcome, which is not an exploitable mispricing.
var arbEpsilon = decimal.New(1, -9)

// completeSetEngine implements the CompleteSetEngine interface. A complete set
// is one share of every outcome; it always redeems for exactly one collateral
// unit regardless of current prices, which is what anchors the price-sum
// invariant.
type completeSetEngine struct{}

// NewCompleteSetEngine creates a new complete-set engine
func NewCompleteSetEngine() CompleteSetEngine {
	return &completeSetEngine{}
}

// MintCost returns the collateral required to mint the given number of
// complete sets. Minting is 1:1 and never charges a fee.
func (e *completeSetEngine) MintCost(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, models.ErrZeroAmount
	}
	return amount, nil
}

// BurnPayout returns the collateral released by burning the given number of
// complete sets, 1:1 with MintCost.
func (e *completeSetEngine) BurnPayout(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, models.ErrZeroAmount
	}
	return amount, nil
}

// HasCompleteSet reports whether every outcome balance is at least amount.
func (e *completeSetEngine) HasCompleteSet(balances []decimal.Decimal, amount decimal.Decimal) bool {
	if len(balances) == 0 {
		return false
	}
	for _, bal := range balances {
		if bal.LessThan(amount) {
			return false
		}
	}
	return true
}

// MinimumAcrossOutcomes returns the largest complete-set size the balances can
// redeem, i.e. the minimum balance across outcomes.
func (e *completeSetEngine) MinimumAcrossOutcomes(balances []decimal.Decimal) (decimal.Decimal, error) {
	if len(balances) == 0 {
		return decimal.Zero, models.ErrInvalidOutcomeCount
	}
	minBal := balances[0]
	for _, bal := range balances[1:] {
		if bal.LessThan(minBal) {
			minBal = bal
		}
	}
	return minBal, nil
}

// DetectArbitrage compares the sum of outcome prices to one unit. A sum above
// one unit means selling a complete set piecewise beats burning it; below one
// unit, buying piecewise and burning is profitable. The returned magnitude is
// the absolute deviation.
func (e *completeSetEngine) DetectArbitrage(prices []decimal.Decimal) (bool, decimal.Decimal) {
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(p)
	}
	deviation := sum.Sub(fixedpoint.Unit).Abs()
	return deviation.GreaterThan(arbEpsilon), deviation
}
