package trading

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/praxis-markets/praxis/internal/fixedpoint"
	"github.com/praxis-markets/praxis/models"
)

// searchIterationCap bounds the shares-for-budget binary search. The interval
// halves every iteration, so 256 iterations resolve any span this engine can
// represent down to a single subunit.
const searchIterationCap = 256

var bpsPerUnit = decimal.NewFromInt(10000)

// lmsrEngine implements the PricingEngine interface using the Logarithmic
// Market Scoring Rule: C(q) = b * ln(sum_i exp(q_i / b)).
type lmsrEngine struct{}

// NewLMSREngine creates a new LMSR pricing engine
func NewLMSREngine() PricingEngine {
	return &lmsrEngine{}
}

// Cost evaluates the LMSR cost function for quantity vector q and liquidity
// parameter b. The sum of exponentials is computed with the log-sum-exp
// rearrangement: the maximum quantity is factored out before exponentiating so
// every Exp argument is <= 0 and cannot overflow.
func (e *lmsrEngine) Cost(q models.QuantityVector, b decimal.Decimal) (decimal.Decimal, error) {
	if err := validateCostInputs(q, b); err != nil {
		return decimal.Zero, err
	}

	maxQ := maxQuantity(q)
	sum := decimal.Zero
	for i := range q {
		sum = sum.Add(fixedpoint.Exp(fixedpoint.Div(q[i].Sub(maxQ), b)))
	}

	lnSum, err := fixedpoint.Ln(sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("lmsr cost: %w", err)
	}

	return maxQ.Add(fixedpoint.Mul(b, lnSum)), nil
}

// Prices returns the instantaneous price of every outcome:
// price_i = exp((q_i - max)/b) / sum_j exp((q_j - max)/b).
// Each entry lies in [0, 1] and the vector sums to one unit up to truncation.
func (e *lmsrEngine) Prices(q models.QuantityVector, b decimal.Decimal) ([]decimal.Decimal, error) {
	if err := validateCostInputs(q, b); err != nil {
		return nil, err
	}

	maxQ := maxQuantity(q)
	exps := make([]decimal.Decimal, len(q))
	total := decimal.Zero
	for i := range q {
		exps[i] = fixedpoint.Exp(fixedpoint.Div(q[i].Sub(maxQ), b))
		total = total.Add(exps[i])
	}

	prices := make([]decimal.Decimal, len(q))
	for i := range exps {
		prices[i] = fixedpoint.Div(exps[i], total)
	}
	return prices, nil
}

// BuyCost quotes the collateral required to buy the given number of shares of
// outcome i: C(q + shares*e_i) - C(q).
func (e *lmsrEngine) BuyCost(q models.QuantityVector, i int, shares, b decimal.Decimal) (decimal.Decimal, error) {
	if i < 0 || i >= len(q) {
		return decimal.Zero, models.ErrInvalidOutcome
	}
	if !shares.IsPositive() {
		return decimal.Zero, models.ErrZeroAmount
	}
	return e.costDelta(q, i, shares, b)
}

// SellPayout quotes the collateral released by selling shares of outcome i:
// C(q) - C(q - shares*e_i).
func (e *lmsrEngine) SellPayout(q models.QuantityVector, i int, shares, b decimal.Decimal) (decimal.Decimal, error) {
	if i < 0 || i >= len(q) {
		return decimal.Zero, models.ErrInvalidOutcome
	}
	if !shares.IsPositive() {
		return decimal.Zero, models.ErrZeroAmount
	}
	if shares.GreaterThan(q[i]) {
		return decimal.Zero, models.ErrInsufficientShares
	}
	payout, err := e.costDelta(q, i, shares.Neg(), b)
	if err != nil {
		return decimal.Zero, err
	}
	return payout.Neg(), nil
}

// DeriveLiquidityParameter computes b = initialLiquidity / ln(outcomeCount).
// A market seeded with zero quantities then starts at equal prices with depth
// proportional to the seed: C(0) = b*ln(n) = initialLiquidity exactly.
func (e *lmsrEngine) DeriveLiquidityParameter(outcomeCount int, initialLiquidity decimal.Decimal) (decimal.Decimal, error) {
	if outcomeCount < models.MinOutcomeCount || outcomeCount > models.MaxOutcomeCount {
		return decimal.Zero, models.ErrInvalidOutcomeCount
	}
	if !initialLiquidity.IsPositive() {
		return decimal.Zero, models.ErrZeroAmount
	}

	lnN, err := fixedpoint.Ln(decimal.NewFromInt(int64(outcomeCount)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("derive liquidity parameter: %w", err)
	}
	return fixedpoint.Div(initialLiquidity, lnN), nil
}

// PriceImpact simulates trading signedShares of outcome i (positive buys,
// negative sells) and returns the absolute relative change of price_i in
// basis points.
func (e *lmsrEngine) PriceImpact(q models.QuantityVector, i int, signedShares, b decimal.Decimal) (decimal.Decimal, error) {
	if i < 0 || i >= len(q) {
		return decimal.Zero, models.ErrInvalidOutcome
	}
	if signedShares.IsZero() {
		return decimal.Zero, models.ErrZeroAmount
	}
	if signedShares.IsNegative() && signedShares.Neg().GreaterThan(q[i]) {
		return decimal.Zero, models.ErrInsufficientShares
	}

	before, err := e.Prices(q, b)
	if err != nil {
		return decimal.Zero, err
	}

	shifted := q.Clone()
	shifted[i] = shifted[i].Add(signedShares)
	after, err := e.Prices(shifted, b)
	if err != nil {
		return decimal.Zero, err
	}

	if before[i].IsZero() {
		return decimal.Zero, nil
	}
	change := after[i].Sub(before[i]).Abs()
	return fixedpoint.Mul(fixedpoint.Div(change, before[i]), bpsPerUnit), nil
}

// SharesForBudget finds the largest share quantity s such that
// BuyCost(q, i, s, b) <= maxCost, by binary search. BuyCost is strictly
// increasing in s, so the search is well defined; it narrows the interval to
// one subunit before returning. A result of zero means the budget cannot buy
// even the smallest increment.
func (e *lmsrEngine) SharesForBudget(q models.QuantityVector, i int, maxCost, b decimal.Decimal) (decimal.Decimal, error) {
	if i < 0 || i >= len(q) {
		return decimal.Zero, models.ErrInvalidOutcome
	}
	if !maxCost.IsPositive() {
		return decimal.Zero, models.ErrZeroAmount
	}
	if err := validateCostInputs(q, b); err != nil {
		return decimal.Zero, err
	}

	// Buying s shares costs at least s - b*ln(n) (the cost of s shares when
	// the outcome already dominates, minus the worst-case log-sum spread), so
	// maxCost + b*ln(n) + 1 overshoots every affordable quantity.
	lnN, err := fixedpoint.Ln(decimal.NewFromInt(int64(len(q))))
	if err != nil {
		return decimal.Zero, fmt.Errorf("shares for budget: %w", err)
	}
	lo := decimal.Zero
	hi := maxCost.Add(fixedpoint.Mul(b, lnN)).Add(fixedpoint.Unit)

	for iter := 0; iter < searchIterationCap && hi.Sub(lo).GreaterThan(fixedpoint.Subunit); iter++ {
		mid := lo.Add(fixedpoint.Div(hi.Sub(lo), decimal.NewFromInt(2)))
		cost, err := e.costDelta(q, i, mid, b)
		if err != nil {
			return decimal.Zero, err
		}
		if cost.LessThanOrEqual(maxCost) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// costDelta returns C(q + delta*e_i) - C(q).
func (e *lmsrEngine) costDelta(q models.QuantityVector, i int, delta, b decimal.Decimal) (decimal.Decimal, error) {
	current, err := e.Cost(q, b)
	if err != nil {
		return decimal.Zero, err
	}

	shifted := q.Clone()
	shifted[i] = shifted[i].Add(delta)
	next, err := e.Cost(shifted, b)
	if err != nil {
		return decimal.Zero, err
	}
	return next.Sub(current), nil
}

func validateCostInputs(q models.QuantityVector, b decimal.Decimal) error {
	if len(q) == 0 {
		return models.ErrInvalidOutcomeCount
	}
	if !b.IsPositive() {
		return models.ErrDomain
	}
	return nil
}

func maxQuantity(q models.QuantityVector) decimal.Decimal {
	maxQ := q[0]
	for _, v := range q[1:] {
		if v.GreaterThan(maxQ) {
			maxQ = v
		}
	}
	return maxQ
}
