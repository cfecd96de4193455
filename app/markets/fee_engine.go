package markets

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee schedule in basis points. The total always stays inside
// [MinFeeBps, MaxFeeBps]; the LP/protocol split of the clamped total is a
// fixed 80/20 and is not separately adjustable.
const (
	BaseFeeBps int64 = 100
	MinFeeBps  int64 = 25
	MaxFeeBps  int64 = 300

	lpSharePercent int64 = 80
)

// Volume tiers reward markets with an established trading history.
var (
	volumeTierHigh = decimal.NewFromInt(1_000_000)
	volumeTierMid  = decimal.NewFromInt(100_000)
	volumeTierLow  = decimal.NewFromInt(10_000)
)

// Liquidity tiers compensate LPs for the extra inventory risk of shallow
// pools.
var (
	liquidityTierThin    = decimal.NewFromInt(1_000)
	liquidityTierShallow = decimal.NewFromInt(10_000)
)

// Age penalties decay as the market matures and early price discovery
// settles down.
const (
	marketAgeYoung   = 24 * time.Hour
	marketAgeSettled = 7 * 24 * time.Hour
)

// LP reward multiplier parameters.
var (
	largeProviderThreshold = decimal.RequireFromString("0.05")
	largeProviderBonus     = decimal.RequireFromString("0.1")
	stakeBonusWeek         = decimal.RequireFromString("0.1")
	stakeBonusMonth        = decimal.RequireFromString("0.25")
	stakeBonusQuarter      = decimal.RequireFromString("0.5")
	multiplierBase         = decimal.NewFromInt(1)
	multiplierCap          = decimal.NewFromInt(2)
)

// feeEngine implements the FeeEngine interface. Both methods are pure and
// total over well-formed non-negative inputs.
type feeEngine struct {
	config *Config
}

// NewFeeEngine creates a new dynamic fee engine
func NewFeeEngine(config *Config) FeeEngine {
	return &feeEngine{config: config}
}

// ComputeFeeBps derives the fee rate for a trade from the market's historical
// volume, current pool depth and age. Higher volume earns tier discounts,
// thin liquidity and young age add penalties, and the combined result is
// clamped to [MinFeeBps, MaxFeeBps] before the 80/20 LP/protocol split.
func (e *feeEngine) ComputeFeeBps(totalVolume, liquidity decimal.Decimal, marketAge time.Duration) (totalBps, protocolBps, lpBps int64) {
	total := BaseFeeBps - volumeDiscountBps(totalVolume) + liquidityPenaltyBps(liquidity) + agePenaltyBps(marketAge)

	if total < MinFeeBps {
		total = MinFeeBps
	}
	if total > MaxFeeBps {
		total = MaxFeeBps
	}

	lp := total * lpSharePercent / 100
	return total, total - lp, lp
}

// LPRewardMultiplier scales an LP's fee share by pool dominance and staking
// duration: base 1.0x, +10% above the large-provider threshold, tiered
// bonuses at 7/30/90 days, capped at 2.0x.
func (e *feeEngine) LPRewardMultiplier(contributed, totalPool decimal.Decimal, timeStaked time.Duration) decimal.Decimal {
	multiplier := multiplierBase

	if totalPool.IsPositive() && !contributed.IsNegative() {
		share := contributed.Div(totalPool)
		if share.GreaterThan(largeProviderThreshold) {
			multiplier = multiplier.Add(largeProviderBonus)
		}
	}

	switch {
	case timeStaked >= 90*24*time.Hour:
		multiplier = multiplier.Add(stakeBonusQuarter)
	case timeStaked >= 30*24*time.Hour:
		multiplier = multiplier.Add(stakeBonusMonth)
	case timeStaked >= 7*24*time.Hour:
		multiplier = multiplier.Add(stakeBonusWeek)
	}

	if multiplier.GreaterThan(multiplierCap) {
		return multiplierCap
	}
	return multiplier
}

func volumeDiscountBps(totalVolume decimal.Decimal) int64 {
	switch {
	case totalVolume.GreaterThanOrEqual(volumeTierHigh):
		return 50
	case totalVolume.GreaterThanOrEqual(volumeTierMid):
		return 30
	case totalVolume.GreaterThanOrEqual(volumeTierLow):
		return 10
	default:
		return 0
	}
}

func liquidityPenaltyBps(liquidity decimal.Decimal) int64 {
	switch {
	case liquidity.LessThan(liquidityTierThin):
		return 100
	case liquidity.LessThan(liquidityTierShallow):
		return 50
	default:
		return 0
	}
}

func agePenaltyBps(marketAge time.Duration) int64 {
	switch {
	case marketAge < marketAgeYoung:
		return 50
	case marketAge < marketAgeSettled:
		return 20
	default:
		return 0
	}
}
