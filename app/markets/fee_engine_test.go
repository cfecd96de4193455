package markets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFeeEngine_ComputeFeeBps(t *testing.T) {
	engine := NewFeeEngine(GetDefaultConfig())

	t.Run("mature liquid high-volume market gets the floor discount", func(t *testing.T) {
		total, protocol, lp := engine.ComputeFeeBps(dec("2000000"), dec("50000"), 30*24*time.Hour)
		assert.Equal(t, BaseFeeBps-50, total)
		assert.Equal(t, total*80/100, lp)
		assert.Equal(t, total-lp, protocol)
	})

	t.Run("young thin market pays the most", func(t *testing.T) {
		total, _, _ := engine.ComputeFeeBps(decimal.Zero, dec("500"), time.Hour)
		// base 100 + thin liquidity 100 + young age 50
		assert.Equal(t, int64(250), total)
	})

	t.Run("split is always 80/20 of the clamped total", func(t *testing.T) {
		total, protocol, lp := engine.ComputeFeeBps(dec("10000"), dec("10000"), 48*time.Hour)
		assert.Equal(t, total, protocol+lp)
		assert.Equal(t, total*80/100, lp)
	})

	t.Run("bounds hold across the whole input grid", func(t *testing.T) {
		volumes := []decimal.Decimal{decimal.Zero, dec("9999"), dec("10000"), dec("100000"), dec("1000000"), dec("99999999")}
		liquidities := []decimal.Decimal{decimal.Zero, dec("999"), dec("1000"), dec("9999"), dec("10000"), dec("5000000")}
		ages := []time.Duration{0, time.Hour, 23 * time.Hour, 25 * time.Hour, 6 * 24 * time.Hour, 365 * 24 * time.Hour}

		for _, v := range volumes {
			for _, l := range liquidities {
				for _, a := range ages {
					total, protocol, lp := engine.ComputeFeeBps(v, l, a)
					assert.GreaterOrEqual(t, total, MinFeeBps)
					assert.LessOrEqual(t, total, MaxFeeBps)
					assert.Equal(t, total, protocol+lp)
				}
			}
		}
	})
}

func TestFeeEngine_LPRewardMultiplier(t *testing.T) {
	engine := NewFeeEngine(GetDefaultConfig())

	t.Run("small fresh provider gets the base rate", func(t *testing.T) {
		m := engine.LPRewardMultiplier(dec("10"), dec("1000"), time.Hour)
		assert.True(t, m.Equal(dec("1")))
	})

	t.Run("large provider bonus", func(t *testing.T) {
		m := engine.LPRewardMultiplier(dec("100"), dec("1000"), time.Hour)
		assert.True(t, m.Equal(dec("1.1")))
	})

	t.Run("staking tiers", func(t *testing.T) {
		pool := dec("1000")
		small := dec("10")

		assert.True(t, engine.LPRewardMultiplier(small, pool, 8*24*time.Hour).Equal(dec("1.1")))
		assert.True(t, engine.LPRewardMultiplier(small, pool, 31*24*time.Hour).Equal(dec("1.25")))
		assert.True(t, engine.LPRewardMultiplier(small, pool, 91*24*time.Hour).Equal(dec("1.5")))
	})

	t.Run("bonuses stack and cap at two", func(t *testing.T) {
		m := engine.LPRewardMultiplier(dec("900"), dec("1000"), 100*24*time.Hour)
		assert.True(t, m.Equal(dec("1.6")))

		// cap applies even for extreme inputs
		capped := engine.LPRewardMultiplier(dec("1000"), dec("1000"), 10000*24*time.Hour)
		assert.True(t, capped.LessThanOrEqual(dec("2")))
	})

	t.Run("empty pool never divides by zero", func(t *testing.T) {
		m := engine.LPRewardMultiplier(dec("100"), decimal.Zero, time.Hour)
		assert.True(t, m.Equal(dec("1")))
	})
}
