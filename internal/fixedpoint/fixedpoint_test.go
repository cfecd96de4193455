package fixedpoint

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertWithin asserts |got-want| <= tol.
func assertWithin(t *testing.T, want, got, tol decimal.Decimal) {
	t.Helper()
	diff := got.Sub(want).Abs()
	assert.True(t, diff.LessThanOrEqual(tol),
		"want %s, got %s (diff %s > tol %s)", want, got, diff, tol)
}

func TestExp(t *testing.T) {
	tol := dec("0.000000000001")

	t.Run("zero", func(t *testing.T) {
		assert.True(t, Exp(decimal.Zero).Equal(Unit))
	})

	t.Run("one", func(t *testing.T) {
		assertWithin(t, dec("2.718281828459045235"), Exp(Unit), tol)
	})

	t.Run("fractional", func(t *testing.T) {
		assertWithin(t, dec("1.648721270700128146"), Exp(dec("0.5")), tol)
		assertWithin(t, dec("1.105170918075647624"), Exp(dec("0.1")), tol)
	})

	t.Run("negative returns reciprocal", func(t *testing.T) {
		assertWithin(t, dec("0.367879441171442321"), Exp(dec("-1")), tol)
		assertWithin(t, dec("0.006737946999085467"), Exp(dec("-5")), tol)
	})

	t.Run("large input", func(t *testing.T) {
		// e^10 = 22026.4657948067...
		assertWithin(t, dec("22026.465794806716516"), Exp(dec("10")), dec("0.000001"))
	})

	t.Run("clamped beyond safety bound", func(t *testing.T) {
		assert.True(t, Exp(dec("25")).Equal(Exp(MaxExpInput)))
		assert.True(t, Exp(dec("1000000")).Equal(Exp(MaxExpInput)))
		assert.True(t, Exp(dec("-25")).Equal(Exp(MaxExpInput.Neg())))
	})

	t.Run("deterministic", func(t *testing.T) {
		x := dec("3.141592653589793238")
		assert.True(t, Exp(x).Equal(Exp(x)))
	})
}

func TestLn(t *testing.T) {
	// The 10-term series error grows with the rescaled argument's distance
	// from one: inputs that rescale to exactly 1.0 are exact, inputs landing
	// near the top of [0.75, 1.5) carry an error of up to a few 1e-6.
	tol := dec("0.000000000001")

	t.Run("ln of one unit is exactly zero", func(t *testing.T) {
		got, err := Ln(Unit)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.Zero), "got %s", got)
	})

	t.Run("ln two", func(t *testing.T) {
		got, err := Ln(dec("2"))
		require.NoError(t, err)
		assertWithin(t, LnTwo, got, tol)
	})

	t.Run("ln e", func(t *testing.T) {
		// e rescales to 1.359, near the loose end of the series window
		got, err := Ln(E)
		require.NoError(t, err)
		assertWithin(t, Unit, got, dec("0.000002"))
	})

	t.Run("values above and below one", func(t *testing.T) {
		// 10 rescales to 1.25
		got, err := Ln(dec("10"))
		require.NoError(t, err)
		assertWithin(t, dec("2.302585092994045684"), got, dec("0.0000001"))

		got, err = Ln(dec("0.5"))
		require.NoError(t, err)
		assertWithin(t, LnTwo.Neg(), got, tol)

		got, err = Ln(dec("0.001"))
		require.NoError(t, err)
		assertWithin(t, dec("-6.907755278982137052"), got, tol)
	})

	t.Run("domain errors", func(t *testing.T) {
		_, err := Ln(decimal.Zero)
		assert.ErrorIs(t, err, ErrNonPositive)

		_, err = Ln(dec("-1"))
		assert.ErrorIs(t, err, ErrNonPositive)
	})

	t.Run("deterministic", func(t *testing.T) {
		x := dec("1234.56789")
		a, err := Ln(x)
		require.NoError(t, err)
		b, err := Ln(x)
		require.NoError(t, err)
		assert.True(t, a.Equal(b))
	})
}

func TestExpLnRoundTrip(t *testing.T) {
	// Exp(x) can rescale to anywhere in the Ln series window, so the round
	// trip carries the window's worst-case series error.
	tol := dec("0.00001")
	for _, s := range []string{"0.25", "1", "2.5", "7", "13.37"} {
		x := dec(s)
		got, err := Ln(Exp(x))
		require.NoError(t, err)
		assertWithin(t, x, got, tol)
	}
}

func TestMulDivTruncation(t *testing.T) {
	a := dec("1.000000000000000001")
	b := dec("3")

	// every operation carries exactly Scale fractional digits
	assert.True(t, Mul(a, a).Exponent() >= -Scale)
	assert.True(t, Div(a, b).Exponent() >= -Scale)

	// division truncates toward zero
	assert.True(t, Div(Unit, b).Equal(dec("0.333333333333333333")))
}
