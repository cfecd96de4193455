// Package fixedpoint implements deterministic exponential and logarithm
// functions over an 18-decimal fixed-point representation.
//
// Every value is an exact integer count of 10^-18 subunits carried in a
// decimal.Decimal; all arithmetic truncates back to 18 fractional digits, so
// results are bit-identical for identical inputs on every platform. No native
// floating point is used anywhere.
package fixedpoint

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by every value. One unit
// equals 10^Scale subunits.
const Scale int32 = 18

// ErrNonPositive is returned by Ln for inputs outside its domain.
var ErrNonPositive = errors.New("fixedpoint: ln requires a positive input")

var (
	// Unit is 1.0, the fixed-point representation of one whole unit.
	Unit = decimal.New(1, 0)

	// Subunit is the smallest representable increment, 10^-18.
	Subunit = decimal.New(1, -Scale)

	// E is Euler's number truncated to Scale digits.
	E = decimal.RequireFromString("2.718281828459045235")

	// LnTwo is ln(2) truncated to Scale digits, used to add back the
	// power-of-two adjustment accumulated while rescaling Ln inputs.
	LnTwo = decimal.RequireFromString("0.693147180559945309")

	// MaxExpInput bounds |x| for Exp. Inputs beyond it are clamped to the
	// bound rather than overflowing: Exp(x > MaxExpInput) == Exp(MaxExpInput)
	// and Exp(x < -MaxExpInput) == Exp(-MaxExpInput).
	MaxExpInput = decimal.NewFromInt(20)

	two  = decimal.New(2, 0)
	half = decimal.New(5, -1)

	// Ln inputs are rescaled by powers of two into [lnLower, lnUpper) so the
	// Taylor series argument stays small.
	lnUpper = decimal.New(15, -1) // 1.5
	lnLower = decimal.New(75, -2) // 0.75
)

const (
	expTaylorTerms = 15
	lnTaylorTerms  = 10
)

// Mul multiplies two fixed-point values, truncating to Scale digits.
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Truncate(Scale)
}

// Div divides two fixed-point values, truncating toward zero to Scale digits.
// The divisor must be non-zero.
func Div(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, Scale)
	return q
}

// Exp computes e^x. The fractional part of x is evaluated with a 15-term
// Taylor series; the integer part is applied by repeated multiplication with
// E. Negative inputs return the reciprocal of Exp(-x). Inputs with |x| beyond
// MaxExpInput are clamped to the bound.
func Exp(x decimal.Decimal) decimal.Decimal {
	if x.IsNegative() {
		return Div(Unit, Exp(x.Neg()))
	}
	if x.GreaterThan(MaxExpInput) {
		x = MaxExpInput
	}

	intPart := x.Floor()
	frac := x.Sub(intPart)

	sum := Unit
	term := Unit
	for k := int64(1); k <= expTaylorTerms; k++ {
		term = Div(Mul(term, frac), decimal.NewFromInt(k))
		sum = sum.Add(term)
	}

	for i := int64(0); i < intPart.IntPart(); i++ {
		sum = Mul(sum, E)
	}
	return sum
}

// Ln computes the natural logarithm of x, failing for x <= 0. The input is
// rescaled by repeated halving or doubling into [0.75, 1.5), a 10-term Taylor
// series around 1 is evaluated on the rescaled value, and adjustment*ln(2) is
// added back. Ln(Unit) is exactly zero.
func Ln(x decimal.Decimal) (decimal.Decimal, error) {
	if x.Sign() <= 0 {
		return decimal.Zero, ErrNonPositive
	}

	var adjustment int64
	for x.GreaterThanOrEqual(lnUpper) {
		x = Mul(x, half)
		adjustment++
	}
	for x.LessThan(lnLower) {
		x = Mul(x, two)
		adjustment--
	}

	// ln(1+z) = z - z^2/2 + z^3/3 - ...
	z := x.Sub(Unit)
	sum := decimal.Zero
	zPow := Unit
	for k := int64(1); k <= lnTaylorTerms; k++ {
		zPow = Mul(zPow, z)
		term := Div(zPow, decimal.NewFromInt(k))
		if k%2 == 1 {
			sum = sum.Add(term)
		} else {
			sum = sum.Sub(term)
		}
	}

	return sum.Add(LnTwo.Mul(decimal.NewFromInt(adjustment))), nil
}
