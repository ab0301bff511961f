// Package rational implements exact fraction arithmetic for money-adjacent
// rates. Values stay numerator/denominator pairs until the presentation
// boundary; no floating point is involved at any step.
package rational

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrZeroDenominator = errors.New("zero_denominator")

// Rat is an exact fraction. The zero value is 0/1.
type Rat struct {
	Num   int64
	Denom int64
}

// New returns num/denom reduced to lowest terms with a positive denominator.
func New(num, denom int64) (Rat, error) {
	if denom == 0 {
		return Rat{}, ErrZeroDenominator
	}
	if denom < 0 {
		num, denom = -num, -denom
	}
	return Rat{Num: num, Denom: denom}.reduce(), nil
}

// Zero returns 0/1.
func Zero() Rat {
	return Rat{Num: 0, Denom: 1}
}

// Add returns r + other computed by cross-multiplication over a common
// denominator, reduced to lowest terms.
func (r Rat) Add(other Rat) Rat {
	if r.Denom == 0 {
		r = Zero()
	}
	if other.Denom == 0 {
		other = Zero()
	}
	// Reduce by the gcd of the denominators first so intermediate products
	// stay small for typical tax denominators.
	g := gcd(r.Denom, other.Denom)
	num := r.Num*(other.Denom/g) + other.Num*(r.Denom/g)
	denom := r.Denom / g * other.Denom
	return Rat{Num: num, Denom: denom}.reduce()
}

func (r Rat) reduce() Rat {
	if r.Num == 0 {
		return Rat{Num: 0, Denom: 1}
	}
	g := gcd(abs(r.Num), r.Denom)
	return Rat{Num: r.Num / g, Denom: r.Denom / g}
}

// Decimal renders the fraction as a decimal rounded half-up to places.
// This is the only place division happens.
func (r Rat) Decimal(places int32) decimal.Decimal {
	if r.Denom == 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(r.Num)
	denom := decimal.NewFromInt(r.Denom)
	return num.DivRound(denom, places)
}

// Percent renders the fraction scaled by 100, rounded half-up to places.
func (r Rat) Percent(places int32) decimal.Decimal {
	if r.Denom == 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(r.Num).Mul(decimal.NewFromInt(100))
	denom := decimal.NewFromInt(r.Denom)
	return num.DivRound(denom, places)
}

func (r Rat) String() string {
	if r.Denom == 0 {
		return "0/1"
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Denom)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
