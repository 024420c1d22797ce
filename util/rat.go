package util

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// ErrBadNumber is returned when a numeral cannot be read as a rational
var ErrBadNumber = errors.New("malformed number")

// ParseRat reads an integer, decimal ("0.125", "1e-3") or fraction ("3/4")
// exactly. A trailing '?' marks a truncated decimal expansion in solver output
// and is dropped.
func ParseRat(s string) (*big.Rat, error) {
	text := strings.TrimSuffix(strings.TrimSpace(s), "?")
	if text == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadNumber)
	}
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return r, nil
}

// MustRat is ParseRat for literals known to be well formed. It panics otherwise.
func MustRat(s string) *big.Rat {
	r, err := ParseRat(s)
	if err != nil {
		panic(err)
	}
	return r
}

// RatFromFloat converts f back into a rational. The closest rational with a
// denominator of at most maxDen is preferred when it lies within tol of f,
// otherwise the exact binary value of f is returned. ok is false for NaN and
// infinities.
func RatFromFloat(f float64, maxDen int64, tol float64) (r *big.Rat, ok bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	exact := new(big.Rat).SetFloat64(f)
	if maxDen <= 0 {
		return exact, true
	}
	approx := limitDenominator(exact, big.NewInt(maxDen))
	af, _ := approx.Float64()
	if math.Abs(af-f) <= tol {
		return approx, true
	}
	return exact, true
}

// limitDenominator finds the closest rational to x whose denominator does
// not exceed max, walking the continued fraction expansion of x.
func limitDenominator(x *big.Rat, max *big.Int) *big.Rat {
	if x.Denom().Cmp(max) <= 0 {
		return new(big.Rat).Set(x)
	}
	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	n := new(big.Int).Set(x.Num())
	d := new(big.Int).Set(x.Denom())
	a, rem := new(big.Int), new(big.Int)
	for {
		a.DivMod(n, d, rem)
		q2 := new(big.Int).Mul(a, q1)
		q2.Add(q2, q0)
		if q2.Cmp(max) > 0 {
			break
		}
		p2 := new(big.Int).Mul(a, p1)
		p2.Add(p2, p0)
		p0, q0, p1, q1 = p1, q1, p2, q2
		n, d = d, new(big.Int).Set(rem)
		if d.Sign() == 0 {
			break
		}
	}
	if q1.Sign() == 0 {
		return new(big.Rat).Set(x)
	}
	// k = (max - q0) / q1
	k := new(big.Int).Sub(max, q0)
	k.Quo(k, q1)
	lowNum := new(big.Int).Mul(k, p1)
	lowNum.Add(lowNum, p0)
	lowDen := new(big.Int).Mul(k, q1)
	lowDen.Add(lowDen, q0)
	bound1 := new(big.Rat).SetFrac(lowNum, lowDen)
	bound2 := new(big.Rat).SetFrac(p1, q1)

	dist1 := new(big.Rat).Sub(bound1, x)
	dist1.Abs(dist1)
	dist2 := new(big.Rat).Sub(bound2, x)
	dist2.Abs(dist2)
	if dist2.Cmp(dist1) <= 0 {
		return bound2
	}
	return bound1
}
