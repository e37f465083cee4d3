// Package barrett implements Barrett reduction (HAC Algorithm 14.42):
// setup of the precomputed quotient mu, and reduction of x mod m for any
// 0 <= x < m*m given a normalized modulus m.
package barrett

import (
	"errors"

	"bignum/pkg/digit"
)

// ErrZeroModulus is returned when the modulus has no significant digits.
var ErrZeroModulus = errors.New("barrett: modulus must be nonzero")

// Setup computes mu = floor(beta^(2*p.Used) / p).
func Setup(mu, p *digit.Integer) error {
	if p.Used == 0 {
		return ErrZeroModulus
	}
	num := digit.New()
	digit.PowerOfTwo(num, 2*p.Used*digit.DigitBits)
	return digit.DivMod(mu, nil, num, p)
}

// halfBeta is the HAC 14.42 step 3 threshold: m.Used compared against
// beta/2 as if m.Used itself were a single digit's bit pattern. m.Used is
// a digit *count*, which for any modulus this package can represent is far
// below beta/2 (2^27 for DigitBits=28), so the branch below always takes
// the mu-high-multiply path in practice; the full-multiply branch is kept
// for moduli wide enough to cross that threshold.
const halfBeta = digit.Word(1) << (digit.DigitBits - 1)

// Reduce computes x <- x mod m in place, given 0 <= x < m*m and mu from
// Setup(mu, m).
func Reduce(x, m, mu *digit.Integer) error {
	if m.Used == 0 {
		return ErrZeroModulus
	}

	q := digit.New()
	digit.Copy(q, x)
	digit.ShrDigit(q, m.Used-1)

	if digit.Word(m.Used) > halfBeta {
		digit.Mul(q, q, mu)
		digit.ShrDigit(q, m.Used+1)
	} else {
		digit.MulHigh(q, q, mu, m.Used)
		digit.ShrDigit(q, 1)
	}

	r1 := digit.New()
	digit.ModBits(r1, x, digit.DigitBits*(m.Used+1))

	digit.MulLow(q, q, m, m.Used+1)

	r := digit.New()
	if digit.CmpMag(r1, q) >= 0 {
		digit.Sub(r, r1, q)
	} else {
		base := digit.New()
		digit.PowerOfTwo(base, digit.DigitBits*(m.Used+1))
		digit.Add(r, r1, base)
		digit.Sub(r, r, q)
	}

	for digit.CmpMag(r, m) >= 0 {
		digit.Sub(r, r, m)
	}

	digit.Copy(x, r)
	return nil
}
