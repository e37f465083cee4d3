// Package montgomery implements Montgomery reduction: setup of the
// reduction constant rho, computation of the normalization R mod n, and
// reduction itself (with a Comba fast path chosen by size, falling back to
// a baseline digit-by-digit reducer).
package montgomery

import (
	"errors"

	"bignum/pkg/digit"
)

// ErrEvenModulus is returned by Setup when the modulus's least-significant
// digit is even; Montgomery reduction requires an odd modulus.
var ErrEvenModulus = errors.New("montgomery: modulus must be odd")

// Setup computes rho in [0, beta) such that rho * n.Digit[0] = -1 (mod
// beta), by Hensel-lifting a 4-bit seed inverse up to DigitBits via the
// doubling identity x <- x*(2 - n0*x).
func Setup(n *digit.Integer) (digit.Word, error) {
	if n.Used == 0 || n.Digit[0]&1 == 0 {
		return 0, ErrEvenModulus
	}
	n0 := n.Digit[0]

	x := (((n0 + 2) & 4) << 1) + n0
	for i := 0; i < 3; i++ {
		x = x * (2 - n0*x)
	}

	rho := (digit.Word(1)<<digit.DigitBits - (x & digit.Mask)) & digit.Mask
	return rho, nil
}

// CalcNormalization sets a = R mod b, where R = beta^b.Used.
func CalcNormalization(a, b *digit.Integer) {
	bitsRem := digit.CountBits(b) % digit.DigitBits

	if b.Used > 1 {
		digit.PowerOfTwo(a, (b.Used-1)*digit.DigitBits+bitsRem-1)
	} else {
		a.SetUint64(1)
		bitsRem = 1
	}

	for x := bitsRem - 1; x < digit.DigitBits; x++ {
		digit.Shl1(a)
		if digit.CmpMag(a, b) >= 0 {
			digit.Sub(a, a, b)
		}
	}
}

// useComba reports whether x can be reduced with the Comba fast path
// rather than the baseline digit-by-digit reducer.
func useComba(x, n *digit.Integer) bool {
	return (n.Used*2+1) < digit.WArray && x.Used <= digit.WArray && n.Used < digit.MaxComba
}

// Reduce computes x <- x * R^-1 mod n in place, where R = beta^n.Used.
// x must satisfy 0 <= x < n*n. On return, 0 <= x < n.
func Reduce(x, n *digit.Integer, rho digit.Word) error {
	if useComba(x, n) {
		return digit.MontgomeryReduceComba(x, n, rho)
	}
	return reduceBaseline(x, n, rho)
}

func reduceBaseline(x, n *digit.Integer, rho digit.Word) error {
	digs := n.Used*2 + 1
	x.Grow(digs)
	for i := x.Used; i < digs; i++ {
		x.Digit[i] = 0
	}
	x.Used = digs

	for ix := 0; ix < n.Used; ix++ {
		mu := digit.Word((uint64(x.Digit[ix]) * uint64(rho)) & digit.Mask)

		var u uint64
		for iy := 0; iy < n.Used; iy++ {
			r := uint64(mu)*uint64(n.Digit[iy]) + u + uint64(x.Digit[ix+iy])
			x.Digit[ix+iy] = digit.Word(r & digit.Mask)
			u = r >> digit.DigitBits
		}
		for j := ix + n.Used; u != 0; j++ {
			r := uint64(x.Digit[j]) + u
			x.Digit[j] = digit.Word(r & digit.Mask)
			u = r >> digit.DigitBits
		}
	}

	x.Clamp()
	digit.ShrDigit(x, n.Used)
	if digit.CmpMag(x, n) >= 0 {
		digit.Sub(x, x, n)
	}
	return nil
}
