// Package reduce2k implements diminished-radix reduction for moduli of the
// form n = 2^k - d: classifiers that recognize such moduli, setup of the
// digit d (single- or multi-digit), and the iterative reducers themselves.
package reduce2k

import (
	"errors"

	"bignum/pkg/digit"
)

// ErrNotConverging is returned if the iterative fold in Reduce2k/Reduce2kL
// fails to bring a below n within its starting bit length plus eight
// folds. It should be unreachable for any modulus IsPowerOfTwo/IsPowerOfTwoL
// actually accepted, and exists only as a safety net against a
// misclassified modulus turning a bounded loop into an unbounded one.
var ErrNotConverging = errors.New("reduce2k: fold did not converge")

// IsPowerOfTwo reports whether a is either a single digit, or of the form
// 2^k - d for a small d: every bit at position DigitBits or above, up to
// a's own top bit, is 1.
func IsPowerOfTwo(a *digit.Integer) bool {
	if a.Used == 0 {
		return false
	}
	if a.Used == 1 {
		return true
	}
	for i := 1; i < a.Used-1; i++ {
		if a.Digit[i] != digit.DigitMax {
			return false
		}
	}
	top := a.Digit[a.Used-1]
	return top&(top+1) == 0
}

// IsPowerOfTwoL reports whether at least half of a's digits equal
// DigitMax, the looser classifier used for the multi-digit fast path.
func IsPowerOfTwoL(a *digit.Integer) bool {
	if a.Used == 0 {
		return false
	}
	count := 0
	for _, d := range a.Digit[:a.Used] {
		if d == digit.DigitMax {
			count++
		}
	}
	return count*2 >= a.Used
}

// Setup returns d = 2^countBits(a) - a, for a single-digit d.
func Setup(a *digit.Integer) digit.Word {
	tmp := digit.New()
	digit.PowerOfTwo(tmp, digit.CountBits(a))
	digit.Sub(tmp, tmp, a)
	if tmp.Used == 0 {
		return 0
	}
	return tmp.Digit[0]
}

// SetupL sets mu = 2^countBits(p) - p, for a multi-digit mu.
func SetupL(mu, p *digit.Integer) {
	digit.PowerOfTwo(mu, digit.CountBits(p))
	digit.Sub(mu, mu, p)
}

// fold performs one q,r = shrmod(a, p) split, scales q by the (possibly
// multi-digit) diminished-radix constant, and folds it back into a.
func fold(a, n *digit.Integer, p int, scale func(q *digit.Integer)) {
	q := digit.New()
	r := digit.New()
	digit.ShrMod(q, r, a, p)
	if q.Used != 0 {
		scale(q)
		digit.Add(r, r, q)
	}
	digit.Copy(a, r)
	if digit.CmpMag(a, n) >= 0 {
		digit.Sub(a, a, n)
	}
}

// maxIterations bounds the fold loop generously relative to a's starting
// size; each fold strictly shrinks a's bit length until it falls below n,
// so this is never reached for a modulus IsPowerOfTwo/IsPowerOfTwoL
// actually classified as diminished-radix.
func maxIterations(a *digit.Integer) int {
	return digit.CountBits(a) + 8
}

// Reduce2k computes a <- a mod n in place, for n = 2^countBits(n) - d with
// single-digit d, as produced by Setup(n).
func Reduce2k(a, n *digit.Integer, d digit.Word) error {
	p := digit.CountBits(n)
	scale := func(q *digit.Integer) {
		if d == 1 {
			return
		}
		dInt := digit.New()
		dInt.SetUint64(uint64(d))
		digit.Mul(q, q, dInt)
	}

	limit := maxIterations(a)
	for i := 0; i < limit; i++ {
		fold(a, n, p, scale)
		if digit.CmpMag(a, n) < 0 {
			return nil
		}
	}
	return ErrNotConverging
}

// Reduce2kL computes a <- a mod n in place, for n = 2^countBits(n) - mu
// with multi-digit mu, as produced by SetupL(mu, n).
func Reduce2kL(a, n, mu *digit.Integer) error {
	p := digit.CountBits(n)
	scale := func(q *digit.Integer) {
		digit.Mul(q, q, mu)
	}

	limit := maxIterations(a)
	for i := 0; i < limit; i++ {
		fold(a, n, p, scale)
		if digit.CmpMag(a, n) < 0 {
			return nil
		}
	}
	return ErrNotConverging
}
