package digit

import "errors"

var errWArrayTooSmall = errors.New("digit: modulus too large for Comba Montgomery reduction")

// MontgomeryReduceComba is the Comba-style fast path for Montgomery
// reduction: it accumulates all cross-digit products for a given output
// column into a single uint64 instead of propagating a carry after every
// single-digit multiply-add the way the baseline reducer in package
// montgomery does. The carry out of column ix is still folded into column
// ix+1 immediately after that column's multiply-add pass, before mu is
// computed for ix+1 - skipping that fold leaves mu built from a low digit
// that hasn't absorbed its incoming carry, which only misbehaves once
// n.Used >= 2. Once the outer loop's columns are folded, the remaining
// columns at and above n.Used still need their own carry pass before they
// can be read out, since they keep accumulating after the outer loop
// has moved past them. It is only safe to call within the size bounds
// package montgomery checks before selecting it.
func MontgomeryReduceComba(x, n *Integer, rho Word) error {
	digs := n.Used*2 + 1
	if digs > WArray {
		return errWArrayTooSmall
	}

	var w [WArray]uint64
	for i := 0; i < x.Used && i < digs; i++ {
		w[i] = uint64(x.Digit[i])
	}

	for ix := 0; ix < n.Used; ix++ {
		mu := Word((w[ix] & Mask) * uint64(rho) & Mask)
		for iy := 0; iy < n.Used; iy++ {
			w[ix+iy] += uint64(mu) * uint64(n.Digit[iy])
		}
		w[ix+1] += w[ix] >> DigitBits
	}

	// Columns below n.Used are already folded and are discarded by
	// ShrDigit below regardless of their value, so only the columns
	// from n.Used up need their own carry propagated out here.
	out := make([]Word, digs)
	for ix := n.Used; ix < digs; ix++ {
		if ix+1 < len(w) {
			w[ix+1] += w[ix] >> DigitBits
		}
		out[ix] = Word(w[ix] & Mask)
	}

	x.Grow(digs)
	copy(x.Digit, out)
	for i := digs; i < len(x.Digit); i++ {
		x.Digit[i] = 0
	}
	x.Used = digs
	ShrDigit(x, n.Used)
	x.Clamp()

	if CmpMag(x, n) >= 0 {
		Sub(x, x, n)
	}
	return nil
}
