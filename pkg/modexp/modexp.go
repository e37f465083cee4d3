// Package modexp implements sliding-window modular exponentiation: a
// Barrett/diminished-radix variant and a Montgomery/diminished-radix
// variant, sharing window-size selection, power-table construction, and
// the left-to-right scanning state machine.
package modexp

import (
	"errors"

	"bignum/pkg/barrett"
	"bignum/pkg/digit"
	"bignum/pkg/montgomery"
	"bignum/pkg/reduce2k"
)

// Reduction mode selectors shared by ExponentMod and ExponentModFast.
const (
	RedmodePrimary = 0 // Barrett (ExponentMod) or Montgomery (ExponentModFast)
	RedmodeDR      = 1 // diminished-radix, single-digit d
	RedmodeDRMulti = 2 // diminished-radix, multi-digit mu
)

// ErrInvalidRedmode is returned for any redmode outside {0, 1, 2}.
var ErrInvalidRedmode = errors.New("modexp: unsupported redmode")

func windowSize(bitLen int) int {
	var w int
	switch {
	case bitLen <= 7:
		w = 2
	case bitLen <= 36:
		w = 3
	case bitLen <= 140:
		w = 4
	case bitLen <= 450:
		w = 5
	case bitLen <= 1303:
		w = 6
	case bitLen <= 3529:
		w = 7
	default:
		w = 8
	}
	if digit.MaxWinSize > 0 && w > digit.MaxWinSize {
		w = digit.MaxWinSize
	}
	return w
}

// allocatedCap is the digit capacity every populated M[] slot and res are
// grown to, regardless of variant: enough headroom for a baseline
// Montgomery reduction's zero-extension (n.Used*2+1 digits) plus one.
func allocatedCap(p *digit.Integer) int {
	return p.Used*2 + 2
}

// powerTable is the fixed-size, sparsely-populated table of precomputed
// powers of the base (M[i] = base^i): only index 1 and the upper half
// [2^(winsize-1), 2^winsize) ever hold an Integer. winsize is the
// authoritative record of which slots were populated, so Destroy can walk
// exactly the populated subset instead of the whole backing array.
type powerTable struct {
	m       [digit.TabSize]*digit.Integer
	winsize int
}

func newPowerTable(winsize int) *powerTable {
	return &powerTable{winsize: winsize}
}

func (t *powerTable) lo() int { return 1 << (t.winsize - 1) }
func (t *powerTable) hi() int { return 1 << t.winsize }

// destroy releases every populated slot. Only M[1] and the upper half are
// ever non-nil; a naive "destroy every index" walk would run over
// unallocated slots.
func (t *powerTable) destroy() {
	if t.m[1] != nil {
		t.m[1].Destroy()
		t.m[1] = nil
	}
	for i := t.lo(); i < t.hi(); i++ {
		if t.m[i] != nil {
			t.m[i].Destroy()
			t.m[i] = nil
		}
	}
}

// build fills M[1] = base and the upper half via repeated squaring and
// multiplication by M[1], reducing after every squaring and multiply.
func (t *powerTable) build(base *digit.Integer, cap int, reduce func(*digit.Integer) error) error {
	lo, hi := t.lo(), t.hi()

	t.m[1] = digit.New()
	t.m[1].Grow(cap)
	digit.Copy(t.m[1], base)

	t.m[lo] = digit.New()
	t.m[lo].Grow(cap)
	digit.Copy(t.m[lo], t.m[1])
	for i := 0; i < t.winsize-1; i++ {
		digit.Sqr(t.m[lo], t.m[lo])
		if err := reduce(t.m[lo]); err != nil {
			return err
		}
	}

	for x := lo + 1; x < hi; x++ {
		t.m[x] = digit.New()
		t.m[x].Grow(cap)
		digit.Mul(t.m[x], t.m[x-1], t.m[1])
		if err := reduce(t.m[x]); err != nil {
			return err
		}
	}
	return nil
}

// scanState is the left-to-right scanner's state: leading zero bits seen
// so far, squaring between window openings, or actively filling a window.
type scanState int

const (
	stateLeadingZeros scanState = iota
	stateSquaring
	stateWindowing
)

// scan consumes exponent x's bits from msb to lsb, squaring res (with
// reduction after every square) and multiplying in precomputed window
// powers (with reduction after every multiply) from t.
func scan(res, x *digit.Integer, t *powerTable, reduce func(*digit.Integer) error) error {
	mode := stateLeadingZeros
	winsize := t.winsize
	bitcpy := 0
	bitbuf := 0

	for ix := x.Used - 1; ix >= 0; ix-- {
		word := x.Digit[ix]
		for bit := digit.DigitBits - 1; bit >= 0; bit-- {
			y := int((word >> uint(bit)) & 1)

			switch mode {
			case stateLeadingZeros:
				if y == 0 {
					continue
				}
				mode = stateWindowing
				bitcpy, bitbuf = 0, 0
			case stateSquaring:
				if y == 0 {
					digit.Sqr(res, res)
					if err := reduce(res); err != nil {
						return err
					}
					continue
				}
				mode = stateWindowing
				bitcpy, bitbuf = 0, 0
			}

			bitbuf |= y << uint(winsize-1-bitcpy)
			bitcpy++
			if bitcpy == winsize {
				for i := 0; i < winsize; i++ {
					digit.Sqr(res, res)
					if err := reduce(res); err != nil {
						return err
					}
				}
				digit.Mul(res, res, t.m[bitbuf])
				if err := reduce(res); err != nil {
					return err
				}
				bitcpy, bitbuf = 0, 0
				mode = stateSquaring
			}
		}
	}

	if mode == stateWindowing && bitcpy > 0 {
		for i := 0; i < bitcpy; i++ {
			digit.Sqr(res, res)
			if err := reduce(res); err != nil {
				return err
			}
			bitbuf <<= 1
			if bitbuf&(1<<uint(winsize)) != 0 {
				digit.Mul(res, res, t.m[1])
				if err := reduce(res); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func bindDR(p *digit.Integer, redmode int) (func(*digit.Integer) error, error) {
	switch redmode {
	case RedmodeDR:
		d := reduce2k.Setup(p)
		return func(v *digit.Integer) error { return reduce2k.Reduce2k(v, p, d) }, nil
	case RedmodeDRMulti:
		mu := digit.New()
		reduce2k.SetupL(mu, p)
		return func(v *digit.Integer) error { return reduce2k.Reduce2kL(v, p, mu) }, nil
	default:
		return nil, ErrInvalidRedmode
	}
}

// ExponentMod computes res = g^x mod p using the Barrett/diminished-radix
// sliding-window engine. redmode selects the reduction: RedmodePrimary
// binds Barrett reduction, RedmodeDR and RedmodeDRMulti bind the
// single-digit and multi-digit diminished-radix reducers respectively.
func ExponentMod(res, g, x, p *digit.Integer, redmode int) error {
	var reduce func(*digit.Integer) error
	switch redmode {
	case RedmodePrimary:
		mu := digit.New()
		if err := barrett.Setup(mu, p); err != nil {
			return err
		}
		reduce = func(v *digit.Integer) error { return barrett.Reduce(v, p, mu) }
	case RedmodeDR, RedmodeDRMulti:
		var err error
		reduce, err = bindDR(p, redmode)
		if err != nil {
			return err
		}
	default:
		return ErrInvalidRedmode
	}

	cap := allocatedCap(p)
	winsize := windowSize(digit.CountBits(x))
	tbl := newPowerTable(winsize)
	defer tbl.destroy()

	base := digit.New()
	base.Grow(cap)
	if err := digit.Mod(base, g, p); err != nil {
		return err
	}
	if err := tbl.build(base, cap, reduce); err != nil {
		return err
	}

	res.Grow(cap)
	res.One()

	return scan(res, x, tbl, reduce)
}

// ExponentModFast computes res = g^x mod p using the Montgomery/
// diminished-radix sliding-window engine. redmode selects the reduction
// the same way ExponentMod's does, with RedmodePrimary binding Montgomery
// reduction instead of Barrett. Montgomery reduction is undefined for an
// even modulus, so RedmodePrimary falls back to Barrett reduction when p
// is even, the same way libtommath's mp_exptmod routes an even modulus
// away from its Montgomery path.
func ExponentModFast(res, g, x, p *digit.Integer, redmode int) error {
	var reduce func(*digit.Integer) error
	montgomeryFixup := false

	switch redmode {
	case RedmodePrimary:
		if p.Used > 0 && p.Digit[0]&1 == 0 {
			mu := digit.New()
			if err := barrett.Setup(mu, p); err != nil {
				return err
			}
			reduce = func(v *digit.Integer) error { return barrett.Reduce(v, p, mu) }
		} else {
			rho, err := montgomery.Setup(p)
			if err != nil {
				return err
			}
			reduce = func(v *digit.Integer) error { return montgomery.Reduce(v, p, rho) }
			montgomeryFixup = true
		}
	case RedmodeDR, RedmodeDRMulti:
		var err error
		reduce, err = bindDR(p, redmode)
		if err != nil {
			return err
		}
	default:
		return ErrInvalidRedmode
	}

	cap := allocatedCap(p)
	winsize := windowSize(digit.CountBits(x))
	tbl := newPowerTable(winsize)
	defer tbl.destroy()

	base := digit.New()
	base.Grow(cap)

	res.Grow(cap)
	if montgomeryFixup {
		montgomery.CalcNormalization(res, p)
		if err := digit.MulMod(base, g, res, p); err != nil {
			return err
		}
	} else {
		if err := digit.Mod(base, g, p); err != nil {
			return err
		}
		res.One()
	}

	if err := tbl.build(base, cap, reduce); err != nil {
		return err
	}

	if err := scan(res, x, tbl, reduce); err != nil {
		return err
	}

	if montgomeryFixup {
		return reduce(res)
	}
	return nil
}
