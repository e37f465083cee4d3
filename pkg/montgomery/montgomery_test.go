package montgomery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bignum/pkg/digit"
)

func TestSetupSatisfiesInverseIdentity(t *testing.T) {
	// n = 9: the algebraically correct rho satisfies (9*rho+1) & Mask == 0.
	// This is 0x071C71C7, not the 0x1C71C71F sometimes quoted for this
	// modulus; that value fails the very check it's supposed to satisfy.
	n := digit.New()
	n.SetUint64(9)
	rho, err := Setup(n)
	require.NoError(t, err)
	require.Equal(t, digit.Word(0x071C71C7), rho)

	prod := (uint64(9)*uint64(rho) + 1) & digit.Mask
	require.Zero(t, prod)
}

func TestSetupRejectsEvenModulus(t *testing.T) {
	n := digit.New()
	n.SetUint64(10)
	_, err := Setup(n)
	require.ErrorIs(t, err, ErrEvenModulus)
}

func TestSetupInverseIdentityAcrossModuli(t *testing.T) {
	for _, v := range []uint64{1, 3, 5, 7, 65537, 998244353, 0xABCDEF01} {
		n := digit.New()
		n.SetUint64(v | 1)
		rho, err := Setup(n)
		require.NoError(t, err)
		prod := (v | 1) * uint64(rho)
		require.Zero(t, (prod+1)&digit.Mask)
	}
}

func TestCalcNormalizationIsRModN(t *testing.T) {
	for _, v := range []uint64{3, 9, 65537, 998244353} {
		n := digit.New()
		n.SetUint64(v)
		r := digit.New()
		CalcNormalization(r, n)

		beta := digit.New()
		digit.PowerOfTwo(beta, digit.DigitBits*n.Used)
		want := digit.New()
		require.NoError(t, digit.Mod(want, beta, n))
		require.Equal(t, 0, digit.CmpMag(r, want))
	}
}

func TestReduceRoundTrip(t *testing.T) {
	for _, v := range []uint64{97, 65537, 998244353} {
		n := digit.New()
		n.SetUint64(v | 1)
		rho, err := Setup(n)
		require.NoError(t, err)

		x := digit.New()
		x.SetUint64((v | 1) - 3)

		r := digit.New()
		CalcNormalization(r, n)

		xr := digit.New()
		digit.Mul(xr, x, r)
		require.NoError(t, Reduce(xr, n, rho))

		want := digit.New()
		want.SetUint64(x.Uint64() % n.Uint64())
		require.Equal(t, 0, digit.CmpMag(xr, want))
	}
}

func TestReduceComesFromBaselineOrComba(t *testing.T) {
	n := digit.New()
	n.SetUint64(65537)
	rho, err := Setup(n)
	require.NoError(t, err)

	require.True(t, useComba(n, n))

	x := digit.New()
	digit.Mul(x, n, n)
	digit.Sub(x, x, n)

	xOrig := digit.New()
	digit.Copy(xOrig, x)

	require.NoError(t, Reduce(x, n, rho))
	require.True(t, digit.CmpMag(x, n) < 0)

	// Reduce(x, n, rho) == x * R^-1 mod n, so multiplying back by R and
	// reducing mod n independently (via DivMod, not Montgomery) must
	// recover the original x mod n. This is the check that would have
	// caught the double carry-propagation defect the bound-only assertion
	// above missed.
	r := digit.New()
	CalcNormalization(r, n)
	back := digit.New()
	require.NoError(t, digit.MulMod(back, x, r, n))

	want := digit.New()
	require.NoError(t, digit.Mod(want, xOrig, n))
	require.Equal(t, 0, digit.CmpMag(back, want))
}
