package digit

import "testing"

func TestAddSubRoundTrip(t *testing.T) {
	for iter := 0; iter < 500; iter++ {
		a := New()
		b := New()
		a.SetUint64(uint64(iter)*104729 + 7)
		b.SetUint64(uint64(iter) * 998244353)

		sum := New()
		Add(sum, a, b)
		back := New()
		Sub(back, sum, b)
		if CmpMag(back, a) != 0 {
			t.Fatalf("iter=%d: (a+b)-b = %d, want %d", iter, back.Uint64(), a.Uint64())
		}
	}
}

func TestMulAgainstUint64(t *testing.T) {
	cases := []struct{ a, b uint64 }{
		{0, 0}, {1, 1}, {0, 5}, {123456789, 987654321}, {DigitMax, DigitMax},
	}
	for _, c := range cases {
		a, b, z := New(), New(), New()
		a.SetUint64(c.a)
		b.SetUint64(c.b)
		Mul(z, a, b)
		if got, want := z.Uint64(), c.a*c.b; got != want {
			t.Fatalf("Mul(%d,%d) = %d, want %d", c.a, c.b, got, want)
		}
	}
}

func TestDivModAgainstUint64(t *testing.T) {
	cases := []struct{ a, b uint64 }{
		{100, 7}, {0, 5}, {1, 1}, {DigitMax, 3}, {12345, 12345},
	}
	for _, c := range cases {
		a, b, q, r := New(), New(), New(), New()
		a.SetUint64(c.a)
		b.SetUint64(c.b)
		if err := DivMod(q, r, a, b); err != nil {
			t.Fatalf("DivMod(%d,%d): %v", c.a, c.b, err)
		}
		if got, want := q.Uint64(), c.a/c.b; got != want {
			t.Fatalf("DivMod(%d,%d).q = %d, want %d", c.a, c.b, got, want)
		}
		if got, want := r.Uint64(), c.a%c.b; got != want {
			t.Fatalf("DivMod(%d,%d).r = %d, want %d", c.a, c.b, got, want)
		}
	}
}

func TestDivModByZero(t *testing.T) {
	a, b := New(), New()
	a.SetUint64(5)
	if err := DivMod(nil, nil, a, b); err != errDivideByZero {
		t.Fatalf("DivMod by zero: got %v, want errDivideByZero", err)
	}
}

func TestModDigit(t *testing.T) {
	a := New()
	a.SetUint64(1_000_003)
	if got, want := ModDigit(a, 7), Word(1_000_003%7); got != want {
		t.Fatalf("ModDigit = %d, want %d", got, want)
	}
}

func TestMulLowMulHighSplitFullProduct(t *testing.T) {
	a, b := New(), New()
	a.SetUint64(0xABCDEF12345)
	b.SetUint64(0x123456789AB)

	full := New()
	Mul(full, a, b)

	k := 3
	low, high := New(), New()
	MulLow(low, a, b, k)
	MulHigh(high, a, b, k)

	recombined := New()
	ShlDigit(high, k)
	Add(recombined, high, low)
	if CmpMag(recombined, full) != 0 {
		t.Fatalf("MulLow+MulHigh<<k != full product")
	}
}

func TestShrModSplitsExactly(t *testing.T) {
	a := New()
	a.SetUint64(0x1234567890ABC)
	for _, p := range []int{1, 5, DigitBits, DigitBits + 3, 2 * DigitBits} {
		q, r := New(), New()
		ShrMod(q, r, a, p)
		reconstructed := New()
		ShlDigit(q, p/DigitBits)
		shifted := New()
		Copy(shifted, q)
		for i := 0; i < p%DigitBits; i++ {
			Shl1(shifted)
		}
		Add(reconstructed, shifted, r)
		if CmpMag(reconstructed, a) != 0 {
			t.Fatalf("p=%d: shrmod did not reconstruct a", p)
		}
	}
}

func TestCountBitsAndPowerOfTwo(t *testing.T) {
	for k := 0; k < 200; k++ {
		z := New()
		PowerOfTwo(z, k)
		if got, want := CountBits(z), k+1; got != want {
			t.Fatalf("CountBits(2^%d) = %d, want %d", k, got, want)
		}
	}
}
