// Package randgen produces deterministic pseudo-random Integer values for
// property-based tests, streaming bytes from a SHAKE-128 XOF the same way
// pkg/hash's StreamingXOF128 streams field-element candidates: absorb a
// seed once, then draw output in small fixed chunks, refilling the
// internal buffer from the sponge as it's consumed.
package randgen

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"bignum/pkg/digit"
)

// Stream is a reusable source of pseudo-random bytes and Integers, seeded
// once and then drawn from repeatedly.
type Stream struct {
	h   sha3.ShakeHash
	buf [168]byte // SHAKE128 rate
	pos int
	end int
}

// New seeds a Stream from label and a numeric counter, so callers can
// derive many independent streams from one base label.
func New(label string, counter uint64) *Stream {
	h := sha3.NewShake128()
	h.Write([]byte(label))
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], counter)
	h.Write(ctr[:])
	return &Stream{h: h}
}

func (s *Stream) fill(n int) {
	if s.pos+n <= s.end {
		return
	}
	leftover := s.end - s.pos
	if leftover > 0 {
		copy(s.buf[:leftover], s.buf[s.pos:s.end])
	}
	got, _ := s.h.Read(s.buf[leftover:])
	s.pos = 0
	s.end = leftover + got
}

// Bytes returns the next n pseudo-random bytes.
func (s *Stream) Bytes(n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		s.fill(1)
		take := s.end - s.pos
		if remaining := n - len(out); take > remaining {
			take = remaining
		}
		out = append(out, s.buf[s.pos:s.pos+take]...)
		s.pos += take
	}
	return out
}

// Word returns the next pseudo-random value in [0, digit.Mask].
func (s *Stream) Word() digit.Word {
	b := s.Bytes(4)
	return digit.Word(binary.LittleEndian.Uint32(b)) & digit.Mask
}

// Integer returns a pseudo-random Integer of exactly bits significant
// bits (the top bit of the top digit is forced set, unless bits is 0).
func (s *Stream) Integer(bits int) *digit.Integer {
	x := digit.New()
	if bits <= 0 {
		return x
	}
	n := (bits + digit.DigitBits - 1) / digit.DigitBits
	x.Grow(n)
	for i := 0; i < n; i++ {
		x.Digit[i] = s.Word()
	}
	x.Used = n
	topBit := (bits - 1) % digit.DigitBits
	x.Digit[n-1] &= digit.Word(1)<<uint(topBit+1) - 1
	x.Digit[n-1] |= digit.Word(1) << uint(topBit)
	x.Clamp()
	if x.Used == 0 {
		x.Grow(1)
		x.Digit[0] = 1
		x.Used = 1
	}
	return x
}

// OddInteger returns a pseudo-random Integer of exactly bits significant
// bits with its least-significant bit forced set, suitable as a modulus
// for Montgomery reduction.
func (s *Stream) OddInteger(bits int) *digit.Integer {
	x := s.Integer(bits)
	x.Digit[0] |= 1
	return x
}

// Below returns a pseudo-random Integer strictly less than bound, by
// rejection sampling over values the same bit length as bound.
func (s *Stream) Below(bound *digit.Integer) *digit.Integer {
	bits := digit.CountBits(bound)
	if bits == 0 {
		return digit.New()
	}
	if bits == 1 {
		return digit.New()
	}
	// If bound is an exact power of two, every value with bound's own
	// bit length is >= bound; sampling one bit shorter always satisfies
	// x < bound and keeps the loop below from spinning forever.
	tmp := digit.New()
	digit.PowerOfTwo(tmp, bits-1)
	if digit.CmpMag(bound, tmp) == 0 {
		bits--
	}
	for {
		x := s.Integer(bits)
		if digit.CmpMag(x, bound) < 0 {
			return x
		}
	}
}
