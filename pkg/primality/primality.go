// Package primality provides the pure Rabin-Miller trial-count policy and
// the small-prime trial-division screen that gates it.
package primality

import "bignum/pkg/digit"

// rabinMillerTable maps a bit-size upper bound to the number of
// Rabin-Miller trials appropriate for that size, ordered ascending; the
// first entry with an upper bound >= bitSize wins, and sizes above the
// last bound get 2 trials.
var rabinMillerTable = []struct {
	upTo   int
	trials int
}{
	{80, -1},
	{95, 37},
	{127, 32},
	{159, 40},
	{255, 35},
	{383, 27},
	{511, 16},
	{767, 18},
	{895, 11},
	{1023, 10},
	{1535, 12},
	{2047, 8},
	{3071, 6},
	{4095, 4},
	{5119, 5},
	{6143, 4},
	{8191, 4},
	{10239, 3},
}

// RabinMillerTrials returns the number of Miller-Rabin trials appropriate
// for a candidate of the given bit size. -1 signals that bitSize is small
// enough for a deterministic primality test instead.
func RabinMillerTrials(bitSize int) int {
	for _, row := range rabinMillerTable {
		if bitSize <= row.upTo {
			return row.trials
		}
	}
	return 2
}

// smallPrimes is the trial-division screen consulted before the expensive
// Miller-Rabin rounds; any candidate divisible by one of these is
// immediately composite (barring the prime itself).
var smallPrimes = []digit.Word{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149, 151,
	157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223, 227, 229, 233,
	239, 241, 251, 257, 263, 269, 271, 277, 281, 283, 293, 307, 311, 313, 317,
	331, 337, 347, 349, 353, 359, 367, 373, 379, 383, 389, 397, 401, 409, 419,
	421, 431, 433, 439, 443, 449, 457, 461, 463, 467, 479, 487, 491, 499, 503,
	509, 521, 523, 541,
}

// IsDivisibleBySmallPrime reports whether a is divisible by any prime in
// the static small-prime table, via the single-digit modulus operation.
func IsDivisibleBySmallPrime(a *digit.Integer) bool {
	for _, p := range smallPrimes {
		if digit.ModDigit(a, p) == 0 {
			return true
		}
	}
	return false
}
