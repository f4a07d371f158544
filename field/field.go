// Package field implements the KoalaBear prime field using gnark-crypto.
package field

import (
	"encoding/binary"
	"math/big"

	"github.com/consensys/gnark-crypto/field/koalabear"
)

// KoalaBear prime: 2^31 - 2^24 + 1
const P uint64 = 2130706433

// Element represents a field element. All Poseidon2 arithmetic operates
// directly on this type; the conversions below are the explicit boundary
// between the canonical integer representation (used for tweaks, parameter
// sampling, serialization, and public-root comparison) and the
// Montgomery-domain representation (used when XOF/PRF output is consumed
// directly as Poseidon input without a canonical reduction step).
type Element = koalabear.Element

// montgomeryR is R = 2^32 mod p, and montgomeryRInv is its modular inverse.
// Computed at init time rather than hardcoded so the relationship is
// self-evidently correct for the chosen modulus.
var (
	montgomeryR    uint64
	montgomeryRInv uint64
)

func init() {
	p := new(big.Int).SetUint64(P)
	r := new(big.Int).Lsh(big.NewInt(1), 32)
	r.Mod(r, p)
	montgomeryR = r.Uint64()

	rInv := new(big.Int).ModInverse(r, p)
	if rInv == nil {
		panic("field: 2^32 has no inverse mod p")
	}
	montgomeryRInv = rInv.Uint64()
}

// Zero returns the additive identity.
func Zero() Element {
	var e Element
	return e
}

// One returns the multiplicative identity.
func One() Element {
	var e Element
	e.SetOne()
	return e
}

// FromCanonical builds the element whose canonical value is v mod p.
func FromCanonical(v uint32) Element {
	var e Element
	e.SetUint64(uint64(v) % P)
	return e
}

// ToCanonical returns the canonical integer value of e, in [0, p).
func ToCanonical(e Element) uint32 {
	b := e.Bytes()
	return binary.BigEndian.Uint32(b[:])
}

// ToMontgomeryLimb returns the Montgomery-domain encoding (v*R mod p) of e's
// canonical value.
func ToMontgomeryLimb(e Element) uint32 {
	v := uint64(ToCanonical(e))
	return uint32((v * montgomeryR) % P)
}

// FromMontgomeryLimb builds the element whose canonical value is obtained by
// interpreting m as a Montgomery-domain encoding (m*R^-1 mod p).
func FromMontgomeryLimb(m uint32) Element {
	v := (uint64(m) * montgomeryRInv) % P
	return FromCanonical(uint32(v))
}

// Equal reports whether a and b hold the same canonical value.
func Equal(a, b Element) bool {
	return ToCanonical(a) == ToCanonical(b)
}

// DigitsFromUint128 decomposes the 128-bit little-endian integer (lo, hi)
// into n base-p little-endian digits. Used to build tweaks (spec §4.1):
// tweaks are assembled as a single 128-bit integer and decomposed this way.
func DigitsFromUint128(lo, hi uint64, n int) []Element {
	acc := new(big.Int).SetUint64(hi)
	acc.Lsh(acc, 64)
	loBig := new(big.Int).SetUint64(lo)
	acc.Or(acc, loBig)

	p := new(big.Int).SetUint64(P)
	digits := make([]Element, n)
	tmp := new(big.Int)
	for i := 0; i < n; i++ {
		tmp.Mod(acc, p)
		digits[i] = FromCanonical(uint32(tmp.Uint64()))
		acc.Div(acc, p)
	}
	return digits
}

// DigitsFromBytes interprets data as a little-endian integer and decomposes
// it into n base-p little-endian digits (spec §4.4 step 1: message decoded
// as a 256-bit little-endian integer into msg_len_fe base-p digits).
func DigitsFromBytes(data []byte, n int) []Element {
	rev := make([]byte, len(data))
	for i, b := range data {
		rev[len(data)-1-i] = b
	}
	acc := new(big.Int).SetBytes(rev)

	p := new(big.Int).SetUint64(P)
	digits := make([]Element, n)
	tmp := new(big.Int)
	for i := 0; i < n; i++ {
		tmp.Mod(acc, p)
		digits[i] = FromCanonical(uint32(tmp.Uint64()))
		acc.Div(acc, p)
	}
	return digits
}

// HornerToBigInt recomposes a slice of field elements (most-significant
// first) into a single big integer via Horner's rule with base p. Used by
// the message encoder's digit-extraction step (spec §4.4 step 4).
func HornerToBigInt(elements []Element) *big.Int {
	p := new(big.Int).SetUint64(P)
	acc := new(big.Int)
	for _, e := range elements {
		acc.Mul(acc, p)
		v := ToCanonical(e)
		acc.Add(acc, new(big.Int).SetUint64(uint64(v)))
	}
	return acc
}

// ExtractBaseBDigits extracts numDigits little-endian base-b digits from acc
// via repeated division, consuming (but not mutating) the caller's big.Int.
func ExtractBaseBDigits(acc *big.Int, base int, numDigits int) []uint8 {
	v := new(big.Int).Set(acc)
	b := big.NewInt(int64(base))
	digits := make([]uint8, numDigits)
	mod := new(big.Int)
	for i := 0; i < numDigits; i++ {
		mod.Mod(v, b)
		digits[i] = uint8(mod.Uint64())
		v.Div(v, b)
	}
	return digits
}
