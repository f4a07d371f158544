// Package encoding implements the target-sum rejection message encoding of
// spec §4.4: digits are derived deterministically from (parameter, epoch,
// randomness, message) via the same sponge construction tweakhash uses for
// leaves, and the encoding is accepted iff the digits sum to exactly
// target_sum. The signer retries with fresh randomness on rejection; the
// verifier recomputes digits from the signature's stored randomness and
// never checks the sum itself (spec §4.4 step 5).
//
// Keeps encoding/targetsum's ComputeOptimalTarget helper (its
// TargetSumEncoding type is not carried over) but replaces its Winternitz-derived digit extraction with the
// Horner-recompose-then-divide algorithm spec §4.4 step 4 requires, and
// drops the pluggable IncomparableEncoding/MessageHash interfaces — this
// scheme has exactly one encoder, not a registry of interchangeable ones
// (see DESIGN.md).
package encoding

import (
	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/tweakhash"
)

// MaxTries bounds the signer's rejection-sampling loop (spec §4.4 step 5).
const MaxTries = 100_000

// squeezeLenFE is the number of field elements squeezed from the sponge
// before digit extraction. 64 base-8 digits need 192 bits of entropy;
// Horner-recomposing n field elements base p (p ~ 2^30.98) yields p^n
// possible values, and p^7 > 2^192 while p^6 does not, so 7 is the minimum
// that can't systematically starve the high digits.
const squeezeLenFE = 7

// Params carries the field widths the encoder needs. It mirrors the
// relevant subset of a lifetime parameter set (internal/prf and tweakhash
// need the rest).
type Params struct {
	ParameterLen int
	TweakLenFE   int
	MsgLenFE     int
	HashLenFE    int
	Capacity     int
	Dimension    int // w, number of chains / digits
	Base         int // b
	TargetSum    int
}

// Digits returns the w base-b digits derived from (parameter, epoch,
// randomness, message), and their sum. It performs no acceptance check:
// the signer passes the digits to Accepts to decide whether to retry, and
// the verifier does not check the sum at all.
func Digits(p Params, parameter []field.Element, epoch uint32, randomness []field.Element, message [32]byte) (digits []uint8, sum int) {
	msgDigits := field.DigitsFromBytes(message[:], p.MsgLenFE)
	epochTweak := tweakhash.MessageTweak(epoch, p.TweakLenFE)

	absorb := make([]field.Element, 0, len(parameter)+p.TweakLenFE+len(randomness)+p.MsgLenFE)
	absorb = append(absorb, parameter...)
	absorb = append(absorb, epochTweak...)
	absorb = append(absorb, randomness...)
	absorb = append(absorb, msgDigits...)

	capSeed := tweakhash.CapacitySeed(p.ParameterLen, p.TweakLenFE, p.Dimension, p.HashLenFE, p.Capacity)
	squeezed := tweakhash.Sponge(capSeed, absorb, squeezeLenFE)

	acc := field.HornerToBigInt(squeezed)
	raw := field.ExtractBaseBDigits(acc, p.Base, p.Dimension)

	sum = 0
	for _, d := range raw {
		sum += int(d)
	}
	return raw, sum
}

// Accepts reports whether digits sum to exactly Params.TargetSum.
func Accepts(p Params, digits []uint8) bool {
	sum := 0
	for _, d := range digits {
		sum += int(d)
	}
	return sum == p.TargetSum
}

// ComputeOptimalTarget mirrors encoding/targetsum's helper of the same name: the
// expected digit sum for `dimension` independent uniform base-`base` digits
// is dimension*(base-1)/2, which is the target sum that minimizes expected
// signer retries.
func ComputeOptimalTarget(dimension, base int) int {
	return dimension * (base - 1) / 2
}
