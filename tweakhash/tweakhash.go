// Package tweakhash implements the Poseidon2 tweak-hash family of spec §4.1
// and §4.3: chain-hash (width 16, feed-forward), tree-hash (width 24,
// feed-forward), and the leaf/sponge mode (width 24, absorb-permute-squeeze)
// used for wide inputs. All three share one domain-separation discipline
// built on top of a single 128-bit tweak integer decomposed into base-p
// digits (field.DigitsFromUint128).
//
// Grounded on th/tweak_hash/poseidon.go's sponge absorb/squeeze shape and
// th/message_hash/top_level_poseidon.go's poseidonCompress
// (permute-then-add-back feed-forward), corrected to match the three
// distinct modes spec.md requires instead of treating every mode as an
// identical sponge.
package tweakhash

import (
	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/poseidon"
)

// Tweak domain separators (spec §4.1).
const (
	SeparatorChainHash   = 0x00
	SeparatorTreeHash    = 0x01
	SeparatorMessageHash = 0x02
)

// ChainTweak encodes (epoch << 24) | (chainIndex << 16) | (posInChain << 8) | 0x00
// and decomposes it into tweakLenFE base-p digits.
func ChainTweak(epoch uint32, chainIndex uint8, posInChain uint8, tweakLenFE int) []field.Element {
	val := uint64(epoch)<<24 | uint64(chainIndex)<<16 | uint64(posInChain)<<8 | SeparatorChainHash
	return field.DigitsFromUint128(val, 0, tweakLenFE)
}

// TreeTweak encodes ((level+1) << 40) | (posInLevel << 8) | 0x01. Note the
// +1: level 0 means "hashing leaves to layer 1" (spec §4.1).
func TreeTweak(level uint8, posInLevel uint64, tweakLenFE int) []field.Element {
	val := uint64(level+1)<<40 | posInLevel<<8 | SeparatorTreeHash
	return field.DigitsFromUint128(val, 0, tweakLenFE)
}

// MessageTweak encodes (epoch << 8) | 0x02.
func MessageTweak(epoch uint32, tweakLenFE int) []field.Element {
	val := uint64(epoch)<<8 | SeparatorMessageHash
	return field.DigitsFromUint128(val, 0, tweakLenFE)
}

// feedForward permutes a zero-padded copy of input through perm and adds the
// pre-permutation (padded) input back elementwise, returning perm.Width()
// elements.
func feedForward(perm *poseidon.Poseidon2, input []field.Element) []field.Element {
	width := perm.Width()
	if len(input) > width {
		panic("tweakhash: feed-forward input exceeds permutation width")
	}
	padded := make([]field.Element, width)
	copy(padded, input)
	out := perm.PermuteNew(padded)
	for i := range out {
		out[i].Add(&out[i], &padded[i])
	}
	return out
}

var perm16 = poseidon.NewPoseidon2_16()
var perm24 = poseidon.NewPoseidon2_24()

// ChainHash computes one step of a hash chain: input = parameter ‖
// chain_tweak ‖ node[0:h], zero-padded to width 16, feed-forward Poseidon2-16,
// truncated to h elements.
func ChainHash(parameter []field.Element, tweak []field.Element, node []field.Element, hashLenFE int) []field.Element {
	input := make([]field.Element, 0, len(parameter)+len(tweak)+hashLenFE)
	input = append(input, parameter...)
	input = append(input, tweak...)
	input = append(input, node[:hashLenFE]...)
	return feedForward(perm16, input)[:hashLenFE]
}

// TreeHash computes one Merkle compression step: input = parameter ‖
// tree_tweak ‖ left[0:h] ‖ right[0:h], zero-padded to width 24, feed-forward
// Poseidon2-24, truncated to h elements.
func TreeHash(parameter []field.Element, tweak []field.Element, left, right []field.Element, hashLenFE int) []field.Element {
	input := make([]field.Element, 0, len(parameter)+len(tweak)+2*hashLenFE)
	input = append(input, parameter...)
	input = append(input, tweak...)
	input = append(input, left[:hashLenFE]...)
	input = append(input, right[:hashLenFE]...)
	return feedForward(perm24, input)[:hashLenFE]
}

// CapacitySeed derives the sponge's capacity-initialization state (spec §4.3
// step 1): pack (parameterLen, tweakLenFE, w, h) into one 128-bit
// accumulator (base 2^32), decompose to 24 base-p digits, run one
// feed-forward compression, and take the last `capacity` elements.
func CapacitySeed(parameterLen, tweakLenFE, w, hashLenFE, capacity int) []field.Element {
	lo := uint64(uint32(parameterLen)) | uint64(uint32(tweakLenFE))<<32
	hi := uint64(uint32(w)) | uint64(uint32(hashLenFE))<<32
	digits := field.DigitsFromUint128(lo, hi, 24)
	out := feedForward(perm24, digits)
	return out[24-capacity:]
}

// Sponge absorbs absorbInput (zero-padded to a multiple of rate = 24 -
// len(capacity)) into a width-24 state initialized with capacity in its last
// slots, then squeezes squeezeLen elements (spec §4.3 steps 2-4). This
// construction is shared by the leaf/sponge tweak-hash mode and by the
// message encoder's sponge (spec §4.4 step 3), which is why it lives here
// rather than being duplicated between th/tweak_hash/poseidon.go and
// th/message_hash/poseidon.go the way those two files duplicate it.
func Sponge(capacity []field.Element, absorbInput []field.Element, squeezeLen int) []field.Element {
	const width = 24
	rate := width - len(capacity)
	if rate <= 0 {
		panic("tweakhash: capacity leaves no rate")
	}

	state := make([]field.Element, width)
	copy(state[rate:], capacity)

	padLen := ((len(absorbInput) + rate - 1) / rate) * rate
	if padLen == 0 {
		padLen = rate
	}
	padded := make([]field.Element, padLen)
	copy(padded, absorbInput)

	for i := 0; i < len(padded); i += rate {
		for j := 0; j < rate; j++ {
			state[j].Add(&state[j], &padded[i+j])
		}
		perm24.Permute(state)
	}

	out := make([]field.Element, 0, squeezeLen)
	for len(out) < squeezeLen {
		out = append(out, state[:rate]...)
		if len(out) < squeezeLen {
			perm24.Permute(state)
		}
	}
	return out[:squeezeLen]
}

// LeafHash reduces the w chain-end nodes of one epoch to a single leaf node
// via the sponge mode (spec §4.3 "leaf/sponge hash"; §4.5 "reduce to one
// leaf via the sponge hash, level 0, pos=e").
func LeafHash(parameter []field.Element, epoch uint32, chainEnds [][]field.Element, tweakLenFE, hashLenFE, capacity int) []field.Element {
	w := len(chainEnds)
	capSeed := CapacitySeed(len(parameter), tweakLenFE, w, hashLenFE, capacity)
	tweak := TreeTweak(0, uint64(epoch), tweakLenFE)

	absorb := make([]field.Element, 0, len(parameter)+tweakLenFE+w*hashLenFE)
	absorb = append(absorb, parameter...)
	absorb = append(absorb, tweak...)
	for _, ce := range chainEnds {
		absorb = append(absorb, ce[:hashLenFE]...)
	}
	return Sponge(capSeed, absorb, hashLenFE)
}
