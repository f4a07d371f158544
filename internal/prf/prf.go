// Package prf implements the two-shape keyed PRF of spec §4.2: domain
// elements (hash-chain starting points) and per-signature randomness, both
// derived from a 32-byte secret via a SHAKE128 extendable-output function.
//
// Grounded on internal/prf/shake_to_field.go's domain-separated
// XOF-absorb-then-read-4-bytes-per-element shape, adapted to the
// (epoch, chain_index) / (epoch, message, counter) query shapes spec.md
// names and to the Montgomery-consumed-as-is output rule of §4.2.
package prf

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/openhashsig/koala-xmss/field"
)

const (
	domainSepDomainElement byte = 0x00
	domainSepRandomness    byte = 0x01
)

// KeyLen is the secret PRF key size in bytes.
const KeyLen = 32

// sampleElements reads 4 bytes at a time from the XOF and converts each
// sample to a field element by keeping the top 31 bits of the 32-bit sample
// (dropping the low bit) and treating the result as a Montgomery-domain
// limb, per spec §4.2's "values in Montgomery form ... consumed as-is by
// Poseidon" rule for PRF-produced chain-start and randomness elements.
func sampleElements(xof sha3.ShakeHash, n int) []field.Element {
	out := make([]field.Element, n)
	var buf [4]byte
	for i := 0; i < n; i++ {
		if _, err := xof.Read(buf[:]); err != nil {
			panic("prf: XOF read failed: " + err.Error())
		}
		sample := binary.BigEndian.Uint32(buf[:])
		limb := sample >> 1
		out[i] = field.FromMontgomeryLimb(limb)
	}
	return out
}

// DomainElement derives the h-element starting node for chain chainIndex in
// epoch, keyed by key.
func DomainElement(key []byte, epoch uint32, chainIndex uint64, hashLenFE int) []field.Element {
	xof := sha3.NewShake128()
	xof.Write([]byte{domainSepDomainElement})
	xof.Write(key)
	var epochBuf [4]byte
	binary.BigEndian.PutUint32(epochBuf[:], epoch)
	xof.Write(epochBuf[:])
	var chainBuf [8]byte
	binary.BigEndian.PutUint64(chainBuf[:], chainIndex)
	xof.Write(chainBuf[:])
	return sampleElements(xof, hashLenFE)
}

// Randomness derives the randLenFE-element per-signature randomness for a
// given (epoch, message, counter) rejection-sampling attempt.
func Randomness(key []byte, epoch uint32, message [32]byte, counter uint64, randLenFE int) []field.Element {
	xof := sha3.NewShake128()
	xof.Write([]byte{domainSepRandomness})
	xof.Write(key)
	var epochBuf [4]byte
	binary.BigEndian.PutUint32(epochBuf[:], epoch)
	xof.Write(epochBuf[:])
	xof.Write(message[:])
	var counterBuf [8]byte
	binary.BigEndian.PutUint64(counterBuf[:], counter)
	xof.Write(counterBuf[:])
	return sampleElements(xof, randLenFE)
}
