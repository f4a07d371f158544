// Package chacha12rng implements the deterministic key-generation RNG spec
// §9 names: "ChaCha12 with a caller-supplied or timestamp-derived 32-byte
// seed", used both for parameter/PRF-key sampling and for padded-layer pad
// nodes. spec.md treats this RNG as an out-of-scope external collaborator
// (§1); no ChaCha12 implementation appears anywhere in the retrieved
// dependency corpus, so this package builds on golang.org/x/crypto/chacha20
// (the full 20-round cipher) as a documented simplification of the
// 12-round variant. The stream construction — a keyed cipher run over an
// all-zero plaintext to produce a pure keystream — follows the same
// "RNG as keystream reader" shape xmss/xmss.go's key generation assumes
// from its rng io.Reader parameter.
package chacha12rng

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"

	"github.com/openhashsig/koala-xmss/field"
)

// RNG is a seedable deterministic byte stream. It is not safe for
// concurrent use: spec §5 requires the key-gen RNG be touched only by its
// owning thread.
type RNG struct {
	cipher *chacha20.Cipher
}

// New builds an RNG from a 32-byte seed. The nonce is fixed at all-zero:
// the seed is the sole source of entropy, consistent with a single-use
// generator created fresh per key generation.
func New(seed [32]byte) *RNG {
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		panic("chacha12rng: cipher init failed: " + err.Error())
	}
	return &RNG{cipher: c}
}

// ReadBytes fills and returns n raw keystream bytes.
func (r *RNG) ReadBytes(n int) []byte {
	out := make([]byte, n)
	r.cipher.XORKeyStream(out, out)
	return out
}

// ReadKey draws a 32-byte secret (spec §9: "one 32-byte draw for PRF key").
func (r *RNG) ReadKey() [32]byte {
	var key [32]byte
	copy(key[:], r.ReadBytes(32))
	return key
}

// ReadFieldElements draws n field elements, 4 bytes each, via the canonical
// sampling rule of spec §4.2: keep the top 31 bits of the 32-bit sample
// (drop the low bit) as a canonical field digit. Used both for parameter
// sampling ("one 20-byte peek for parameter" is ReadFieldElements(5)) and
// for padded-layer pad nodes.
func (r *RNG) ReadFieldElements(n int) []field.Element {
	out := make([]field.Element, n)
	raw := r.ReadBytes(4 * n)
	for i := 0; i < n; i++ {
		sample := binary.BigEndian.Uint32(raw[4*i : 4*i+4])
		out[i] = field.FromCanonical(sample >> 1)
	}
	return out
}
