// Package sig ties field, prf, tweakhash, encoding, tree, and cache
// together into the Generalized-XMSS signer/verifier of spec §4.8/§4.9,
// with the activation-window expansion (§4.7) and preparation-advance
// (§4.10) that manage the two-level tree's sliding prepared window.
//
// Grounded on xmss/xmss.go's GeneralizedXMSS/KeyGen/Sign/Verify shape and
// rejection-sampling loop (chain walks here run sequentially), plus
// xmss/json.go's getters-plus-external-serialization split, generalized
// from a single flat tree to the bottom+top+cache architecture spec.md
// requires.
package sig

import (
	"github.com/openhashsig/koala-xmss/cache"
	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/lifetime"
	"github.com/openhashsig/koala-xmss/tree"
)

// PublicKey is (root, parameter) — spec §3.
type PublicKey struct {
	Root      tree.Node
	Parameter []field.Element
}

// SecretKey is the mutable signer state of spec §3: a PRF key and public
// parameter shared across the key's lifetime, the activation window, and
// the currently prepared pair of adjacent bottom trees plus the top tree
// spanning the whole expanded window.
type SecretKey struct {
	PRFKey          [32]byte
	Parameter       []field.Element
	ActivationEpoch uint64
	NumActiveEpochs uint64

	activationStart uint64 // expanded window start, multiple of C
	activationEnd   uint64 // expanded window end, multiple of C

	Top             *tree.Top
	LeftBottomIndex uint64
	Left            *tree.Bottom
	Right           *tree.Bottom
}

// Signature is (rho, hashes, path) — spec §3.
type Signature struct {
	Rho    []field.Element // rand_len_fe elements
	Hashes []tree.Node     // w nodes, one intermediate chain state per chain
	Path   []tree.Node     // L nodes: bottom co-path (L/2) ‖ top co-path (L/2)
}

// RhoPadded returns rho zero-padded to a fixed length of 7 field elements,
// the wire-level shape spec §6 mandates so rand_len_fe=6 and rand_len_fe=7
// lifetimes serialize uniformly.
func (s *Signature) RhoPadded() []field.Element {
	out := make([]field.Element, 7)
	copy(out, s.Rho)
	return out
}

// Scheme binds a lifetime parameter set to its bottom-tree cache and
// exposes KeyGen/Sign/Verify/AdvancePreparation.
type Scheme struct {
	Params lifetime.Params
	Cache  *cache.Cache
}

// NewScheme builds a Scheme with a cache configured from the environment
// (spec §6).
func NewScheme(p lifetime.Params) *Scheme {
	return &Scheme{Params: p, Cache: cache.New()}
}

func (s *Scheme) treeParams() tree.Params {
	p := s.Params
	return tree.Params{
		ParameterLen: p.ParameterLen,
		TweakLenFE:   p.TweakLenFE,
		HashLenFE:    p.HashLenFE,
		Capacity:     p.Capacity,
		Dimension:    p.Dimension,
		Base:         p.Base,
	}
}
