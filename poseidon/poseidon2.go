// Package poseidon wraps gnark-crypto's Poseidon2 permutation over the
// KoalaBear field. It is the out-of-scope "Poseidon2 permutation kernel"
// collaborator of spec.md §1 — the tweakhash package consumes it only
// through Permute/PermuteNew.
package poseidon

import (
	"github.com/consensys/gnark-crypto/field/koalabear"
	"github.com/consensys/gnark-crypto/field/koalabear/poseidon2"
)

// Element is a KoalaBear field element.
type Element = koalabear.Element

// Poseidon2 wraps a fixed-width gnark-crypto Poseidon2 permutation.
type Poseidon2 struct {
	perm  *poseidon2.Permutation
	width int
}

// NewPoseidon2_16 builds the width-16 permutation used for chain-hash
// compression.
func NewPoseidon2_16() *Poseidon2 {
	return &Poseidon2{perm: poseidon2.NewPermutation(16, 8, 13), width: 16}
}

// NewPoseidon2_24 builds the width-24 permutation used for tree-hash
// compression and the leaf/message sponge.
func NewPoseidon2_24() *Poseidon2 {
	return &Poseidon2{perm: poseidon2.NewPermutation(24, 8, 21), width: 24}
}

// Permute applies the permutation to state in place.
func (p *Poseidon2) Permute(state []Element) {
	if len(state) != p.width {
		panic("poseidon: state size mismatch")
	}
	if err := p.perm.Permutation(state); err != nil {
		panic("poseidon: permutation failed: " + err.Error())
	}
}

// PermuteNew applies the permutation and returns a freshly allocated state,
// leaving the input untouched.
func (p *Poseidon2) PermuteNew(state []Element) []Element {
	if len(state) != p.width {
		panic("poseidon: state size mismatch")
	}
	out := make([]Element, len(state))
	copy(out, state)
	p.Permute(out)
	return out
}

// Width returns the permutation's state width.
func (p *Poseidon2) Width() int {
	return p.width
}
