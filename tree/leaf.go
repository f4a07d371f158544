package tree

import (
	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/internal/prf"
	"github.com/openhashsig/koala-xmss/tweakhash"
)

// Node is one hash-chain/tree value: a sequence of HashLenFE field
// elements.
type Node = []field.Element

// WalkChain walks chain chainIndex's node forward from position fromPos to
// position toPos (inclusive), applying one chain-hash per step. Position 0
// is the PRF-derived domain element itself; the signer walks 0..digit, the
// verifier completes digit..base-1 from the signature's stored state.
func WalkChain(parameter []field.Element, tweakLenFE int, epoch uint32, chainIndex uint8, node Node, fromPos, toPos int, hashLenFE int) Node {
	for pos := fromPos + 1; pos <= toPos; pos++ {
		tw := tweakhash.ChainTweak(epoch, chainIndex, uint8(pos), tweakLenFE)
		node = tweakhash.ChainHash(parameter, tw, node, hashLenFE)
	}
	return node
}

// ComputeLeaf derives the epoch leaf: for each of Dimension chains, the PRF
// domain element is walked Base-1 steps, and the w chain-end nodes are
// sponge-reduced to a single leaf (spec §4.5).
func ComputeLeaf(prfKey []byte, parameter []field.Element, epoch uint32, p Params) Node {
	ends := make([]Node, p.Dimension)
	for j := 0; j < p.Dimension; j++ {
		start := prf.DomainElement(prfKey, epoch, uint64(j), p.HashLenFE)
		ends[j] = WalkChain(parameter, p.TweakLenFE, epoch, uint8(j), start, 0, p.Base-1, p.HashLenFE)
	}
	return tweakhash.LeafHash(parameter, epoch, ends, p.TweakLenFE, p.HashLenFE, p.Capacity)
}
