package tree

import (
	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/internal/chacha12rng"
	"github.com/openhashsig/koala-xmss/tweakhash"
)

// PaddedLayer is a contiguous run of nodes covering global positions
// [StartIndex, StartIndex+len(Nodes)), padded at front/back as needed so it
// is pairable with its neighbors at the next layer up (spec §3).
//
// Pad-node parity: front pad is added when StartIndex is odd (to make it
// even); back pad is added when the resulting node count is odd (to make
// it even, so every node has a tree-hash partner). A bottom tree's leaf
// range and every intermediate layer above it are always an exact
// power-of-two block, so those layers never pad; the single-node root
// layer is always odd-count, so it always draws exactly one pad — that
// slot sits beside the real root (see Root) and is never read by CoPath.
// The top tree's leaf range is an arbitrary contiguous span of
// bottom-tree indices, so its intermediate layers pad whenever the
// window is narrower than the tree's full depth.
type PaddedLayer struct {
	StartIndex uint64
	Nodes      []Node
}

func buildPaddedLayer(rng *chacha12rng.RNG, startIndex uint64, nodes []Node, hashLenFE int) *PaddedLayer {
	out := make([]Node, 0, len(nodes)+2)
	newStart := startIndex
	if startIndex%2 == 1 {
		out = append(out, rng.ReadFieldElements(hashLenFE))
		newStart--
	}
	out = append(out, nodes...)
	if len(out)%2 == 1 {
		out = append(out, rng.ReadFieldElements(hashLenFE))
	}
	return &PaddedLayer{StartIndex: newStart, Nodes: out}
}

// hashLayerPairs tree-hashes adjacent pairs of a padded layer into the next
// layer's (unpadded) nodes, parallelized per spec §5's per-pair threshold.
func hashLayerPairs(parameter []field.Element, layer *PaddedLayer, level uint8, tweakLenFE, hashLenFE int) ([]Node, error) {
	numPairs := len(layer.Nodes) / 2
	parents := make([]Node, numPairs)
	err := parallelFor(numPairs, pairParallelThreshold, func(i int) error {
		posInLevel := layer.StartIndex/2 + uint64(i)
		tweak := tweakhash.TreeTweak(level, posInLevel, tweakLenFE)
		parents[i] = tweakhash.TreeHash(parameter, tweak, layer.Nodes[2*i], layer.Nodes[2*i+1], hashLenFE)
		return nil
	})
	return parents, err
}

// buildLayers builds numLayers tree-hash layers above a leaf layer starting
// at leafStart, returning all layers including the leaf layer itself
// (index 0) and the root layer (index numLayers: the single root node plus
// the pad buildPaddedLayer adds beside it). Level i is hashed with tree
// level i; BuildTop numbers its levels separately.
func buildLayers(rng *chacha12rng.RNG, parameter []field.Element, leaves []Node, leafStart uint64, numLayers int, tweakLenFE, hashLenFE int) ([]*PaddedLayer, error) {
	layers := make([]*PaddedLayer, 0, numLayers+1)
	cur := buildPaddedLayer(rng, leafStart, leaves, hashLenFE)
	layers = append(layers, cur)
	for level := 0; level < numLayers; level++ {
		parents, err := hashLayerPairs(parameter, cur, uint8(level), tweakLenFE, hashLenFE)
		if err != nil {
			return nil, err
		}
		cur = buildPaddedLayer(rng, cur.StartIndex/2, parents, hashLenFE)
		layers = append(layers, cur)
	}
	return layers, nil
}

// CoPath extracts the co-path from a built set of layers at absolute
// position p: for each non-root layer, emit the sibling node at p^1
// translated into that layer's local array, then p >>= 1 (spec §4.6).
func CoPath(layers []*PaddedLayer, p uint64) []Node {
	path := make([]Node, 0, len(layers)-1)
	for _, layer := range layers[:len(layers)-1] {
		local := p - layer.StartIndex
		sibling := local ^ 1
		path = append(path, layer.Nodes[sibling])
		p >>= 1
	}
	return path
}

// Root returns the real root node from the top of a built layer set, at
// absolute position rootPos (a bottom tree's own index; 0 for the top
// tree, spec §4.6). The root layer always has exactly one real node, but
// when buildPaddedLayer had to pad it to stay even it also carries one
// inert pad node alongside it, so the caller must name which slot is
// real rather than assuming index 0.
func Root(layers []*PaddedLayer, rootPos uint64) Node {
	last := layers[len(layers)-1]
	return last.Nodes[rootPos-last.StartIndex]
}
