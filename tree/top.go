package tree

import (
	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/internal/chacha12rng"
)

// Top is the tree over bottom-tree roots spanning the expanded activation
// window, built to a fixed depth regardless of how many of its leaf slots
// are real bottom-tree roots versus random pads (spec §4.6).
type Top struct {
	Layers []*PaddedLayer
}

// BuildTop builds a depth-numLayers tree over roots (one per bottom-tree
// index in [start, start+len(roots))). The top tree sits directly above
// bottom trees of the same depth, so its tree-hash levels are numbered from
// numLayers upward: a full bottom+top co-path is then hashed at levels
// 0..2*numLayers-1, which is the walk Reconcile performs.
func BuildTop(rng *chacha12rng.RNG, parameter []field.Element, start uint64, roots []Node, numLayers int, tweakLenFE, hashLenFE int) (*Top, error) {
	layers := make([]*PaddedLayer, 0, numLayers+1)
	cur := buildPaddedLayer(rng, start, roots, hashLenFE)
	layers = append(layers, cur)
	for i := 0; i < numLayers; i++ {
		parents, err := hashLayerPairs(parameter, cur, uint8(numLayers+i), tweakLenFE, hashLenFE)
		if err != nil {
			return nil, err
		}
		cur = buildPaddedLayer(rng, cur.StartIndex/2, parents, hashLenFE)
		layers = append(layers, cur)
	}
	return &Top{Layers: layers}, nil
}

// Root returns the top tree's root node. The top tree's leaf range
// always starts within [0, 2^TopDepth), so the real root always sits at
// absolute position 0, however it landed in the final layer's slots.
func (t *Top) Root() Node {
	return Root(t.Layers, 0)
}

// CoPath extracts the top co-path at absolute bottom-tree index p.
func (t *Top) CoPath(p uint64) []Node {
	return CoPath(t.Layers, p)
}
