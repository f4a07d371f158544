package tree

import (
	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/tweakhash"
)

// Reconcile walks an L-node co-path (bottom co-path followed by top
// co-path, concatenated) from a leaf at absolute epoch position starting,
// reproducing the verifier's root-reconstruction walk of spec §4.9 step 4.
// Position is never reset between the bottom and top halves: after L/2
// shifts it naturally equals the bottom-tree index, which is exactly what
// the top half's tweaks need.
func Reconcile(parameter []field.Element, leaf Node, position uint64, path []Node, tweakLenFE, hashLenFE int) Node {
	current := leaf
	pos := position
	for level, sibling := range path {
		isLeft := pos&1 == 0
		var left, right Node
		if isLeft {
			left, right = current, sibling
		} else {
			left, right = sibling, current
		}
		pos >>= 1
		tweak := tweakhash.TreeTweak(uint8(level), pos, tweakLenFE)
		current = tweakhash.TreeHash(parameter, tweak, left, right, hashLenFE)
	}
	return current
}
