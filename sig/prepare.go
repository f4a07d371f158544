package sig

import (
	"github.com/openhashsig/koala-xmss/internal/chacha12rng"
	"github.com/openhashsig/koala-xmss/tree"
)

// AdvancePreparation slides the prepared window forward by one bottom
// tree, per spec §4.10: if there is a next bottom tree within the
// activation window, it is loaded from cache (or rebuilt on a miss), the
// old left subtree is released, right becomes left, and the newly built
// tree becomes right. Otherwise this is a no-op.
//
// A bottom tree draws exactly one pad (C is a power of two, so every
// layer above the leaves is already an exact, evenly-pairable size except
// the single-node root layer, which always pads — see tree.PaddedLayer).
// That pad sits in an inert slot beside the real root and is never read
// by CoPath or tree.Root, so it cannot affect the reconstructed root or
// any verification: a cache-miss rebuild is effectively a pure function
// of (prf_key, parameter, k, C) for every purpose that matters, and needs
// no RNG state continued from key generation. It is given a fresh, unused
// RNG purely so tree.BuildBottom's signature stays uniform with
// tree.BuildTop's, which does need one.
func (s *Scheme) AdvancePreparation(sk *SecretKey) error {
	p := s.Params
	c := p.BottomTreeSize()

	if (sk.LeftBottomIndex+3)*c > sk.activationEnd {
		return nil
	}

	nextIdx := sk.LeftBottomIndex + 2
	bt := s.Cache.Load(p.LogLifetime, p.ParamTag(), nextIdx, sk.PRFKey[:], sk.Parameter, p.HashLenFE)
	if bt == nil {
		var err error
		bt, err = tree.BuildBottom(chacha12rng.New([32]byte{}), sk.PRFKey[:], sk.Parameter, nextIdx, c, s.treeParams())
		if err != nil {
			return err
		}
		s.Cache.Store(bt, p.LogLifetime, p.ParamTag(), sk.PRFKey[:], sk.Parameter, p.HashLenFE)
	}

	sk.Left = sk.Right
	sk.Right = bt
	sk.LeftBottomIndex++
	return nil
}
