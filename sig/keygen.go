package sig

import (
	"github.com/openhashsig/koala-xmss/internal/chacha12rng"
	"github.com/openhashsig/koala-xmss/tree"
)

// KeyGen builds a fresh key pair for the given activation window (spec
// §4.7 for window expansion, §9 for RNG draw order). rng must not have
// been used for anything else: the exact draw order — parameter, then PRF
// key, then pad-node draws in bottom-tree-index order followed by the top
// tree's layers bottom-up — is part of the key's determinism and must not
// be altered.
//
// Every bottom tree across the full expanded window is built (the top
// tree needs all of their roots), immediately cached, and then discarded
// except for the two adjacent ones the caller can sign with right away;
// AdvancePreparation later pulls the rest back from cache as the window
// slides, which is the entire reason the cache exists (spec §1).
func (s *Scheme) KeyGen(rng *chacha12rng.RNG, activationEpoch, numActiveEpochs uint64) (*PublicKey, *SecretKey, error) {
	p := s.Params
	c := p.BottomTreeSize()

	start, end, err := expandWindow(p, activationEpoch, numActiveEpochs)
	if err != nil {
		return nil, nil, err
	}
	startIdx, endIdx := start/c, end/c
	if endIdx-startIdx < 2 {
		return nil, nil, ErrInsufficientBottomTrees
	}

	parameter := rng.ReadFieldElements(p.ParameterLen)
	prfKey := rng.ReadKey()
	tp := s.treeParams()

	roots := make([]tree.Node, endIdx-startIdx)
	var left, right *tree.Bottom
	for k := startIdx; k < endIdx; k++ {
		bt, err := tree.BuildBottom(rng, prfKey[:], parameter, k, c, tp)
		if err != nil {
			return nil, nil, err
		}
		roots[k-startIdx] = bt.Root()
		s.Cache.Store(bt, p.LogLifetime, p.ParamTag(), prfKey[:], parameter, p.HashLenFE)
		switch k {
		case startIdx:
			left = bt
		case startIdx + 1:
			right = bt
		}
	}

	top, err := tree.BuildTop(rng, parameter, startIdx, roots, int(p.TopDepth()), p.TweakLenFE, p.HashLenFE)
	if err != nil {
		return nil, nil, err
	}
	if len(top.Root()) == 0 {
		return nil, nil, ErrInvalidTopTree
	}

	pk := &PublicKey{Root: top.Root(), Parameter: parameter}
	sk := &SecretKey{
		PRFKey:          prfKey,
		Parameter:       parameter,
		ActivationEpoch: activationEpoch,
		NumActiveEpochs: numActiveEpochs,
		activationStart: start,
		activationEnd:   end,
		Top:             top,
		LeftBottomIndex: startIdx,
		Left:            left,
		Right:           right,
	}
	return pk, sk, nil
}
