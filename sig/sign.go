package sig

import (
	"github.com/openhashsig/koala-xmss/encoding"
	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/internal/prf"
	"github.com/openhashsig/koala-xmss/tree"
)

func (s *Scheme) encodingParams() encoding.Params {
	p := s.Params
	return encoding.Params{
		ParameterLen: p.ParameterLen,
		TweakLenFE:   p.TweakLenFE,
		MsgLenFE:     p.MsgLenFE,
		HashLenFE:    p.HashLenFE,
		Capacity:     p.Capacity,
		Dimension:    p.Dimension,
		Base:         p.Base,
		TargetSum:    p.TargetSum,
	}
}

// Sign produces a signature for (epoch, message) under sk, per spec §4.8.
func (s *Scheme) Sign(sk *SecretKey, epoch uint64, message [32]byte) (*Signature, error) {
	p := s.Params
	c := p.BottomTreeSize()

	if epoch < sk.ActivationEpoch || epoch >= sk.ActivationEpoch+sk.NumActiveEpochs {
		return nil, ErrKeyNotActive
	}
	if epoch < sk.LeftBottomIndex*c || epoch >= (sk.LeftBottomIndex+2)*c {
		return nil, ErrEpochNotPrepared
	}

	k := epoch / c
	var bt *tree.Bottom
	if k == sk.LeftBottomIndex {
		bt = sk.Left
	} else {
		bt = sk.Right
	}

	path := make([]tree.Node, 0, int(p.LogLifetime))
	path = append(path, bt.CoPath(epoch)...)
	path = append(path, sk.Top.CoPath(k)...)

	ep := s.encodingParams()
	var digits []uint8
	var acceptedRho []field.Element
	found := false
	for counter := uint64(0); counter < encoding.MaxTries; counter++ {
		candidate := prf.Randomness(sk.PRFKey[:], uint32(epoch), message, counter, p.RandLenFE)
		d, _ := encoding.Digits(ep, sk.Parameter, uint32(epoch), candidate, message)
		if encoding.Accepts(ep, d) {
			digits = d
			acceptedRho = candidate
			found = true
			break
		}
	}
	if !found {
		return nil, ErrEncodingAttemptsExceeded
	}

	hashes := make([]tree.Node, p.Dimension)
	for j := 0; j < p.Dimension; j++ {
		start := prf.DomainElement(sk.PRFKey[:], uint32(epoch), uint64(j), p.HashLenFE)
		hashes[j] = tree.WalkChain(sk.Parameter, p.TweakLenFE, uint32(epoch), uint8(j), start, 0, int(digits[j]), p.HashLenFE)
	}

	return &Signature{Rho: acceptedRho, Hashes: hashes, Path: path}, nil
}
