package sig

import (
	"github.com/openhashsig/koala-xmss/encoding"
	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/tree"
	"github.com/openhashsig/koala-xmss/tweakhash"
)

// Verify checks a signature for (epoch, message) against pk, per spec
// §4.9. It returns false for any structural or cryptographic failure; it
// never panics on attacker-controlled signature contents of the expected
// shape.
func (s *Scheme) Verify(pk *PublicKey, epoch uint64, message [32]byte, signature *Signature) bool {
	p := s.Params
	if epoch >= p.Epochs() {
		return false
	}
	if len(signature.Hashes) != p.Dimension || len(signature.Path) != int(p.LogLifetime) {
		return false
	}

	ep := s.encodingParams()
	digits, _ := encoding.Digits(ep, pk.Parameter, uint32(epoch), signature.Rho, message)

	ends := make([]tree.Node, p.Dimension)
	for j := 0; j < p.Dimension; j++ {
		if len(signature.Hashes[j]) != p.HashLenFE {
			return false
		}
		d := int(digits[j])
		if d >= p.Base {
			return false
		}
		ends[j] = tree.WalkChain(pk.Parameter, p.TweakLenFE, uint32(epoch), uint8(j), signature.Hashes[j], d, p.Base-1, p.HashLenFE)
	}

	leaf := tweakhash.LeafHash(pk.Parameter, uint32(epoch), ends, p.TweakLenFE, p.HashLenFE, p.Capacity)

	current := tree.Reconcile(pk.Parameter, leaf, epoch, signature.Path, p.TweakLenFE, p.HashLenFE)

	if len(current) != len(pk.Root) {
		return false
	}
	for i := range current {
		if !field.Equal(current[i], pk.Root[i]) {
			return false
		}
	}
	return true
}
