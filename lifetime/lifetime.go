// Package lifetime defines the three supported lifetime selectors and
// their compile-time parameter sets (spec §3, §6), grounded on
// xmss/instantiations_poseidon.go's constants and
// bwesterb-go-xmssmt's params.go named-registry shape.
package lifetime

// Selector names a supported key lifetime.
type Selector int

const (
	L8 Selector = iota
	L18
	L32
)

// String implements fmt.Stringer.
func (s Selector) String() string {
	switch s {
	case L8:
		return "2^8"
	case L18:
		return "2^18"
	case L32:
		return "2^32"
	default:
		return "unknown"
	}
}

// Params is the full compile-time parameter set for a lifetime selector
// (spec §3's data model table).
type Params struct {
	LogLifetime  uint8 // L
	Dimension    int   // w
	Base         int   // b
	FinalLayer   int   // encoder reject bound, unused by the target-sum encoder
	TargetSum    int   // T
	ParameterLen int
	TweakLenFE   int
	MsgLenFE     int
	RandLenFE    int
	HashLenFE    int // h
	Capacity     int // c
}

// BottomTreeSize returns C = 2^(L/2) = 2^TopDepth(), the number of epoch
// leaves per bottom tree.
func (p Params) BottomTreeSize() uint64 {
	return uint64(1) << p.TopDepth()
}

// TopDepth returns L/2, the depth of both the bottom tree and the top tree.
func (p Params) TopDepth() uint {
	return uint(p.LogLifetime) / 2
}

// Epochs returns 2^L, the total number of epochs in the key's lifetime.
func (p Params) Epochs() uint64 {
	return uint64(1) << p.LogLifetime
}

// ParamTag is a short selector-derived byte folded into the on-disk cache
// key (spec §9 Open Question resolution: the cache key as specified omits
// base, dimension, and the lifetime-dependent rand_len_fe/hash_len_fe,
// which could otherwise collide across parameter sets sharing the same
// prf_key and parameter).
func (p Params) ParamTag() uint8 {
	return p.LogLifetime
}

// For returns the parameter set for a lifetime selector. All fields other
// than log_lifetime, rand_len_fe, and hash_len_fe are identical across
// lifetimes (spec §6).
func For(s Selector) Params {
	base := Params{
		Dimension:    64,
		Base:         8,
		FinalLayer:   77,
		TargetSum:    375,
		ParameterLen: 5,
		TweakLenFE:   2,
		MsgLenFE:     9,
		Capacity:     9,
	}
	switch s {
	case L8:
		base.LogLifetime = 8
		base.RandLenFE, base.HashLenFE = 7, 8
	case L18:
		base.LogLifetime = 18
		base.RandLenFE, base.HashLenFE = 6, 7
	case L32:
		base.LogLifetime = 32
		base.RandLenFE, base.HashLenFE = 7, 8
	default:
		panic("lifetime: unknown selector")
	}
	return base
}
