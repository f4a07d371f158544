package sig

import (
	"testing"

	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/internal/chacha12rng"
	"github.com/openhashsig/koala-xmss/lifetime"
	"github.com/openhashsig/koala-xmss/tree"
)

// testParams is a small, fast parameter set exercising the same two-level
// tree/cache machinery as the real lifetime selectors (spec §3), without
// lifetime.For's production dimension/base sizes.
func testParams() lifetime.Params {
	return lifetime.Params{
		LogLifetime:  4, // C = 4, 4 bottom trees total
		Dimension:    8,
		Base:         4,
		FinalLayer:   0,
		TargetSum:    8 * 3 / 2,
		ParameterLen: 5,
		TweakLenFE:   2,
		MsgLenFE:     9,
		RandLenFE:    7,
		HashLenFE:    8,
		Capacity:     9,
	}
}

func newTestScheme(t *testing.T) *Scheme {
	t.Helper()
	t.Setenv("HASH_ZIG_BT_CACHE_DIR", t.TempDir())
	return NewScheme(testParams())
}

func TestKeyGenSignVerifyRoundTrip(t *testing.T) {
	s := newTestScheme(t)
	var seed [32]byte
	seed[0] = 42
	rng := chacha12rng.New(seed)

	pk, sk, err := s.KeyGen(rng, 0, 16)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}

	var message [32]byte
	message[0] = 0xde
	message[1] = 0xad

	sigVal, err := s.Sign(sk, 1, message)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if !s.Verify(pk, 1, message, sigVal) {
		t.Fatal("Verify rejected a genuine signature")
	}
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	s := newTestScheme(t)
	var seed [32]byte
	rng := chacha12rng.New(seed)
	pk, sk, err := s.KeyGen(rng, 0, 16)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}

	var message, other [32]byte
	message[0] = 1
	other[0] = 2

	sigVal, err := s.Sign(sk, 0, message)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if s.Verify(pk, 0, other, sigVal) {
		t.Fatal("Verify accepted a signature under a different message")
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	s := newTestScheme(t)
	var seed [32]byte
	rng := chacha12rng.New(seed)
	pk, sk, err := s.KeyGen(rng, 0, 16)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}

	var message [32]byte
	message[5] = 9
	sigVal, err := s.Sign(sk, 2, message)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	tampered := *sigVal
	tampered.Hashes = append([]tree.Node{}, sigVal.Hashes...)
	tampered.Hashes[0] = append(tree.Node{}, sigVal.Hashes[0]...)
	tampered.Hashes[0][0] = field.FromCanonical(field.ToCanonical(tampered.Hashes[0][0]) + 1)

	if s.Verify(pk, 2, message, &tampered) {
		t.Fatal("Verify accepted a tampered signature")
	}
}

func TestVerifyRejectsWrongEpoch(t *testing.T) {
	s := newTestScheme(t)
	var seed [32]byte
	rng := chacha12rng.New(seed)
	pk, sk, err := s.KeyGen(rng, 0, 16)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}

	var message [32]byte
	sigVal, err := s.Sign(sk, 3, message)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if s.Verify(pk, 4, message, sigVal) {
		t.Fatal("Verify accepted a signature replayed under the wrong epoch")
	}
}

func TestSignRejectsInactiveEpoch(t *testing.T) {
	s := newTestScheme(t)
	var seed [32]byte
	rng := chacha12rng.New(seed)
	_, sk, err := s.KeyGen(rng, 0, 16)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}
	var message [32]byte
	if _, err := s.Sign(sk, 20, message); err != ErrKeyNotActive {
		t.Fatalf("want ErrKeyNotActive, got %v", err)
	}
}

func TestAdvancePreparationSlidesWindow(t *testing.T) {
	s := newTestScheme(t)
	var seed [32]byte
	rng := chacha12rng.New(seed)
	pk, sk, err := s.KeyGen(rng, 0, 16)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}

	startLeft := sk.LeftBottomIndex
	if err := s.AdvancePreparation(sk); err != nil {
		t.Fatalf("AdvancePreparation failed: %v", err)
	}
	if sk.LeftBottomIndex != startLeft+1 {
		t.Fatalf("LeftBottomIndex did not advance: got %d, want %d", sk.LeftBottomIndex, startLeft+1)
	}

	var message [32]byte
	epoch := (sk.LeftBottomIndex + 1) * s.Params.BottomTreeSize()
	sigVal, err := s.Sign(sk, epoch, message)
	if err != nil {
		t.Fatalf("Sign after AdvancePreparation failed: %v", err)
	}
	if !s.Verify(pk, epoch, message, sigVal) {
		t.Fatal("signature produced after AdvancePreparation did not verify")
	}
}

func TestExpandWindowRejectsOutOfRangeRequest(t *testing.T) {
	p := testParams()
	_, _, err := expandWindow(p, p.Epochs()-1, 10)
	if err != ErrInvalidActivationParameters {
		t.Fatalf("want ErrInvalidActivationParameters, got %v", err)
	}
}

func TestExpandWindowClampsRoundingOverflow(t *testing.T) {
	p := testParams()
	c := p.BottomTreeSize()
	start, end, err := expandWindow(p, p.Epochs()-1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end > p.Epochs() {
		t.Fatalf("expanded window end %d exceeds lifetime %d", end, p.Epochs())
	}
	if end-start < 2*c {
		t.Fatalf("expanded window must span at least two bottom trees, got %d", end-start)
	}
}
