package sig

import (
	"encoding/json"
	"testing"

	"github.com/openhashsig/koala-xmss/internal/chacha12rng"
)

func TestPublicKeyJSONRoundTrip(t *testing.T) {
	s := newTestScheme(t)
	var seed [32]byte
	rng := chacha12rng.New(seed)
	pk, _, err := s.KeyGen(rng, 0, 16)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}

	data, err := json.Marshal(pk)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got PublicKey
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(got.Root) != len(pk.Root) || len(got.Parameter) != len(pk.Parameter) {
		t.Fatal("round-tripped public key has mismatched field widths")
	}
}

func TestSignatureJSONRoundTrip(t *testing.T) {
	s := newTestScheme(t)
	var seed [32]byte
	rng := chacha12rng.New(seed)
	_, sk, err := s.KeyGen(rng, 0, 16)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}
	var message [32]byte
	message[0] = 1
	sigVal, err := s.Sign(sk, 0, message)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	data, err := json.Marshal(sigVal)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var got Signature
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(got.Hashes) != len(sigVal.Hashes) || len(got.Path) != len(sigVal.Path) {
		t.Fatal("round-tripped signature has mismatched shape")
	}
}

func TestSecretKeyJSONRoundTrip(t *testing.T) {
	s := newTestScheme(t)
	var seed [32]byte
	rng := chacha12rng.New(seed)
	_, sk, err := s.KeyGen(rng, 0, 16)
	if err != nil {
		t.Fatalf("KeyGen failed: %v", err)
	}

	data, err := json.Marshal(sk)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var got SecretKey
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.LeftBottomIndex != sk.LeftBottomIndex || got.PRFKey != sk.PRFKey {
		t.Fatal("round-tripped secret key lost its identity fields")
	}
}
