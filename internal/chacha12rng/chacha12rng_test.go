package chacha12rng

import (
	"bytes"
	"testing"

	"github.com/openhashsig/koala-xmss/field"
)

func TestReadBytesDeterministic(t *testing.T) {
	var seed [32]byte
	seed[0] = 7
	a := New(seed).ReadBytes(64)
	b := New(seed).ReadBytes(64)
	if !bytes.Equal(a, b) {
		t.Fatal("identical seeds must produce identical keystreams")
	}

	var other [32]byte
	other[0] = 8
	c := New(other).ReadBytes(64)
	if bytes.Equal(a, c) {
		t.Fatal("different seeds must produce different keystreams")
	}
}

func TestReadBytesAdvancesStream(t *testing.T) {
	var seed [32]byte
	rng := New(seed)
	first := rng.ReadBytes(32)
	second := rng.ReadBytes(32)
	if bytes.Equal(first, second) {
		t.Fatal("successive reads must not repeat")
	}

	rngFresh := New(seed)
	wholeRead := rngFresh.ReadBytes(64)
	if !bytes.Equal(wholeRead[:32], first) || !bytes.Equal(wholeRead[32:], second) {
		t.Fatal("reads must be a contiguous keystream, not independently seeded")
	}
}

func TestReadKeyLength(t *testing.T) {
	var seed [32]byte
	key := New(seed).ReadKey()
	if len(key) != 32 {
		t.Fatalf("want 32-byte key, got %d", len(key))
	}
}

func TestReadFieldElementsDeterministic(t *testing.T) {
	var seed [32]byte
	a := New(seed).ReadFieldElements(5)
	b := New(seed).ReadFieldElements(5)
	if len(a) != 5 {
		t.Fatalf("want 5 elements, got %d", len(a))
	}
	for i := range a {
		if !field.Equal(a[i], b[i]) {
			t.Fatalf("ReadFieldElements must be deterministic at index %d", i)
		}
	}
}

func TestReadFieldElementsAndReadBytesShareStream(t *testing.T) {
	var seed [32]byte
	rng := New(seed)
	rng.ReadFieldElements(2)
	rest := rng.ReadBytes(4)

	fresh := New(seed)
	fresh.ReadBytes(8)
	restFresh := fresh.ReadBytes(4)
	if !bytes.Equal(rest, restFresh) {
		t.Fatal("ReadFieldElements must consume exactly 4 bytes per element from the shared stream")
	}
}
