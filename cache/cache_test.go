package cache

import (
	"os"
	"testing"

	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/internal/chacha12rng"
	"github.com/openhashsig/koala-xmss/tree"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(envCacheDir, dir)
	os.Unsetenv(envDisable)
	c := New()
	if c.Disabled() {
		t.Fatal("test cache should not be disabled")
	}
	return c
}

func testBottomTree(t *testing.T) (*tree.Bottom, []byte, []field.Element) {
	t.Helper()
	var seed [32]byte
	rng := chacha12rng.New(seed)
	prfKey := make([]byte, 32)
	parameter := []field.Element{field.FromCanonical(1), field.FromCanonical(2), field.FromCanonical(3), field.FromCanonical(4), field.FromCanonical(5)}
	p := tree.Params{ParameterLen: 5, TweakLenFE: 2, HashLenFE: 8, Capacity: 9, Dimension: 4, Base: 4}

	bt, err := tree.BuildBottom(rng, prfKey, parameter, 3, 8, p)
	if err != nil {
		t.Fatalf("BuildBottom failed: %v", err)
	}
	return bt, prfKey, parameter
}

func TestStoreLoadRoundTrip(t *testing.T) {
	c := newTestCache(t)
	bt, prfKey, parameter := testBottomTree(t)

	if err := c.Store(bt, 18, 18, prfKey, parameter, 8); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	loaded := c.Load(18, 18, bt.Index, prfKey, parameter, 8)
	if loaded == nil {
		t.Fatal("Load returned nil after Store")
	}
	if !nodesEqual(loaded.Root(), bt.Root()) {
		t.Fatal("loaded root does not match stored root")
	}
}

func TestLoadMissReturnsNil(t *testing.T) {
	c := newTestCache(t)
	_, prfKey, parameter := testBottomTree(t)

	loaded := c.Load(18, 18, 99, prfKey, parameter, 8)
	if loaded != nil {
		t.Fatal("Load should return nil for a key never stored")
	}
}

func TestLoadParamTagMismatchIsMiss(t *testing.T) {
	c := newTestCache(t)
	bt, prfKey, parameter := testBottomTree(t)

	if err := c.Store(bt, 18, 18, prfKey, parameter, 8); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	loaded := c.Load(18, 32, bt.Index, prfKey, parameter, 8)
	if loaded != nil {
		t.Fatal("a different paramTag must be treated as a cache miss, not a match")
	}
}

func TestLoadPRFKeyMismatchIsMiss(t *testing.T) {
	c := newTestCache(t)
	bt, prfKey, parameter := testBottomTree(t)

	if err := c.Store(bt, 18, 18, prfKey, parameter, 8); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	otherKey := make([]byte, 32)
	otherKey[0] = 1
	loaded := c.Load(18, 18, bt.Index, otherKey, parameter, 8)
	if loaded != nil {
		t.Fatal("a mismatched PRF key must be treated as a cache miss")
	}
}

func TestLoadCorruptFileIsMiss(t *testing.T) {
	c := newTestCache(t)
	bt, prfKey, parameter := testBottomTree(t)
	if err := c.Store(bt, 18, 18, prfKey, parameter, 8); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	name := fileName(18, bt.Index, prfKey, parameter)
	path := c.dir + "/" + name
	if err := os.WriteFile(path, []byte{0, 1, 2, 3}, 0o644); err != nil {
		t.Fatalf("failed to corrupt cache file: %v", err)
	}

	loaded := c.Load(18, 18, bt.Index, prfKey, parameter, 8)
	if loaded != nil {
		t.Fatal("a truncated/corrupt file must be treated as a cache miss")
	}
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	t.Setenv(envDisable, "1")
	c := New()
	if !c.Disabled() {
		t.Fatal("cache should be disabled when the env flag is set")
	}
	bt, prfKey, parameter := testBottomTree(t)
	if err := c.Store(bt, 18, 18, prfKey, parameter, 8); err != nil {
		t.Fatalf("Store on a disabled cache must not error: %v", err)
	}
	if loaded := c.Load(18, 18, bt.Index, prfKey, parameter, 8); loaded != nil {
		t.Fatal("Load on a disabled cache must always return nil")
	}
}
