// Package cache implements the on-disk bottom-tree cache of spec §4.5/§6:
// completed bottom trees are serialized atomically under a content-derived
// file name, guarded by a per-cache mutex, and silently become a no-op when
// disabled (env flag or mkdir failure). Cache errors never propagate to the
// signing path — a miss or any validation failure just causes recomputation.
//
// Grounded on bwesterb-go-xmssmt's container.go (file-backed subtree cache,
// magic-prefixed binary format, lock-guarded access), adapted from its
// cross-process nightlyone/lockfile discipline to the single in-process
// sync.Mutex spec §5 calls for ("the RNG used for padding and key-gen
// sampling is not thread-safe and must only be touched by the owning
// thread" implies a single owning goroutine per cache, not cross-process
// coordination).
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/tree"
)

const (
	magic       uint32 = 0x42544331 // "BTC1"
	version     uint8  = 2          // bumped from 1: adds a parameter-set tag byte
	defaultDir         = "tmp/bottom_tree_cache"
	envDisable         = "HASH_ZIG_DISABLE_BT_CACHE"
	envCacheDir        = "HASH_ZIG_BT_CACHE_DIR"
)

// ErrCacheMismatch means the cache file's key fields (log_lifetime, k,
// prf_key, parameter, or parameter-set tag) don't match the caller's. It is
// local to Cache.Load and is never returned to a caller; Load reports it as
// a plain miss.
var ErrCacheMismatch = fmt.Errorf("cache: key mismatch")

// ErrInvalidCacheFile means the file is corrupt or truncated. Like
// ErrCacheMismatch, this is swallowed by Load.
var ErrInvalidCacheFile = fmt.Errorf("cache: invalid file")

// Cache is the bottom-tree on-disk cache. A Cache is not itself safe for
// concurrent use across independent instances of the same directory; use
// one Cache per process.
type Cache struct {
	mu       sync.Mutex
	dir      string
	disabled bool
}

// New builds a Cache from the environment (spec §6): HASH_ZIG_DISABLE_BT_CACHE
// disables it outright; HASH_ZIG_BT_CACHE_DIR overrides the directory
// (default "tmp/bottom_tree_cache"). A directory that can't be created also
// disables the cache, silently.
func New() *Cache {
	if _, ok := os.LookupEnv(envDisable); ok {
		return &Cache{disabled: true}
	}
	dir := os.Getenv(envCacheDir)
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &Cache{disabled: true}
	}
	return &Cache{dir: dir}
}

// Disabled reports whether the cache is a no-op.
func (c *Cache) Disabled() bool {
	return c.disabled
}

func fileName(logLifetime uint8, k uint64, prfKey []byte, parameter []field.Element) string {
	h := sha256.New()
	h.Write([]byte{logLifetime})
	var kb [8]byte
	binary.LittleEndian.PutUint64(kb[:], k)
	h.Write(kb[:])
	h.Write(prfKey)
	for _, e := range parameter {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], field.ToCanonical(e))
		h.Write(b[:])
	}
	return fmt.Sprintf("%x.btc", h.Sum(nil))
}

// Store atomically writes bt to the cache, identified by
// (logLifetime, paramTag, k, prfKey, parameter). paramTag disambiguates
// parameter sets that would otherwise collide on (logLifetime, k, prfKey,
// parameter) alone (spec §9 Open Question resolution: the cache key as
// originally specified omits base/dimension/rand_len_fe/hash_len_fe).
func (c *Cache) Store(bt *tree.Bottom, logLifetime, paramTag uint8, prfKey []byte, parameter []field.Element, hashLenFE int) error {
	if c.disabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var buf bytes.Buffer
	writeU32(&buf, magic)
	buf.WriteByte(version)
	buf.WriteByte(logLifetime)
	buf.WriteByte(paramTag)
	buf.WriteByte(0) // reserved

	writeU32(&buf, uint32(bt.Index))
	buf.Write(prfKey)
	for _, e := range parameter {
		writeU32(&buf, field.ToCanonical(e))
	}

	root := bt.Root()
	for i := 0; i < hashLenFE; i++ {
		writeU32(&buf, field.ToCanonical(root[i]))
	}

	writeU32(&buf, uint32(len(bt.Layers)))
	for _, layer := range bt.Layers {
		writeU64(&buf, layer.StartIndex)
		writeU32(&buf, uint32(len(layer.Nodes)))
		for _, node := range layer.Nodes {
			writePaddedNode(&buf, node)
		}
	}

	name := fileName(logLifetime, bt.Index, prfKey, parameter)
	finalPath := filepath.Join(c.dir, name)
	tmpPath := finalPath + fmt.Sprintf(".tmp-%d", os.Getpid())
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return nil // store errors are swallowed; nothing is logged
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
	}
	return nil
}

// Load reads bottom-tree index k from the cache. A miss, corruption, or key
// mismatch all return nil: cache failures never propagate.
func (c *Cache) Load(logLifetime, paramTag uint8, k uint64, prfKey []byte, parameter []field.Element, hashLenFE int) *tree.Bottom {
	if c.disabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	name := fileName(logLifetime, k, prfKey, parameter)
	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		return nil
	}

	bt, err := decode(data, logLifetime, paramTag, k, prfKey, parameter, hashLenFE)
	if err != nil {
		return nil
	}
	return bt
}

func decode(data []byte, wantLogLifetime, wantParamTag uint8, wantK uint64, wantPRFKey []byte, wantParameter []field.Element, hashLenFE int) (*tree.Bottom, error) {
	r := bytes.NewReader(data)
	m, err := readU32(r)
	if err != nil || m != magic {
		return nil, ErrInvalidCacheFile
	}
	v, err := r.ReadByte()
	if err != nil || v != version {
		return nil, ErrInvalidCacheFile
	}
	gotLifetime, err := r.ReadByte()
	if err != nil {
		return nil, ErrInvalidCacheFile
	}
	gotTag, err := r.ReadByte()
	if err != nil {
		return nil, ErrInvalidCacheFile
	}
	if _, err := r.ReadByte(); err != nil { // reserved
		return nil, ErrInvalidCacheFile
	}
	if gotLifetime != wantLogLifetime || gotTag != wantParamTag {
		return nil, ErrCacheMismatch
	}

	k, err := readU32(r)
	if err != nil {
		return nil, ErrInvalidCacheFile
	}
	if uint64(k) != wantK {
		return nil, ErrCacheMismatch
	}

	gotKey := make([]byte, len(wantPRFKey))
	if _, err := readFull(r, gotKey); err != nil {
		return nil, ErrInvalidCacheFile
	}
	if !bytes.Equal(gotKey, wantPRFKey) {
		return nil, ErrCacheMismatch
	}

	gotParam := make([]field.Element, len(wantParameter))
	for i := range gotParam {
		v, err := readU32(r)
		if err != nil {
			return nil, ErrInvalidCacheFile
		}
		gotParam[i] = field.FromCanonical(v)
	}
	for i, e := range wantParameter {
		if !field.Equal(e, gotParam[i]) {
			return nil, ErrCacheMismatch
		}
	}

	root := make([]field.Element, hashLenFE)
	for i := range root {
		v, err := readU32(r)
		if err != nil {
			return nil, ErrInvalidCacheFile
		}
		root[i] = field.FromCanonical(v)
	}

	numLayers, err := readU32(r)
	if err != nil {
		return nil, ErrInvalidCacheFile
	}
	layers := make([]*tree.PaddedLayer, numLayers)
	for i := range layers {
		start, err := readU64(r)
		if err != nil {
			return nil, ErrInvalidCacheFile
		}
		n, err := readU32(r)
		if err != nil {
			return nil, ErrInvalidCacheFile
		}
		nodes := make([]tree.Node, n)
		for j := range nodes {
			nodes[j], err = readPaddedNode(r, hashLenFE)
			if err != nil {
				return nil, ErrInvalidCacheFile
			}
		}
		layers[i] = &tree.PaddedLayer{StartIndex: start, Nodes: nodes}
	}
	if len(layers) == 0 {
		return nil, ErrInvalidCacheFile
	}
	last := layers[len(layers)-1]
	if uint64(k) < last.StartIndex || uint64(k)-last.StartIndex >= uint64(len(last.Nodes)) {
		return nil, ErrInvalidCacheFile
	}
	if !nodesEqual(tree.Root(layers, uint64(k)), root) {
		return nil, ErrCacheMismatch
	}

	return tree.NewBottom(uint64(k), layers), nil
}

func nodesEqual(a, b tree.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !field.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// nodeWireWidth is the fixed per-node width in the cache file format (spec
// §4.5: "n × (8 × u32(fe))"), independent of the active hash_len_fe. In
// memory a tree.Node holds hash_len_fe elements; the zero padding up to 8
// exists only in the file.
const nodeWireWidth = 8

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writePaddedNode(buf *bytes.Buffer, node tree.Node) {
	for i := 0; i < nodeWireWidth; i++ {
		if i < len(node) {
			writeU32(buf, field.ToCanonical(node[i]))
		} else {
			writeU32(buf, 0)
		}
	}
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readU64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	n := 0
	for n < len(b) {
		m, err := r.Read(b[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func readPaddedNode(r *bytes.Reader, hashLenFE int) (tree.Node, error) {
	node := make(tree.Node, hashLenFE)
	for i := 0; i < nodeWireWidth; i++ {
		v, err := readU32(r)
		if err != nil {
			return nil, err
		}
		if i < hashLenFE {
			node[i] = field.FromCanonical(v)
		}
	}
	return node, nil
}
