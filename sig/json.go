package sig

import (
	"encoding/base64"
	"encoding/json"

	"github.com/openhashsig/koala-xmss/field"
	"github.com/openhashsig/koala-xmss/tree"
)

// PRFKeyBytes returns the secret key's 32-byte PRF key.
func (sk *SecretKey) PRFKeyBytes() [32]byte { return sk.PRFKey }

// ActivationWindow returns the caller-supplied (activation_epoch,
// num_active_epochs), the getters spec §6 names.
func (sk *SecretKey) ActivationWindow() (uint64, uint64) {
	return sk.ActivationEpoch, sk.NumActiveEpochs
}

// LeftIndex returns left_bottom_index, the getter spec §6 names.
func (sk *SecretKey) LeftIndex() uint64 { return sk.LeftBottomIndex }

// PathNodes returns the signature's path nodes.
func (sig *Signature) PathNodes() []tree.Node { return sig.Path }

// RhoElements returns the signature's un-padded randomness.
func (sig *Signature) RhoElements() []field.Element { return sig.Rho }

// HashNodes returns the signature's per-chain intermediate states.
func (sig *Signature) HashNodes() []tree.Node { return sig.Hashes }

// The MarshalJSON/UnmarshalJSON pair below is a convenience default, not
// the canonical wire format spec §6 calls external: field elements
// serialize as canonical u32, byte blobs as base64, following the
// teacher's xmss/json.go shape.

type nodeJSON []uint32

func toNodeJSON(n tree.Node) nodeJSON {
	out := make(nodeJSON, len(n))
	for i, e := range n {
		out[i] = field.ToCanonical(e)
	}
	return out
}

func fromNodeJSON(n nodeJSON) tree.Node {
	out := make(tree.Node, len(n))
	for i, v := range n {
		out[i] = field.FromCanonical(v)
	}
	return out
}

type layerJSON struct {
	StartIndex uint64     `json:"start_index"`
	Nodes      []nodeJSON `json:"nodes"`
}

func toLayerJSON(l *tree.PaddedLayer) layerJSON {
	nodes := make([]nodeJSON, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = toNodeJSON(n)
	}
	return layerJSON{StartIndex: l.StartIndex, Nodes: nodes}
}

func fromLayerJSON(l layerJSON) *tree.PaddedLayer {
	nodes := make([]tree.Node, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = fromNodeJSON(n)
	}
	return &tree.PaddedLayer{StartIndex: l.StartIndex, Nodes: nodes}
}

type bottomJSON struct {
	Index  uint64      `json:"index"`
	Layers []layerJSON `json:"layers"`
}

func toBottomJSON(b *tree.Bottom) bottomJSON {
	layers := make([]layerJSON, len(b.Layers))
	for i, l := range b.Layers {
		layers[i] = toLayerJSON(l)
	}
	return bottomJSON{Index: b.Index, Layers: layers}
}

func fromBottomJSON(b bottomJSON) *tree.Bottom {
	layers := make([]*tree.PaddedLayer, len(b.Layers))
	for i, l := range b.Layers {
		layers[i] = fromLayerJSON(l)
	}
	return tree.NewBottom(b.Index, layers)
}

type publicKeyJSON struct {
	Root      nodeJSON `json:"root"`
	Parameter nodeJSON `json:"parameter"`
}

// MarshalJSON implements json.Marshaler.
func (pk *PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(publicKeyJSON{Root: toNodeJSON(pk.Root), Parameter: toNodeJSON(pk.Parameter)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var v publicKeyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	pk.Root = fromNodeJSON(v.Root)
	pk.Parameter = fromNodeJSON(v.Parameter)
	return nil
}

type secretKeyJSON struct {
	PRFKey          string     `json:"prf_key"`
	Parameter       nodeJSON   `json:"parameter"`
	ActivationEpoch uint64     `json:"activation_epoch"`
	NumActiveEpochs uint64     `json:"num_active_epochs"`
	ActivationStart uint64     `json:"activation_start"`
	ActivationEnd   uint64     `json:"activation_end"`
	LeftBottomIndex uint64     `json:"left_bottom_index"`
	Top             []layerJSON `json:"top"`
	Left            bottomJSON `json:"left_bottom"`
	Right           bottomJSON `json:"right_bottom"`
}

// MarshalJSON implements json.Marshaler.
func (sk *SecretKey) MarshalJSON() ([]byte, error) {
	top := make([]layerJSON, len(sk.Top.Layers))
	for i, l := range sk.Top.Layers {
		top[i] = toLayerJSON(l)
	}
	v := secretKeyJSON{
		PRFKey:          base64.StdEncoding.EncodeToString(sk.PRFKey[:]),
		Parameter:       toNodeJSON(sk.Parameter),
		ActivationEpoch: sk.ActivationEpoch,
		NumActiveEpochs: sk.NumActiveEpochs,
		ActivationStart: sk.activationStart,
		ActivationEnd:   sk.activationEnd,
		LeftBottomIndex: sk.LeftBottomIndex,
		Top:             top,
		Left:            toBottomJSON(sk.Left),
		Right:           toBottomJSON(sk.Right),
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (sk *SecretKey) UnmarshalJSON(data []byte) error {
	var v secretKeyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	keyBytes, err := base64.StdEncoding.DecodeString(v.PRFKey)
	if err != nil {
		return err
	}
	copy(sk.PRFKey[:], keyBytes)
	sk.Parameter = fromNodeJSON(v.Parameter)
	sk.ActivationEpoch = v.ActivationEpoch
	sk.NumActiveEpochs = v.NumActiveEpochs
	sk.activationStart = v.ActivationStart
	sk.activationEnd = v.ActivationEnd
	sk.LeftBottomIndex = v.LeftBottomIndex
	topLayers := make([]*tree.PaddedLayer, len(v.Top))
	for i, l := range v.Top {
		topLayers[i] = fromLayerJSON(l)
	}
	sk.Top = &tree.Top{Layers: topLayers}
	sk.Left = fromBottomJSON(v.Left)
	sk.Right = fromBottomJSON(v.Right)
	return nil
}

type signatureJSON struct {
	Rho    nodeJSON   `json:"rho"`
	Hashes []nodeJSON `json:"hashes"`
	Path   []nodeJSON `json:"path"`
}

// MarshalJSON implements json.Marshaler.
func (sig *Signature) MarshalJSON() ([]byte, error) {
	hashes := make([]nodeJSON, len(sig.Hashes))
	for i, h := range sig.Hashes {
		hashes[i] = toNodeJSON(h)
	}
	path := make([]nodeJSON, len(sig.Path))
	for i, p := range sig.Path {
		path[i] = toNodeJSON(p)
	}
	return json.Marshal(signatureJSON{Rho: toNodeJSON(sig.RhoPadded()), Hashes: hashes, Path: path})
}

// UnmarshalJSON implements json.Unmarshaler.
func (sig *Signature) UnmarshalJSON(data []byte) error {
	var v signatureJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	sig.Rho = fromNodeJSON(v.Rho)
	sig.Hashes = make([]tree.Node, len(v.Hashes))
	for i, h := range v.Hashes {
		sig.Hashes[i] = fromNodeJSON(h)
	}
	sig.Path = make([]tree.Node, len(v.Path))
	for i, p := range v.Path {
		sig.Path[i] = fromNodeJSON(p)
	}
	return nil
}
