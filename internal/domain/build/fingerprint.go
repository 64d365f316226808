package build

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies one exported file. Two exports with the same
// OutputHash produced byte-identical output from the same pipeline.
type Fingerprint struct {
	ContentHash  string
	RendererHash string
	ConfigHash   string
	OutputHash   string
}

func (f *Fingerprint) ComputeOutputHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte{0})
	h.Write([]byte(f.RendererHash))
	h.Write([]byte{0})
	h.Write([]byte(f.ConfigHash))
	f.OutputHash = hex.EncodeToString(h.Sum(nil))
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
