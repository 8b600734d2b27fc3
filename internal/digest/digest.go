// Package digest produces a content hash over a run's decision stream.
// Two runs that made identical decisions produce identical digests, which
// is how determinism regressions are caught.
package digest

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"github.com/openfootball/matchsim/pkg/core"
)

// Digest accumulates decision events into a sha256 hash.
type Digest struct {
	h hash.Hash
	n uint64
}

// New creates an empty digest.
func New() *Digest {
	return &Digest{h: sha256.New()}
}

// Add folds one decision event into the digest. Field order and encoding
// are fixed; changing either invalidates all stored digests.
func (d *Digest) Add(e *core.DecisionEvent) {
	d.writeUint64(e.Tick)
	d.writeByte(e.AgentID)
	d.writeByte(uint8(e.Side))
	d.writeString(e.State)
	d.writeString(e.Role)
	d.writeString(e.ActionKind)
	if e.TargetID != nil {
		d.writeByte(1)
		d.writeByte(*e.TargetID)
	} else {
		d.writeByte(0)
	}
	d.writeFloat64(e.PointX)
	d.writeFloat64(e.PointY)
	d.writeString(e.Intent)
	d.writeFloat64(e.WeightedTotal)
	if e.ForcedShot {
		d.writeByte(1)
	} else {
		d.writeByte(0)
	}
	d.n++
}

// Count returns the number of events folded in so far.
func (d *Digest) Count() uint64 {
	return d.n
}

// Sum returns the hex digest of everything added so far.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// Reset returns the digest to its empty state.
func (d *Digest) Reset() {
	d.h.Reset()
	d.n = 0
}

func (d *Digest) writeByte(b uint8) {
	d.h.Write([]byte{b})
}

func (d *Digest) writeUint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	d.h.Write(buf[:])
}

func (d *Digest) writeFloat64(v float64) {
	d.writeUint64(math.Float64bits(v))
}

func (d *Digest) writeString(s string) {
	d.writeUint64(uint64(len(s)))
	d.h.Write([]byte(s))
}
