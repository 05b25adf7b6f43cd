// Package hashutil supplies the two keyed hash functions the flat
// trie variants need: a primary indexing hash (hashflat's slot
// function, the original's "ahash" role) and a per-key fingerprint
// (singleton's collision short-circuit, the original's "wyhash"
// role), following the keyed-hasher-over-little-endian-bytes pattern
// from the teacher's Uint64ArrayBitString.HashWithSeed.
package hashutil

import (
	"encoding/binary"
	"hash"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"

	"brie/tuple"
)

// Index64 computes the keyed primary-index hash for value at the
// given trie level, seeded by the packed parent index so that the
// same value hashes differently under different parents (hashflat's
// slot() depends on (parentIx, value, level)).
func Index64[V tuple.Ordered](parentIx uint64, level int, value V) uint64 {
	h := xxh3.New()
	writeSeed(h, parentIx)
	writeSeed(h, uint64(level))
	writeValue(h, value)
	return h.Sum64()
}

// PairFingerprint64 computes an identity fingerprint for a
// (parentIx, value) pair, independent of level. hashflat's per-level
// Bloom prefilter uses this (not Index64) as its membership key, so
// the prefilter's false-positive rate doesn't inherit Index64's
// collision structure.
func PairFingerprint64[V tuple.Ordered](parentIx uint64, value V) uint64 {
	h := xxhash.New()
	writeSeed(h, parentIx)
	writeValue(h, value)
	return h.Sum64()
}

// Fingerprint64 computes the per-key fingerprint used by singleton's
// linear probe to short-circuit comparisons against unequal keys
// without touching V's own equality.
func Fingerprint64[V tuple.Ordered](value V) uint64 {
	h := xxhash.New()
	writeValue(h, value)
	return h.Sum64()
}

// EncodeBytes returns value's canonical byte encoding, for
// collaborators (HyperLogLog sketches, Bloom filters) that want raw
// bytes rather than a hash.Hash64 to write into.
func EncodeBytes[V tuple.Ordered](value V) []byte {
	buf := make([]byte, 0, 8)
	w := &byteCollector{buf: buf}
	writeValue[V](w, value)
	return w.buf
}

type byteCollector struct{ buf []byte }

func (b *byteCollector) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}
func (b *byteCollector) Sum(p []byte) []byte { return append(p, b.buf...) }
func (b *byteCollector) Reset()              { b.buf = b.buf[:0] }
func (b *byteCollector) Size() int           { return len(b.buf) }
func (b *byteCollector) BlockSize() int      { return 8 }
func (b *byteCollector) Sum64() uint64       { return 0 }

func writeSeed(h hash.Hash64, seed uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	h.Write(buf[:])
}

// writeValue encodes value's bit pattern into h in a fixed, type-
// directed way so equal values always hash identically regardless of
// the static type parameter's underlying kind.
func writeValue[V tuple.Ordered](h hash.Hash64, value V) {
	var buf [8]byte
	switch v := any(value).(type) {
	case int:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	case int8:
		h.Write([]byte{byte(v)})
	case int16:
		binary.LittleEndian.PutUint16(buf[:2], uint16(v))
		h.Write(buf[:2])
	case int32:
		binary.LittleEndian.PutUint32(buf[:4], uint32(v))
		h.Write(buf[:4])
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	case uint:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	case uint8:
		h.Write([]byte{v})
	case uint16:
		binary.LittleEndian.PutUint16(buf[:2], v)
		h.Write(buf[:2])
	case uint32:
		binary.LittleEndian.PutUint32(buf[:4], v)
		h.Write(buf[:4])
	case uint64:
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	case uintptr:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	case float32:
		binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(v))
		h.Write(buf[:4])
	case float64:
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	case string:
		h.Write([]byte(v))
	default:
		// The switch matches dynamic types, so a defined type such as
		// `type ID int` lands here even though it satisfies
		// tuple.Ordered; such types are not supported and panic.
		panic("hashutil: unsupported value kind")
	}
}
