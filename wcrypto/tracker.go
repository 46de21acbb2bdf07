package wcrypto

import (
	"encoding/hex"
	"fmt"
)

// PointSize is the size in bytes of a compressed group element.
// It matches the compressed size of a BLS12-381 G1 point,
// which is the group the production algebra operates on.
const PointSize = 48

// Point is a compressed group element.
type Point [PointSize]byte

// ScalarSize is the size in bytes of a big-endian encoded secret scalar.
const ScalarSize = 32

// SecretScalar is a big-endian encoded secret exponent.
// Implementations of [Algebra] reduce it into their scalar field.
type SecretScalar [ScalarSize]byte

// Tracker is an anonymized reference to a validator's secret scalar k:
// the pair of group elements (r·G, k·r·G) for some blinding scalar r.
//
// Two trackers are linked if they encode the same k under different r.
// The linkage is hidden from anyone who does not hold k
// or a valid opening or shuffle proof involving both.
type Tracker struct {
	// RG is the blinded generator r·G.
	RG Point

	// KRG is the blinded commitment k·r·G.
	KRG Point
}

// Commitment is the public commitment k·G to a validator's secret scalar.
type Commitment Point

// OpeningProof is an opaque proof artifact
// asserting knowledge of the scalar underlying a tracker.
// Its wire format is defined by the [Algebra] that produced it.
type OpeningProof []byte

// ShuffleProof is an opaque proof artifact
// asserting that one tracker sequence is a permutation
// of a component-wise re-randomization of another.
// Its wire format is defined by the [Algebra] that produced it.
type ShuffleProof []byte

// MarshalText returns the lowercase hex encoding of p.
func (p Point) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(PointSize))
	hex.Encode(out, p[:])
	return out, nil
}

// UnmarshalText decodes a hex encoded point into p.
func (p *Point) UnmarshalText(text []byte) error {
	if len(text) != hex.EncodedLen(PointSize) {
		return fmt.Errorf("expected %d hex characters, got %d", hex.EncodedLen(PointSize), len(text))
	}
	_, err := hex.Decode(p[:], text)
	return err
}

// MarshalText returns the lowercase hex encoding of c.
func (c Commitment) MarshalText() ([]byte, error) {
	return Point(c).MarshalText()
}

// UnmarshalText decodes a hex encoded commitment into c.
func (c *Commitment) UnmarshalText(text []byte) error {
	return (*Point)(c).UnmarshalText(text)
}

// Equal reports whether t and u are byte-identical trackers.
// This is plain value equality;
// it says nothing about whether two distinct trackers are linked.
func (t Tracker) Equal(u Tracker) bool {
	return t == u
}
