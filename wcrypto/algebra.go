package wcrypto

import (
	"errors"
	"io"
)

var (
	// ErrInvalidScalar indicates a secret scalar that reduces to zero
	// in the algebra's scalar field.
	ErrInvalidScalar = errors.New("scalar reduces to zero")

	// ErrInvalidPoint indicates a point that does not decode
	// to a valid group element.
	ErrInvalidPoint = errors.New("invalid group element")

	// ErrEmptyShuffle indicates a shuffle over zero trackers.
	ErrEmptyShuffle = errors.New("cannot shuffle empty tracker sequence")
)

// Algebra is the opaque group and proof-system capability
// that the election protocol is written against.
//
// All methods are pure: they never retain or mutate their arguments.
// Verification methods report false for any malformed input
// rather than returning an error,
// matching the hard-gate semantics of block validation:
// the caller rejects and never retries.
type Algebra interface {
	// GenerateTracker returns the tracker (r·G, k·r·G).
	GenerateTracker(k, r SecretScalar) (Tracker, error)

	// Commit returns the public commitment k·G.
	Commit(k SecretScalar) (Commitment, error)

	// RerandomizeTracker returns (r'·(r·G), r'·(k·r·G)) for blinding r',
	// a tracker linked to t but unlinkable without knowledge of r' or k.
	RerandomizeTracker(t Tracker, r SecretScalar) (Tracker, error)

	// IsMatchingTracker reports whether t encodes the secret k.
	// Only the holder of k can perform this test.
	IsMatchingTracker(t Tracker, k SecretScalar) bool

	// ProveOpening produces a proof of knowledge of the k underlying t,
	// binding it to the commitment k·G.
	ProveOpening(t Tracker, k SecretScalar, rand io.Reader) (OpeningProof, error)

	// VerifyOpening reports whether proof demonstrates that
	// t and c share the same secret scalar.
	VerifyOpening(t Tracker, c Commitment, proof OpeningProof) bool

	// ProveShuffle permutes and re-randomizes in,
	// returning the output sequence and a proof that
	// out is a permutation of a component-wise re-randomization of in.
	ProveShuffle(in []Tracker, rand io.Reader) (out []Tracker, proof ShuffleProof, err error)

	// VerifyShuffle reports whether proof demonstrates that
	// out is a permutation of a component-wise re-randomization of in.
	VerifyShuffle(in, out []Tracker, proof ShuffleProof) bool
}

// NewSecretScalar reads a fresh secret scalar from rand.
// The returned scalar is raw key material;
// the algebra reduces it into its scalar field on use.
func NewSecretScalar(rand io.Reader) (SecretScalar, error) {
	var s SecretScalar
	if _, err := io.ReadFull(rand, s[:]); err != nil {
		return SecretScalar{}, err
	}
	return s, nil
}
