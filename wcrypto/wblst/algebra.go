package wblst

import (
	"io"

	"github.com/gordian-engine/whisk/wcrypto"
)

// Algebra is the BLS12-381 G1 implementation of [wcrypto.Algebra].
// The zero value is ready to use; Algebra carries no state.
type Algebra struct{}

var _ wcrypto.Algebra = Algebra{}

// GenerateTracker returns the tracker (r·G, k·r·G).
func (Algebra) GenerateTracker(k, r wcrypto.SecretScalar) (wcrypto.Tracker, error) {
	kv, err := reduceSecret(k)
	if err != nil {
		return wcrypto.Tracker{}, err
	}
	rv, err := reduceSecret(r)
	if err != nil {
		return wcrypto.Tracker{}, err
	}

	// k·r·G is a single base multiplication by the product k·r.
	return wcrypto.Tracker{
		RG:  encodePoint(mulBase(rv)),
		KRG: encodePoint(mulBase(mulMod(kv, rv))),
	}, nil
}

// Commit returns the commitment k·G.
func (Algebra) Commit(k wcrypto.SecretScalar) (wcrypto.Commitment, error) {
	kv, err := reduceSecret(k)
	if err != nil {
		return wcrypto.Commitment{}, err
	}
	return wcrypto.Commitment(encodePoint(mulBase(kv))), nil
}

// RerandomizeTracker multiplies both tracker components by the blinding r.
func (Algebra) RerandomizeTracker(t wcrypto.Tracker, r wcrypto.SecretScalar) (wcrypto.Tracker, error) {
	rv, err := reduceSecret(r)
	if err != nil {
		return wcrypto.Tracker{}, err
	}
	rg, err := decodePoint(t.RG)
	if err != nil {
		return wcrypto.Tracker{}, err
	}
	krg, err := decodePoint(t.KRG)
	if err != nil {
		return wcrypto.Tracker{}, err
	}
	return wcrypto.Tracker{
		RG:  encodePoint(mulPoint(rg, rv)),
		KRG: encodePoint(mulPoint(krg, rv)),
	}, nil
}

// IsMatchingTracker reports whether t encodes the secret k,
// by checking k·(r·G) == k·r·G.
func (Algebra) IsMatchingTracker(t wcrypto.Tracker, k wcrypto.SecretScalar) bool {
	kv, err := reduceSecret(k)
	if err != nil {
		return false
	}
	rg, err := decodePoint(t.RG)
	if err != nil {
		return false
	}
	krg, err := decodePoint(t.KRG)
	if err != nil {
		return false
	}
	return pointsEqual(mulPoint(rg, kv), krg)
}

// ProveOpening produces a Chaum-Pedersen DLEQ proof
// that t's components and the commitment k·G share the exponent k.
func (a Algebra) ProveOpening(t wcrypto.Tracker, k wcrypto.SecretScalar, rand io.Reader) (wcrypto.OpeningProof, error) {
	return proveOpening(t, k, rand)
}

// VerifyOpening reports whether proof demonstrates that
// t and c share the same secret scalar.
func (Algebra) VerifyOpening(t wcrypto.Tracker, c wcrypto.Commitment, proof wcrypto.OpeningProof) bool {
	return verifyOpening(t, c, proof)
}

// ProveShuffle permutes and re-randomizes in,
// attaching one-of-N DLEQ blocks covering both
// each output's source and each input's image.
func (Algebra) ProveShuffle(in []wcrypto.Tracker, rand io.Reader) ([]wcrypto.Tracker, wcrypto.ShuffleProof, error) {
	return proveShuffle(in, rand)
}

// VerifyShuffle reports whether proof demonstrates that
// out is a permutation of a component-wise re-randomization of in.
func (Algebra) VerifyShuffle(in, out []wcrypto.Tracker, proof wcrypto.ShuffleProof) bool {
	return verifyShuffle(in, out, proof)
}
