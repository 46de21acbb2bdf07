package wblst

import (
	"crypto/sha256"
	"errors"
	"io"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/holiman/uint256"
)

// The domain separation tag for opening-proof transcripts,
// following the naming conventions of RFC9380 section 8.10:
// application prefix, curve, expander hash, and protocol role.
var openingProofDST = []byte("WHISK_OPENING_BLS12381G1_SHA256_DLEQ_")

// openingProofSize is the wire size of an opening proof:
// the two commitment points A1, A2 and the response scalar z.
const openingProofSize = 2*wcrypto.PointSize + wcrypto.ScalarSize

// proveOpening produces the transcript (A1, A2, z) for the relation
// log_G(k·G) == log_{r·G}(k·r·G),
// the standard Chaum-Pedersen equality of discrete logs.
func proveOpening(t wcrypto.Tracker, k wcrypto.SecretScalar, rand io.Reader) (wcrypto.OpeningProof, error) {
	kv, err := reduceSecret(k)
	if err != nil {
		return nil, err
	}
	rg, err := decodePoint(t.RG)
	if err != nil {
		return nil, err
	}
	krg, err := decodePoint(t.KRG)
	if err != nil {
		return nil, err
	}
	if !pointsEqual(mulPoint(rg, kv), krg) {
		return nil, errors.New("tracker does not encode the supplied secret")
	}

	commitment := mulBase(kv)

	w, err := randScalar(rand)
	if err != nil {
		return nil, err
	}
	a1 := mulBase(w)
	a2 := mulPoint(rg, w)

	c := openingChallenge(encodePoint(commitment), t, encodePoint(a1), encodePoint(a2))
	z := addMod(w, mulMod(c, kv))

	proof := make(wcrypto.OpeningProof, 0, openingProofSize)
	proof = append(proof, a1.Compress()...)
	proof = append(proof, a2.Compress()...)
	zb := scalarBytes(z)
	proof = append(proof, zb[:]...)
	return proof, nil
}

// verifyOpening checks z·G == A1 + c·(k·G) and z·(r·G) == A2 + c·(k·r·G)
// for the transcript-derived challenge c.
func verifyOpening(t wcrypto.Tracker, c wcrypto.Commitment, proof wcrypto.OpeningProof) bool {
	if len(proof) != openingProofSize {
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
	commitment, err := decodePoint(wcrypto.Point(c))
	if err != nil {
		return false
	}

	var a1p, a2p wcrypto.Point
	copy(a1p[:], proof[:wcrypto.PointSize])
	copy(a2p[:], proof[wcrypto.PointSize:2*wcrypto.PointSize])
	a1, err := decodePoint(a1p)
	if err != nil {
		return false
	}
	a2, err := decodePoint(a2p)
	if err != nil {
		return false
	}
	z, ok := scalarFromBytes(proof[2*wcrypto.PointSize:])
	if !ok {
		return false
	}

	ch := openingChallenge(wcrypto.Point(c), t, a1p, a2p)

	if !pointsEqual(mulBase(z), addPoints(a1, mulPoint(commitment, ch))) {
		return false
	}
	return pointsEqual(mulPoint(rg, z), addPoints(a2, mulPoint(krg, ch)))
}

// openingChallenge derives the Fiat-Shamir challenge from the full statement
// and the prover's commitments.
func openingChallenge(c wcrypto.Point, t wcrypto.Tracker, a1, a2 wcrypto.Point) *uint256.Int {
	h := sha256.New()
	h.Write(openingProofDST)
	h.Write(c[:])
	h.Write(t.RG[:])
	h.Write(t.KRG[:])
	h.Write(a1[:])
	h.Write(a2[:])

	var digest [sha256.Size]byte
	h.Sum(digest[:0])
	return hashToScalar(digest)
}
