package wblst_test

import (
	"crypto/rand"
	"testing"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gordian-engine/whisk/wcrypto/wblst"
	"github.com/gordian-engine/whisk/wcrypto/wcryptotest"
	"github.com/stretchr/testify/require"
)

func TestAlgebraCompliance(t *testing.T) {
	wcryptotest.TestAlgebraCompliance(t, wblst.Algebra{})
}

func TestAlgebra_trackerPointsAreValidG1(t *testing.T) {
	t.Parallel()

	var alg wblst.Algebra
	secrets := wcryptotest.DeterministicSecrets(2)

	tr, err := alg.GenerateTracker(secrets[0], secrets[1])
	require.NoError(t, err)

	// Compressed G1 encodings always have the compression flag set.
	require.NotZero(t, tr.RG[0]&0x80)
	require.NotZero(t, tr.KRG[0]&0x80)
	require.NotEqual(t, tr.RG, tr.KRG)
}

func TestAlgebra_rejectsGarbagePoints(t *testing.T) {
	t.Parallel()

	var alg wblst.Algebra
	secrets := wcryptotest.DeterministicSecrets(2)

	var garbage wcrypto.Tracker
	garbage.RG[0] = 0x01 // Compression flag unset: not a valid compressed point.

	_, err := alg.RerandomizeTracker(garbage, secrets[0])
	require.ErrorIs(t, err, wcrypto.ErrInvalidPoint)

	require.False(t, alg.IsMatchingTracker(garbage, secrets[0]))

	c, err := alg.Commit(secrets[0])
	require.NoError(t, err)
	require.False(t, alg.VerifyOpening(garbage, c, make(wcrypto.OpeningProof, 128)))
}

func TestAlgebra_openingProofIsBoundToCommitment(t *testing.T) {
	t.Parallel()

	var alg wblst.Algebra
	secrets := wcryptotest.DeterministicSecrets(3)

	tr, err := alg.GenerateTracker(secrets[0], secrets[1])
	require.NoError(t, err)
	c, err := alg.Commit(secrets[0])
	require.NoError(t, err)

	proof, err := alg.ProveOpening(tr, secrets[0], rand.Reader)
	require.NoError(t, err)
	require.True(t, alg.VerifyOpening(tr, c, proof))

	// A later, stale instance of the same tracker under a different blinding
	// must not validate against the original transcript.
	blinded, err := alg.RerandomizeTracker(tr, secrets[2])
	require.NoError(t, err)
	require.False(t, alg.VerifyOpening(blinded, c, proof))
}

func TestAlgebra_shuffleHandlesDuplicateInputs(t *testing.T) {
	t.Parallel()

	var alg wblst.Algebra
	secrets := wcryptotest.DeterministicSecrets(2)

	tr, err := alg.GenerateTracker(secrets[0], secrets[1])
	require.NoError(t, err)

	// The candidate pool may sample the same validator into several slots,
	// so the shuffle input may contain repeated trackers.
	in := []wcrypto.Tracker{tr, tr, tr}
	out, proof, err := alg.ProveShuffle(in, rand.Reader)
	require.NoError(t, err)
	require.True(t, alg.VerifyShuffle(in, out, proof))

	for _, o := range out {
		require.True(t, alg.IsMatchingTracker(o, secrets[0]))
	}
}
