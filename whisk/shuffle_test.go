package whisk_test

import (
	"crypto/rand"
	"testing"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gordian-engine/whisk/whisk"
	"github.com/gordian-engine/whisk/whisk/whisktest"
	"github.com/stretchr/testify/require"
)

func TestShuffleVerifier_ApplyShuffle(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	f := whisktest.NewFixture(alg, smallParams, 5, rand.Reader)

	out, proof, err := alg.ProveShuffle(f.State.CandidateTrackers, rand.Reader)
	require.NoError(t, err)

	require.NoError(t, f.ShuffleVerifier.ApplyShuffle(f.State, out, proof))
	require.Equal(t, out, f.State.CandidateTrackers)
}

func TestShuffleVerifier_rejectsSizeMismatch(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	f := whisktest.NewFixture(alg, smallParams, 5, rand.Reader)

	out, proof, err := alg.ProveShuffle(f.State.CandidateTrackers, rand.Reader)
	require.NoError(t, err)

	err = f.ShuffleVerifier.Verify(f.State.CandidateTrackers, out[:len(out)-1], proof)
	require.ErrorIs(t, err, whisk.ErrMalformedShuffleProof)
}

func TestShuffleVerifier_rejectionLeavesPoolUntouched(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	f := whisktest.NewFixture(alg, smallParams, 5, rand.Reader)

	before := append([]wcrypto.Tracker(nil), f.State.CandidateTrackers...)

	out, proof, err := alg.ProveShuffle(f.State.CandidateTrackers, rand.Reader)
	require.NoError(t, err)

	// Mutating one output invalidates the proof;
	// the gate must reject and the pool must not change.
	out[0] = f.State.Validators[0].Tracker
	err = f.ShuffleVerifier.ApplyShuffle(f.State, out, proof)
	require.ErrorIs(t, err, whisk.ErrMalformedShuffleProof)
	require.Equal(t, before, f.State.CandidateTrackers)
}

func TestShuffleVerifier_shuffledPoolStillEncodesValidators(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	f := whisktest.NewFixture(alg, smallParams, 3, rand.Reader)

	out, proof, err := alg.ProveShuffle(f.State.CandidateTrackers, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, f.ShuffleVerifier.ApplyShuffle(f.State, out, proof))

	// After re-randomization the pool entries are new values,
	// but each one still links to some validator's secret.
	for i, tr := range f.State.CandidateTrackers {
		matched := false
		for _, k := range f.Secrets {
			if alg.IsMatchingTracker(tr, k) {
				matched = true
				break
			}
		}
		require.Truef(t, matched, "shuffled entry %d lost its validator linkage", i)
	}
}
