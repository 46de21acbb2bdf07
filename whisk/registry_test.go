package whisk_test

import (
	"crypto/rand"
	"testing"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gordian-engine/whisk/wcrypto/wcryptotest"
	"github.com/gordian-engine/whisk/whisk"
	"github.com/stretchr/testify/require"
)

func TestInitialCommitments_deterministic(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	seeds := wcryptotest.DeterministicSeeds(2)

	c1, t1, err := whisk.InitialCommitments(alg, seeds[0])
	require.NoError(t, err)
	c2, t2, err := whisk.InitialCommitments(alg, seeds[0])
	require.NoError(t, err)

	require.Equal(t, c1, c2)
	require.Equal(t, t1, t2)

	// A different seed must produce a different tracker and commitment.
	c3, t3, err := whisk.InitialCommitments(alg, seeds[1])
	require.NoError(t, err)
	require.NotEqual(t, c1, c3)
	require.NotEqual(t, t1, t3)
}

func TestInitialCommitments_trackerEncodesDerivedSecret(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	seed := wcryptotest.DeterministicSeeds(1)[0]

	_, tr, err := whisk.InitialCommitments(alg, seed)
	require.NoError(t, err)

	k, _, err := whisk.DeriveInitialSecrets(seed)
	require.NoError(t, err)
	require.True(t, alg.IsMatchingTracker(tr, k))
}

func TestCommitmentRegistry_Initialize(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	st, err := whisk.NewState(whisk.Params{CandidateTrackersCount: 4, ProposerTrackersCount: 2}, 3)
	require.NoError(t, err)

	reg := whisk.NewCommitmentRegistry(alg)
	seeds := wcryptotest.DeterministicSeeds(3)

	c, tr, err := reg.Initialize(st, 1, seeds[1])
	require.NoError(t, err)
	require.Equal(t, c, st.Validators[1].KCommitment)
	require.Equal(t, tr, st.Validators[1].Tracker)

	// Untouched validators keep their zero entries.
	require.Equal(t, whisk.Validator{}, st.Validators[0])
	require.Equal(t, whisk.Validator{}, st.Validators[2])

	_, _, err = reg.Initialize(st, 3, seeds[0])
	require.ErrorIs(t, err, whisk.ErrUnknownValidator)
}

func TestCommitmentRegistry_Rotate(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	st, err := whisk.NewState(whisk.Params{CandidateTrackersCount: 4, ProposerTrackersCount: 2}, 3)
	require.NoError(t, err)

	reg := whisk.NewCommitmentRegistry(alg)
	seeds := wcryptotest.DeterministicSeeds(3)
	for i := range seeds {
		_, _, err := reg.Initialize(st, whisk.ValidatorIndex(i), seeds[i])
		require.NoError(t, err)
	}

	before := append([]whisk.Validator(nil), st.Validators...)

	fresh, err := reg.Rotate(st, 1, rand.Reader)
	require.NoError(t, err)

	// Exactly one validator changed, and its new tracker
	// encodes the returned fresh secret.
	require.Equal(t, before[0], st.Validators[0])
	require.Equal(t, before[2], st.Validators[2])
	require.NotEqual(t, before[1], st.Validators[1])
	require.True(t, alg.IsMatchingTracker(st.Validators[1].Tracker, fresh))

	// The old secret no longer matches the new tracker.
	oldK, _, err := whisk.DeriveInitialSecrets(seeds[1])
	require.NoError(t, err)
	require.False(t, alg.IsMatchingTracker(st.Validators[1].Tracker, oldK))

	_, err = reg.Rotate(st, 99, rand.Reader)
	require.ErrorIs(t, err, whisk.ErrUnknownValidator)
}
