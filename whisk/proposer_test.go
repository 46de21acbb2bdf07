package whisk_test

import (
	"crypto/rand"
	"testing"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gordian-engine/whisk/whisk"
	"github.com/gordian-engine/whisk/whisk/whisktest"
	"github.com/stretchr/testify/require"
)

func TestProposerSelector_scheduleFromPoolPrefix(t *testing.T) {
	t.Parallel()

	f := whisktest.NewFixture(wcrypto.SimpleAlgebra{}, smallParams, 5, rand.Reader)

	require.NoError(t, f.CandidateSelector.SelectCandidates(f.State, 2))
	require.NoError(t, f.ProposerSelector.SelectProposers(f.State, 2))

	require.Len(t, f.State.ProposerTrackers, smallParams.ProposerTrackersCount)
	for i := range f.State.ProposerTrackers {
		require.Equal(t, f.State.CandidateTrackers[i], f.State.ProposerTrackers[i])
	}
}

func TestProposerSelector_epochBoundaryHardReset(t *testing.T) {
	t.Parallel()

	f := whisktest.NewFixture(wcrypto.SimpleAlgebra{}, smallParams, 5, rand.Reader)

	// Open slot 1 in the first period.
	idx, ok := f.FindScheduledValidator(1)
	require.True(t, ok)
	claim, err := f.Claim(1, idx, rand.Reader)
	require.NoError(t, err)
	res, err := f.Opener.Open(f.State, 1, claim)
	require.NoError(t, err)
	f.RecordRotation(res)

	require.True(t, f.State.SlotOpened(1))
	_, recorded := f.State.VerifiedProposer(1)
	require.True(t, recorded)

	// The next period discards the prior schedule and opening markers in full.
	require.NoError(t, f.CandidateSelector.SelectCandidates(f.State, 1))
	require.NoError(t, f.ProposerSelector.SelectProposers(f.State, 1))

	require.False(t, f.State.SlotOpened(1))
	_, recorded = f.State.VerifiedProposer(1)
	require.False(t, recorded)
}

func TestNewState_paramValidation(t *testing.T) {
	t.Parallel()

	_, err := whisk.NewState(whisk.Params{CandidateTrackersCount: 2, ProposerTrackersCount: 4}, 3)
	require.Error(t, err)

	_, err = whisk.NewState(whisk.Params{CandidateTrackersCount: 0, ProposerTrackersCount: 0}, 3)
	require.Error(t, err)

	_, err = whisk.NewState(smallParams, 0)
	require.Error(t, err)
}
