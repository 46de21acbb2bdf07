package whisk_test

import (
	"crypto/rand"
	"testing"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gordian-engine/whisk/whisk"
	"github.com/gordian-engine/whisk/whisk/whisktest"
	"github.com/stretchr/testify/require"
)

// forceValidatorIntoSchedule regenerates a tracker for validator 0's secret
// under a fresh blinding and plants it at proposer slot 1 and across the
// whole candidate pool, so the owner of slot 1 is known in advance.
func forceValidatorIntoSchedule(t *testing.T, f *whisktest.Fixture) wcrypto.Tracker {
	t.Helper()

	var blind wcrypto.SecretScalar
	blind[31] = 7
	tracker, err := f.Alg.GenerateTracker(f.Secrets[0], blind)
	require.NoError(t, err)

	f.SetProposerTracker(1, tracker)
	f.FillCandidateTrackers(tracker)
	return tracker
}

func TestProposalOpener_firstProposalEndToEnd(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	f := whisktest.NewFixture(alg, smallParams, 5, rand.Reader)

	forceValidatorIntoSchedule(t, f)
	before := f.State.Validators[0]

	require.True(t, f.Opener.FirstProposal(f.State, 1))

	claim, err := f.Claim(1, 0, rand.Reader)
	require.NoError(t, err)

	res, err := f.Opener.Open(f.State, 1, claim)
	require.NoError(t, err)
	require.Equal(t, whisk.ValidatorIndex(0), res.ValidatorIndex)

	// Validator 0's commitment and tracker rotated,
	// and the new tracker encodes the returned fresh secret.
	require.NotEqual(t, before, f.State.Validators[0])
	require.True(t, alg.IsMatchingTracker(f.State.Validators[0].Tracker, res.FreshSecret))

	require.True(t, f.State.SlotOpened(1))
	require.False(t, f.Opener.FirstProposal(f.State, 1))

	proposer, ok := f.State.VerifiedProposer(1)
	require.True(t, ok)
	require.Equal(t, whisk.ValidatorIndex(0), proposer)
}

func TestProposalOpener_wrongClaimantRejected(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	f := whisktest.NewFixture(alg, smallParams, 5, rand.Reader)

	forceValidatorIntoSchedule(t, f)
	before := append([]whisk.Validator(nil), f.State.Validators...)

	// Same scheduled tracker, but the claim names validator 1,
	// whose commitment cannot open validator 0's tracker.
	scheduled := f.ScheduledTracker(1)
	_, err := alg.ProveOpening(scheduled, f.Secrets[1], rand.Reader)
	require.Error(t, err)

	// A forged claim carrying validator 1's index with any proof bytes
	// must be rejected with a proposer mismatch and no state change.
	goodProof, err := alg.ProveOpening(scheduled, f.Secrets[0], rand.Reader)
	require.NoError(t, err)

	_, err = f.Opener.Open(f.State, 1, whisk.ProposalClaim{
		ValidatorIndex: 1,
		OpeningProof:   goodProof,
	})
	require.ErrorIs(t, err, whisk.ErrProposerMismatch)

	require.Equal(t, before, f.State.Validators)
	require.False(t, f.State.SlotOpened(1))
	_, ok := f.State.VerifiedProposer(1)
	require.False(t, ok)
}

func TestProposalOpener_replayRejected(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	f := whisktest.NewFixture(alg, smallParams, 5, rand.Reader)

	tracker := forceValidatorIntoSchedule(t, f)

	claim, err := f.Claim(1, 0, rand.Reader)
	require.NoError(t, err)

	res, err := f.Opener.Open(f.State, 1, claim)
	require.NoError(t, err)
	f.RecordRotation(res)

	// The same schedule entry never authorizes a second proposal.
	_, err = f.Opener.Open(f.State, 1, claim)
	require.ErrorIs(t, err, whisk.ErrTrackerAlreadyOpened)

	// The stale tracker planted at a different slot fails too:
	// rotation already replaced the commitment it would open against.
	f.SetProposerTracker(2, tracker)
	_, err = f.Opener.Open(f.State, 2, claim)
	require.ErrorIs(t, err, whisk.ErrProposerMismatch)
}

func TestProposalOpener_scheduleUnavailable(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	st, err := whisk.NewState(smallParams, 3)
	require.NoError(t, err)

	reg := whisk.NewCommitmentRegistry(alg)
	opener := whisk.NewProposalOpener(alg, reg, rand.Reader)

	// No proposer selection has run, so slot processing is a sequencing
	// error regardless of the claim contents.
	_, err = opener.Open(st, 1, whisk.ProposalClaim{ValidatorIndex: 0})
	require.ErrorIs(t, err, whisk.ErrScheduleUnavailable)

	require.False(t, opener.FirstProposal(st, 1))
}

func TestProposalOpener_unknownValidatorRejected(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	f := whisktest.NewFixture(alg, smallParams, 5, rand.Reader)

	_, err := f.Opener.Open(f.State, 1, whisk.ProposalClaim{ValidatorIndex: 50})
	require.ErrorIs(t, err, whisk.ErrUnknownValidator)
}

func TestProposalOpener_slotWrapsIntoSchedule(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	f := whisktest.NewFixture(alg, smallParams, 5, rand.Reader)

	// Slot numbers beyond the schedule length map onto schedule entries
	// modulo the period, so entry 1 also covers slot 1 + period.
	wrapped := whisk.Slot(1 + smallParams.ProposerTrackersCount)
	forceValidatorIntoSchedule(t, f)

	claim, err := f.Claim(wrapped, 0, rand.Reader)
	require.NoError(t, err)

	res, err := f.Opener.Open(f.State, wrapped, claim)
	require.NoError(t, err)
	require.Equal(t, whisk.ValidatorIndex(0), res.ValidatorIndex)
	require.True(t, f.State.SlotOpened(1))
}
