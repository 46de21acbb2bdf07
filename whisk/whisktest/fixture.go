package whisktest

import (
	"fmt"
	"io"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gordian-engine/whisk/wcrypto/wcryptotest"
	"github.com/gordian-engine/whisk/whisk"
)

// FixedRandao is a [whisk.RandaoProvider] returning the same mix
// for every epoch. Selection results stay deterministic across runs,
// which keeps logs and failure output stable.
type FixedRandao struct {
	Mix [32]byte
}

// RandaoMix returns the fixed mix regardless of epoch.
func (f FixedRandao) RandaoMix(whisk.Epoch) [32]byte {
	return f.Mix
}

// Fixture is a bootstrapped election with every component wired
// and the prover-side secrets retained,
// so tests can act as any validator.
type Fixture struct {
	Alg wcrypto.Algebra

	State *whisk.State

	Registry          *whisk.CommitmentRegistry
	CandidateSelector *whisk.CandidateSelector
	ProposerSelector  *whisk.ProposerSelector
	ShuffleVerifier   *whisk.ShuffleVerifier
	Opener            *whisk.ProposalOpener

	// Seeds are the per-validator genesis seeds.
	Seeds [][]byte

	// Secrets tracks each validator's current secret scalar.
	// Tests that rotate a validator must update its entry,
	// typically via [Fixture.RecordRotation].
	Secrets []wcrypto.SecretScalar

	Randao FixedRandao
}

// NewFixture bootstraps numValidators validators under params,
// running all crypto through alg and drawing rotation randomness from rand.
//
// Setup failure indicates a broken algebra or params,
// so it panics rather than making every test thread an error.
func NewFixture(alg wcrypto.Algebra, params whisk.Params, numValidators int, rand io.Reader) *Fixture {
	st, err := whisk.NewState(params, numValidators)
	if err != nil {
		panic(fmt.Errorf("whisktest: creating state: %w", err))
	}

	reg := whisk.NewCommitmentRegistry(alg)
	randao := FixedRandao{Mix: [32]byte{0xff, 0xee, 0xdd}}
	cand := whisk.NewCandidateSelector(randao)
	prop := whisk.NewProposerSelector()

	seeds := wcryptotest.DeterministicSeeds(numValidators)
	if err := whisk.Bootstrap(st, reg, cand, prop, seeds); err != nil {
		panic(fmt.Errorf("whisktest: bootstrap: %w", err))
	}

	secrets := make([]wcrypto.SecretScalar, numValidators)
	for i, seed := range seeds {
		k, _, err := whisk.DeriveInitialSecrets(seed)
		if err != nil {
			panic(fmt.Errorf("whisktest: deriving secrets: %w", err))
		}
		secrets[i] = k
	}

	return &Fixture{
		Alg: alg,

		State: st,

		Registry:          reg,
		CandidateSelector: cand,
		ProposerSelector:  prop,
		ShuffleVerifier:   whisk.NewShuffleVerifier(alg),
		Opener:            whisk.NewProposalOpener(alg, reg, rand),

		Seeds:   seeds,
		Secrets: secrets,

		Randao: randao,
	}
}

// Claim builds the proposal claim for validator index against the
// tracker currently scheduled for slot, proving with the fixture's
// recorded secret for that validator.
func (f *Fixture) Claim(slot whisk.Slot, index whisk.ValidatorIndex, rand io.Reader) (whisk.ProposalClaim, error) {
	scheduled := f.ScheduledTracker(slot)
	proof, err := f.Alg.ProveOpening(scheduled, f.Secrets[index], rand)
	if err != nil {
		return whisk.ProposalClaim{}, fmt.Errorf("proving opening for validator %d: %w", index, err)
	}
	return whisk.ProposalClaim{ValidatorIndex: index, OpeningProof: proof}, nil
}

// ScheduledTracker returns the tracker assigned to slot
// in the live schedule.
func (f *Fixture) ScheduledTracker(slot whisk.Slot) wcrypto.Tracker {
	n := uint64(len(f.State.ProposerTrackers))
	return f.State.ProposerTrackers[uint64(slot)%n]
}

// RecordRotation stores the post-rotation secret for a validator
// so later claims prove with the current key.
func (f *Fixture) RecordRotation(res whisk.OpenResult) {
	f.Secrets[res.ValidatorIndex] = res.FreshSecret
}

// SetProposerTracker forces tracker into the schedule entry for slot.
// End-to-end tests use this to make a known validator
// the scheduled proposer without running a full shuffle cycle.
func (f *Fixture) SetProposerTracker(slot whisk.Slot, tracker wcrypto.Tracker) {
	n := uint64(len(f.State.ProposerTrackers))
	f.State.ProposerTrackers[uint64(slot)%n] = tracker
}

// FillCandidateTrackers overwrites every candidate pool entry with tracker,
// so a subsequent shuffle operates on a known pool.
func (f *Fixture) FillCandidateTrackers(tracker wcrypto.Tracker) {
	for i := range f.State.CandidateTrackers {
		f.State.CandidateTrackers[i] = tracker
	}
}

// FindScheduledValidator scans validators for one whose recorded secret
// matches the tracker scheduled at slot, mirroring how the owning
// validator recognizes its own anonymous assignment.
func (f *Fixture) FindScheduledValidator(slot whisk.Slot) (whisk.ValidatorIndex, bool) {
	scheduled := f.ScheduledTracker(slot)
	for i, k := range f.Secrets {
		if f.Alg.IsMatchingTracker(scheduled, k) {
			return whisk.ValidatorIndex(i), true
		}
	}
	return 0, false
}
