package whisk

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/whisk/wcrypto"
)

// Validator is the per-validator election state:
// the public commitment to its secret scalar and its current base tracker.
//
// Entries are mutated only by [CommitmentRegistry] initialization
// and by rotation following a successful opening.
type Validator struct {
	KCommitment wcrypto.Commitment `json:"whisk_k_commitment"`
	Tracker     wcrypto.Tracker    `json:"whisk_tracker"`
}

// State is the explicit election state object.
//
// The reference mechanism spreads these fields across
// globally shared chain state; here they are owned by one value
// passed into each component's operations,
// with each component mutating only the fields it is authorized to touch.
type State struct {
	params Params

	// Validators is the registry view, indexed by [ValidatorIndex].
	Validators []Validator `json:"validators"`

	// CandidateTrackers is the candidate pool,
	// fixed at CandidateTrackersCount entries,
	// overwritten in place each candidate-selection epoch.
	CandidateTrackers []wcrypto.Tracker `json:"whisk_candidate_trackers"`

	// ProposerTrackers is the live proposer schedule,
	// fixed at ProposerTrackersCount entries;
	// index i corresponds exactly to slot i of the covered period.
	ProposerTrackers []wcrypto.Tracker `json:"whisk_proposer_trackers"`

	// scheduleReady is false until the first proposer selection,
	// so slot processing before any schedule exists
	// is rejected rather than silently using zero trackers.
	scheduleReady bool

	// opened tracks which schedule entries have authorized a proposal.
	// Reset when the schedule is replaced at a shuffle epoch boundary.
	opened *bitset.BitSet

	// verifiedProposers records the de-anonymized proposer per slot,
	// for slots of the live schedule whose tracker has been opened.
	verifiedProposers map[Slot]ValidatorIndex
}

// NewState returns election state for numValidators validators,
// with empty pools and no schedule.
func NewState(params Params, numValidators int) (*State, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if numValidators < 1 {
		return nil, fmt.Errorf("validator count must be positive, got %d", numValidators)
	}

	return &State{
		params: params,

		Validators:        make([]Validator, numValidators),
		CandidateTrackers: make([]wcrypto.Tracker, params.CandidateTrackersCount),
		ProposerTrackers:  make([]wcrypto.Tracker, params.ProposerTrackersCount),

		opened:            bitset.New(uint(params.ProposerTrackersCount)),
		verifiedProposers: make(map[Slot]ValidatorIndex),
	}, nil
}

// Params returns the sizing constants the state was built with.
func (s *State) Params() Params {
	return s.params
}

// ScheduleReady reports whether a proposer schedule is live.
func (s *State) ScheduleReady() bool {
	return s.scheduleReady
}

// scheduleIndex maps a slot onto its schedule entry.
func (s *State) scheduleIndex(slot Slot) uint {
	return uint(uint64(slot) % uint64(s.params.ProposerTrackersCount))
}

// SlotOpened reports whether the schedule entry covering slot
// has already authorized a proposal in the current period.
func (s *State) SlotOpened(slot Slot) bool {
	return s.scheduleReady && s.opened.Test(s.scheduleIndex(slot))
}

// VerifiedProposer returns the de-anonymized proposer for slot,
// if its scheduled tracker has been opened during the live period.
func (s *State) VerifiedProposer(slot Slot) (ValidatorIndex, bool) {
	idx, ok := s.verifiedProposers[slot]
	return idx, ok
}

// resetSchedule discards all per-period opening state.
// Called by the proposer selector at the shuffle epoch boundary:
// partial schedules are never merged across periods.
func (s *State) resetSchedule() {
	s.opened.ClearAll()
	s.verifiedProposers = make(map[Slot]ValidatorIndex)
	s.scheduleReady = true
}
