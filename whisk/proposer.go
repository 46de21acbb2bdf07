package whisk

import "fmt"

// ProposerSelector derives the proposer schedule at each
// shuffle epoch boundary.
//
// It performs no cryptographic verification:
// by the time it runs, the candidate pool has already passed
// the shuffle gate for the current shuffle epoch,
// and the shuffle supplied all the randomization needed.
// Whether a shuffle is legitimate and what it means for scheduling
// are kept as separate concerns.
type ProposerSelector struct{}

// NewProposerSelector returns a selector.
func NewProposerSelector() *ProposerSelector {
	return &ProposerSelector{}
}

// SelectProposers assigns the first ProposerTrackersCount entries of the
// shuffled candidate pool to the corresponding slot indexes of the
// upcoming period, in order: schedule entry i serves slot i.
//
// The epoch boundary is a hard reset point.
// The prior period's schedule, opened-slot markers, and verified-proposer
// records are discarded in full; partial schedules are never merged.
func (*ProposerSelector) SelectProposers(st *State, epoch Epoch) error {
	if len(st.CandidateTrackers) < len(st.ProposerTrackers) {
		// NewState sizes the pools from validated params,
		// so this indicates state constructed by hand.
		return fmt.Errorf(
			"selecting proposers at epoch %d: candidate pool %d smaller than schedule %d",
			epoch, len(st.CandidateTrackers), len(st.ProposerTrackers),
		)
	}

	copy(st.ProposerTrackers, st.CandidateTrackers[:len(st.ProposerTrackers)])
	st.resetSchedule()
	return nil
}
