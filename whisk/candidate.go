package whisk

import "fmt"

// CandidateSelector fills the candidate pool each selection epoch.
// It is the only component that writes State.CandidateTrackers
// outside of a verified shuffle application.
type CandidateSelector struct {
	randao RandaoProvider
}

// NewCandidateSelector returns a selector drawing
// public randomness from randao.
func NewCandidateSelector(randao RandaoProvider) *CandidateSelector {
	return &CandidateSelector{randao: randao}
}

// SelectCandidates overwrites every candidate pool slot with the
// current tracker of a pseudo-randomly sampled validator.
//
// Sampling is with replacement: the same validator landing in
// several slots is permitted and expected.
// The pool length never changes.
func (s *CandidateSelector) SelectCandidates(st *State, epoch Epoch) error {
	n := uint64(len(st.Validators))
	if n == 0 {
		return fmt.Errorf("selecting candidates at epoch %d: empty validator set", epoch)
	}

	seed := SelectionSeed(s.randao.RandaoMix(epoch), epoch, DomainCandidateSelection)
	for i := range st.CandidateTrackers {
		vi := sampledIndex(seed, uint64(i), n)
		st.CandidateTrackers[i] = st.Validators[vi].Tracker
	}
	return nil
}
