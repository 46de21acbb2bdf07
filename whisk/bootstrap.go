package whisk

import "fmt"

// Bootstrap performs the genesis sequence:
// initialize every validator's commitment and tracker from its seed,
// then run a candidate selection followed by a proposer selection
// so the first shuffle period has proposers.
//
// Both selections run at epoch 0.
// The draws stay distinguishable because the selection domain,
// not the epoch number, separates their seed derivations.
func Bootstrap(
	st *State,
	reg *CommitmentRegistry,
	cand *CandidateSelector,
	prop *ProposerSelector,
	seeds [][]byte,
) error {
	if len(seeds) != len(st.Validators) {
		return fmt.Errorf("bootstrap: %d seeds for %d validators", len(seeds), len(st.Validators))
	}

	for i, seed := range seeds {
		if _, _, err := reg.Initialize(st, ValidatorIndex(i), seed); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}

	if err := cand.SelectCandidates(st, 0); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if err := prop.SelectProposers(st, 0); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	return nil
}
