package whisk

import (
	"fmt"

	"github.com/gordian-engine/whisk/wcrypto"
)

// ShuffleVerifier gates externally produced shuffles of the candidate pool.
//
// Verification is a hard gate: any failure means the block carrying
// the shuffle is invalid. There is no retry or downgrade here;
// retries, if any, belong to the surrounding consensus layer.
type ShuffleVerifier struct {
	alg wcrypto.Algebra
}

// NewShuffleVerifier returns a verifier operating through alg.
func NewShuffleVerifier(alg wcrypto.Algebra) *ShuffleVerifier {
	return &ShuffleVerifier{alg: alg}
}

// Verify checks that output is some permutation of a component-wise
// re-randomization of input, per the supplied proof artifact.
// It mutates nothing.
func (v *ShuffleVerifier) Verify(input, output []wcrypto.Tracker, proof wcrypto.ShuffleProof) error {
	if len(output) != len(input) {
		return fmt.Errorf(
			"%w: input has %d trackers, output has %d",
			ErrMalformedShuffleProof, len(input), len(output),
		)
	}
	if !v.alg.VerifyShuffle(input, output, proof) {
		return ErrMalformedShuffleProof
	}
	return nil
}

// ApplyShuffle verifies output against the current candidate pool
// and, only on success, replaces the pool contents with output.
// On failure the pool is untouched and the containing block is invalid.
func (v *ShuffleVerifier) ApplyShuffle(st *State, output []wcrypto.Tracker, proof wcrypto.ShuffleProof) error {
	if err := v.Verify(st.CandidateTrackers, output, proof); err != nil {
		return err
	}
	copy(st.CandidateTrackers, output)
	return nil
}
