package whisk

import (
	"fmt"
	"io"

	"github.com/gordian-engine/whisk/wcrypto"
)

// ProposalClaim is the proposer identity claim carried by a block:
// the validator claiming the slot and its opening proof
// for the scheduled tracker.
type ProposalClaim struct {
	ValidatorIndex ValidatorIndex
	OpeningProof   wcrypto.OpeningProof
}

// OpenResult reports a successful opening.
type OpenResult struct {
	// ValidatorIndex is the de-anonymized, verified proposer.
	ValidatorIndex ValidatorIndex

	// FreshSecret is the rotated secret scalar now underlying the
	// validator's replacement commitment and tracker.
	// In production it is delivered to the validator's key manager;
	// the consensus pipeline itself has no use for it.
	FreshSecret wcrypto.SecretScalar
}

// ProposalOpener processes proposer claims during block processing.
//
// Open is transactional per slot: either the schedule lookup,
// opening verification, and registry rotation all succeed
// and are applied together, or the claim is rejected
// with no state mutation at all.
type ProposalOpener struct {
	alg  wcrypto.Algebra
	reg  *CommitmentRegistry
	rand io.Reader
}

// NewProposalOpener returns an opener that verifies through alg
// and rotates through reg, drawing rotation scalars from rand.
func NewProposalOpener(alg wcrypto.Algebra, reg *CommitmentRegistry, rand io.Reader) *ProposalOpener {
	return &ProposalOpener{alg: alg, reg: reg, rand: rand}
}

// FirstProposal reports whether a proposal at slot would be the
// qualifying first proposal for a newly scheduled validator:
// the slot's schedule entry is live and has not yet been opened.
// Once the entry is opened and the owner rotated,
// subsequent proposals at the slot's successor periods are ordinary ones.
func (o *ProposalOpener) FirstProposal(st *State, slot Slot) bool {
	return st.scheduleReady && !st.opened.Test(st.scheduleIndex(slot))
}

// Open verifies the claim for slot and, on success,
// records the verified proposer, marks the schedule entry opened,
// and rotates the claimant's commitment so the tracker
// can never authorize another proposal.
//
// The per-entry lifecycle is scheduled, then opened, then rotated;
// opened is terminal for the tracker instance.
func (o *ProposalOpener) Open(st *State, slot Slot, claim ProposalClaim) (OpenResult, error) {
	if !st.scheduleReady {
		return OpenResult{}, fmt.Errorf("opening slot %d: %w", slot, ErrScheduleUnavailable)
	}

	idx := st.scheduleIndex(slot)
	if st.opened.Test(idx) {
		return OpenResult{}, fmt.Errorf("opening slot %d: %w", slot, ErrTrackerAlreadyOpened)
	}

	if uint64(claim.ValidatorIndex) >= uint64(len(st.Validators)) {
		return OpenResult{}, fmt.Errorf("opening slot %d: claimant %d: %w", slot, claim.ValidatorIndex, ErrUnknownValidator)
	}

	scheduled := st.ProposerTrackers[idx]
	claimant := st.Validators[claim.ValidatorIndex]

	if !o.alg.VerifyOpening(scheduled, claimant.KCommitment, claim.OpeningProof) {
		return OpenResult{}, fmt.Errorf("opening slot %d: claimant %d: %w", slot, claim.ValidatorIndex, ErrProposerMismatch)
	}

	// The claim is valid. Prepare the rotation before mutating anything,
	// since drawing fresh credentials can fail.
	fresh, val, err := o.reg.freshCredentials(o.rand)
	if err != nil {
		return OpenResult{}, fmt.Errorf("opening slot %d: %w", slot, err)
	}

	st.opened.Set(idx)
	st.verifiedProposers[slot] = claim.ValidatorIndex
	st.Validators[claim.ValidatorIndex] = val

	return OpenResult{
		ValidatorIndex: claim.ValidatorIndex,
		FreshSecret:    fresh,
	}, nil
}
