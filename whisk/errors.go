package whisk

import "errors"

var (
	// ErrMalformedShuffleProof indicates a shuffle whose proof artifact
	// failed verification, including input/output size mismatches.
	// The block carrying the shuffle is invalid; the check is never retried.
	ErrMalformedShuffleProof = errors.New("shuffle proof failed verification")

	// ErrProposerMismatch indicates a proposer claim whose opening
	// does not match the tracker scheduled for the slot.
	// The block carrying the claim is invalid.
	ErrProposerMismatch = errors.New("proposer claim does not open the scheduled tracker")

	// ErrScheduleUnavailable indicates a slot processed before its
	// shuffle epoch produced a proposer schedule.
	// This is a sequencing error in the caller,
	// not a recoverable runtime condition.
	ErrScheduleUnavailable = errors.New("no proposer schedule covers the slot")

	// ErrTrackerAlreadyOpened indicates an attempt to reuse a
	// schedule entry that already authorized a proposal.
	ErrTrackerAlreadyOpened = errors.New("scheduled tracker already opened")

	// ErrUnknownValidator indicates a validator index
	// outside the registry.
	ErrUnknownValidator = errors.New("validator index out of range")
)
