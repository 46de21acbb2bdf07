package whisk

import "fmt"

// Epoch is a selection or shuffle epoch number.
type Epoch uint64

// Slot is a chain slot number.
type Slot uint64

// ValidatorIndex identifies a validator within the registry.
type ValidatorIndex uint64

// Protocol constants for the production deployment.
// These must match across implementations.
const (
	// DefaultCandidateTrackersCount is the fixed size of the candidate pool.
	DefaultCandidateTrackersCount = 16384

	// DefaultProposerTrackersCount is the number of slots
	// covered by one proposer schedule,
	// i.e. the slots per shuffle epoch.
	DefaultProposerTrackersCount = 8192
)

// Params holds the pool sizing constants.
// Tests use small values; production uses [DefaultParams].
type Params struct {
	// CandidateTrackersCount is the candidate pool size.
	CandidateTrackersCount int

	// ProposerTrackersCount is the proposer schedule length,
	// one entry per slot of the shuffle period.
	ProposerTrackersCount int
}

// DefaultParams returns the production constants.
func DefaultParams() Params {
	return Params{
		CandidateTrackersCount: DefaultCandidateTrackersCount,
		ProposerTrackersCount:  DefaultProposerTrackersCount,
	}
}

// Validate reports whether p is internally consistent.
func (p Params) Validate() error {
	if p.CandidateTrackersCount < 1 {
		return fmt.Errorf("candidate trackers count must be positive, got %d", p.CandidateTrackersCount)
	}
	if p.ProposerTrackersCount < 1 {
		return fmt.Errorf("proposer trackers count must be positive, got %d", p.ProposerTrackersCount)
	}
	if p.ProposerTrackersCount > p.CandidateTrackersCount {
		return fmt.Errorf(
			"proposer trackers count %d exceeds candidate pool size %d",
			p.ProposerTrackersCount, p.CandidateTrackersCount,
		)
	}
	return nil
}
