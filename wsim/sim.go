package wsim

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gordian-engine/whisk/wcrypto/wcryptotest"
	"github.com/gordian-engine/whisk/whisk"
)

// Config configures a simulator.
type Config struct {
	Algebra wcrypto.Algebra

	Params whisk.Params

	NumValidators int

	// Rand supplies blinding and rotation randomness.
	Rand io.Reader
}

// Simulator owns one election state and every validator's secret.
type Simulator struct {
	log *slog.Logger

	alg  wcrypto.Algebra
	rand io.Reader

	reg      *whisk.CommitmentRegistry
	cand     *whisk.CandidateSelector
	prop     *whisk.ProposerSelector
	shuffler *whisk.ShuffleVerifier
	opener   *whisk.ProposalOpener

	// mu guards state and secrets:
	// the protocol core is single-threaded by design,
	// but the inspection server reads concurrently.
	mu      sync.RWMutex
	state   *whisk.State
	secrets []wcrypto.SecretScalar

	// labels are human-readable validator names for log output.
	labels []string
}

// epochRandao derives a distinct mix per epoch,
// standing in for the external randomness pipeline.
type epochRandao struct{}

func (epochRandao) RandaoMix(epoch whisk.Epoch) [32]byte {
	var eb [8]byte
	binary.LittleEndian.PutUint64(eb[:], uint64(epoch))
	return sha256.Sum256(eb[:])
}

// New bootstraps a simulator with deterministic genesis seeds.
func New(log *slog.Logger, cfg Config) (*Simulator, error) {
	st, err := whisk.NewState(cfg.Params, cfg.NumValidators)
	if err != nil {
		return nil, fmt.Errorf("creating state: %w", err)
	}

	reg := whisk.NewCommitmentRegistry(cfg.Algebra)
	cand := whisk.NewCandidateSelector(epochRandao{})
	prop := whisk.NewProposerSelector()

	seeds := wcryptotest.DeterministicSeeds(cfg.NumValidators)
	if err := whisk.Bootstrap(st, reg, cand, prop, seeds); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	secrets := make([]wcrypto.SecretScalar, cfg.NumValidators)
	labels := make([]string, cfg.NumValidators)
	for i, seed := range seeds {
		k, _, err := whisk.DeriveInitialSecrets(seed)
		if err != nil {
			return nil, fmt.Errorf("deriving validator %d secrets: %w", i, err)
		}
		secrets[i] = k
		labels[i] = petname.Generate(2, "-")
	}

	return &Simulator{
		log: log,

		alg:  cfg.Algebra,
		rand: cfg.Rand,

		reg:      reg,
		cand:     cand,
		prop:     prop,
		shuffler: whisk.NewShuffleVerifier(cfg.Algebra),
		opener:   whisk.NewProposalOpener(cfg.Algebra, reg, cfg.Rand),

		state:   st,
		secrets: secrets,

		labels: labels,
	}, nil
}

// Run simulates epochs shuffle periods,
// stopping early if ctx is canceled.
func (s *Simulator) Run(ctx context.Context, epochs int) error {
	for e := 0; e < epochs; e++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.RunEpoch(whisk.Epoch(e + 1)); err != nil {
			return fmt.Errorf("epoch %d: %w", e+1, err)
		}
	}
	return nil
}

// RunEpoch performs one full shuffle period:
// candidate selection, a proved shuffle through the verification gate,
// proposer selection, and an opening for every slot of the schedule.
func (s *Simulator) RunEpoch(epoch whisk.Epoch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cand.SelectCandidates(s.state, epoch); err != nil {
		return err
	}

	shuffled, proof, err := s.alg.ProveShuffle(s.state.CandidateTrackers, s.rand)
	if err != nil {
		return fmt.Errorf("proving shuffle: %w", err)
	}
	if err := s.shuffler.ApplyShuffle(s.state, shuffled, proof); err != nil {
		return err
	}

	if err := s.prop.SelectProposers(s.state, epoch); err != nil {
		return err
	}
	s.log.Info("schedule selected", "epoch", epoch, "slots", len(s.state.ProposerTrackers))

	for i := range s.state.ProposerTrackers {
		slot := whisk.Slot(i)
		if err := s.openSlot(slot); err != nil {
			return fmt.Errorf("slot %d: %w", slot, err)
		}
	}
	return nil
}

// openSlot finds the validator owning the scheduled tracker,
// builds its claim, and processes the opening.
//
// Sampling with replacement can schedule the same validator's tracker
// at several slots of one period. The first opening rotates the secret,
// so later slots holding the stale tracker have no live owner;
// those slots go unproposed rather than failing the period.
func (s *Simulator) openSlot(slot whisk.Slot) error {
	n := uint64(len(s.state.ProposerTrackers))
	scheduled := s.state.ProposerTrackers[uint64(slot)%n]

	owner := -1
	for i, k := range s.secrets {
		if s.alg.IsMatchingTracker(scheduled, k) {
			owner = i
			break
		}
	}
	if owner < 0 {
		s.log.Info("slot unproposed, scheduled tracker already rotated", "slot", slot)
		return nil
	}

	proof, err := s.alg.ProveOpening(scheduled, s.secrets[owner], s.rand)
	if err != nil {
		return fmt.Errorf("proving opening: %w", err)
	}

	res, err := s.opener.Open(s.state, slot, whisk.ProposalClaim{
		ValidatorIndex: whisk.ValidatorIndex(owner),
		OpeningProof:   proof,
	})
	if err != nil {
		return err
	}

	s.secrets[res.ValidatorIndex] = res.FreshSecret
	s.log.Info(
		"proposal opened",
		"slot", slot,
		"validator", res.ValidatorIndex,
		"name", s.labels[res.ValidatorIndex],
	)
	return nil
}

// Snapshot returns a copy of the election state for inspection.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Validators:        make([]ValidatorInfo, len(s.state.Validators)),
		CandidateTrackers: append([]wcrypto.Tracker(nil), s.state.CandidateTrackers...),
		ProposerTrackers:  append([]wcrypto.Tracker(nil), s.state.ProposerTrackers...),
		ScheduleReady:     s.state.ScheduleReady(),
	}
	for i, v := range s.state.Validators {
		snap.Validators[i] = ValidatorInfo{
			Index:       whisk.ValidatorIndex(i),
			Name:        s.labels[i],
			KCommitment: v.KCommitment,
			Tracker:     v.Tracker,
		}
	}
	return snap
}

// Snapshot is a read-only view of the simulated election.
type Snapshot struct {
	Validators        []ValidatorInfo   `json:"validators"`
	CandidateTrackers []wcrypto.Tracker `json:"whisk_candidate_trackers"`
	ProposerTrackers  []wcrypto.Tracker `json:"whisk_proposer_trackers"`
	ScheduleReady     bool              `json:"schedule_ready"`
}

// ValidatorInfo is one validator's public election state.
type ValidatorInfo struct {
	Index       whisk.ValidatorIndex `json:"index"`
	Name        string               `json:"name"`
	KCommitment wcrypto.Commitment   `json:"whisk_k_commitment"`
	Tracker     wcrypto.Tracker      `json:"whisk_tracker"`
}
