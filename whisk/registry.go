package whisk

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/gordian-engine/whisk/wcrypto"
	"golang.org/x/crypto/hkdf"
)

// Expansion labels for deriving the two initial scalars from one seed.
var (
	hkdfSalt  = []byte("whisk-initial-commitments")
	hkdfInfoK = []byte("whisk k scalar")
	hkdfInfoR = []byte("whisk r scalar")
)

// CommitmentRegistry owns the per-validator commitment and tracker entries
// inside a [State]. It is the only component besides the proposal opener
// authorized to write them, and every operation touches exactly one validator.
type CommitmentRegistry struct {
	alg wcrypto.Algebra
}

// NewCommitmentRegistry returns a registry operating through alg.
func NewCommitmentRegistry(alg wcrypto.Algebra) *CommitmentRegistry {
	return &CommitmentRegistry{alg: alg}
}

// DeriveInitialSecrets deterministically derives the initial secret scalar k
// and blinding scalar r from a per-validator seed.
// The same seed always yields the same pair.
func DeriveInitialSecrets(seed []byte) (k, r wcrypto.SecretScalar, err error) {
	if _, err := io.ReadFull(hkdf.New(sha256.New, seed, hkdfSalt, hkdfInfoK), k[:]); err != nil {
		return wcrypto.SecretScalar{}, wcrypto.SecretScalar{}, fmt.Errorf("deriving k: %w", err)
	}
	if _, err := io.ReadFull(hkdf.New(sha256.New, seed, hkdfSalt, hkdfInfoR), r[:]); err != nil {
		return wcrypto.SecretScalar{}, wcrypto.SecretScalar{}, fmt.Errorf("deriving r: %w", err)
	}
	return k, r, nil
}

// InitialCommitments is the pure form of genesis initialization:
// it derives the initial scalars from seed and returns the
// commitment and tracker without touching any state.
func InitialCommitments(alg wcrypto.Algebra, seed []byte) (wcrypto.Commitment, wcrypto.Tracker, error) {
	k, r, err := DeriveInitialSecrets(seed)
	if err != nil {
		return wcrypto.Commitment{}, wcrypto.Tracker{}, err
	}

	c, err := alg.Commit(k)
	if err != nil {
		return wcrypto.Commitment{}, wcrypto.Tracker{}, fmt.Errorf("committing to derived k: %w", err)
	}
	tr, err := alg.GenerateTracker(k, r)
	if err != nil {
		return wcrypto.Commitment{}, wcrypto.Tracker{}, fmt.Errorf("generating initial tracker: %w", err)
	}
	return c, tr, nil
}

// Initialize derives validator index's initial commitment and tracker
// from its seed and writes the entry into st.
// Called once per validator at genesis.
func (r *CommitmentRegistry) Initialize(st *State, index ValidatorIndex, seed []byte) (wcrypto.Commitment, wcrypto.Tracker, error) {
	if uint64(index) >= uint64(len(st.Validators)) {
		return wcrypto.Commitment{}, wcrypto.Tracker{}, fmt.Errorf("initializing validator %d: %w", index, ErrUnknownValidator)
	}

	c, tr, err := InitialCommitments(r.alg, seed)
	if err != nil {
		return wcrypto.Commitment{}, wcrypto.Tracker{}, fmt.Errorf("initializing validator %d: %w", index, err)
	}

	st.Validators[index] = Validator{KCommitment: c, Tracker: tr}
	return c, tr, nil
}

// Rotate replaces validator index's commitment and tracker
// with a fresh (k', r') pair drawn from rand,
// and returns the new secret scalar for delivery
// to the validator's key manager.
// The old tracker can never again authorize a proposal.
func (r *CommitmentRegistry) Rotate(st *State, index ValidatorIndex, rand io.Reader) (wcrypto.SecretScalar, error) {
	if uint64(index) >= uint64(len(st.Validators)) {
		return wcrypto.SecretScalar{}, fmt.Errorf("rotating validator %d: %w", index, ErrUnknownValidator)
	}

	k, val, err := r.freshCredentials(rand)
	if err != nil {
		return wcrypto.SecretScalar{}, fmt.Errorf("rotating validator %d: %w", index, err)
	}

	st.Validators[index] = val
	return k, nil
}

// freshCredentials draws a new (k, r) pair and builds the validator entry,
// with no state mutation. Callers that need atomicity
// run this before applying any writes.
func (r *CommitmentRegistry) freshCredentials(rand io.Reader) (wcrypto.SecretScalar, Validator, error) {
	k, err := wcrypto.NewSecretScalar(rand)
	if err != nil {
		return wcrypto.SecretScalar{}, Validator{}, fmt.Errorf("drawing fresh k: %w", err)
	}
	blind, err := wcrypto.NewSecretScalar(rand)
	if err != nil {
		return wcrypto.SecretScalar{}, Validator{}, fmt.Errorf("drawing fresh r: %w", err)
	}

	c, err := r.alg.Commit(k)
	if err != nil {
		return wcrypto.SecretScalar{}, Validator{}, fmt.Errorf("committing to fresh k: %w", err)
	}
	tr, err := r.alg.GenerateTracker(k, blind)
	if err != nil {
		return wcrypto.SecretScalar{}, Validator{}, fmt.Errorf("generating fresh tracker: %w", err)
	}

	return k, Validator{KCommitment: c, Tracker: tr}, nil
}
