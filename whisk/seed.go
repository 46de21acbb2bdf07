package whisk

import (
	"crypto/sha256"
	"encoding/binary"
)

// Domain is a randomness-derivation domain separator.
//
// Candidate sampling and proposer sampling can legitimately run
// at the same nominal epoch during bootstrap,
// so the domain is an explicit, type-distinct input to seed derivation
// rather than a convention the caller has to remember.
type Domain [4]byte

// The derivation domains.
// These are protocol constants and must match across implementations.
var (
	DomainCandidateSelection = Domain{0x07, 0x00, 0x00, 0x00}
	DomainProposerSelection  = Domain{0x07, 0x20, 0x00, 0x00}
)

// RandaoProvider supplies the per-epoch public randomness.
// The mix's accumulation, reveal processing, and lookback rules
// are owned by the surrounding state-transition pipeline.
type RandaoProvider interface {
	RandaoMix(epoch Epoch) [32]byte
}

// SelectionSeed derives the sampling seed for one selection draw,
// binding together the randao mix, the epoch, and the domain.
// Draws at the same epoch under different domains yield unrelated seeds.
func SelectionSeed(mix [32]byte, epoch Epoch, domain Domain) [32]byte {
	h := sha256.New()
	h.Write(domain[:])

	var eb [8]byte
	binary.LittleEndian.PutUint64(eb[:], uint64(epoch))
	h.Write(eb[:])

	h.Write(mix[:])

	var seed [32]byte
	h.Sum(seed[:0])
	return seed
}

// sampledIndex returns the pseudo-random validator index
// for one pool position, sampling uniformly with replacement.
func sampledIndex(seed [32]byte, position uint64, numValidators uint64) ValidatorIndex {
	h := sha256.New()
	h.Write(seed[:])

	var pb [8]byte
	binary.LittleEndian.PutUint64(pb[:], position)
	h.Write(pb[:])

	var digest [sha256.Size]byte
	h.Sum(digest[:0])
	return ValidatorIndex(binary.LittleEndian.Uint64(digest[:8]) % numValidators)
}
