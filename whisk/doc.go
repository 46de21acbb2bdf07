// Package whisk implements single secret leader election:
// the lifecycle of anonymized proposer trackers,
// from genesis initialization through candidate selection,
// proof-checked shuffling, proposer scheduling,
// and the one-time opening that de-anonymizes a proposer
// on its first proposal after selection.
//
// The package is written against the opaque algebra capability
// in the wcrypto package and performs no group arithmetic itself.
// All operations are synchronous, deterministic functions of
// explicit state objects, public randomness,
// and externally supplied proof artifacts;
// sequencing across epoch boundaries and slots
// is the responsibility of the caller.
package whisk
