// Package wsim drives a full election lifecycle over an in-memory chain:
// genesis bootstrap, then per epoch a candidate selection,
// a proved-and-verified shuffle, a proposer selection,
// and an opening for every slot of the period.
//
// The simulator plays every validator itself,
// holding all secret scalars,
// so it can always produce the claim for a scheduled slot.
// It exists for the CLI and for exercising the production algebra
// end to end; nothing in the protocol core depends on it.
package wsim
