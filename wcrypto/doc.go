// Package wcrypto contains the cryptographic primitives for
// single secret leader election.
//
// The central abstraction is the [Algebra] interface,
// which treats the underlying group and proof system as an opaque capability:
// generating and re-randomizing trackers, proving and verifying
// tracker openings, and proving and verifying tracker shuffles.
// Protocol logic is written against the interface,
// so it can be exercised with the non-hiding [SimpleAlgebra] in tests
// while a production group plugs in through a subpackage
// such as wblst.
package wcrypto
