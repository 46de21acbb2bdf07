// Package wblst provides the production [wcrypto.Algebra]
// on the BLS12-381 G1 group,
// backed by the blst bindings.
//
// Tracker openings are Chaum-Pedersen discrete-log-equality proofs,
// and shuffle proofs are bidirectional one-of-N compositions of the
// same relation, covering each output's source and each input's image,
// both made non-interactive with a Fiat-Shamir transcript over SHA-256.
// Scalar field arithmetic is performed modulo the BLS12-381 group order
// using uint256 integers.
package wblst
