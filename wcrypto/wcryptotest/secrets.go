package wcryptotest

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/gordian-engine/whisk/wcrypto"
)

// DeterministicSecrets returns n distinct secret scalars
// derived from the index alone.
//
// Deterministic secrets keep logs and fixtures stable across runs,
// which simplifies debugging considerably
// compared to freshly generated randomness on every run.
func DeterministicSecrets(n int) []wcrypto.SecretScalar {
	secrets := make([]wcrypto.SecretScalar, n)
	for i := range secrets {
		var seed [8]byte
		binary.BigEndian.PutUint64(seed[:], uint64(i))
		secrets[i] = wcrypto.SecretScalar(sha256.Sum256(seed[:]))
	}
	return secrets
}

// DeterministicSeeds returns n distinct 32-byte validator seeds,
// suitable as the per-validator initialization seeds
// consumed by commitment registries.
func DeterministicSeeds(n int) [][]byte {
	seeds := make([][]byte, n)
	for i := range seeds {
		var in [9]byte
		in[0] = 's'
		binary.BigEndian.PutUint64(in[1:], uint64(i))
		sum := sha256.Sum256(in[:])
		seeds[i] = sum[:]
	}
	return seeds
}
