package wcrypto_test

import (
	"encoding/binary"
	"testing"

	"github.com/gordian-engine/whisk/wcrypto"
	"github.com/gordian-engine/whisk/wcrypto/wcryptotest"
	"github.com/stretchr/testify/require"
)

func TestSimpleAlgebraCompliance(t *testing.T) {
	wcryptotest.TestAlgebraCompliance(t, wcrypto.SimpleAlgebra{})
}

// A hand-built proof whose revealed mapping sends both outputs to the
// same input must be rejected, even though each output individually
// replays correctly against that input.
func TestSimpleAlgebra_verifyShuffleRejectsDuplicateSource(t *testing.T) {
	t.Parallel()

	alg := wcrypto.SimpleAlgebra{}
	secrets := wcryptotest.DeterministicSecrets(4)

	in := make([]wcrypto.Tracker, 2)
	for i := range in {
		tr, err := alg.GenerateTracker(secrets[i], secrets[i+2])
		require.NoError(t, err)
		in[i] = tr
	}

	var blind wcrypto.SecretScalar
	blind[31] = 5

	out := make([]wcrypto.Tracker, 2)
	for j := range out {
		tr, err := alg.RerandomizeTracker(in[0], blind)
		require.NoError(t, err)
		out[j] = tr
	}

	// Proof wire format: u32 count, count u32 permutation entries,
	// count u64 blinding scalars.
	proof := make(wcrypto.ShuffleProof, 0, 4+2*12)
	proof = binary.BigEndian.AppendUint32(proof, 2)
	proof = binary.BigEndian.AppendUint32(proof, 0)
	proof = binary.BigEndian.AppendUint32(proof, 0)
	proof = binary.BigEndian.AppendUint64(proof, 5)
	proof = binary.BigEndian.AppendUint64(proof, 5)

	require.False(t, alg.VerifyShuffle(in, out, proof))
}
